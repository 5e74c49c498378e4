// Package main provides the ccmbar menu-bar plugin binary.
//
// ccmbar renders Claude Code usage metrics as SwiftBar/xbar markup. The host
// invokes it on a schedule to refresh the menu, and re-invokes it with
// --set-plan or --toggle-display when the user picks a dropdown option. Every
// invocation exits zero; problems are rendered as menu states, not process
// failures.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iiunuii/ccmbar/pkg/logger"
	"github.com/iiunuii/ccmbar/pkg/settings"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run() error {
	setPlan := flag.String("set-plan", "", "select a plan (pro, max5, max20, custom) and exit")
	toggleDisplay := flag.String("toggle-display", "", "toggle a title metric and exit")
	configPath := flag.String("config", "", "path to the settings document")
	preview := flag.Bool("preview", false, "render plain text to the terminal instead of markup")
	watch := flag.Bool("watch", false, "with -preview, re-render when settings change")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ccmbar %s\n", version)
		return nil
	}

	log := logger.FromEnv()
	store := settings.New(settings.Config{Path: *configPath}, log)

	// Mutation flags short-circuit: the host re-invokes the plugin right
	// after, and that render picks up the new state.
	if *setPlan != "" {
		cmd := &setPlanCommand{value: *setPlan, store: store, log: log}
		return cmd.Execute()
	}
	if *toggleDisplay != "" {
		cmd := &toggleDisplayCommand{value: *toggleDisplay, store: store, log: log}
		return cmd.Execute()
	}

	if *preview || *watch {
		cmd := &previewCommand{store: store, log: log, watch: *watch, configPath: *configPath}
		return cmd.Execute()
	}

	cmd := &renderCommand{store: store, log: log}
	return cmd.Execute()
}

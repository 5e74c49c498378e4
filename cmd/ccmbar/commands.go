package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/iiunuii/ccmbar/pkg/analyzer"
	"github.com/iiunuii/ccmbar/pkg/logger"
	"github.com/iiunuii/ccmbar/pkg/plans"
	"github.com/iiunuii/ccmbar/pkg/render"
	"github.com/iiunuii/ccmbar/pkg/settings"
	"github.com/iiunuii/ccmbar/pkg/watcher"
)

// watchRefreshInterval re-renders the preview even without file changes,
// mirroring the host's own schedule.
const watchRefreshInterval = 30 * time.Second

// setPlanCommand persists the selected plan.
//
// Unrecognized values are ignored and the process still exits zero: the menu
// action contract has no error channel, the next render simply shows the
// unchanged state.
type setPlanCommand struct {
	value string
	store *settings.Store
	log   logger.Logger
}

// Execute runs the set-plan command.
func (c *setPlanCommand) Execute() error {
	plan, ok := plans.Parse(c.value)
	if !ok {
		c.log.Debug("ignoring unrecognized plan", "value", c.value)
		return nil
	}

	if err := c.store.SetPlan(plan); err != nil {
		c.log.Error("failed to save plan", "plan", plan, "error", err)
	}
	return nil
}

// toggleDisplayCommand flips one title metric.
type toggleDisplayCommand struct {
	value string
	store *settings.Store
	log   logger.Logger
}

// Execute runs the toggle-display command.
func (c *toggleDisplayCommand) Execute() error {
	metric, ok := settings.ParseMetric(c.value)
	if !ok {
		c.log.Debug("ignoring unrecognized metric", "value", c.value)
		return nil
	}

	if err := c.store.ToggleDisplay(metric); err != nil {
		c.log.Error("failed to save display metrics", "metric", metric, "error", err)
	}
	return nil
}

// renderCommand produces the host markup on stdout.
type renderCommand struct {
	store *settings.Store
	log   logger.Logger
}

// Execute runs the render command.
func (c *renderCommand) Execute() error {
	renderer := newRenderer(c.store, c.log, true)
	return renderer.Render(os.Stdout)
}

// previewCommand renders the menu as plain text for a terminal.
type previewCommand struct {
	store      *settings.Store
	log        logger.Logger
	watch      bool
	configPath string
}

// Execute runs the preview command.
func (c *previewCommand) Execute() error {
	if !c.watch {
		c.printHeader()
		return newRenderer(c.store, c.log, false).Preview(os.Stdout)
	}

	return c.watchLoop()
}

// watchLoop re-renders the preview whenever the settings document changes,
// and periodically as a fallback, until interrupted.
func (c *previewCommand) watchLoop() error {
	paths := []string{
		settingsPath(c.configPath),
		settings.DefaultLegacyPath(),
		plans.DefaultOverridePath(),
	}
	w, err := watcher.New(watcher.Config{}, paths, c.log)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			c.log.Error("failed to close watcher", "error", closeErr)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(watchRefreshInterval)
	defer ticker.Stop()

	for {
		c.redraw()

		select {
		case <-sigChan:
			fmt.Println()
			return nil
		case event := <-w.Events():
			c.log.Debug("settings changed, re-rendering", "path", event.Path)
		case <-ticker.C:
		}
	}
}

// redraw clears the terminal and renders one preview frame.
func (c *previewCommand) redraw() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print("\033[2J\033[H")
	}
	c.printHeader()
	if err := newRenderer(c.store, c.log, false).Preview(os.Stdout); err != nil {
		c.log.Error("preview render failed", "error", err)
	}
}

// printHeader prints a rule sized to the terminal above the preview.
func (c *previewCommand) printHeader() {
	width := 48
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	if width > 80 {
		width = 80
	}
	fmt.Printf("ccmbar %s\n%s\n", version, strings.Repeat("─", width))
}

// newRenderer wires the analyzer, plan table and resolved settings into a
// renderer. The snapshot cache only matters for host-driven invocations;
// previews always fetch fresh data.
func newRenderer(store *settings.Store, log logger.Logger, cached bool) *render.Renderer {
	table := plans.DefaultTable()
	if err := table.ApplyOverrides(plans.DefaultOverridePath()); err != nil {
		log.Debug("ignoring plan overrides", "error", err)
	}

	client := analyzer.New(analyzer.Config{}, log)
	if cached {
		client = analyzer.WithCache(client, analyzer.CacheConfig{}, log)
	}

	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0]
	}

	return render.New(render.Config{
		Analyzer: client,
		Settings: store.Resolve(),
		Plans:    table,
		ExecPath: execPath,
	}, log)
}

// settingsPath resolves the settings document location for watching.
func settingsPath(override string) string {
	if override != "" {
		return override
	}
	return settings.DefaultPath()
}

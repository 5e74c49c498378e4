package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/iiunuii/ccmbar/pkg/logger"
)

// EnvCommand overrides the analyzer binary, mainly for tests.
const EnvCommand = "CCM_ANALYZER"

// DefaultCommand is the analyzer binary looked up on PATH.
const DefaultCommand = "claude-monitor"

// DefaultHoursBack is the usage window requested from the analyzer.
const DefaultHoursBack = 24

// Client fetches usage snapshots.
type Client interface {
	// Fetch returns one usage snapshot.
	//
	// Returns ErrNotInstalled when the analyzer binary cannot be found,
	// which the renderer turns into install instructions rather than an
	// error state.
	Fetch() (*Snapshot, error)
}

// Config contains analyzer client configuration.
type Config struct {
	// Command is the analyzer binary. Default: claude-monitor, or the
	// CCM_ANALYZER environment variable when set.
	Command string

	// HoursBack is the usage window to request. Default: 24.
	HoursBack int
}

// execClient implements Client by running the analyzer subprocess.
type execClient struct {
	command   string
	hoursBack int
	log       logger.Logger
}

// New creates an analyzer client.
//
// Parameters:
//   - cfg: Client configuration (empty fields use defaults)
//   - log: Logger instance
//
// Returns a configured Client.
func New(cfg Config, log logger.Logger) Client {
	if cfg.Command == "" {
		cfg.Command = os.Getenv(EnvCommand)
	}
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if cfg.HoursBack <= 0 {
		cfg.HoursBack = DefaultHoursBack
	}

	return &execClient{
		command:   cfg.Command,
		hoursBack: cfg.HoursBack,
		log:       log,
	}
}

// Fetch implements Client.Fetch.
//
// The subprocess call blocks without a timeout: the host's invocation
// schedule is the retry mechanism, and a stale error beats a spurious one.
func (c *execClient) Fetch() (*Snapshot, error) {
	path, err := exec.LookPath(c.command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, c.command)
	}

	args := []string{"analyze", "--format", "json", "--hours-back", strconv.Itoa(c.hoursBack)}
	c.log.Debug("invoking analyzer", "path", path, "args", args)

	// #nosec G204: command resolves from a fixed default or the user's own environment
	cmd := exec.Command(path, args...) // nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := firstLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("analyzer failed: %s", msg)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(stdout.Bytes(), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	c.log.Debug("snapshot fetched", "blocks", len(snapshot.Blocks))
	return &snapshot, nil
}

// firstLine trims output to its first non-empty line.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Package settings persists widget preferences: the selected plan and the
// set of metrics shown in the menu-bar title.
//
// The backing document is JSON at ~/.claude-monitor/widget-config.json so the
// host and the user can inspect or edit it directly. The plan is resolved
// through a precedence chain: environment variable, settings document, legacy
// parameters file, built-in default.
//
// Example usage:
//
//	store := settings.New(settings.Config{}, log)
//	s := store.Resolve()
//	fmt.Println(s.Plan, s.Display)
package settings

import (
	"os"
	"path/filepath"

	"github.com/iiunuii/ccmbar/pkg/plans"
)

// Metric identifies a title metric that can be toggled on or off.
type Metric string

const (
	// MetricTokenPct shows token usage as a percentage of the limit.
	MetricTokenPct Metric = "token_pct"

	// MetricCost shows the accrued cost in dollars.
	MetricCost Metric = "cost"

	// MetricCostPct shows cost as a percentage of the limit.
	MetricCostPct Metric = "cost_pct"

	// MetricMessages shows sent messages against the limit.
	MetricMessages Metric = "msg"

	// MetricMessagePct shows messages as a percentage of the limit.
	MetricMessagePct Metric = "msg_pct"
)

// AllMetrics returns every metric in menu display order.
func AllMetrics() []Metric {
	return []Metric{
		MetricTokenPct,
		MetricCost,
		MetricCostPct,
		MetricMessages,
		MetricMessagePct,
	}
}

// Label returns the human-readable metric name for the toggle menu.
func (m Metric) Label() string {
	switch m {
	case MetricTokenPct:
		return "Token %"
	case MetricCost:
		return "Cost ($)"
	case MetricCostPct:
		return "Cost %"
	case MetricMessages:
		return "Messages"
	case MetricMessagePct:
		return "Message %"
	default:
		return string(m)
	}
}

// Valid reports whether m is a recognized metric identifier.
func (m Metric) Valid() bool {
	switch m {
	case MetricTokenPct, MetricCost, MetricCostPct, MetricMessages, MetricMessagePct:
		return true
	}
	return false
}

// ParseMetric normalizes and validates a metric string.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(normalize(s))
	return m, m.Valid()
}

// DefaultDisplay returns the built-in enabled metric list.
func DefaultDisplay() []Metric {
	return []Metric{MetricTokenPct, MetricCost}
}

// Settings is the resolved preference state for one invocation.
//
// It is loaded once and passed explicitly into rendering; nothing downstream
// touches the settings file.
type Settings struct {
	// Plan is the resolved subscription plan.
	Plan plans.Plan

	// Display is the ordered list of enabled title metrics, never empty.
	Display []Metric
}

// Config contains settings store configuration.
type Config struct {
	// Path is the settings document location.
	// Default: ~/.claude-monitor/widget-config.json.
	Path string

	// LegacyPath is the read-only parameters file consulted as a plan
	// fallback. Default: ~/.claude-monitor/last_used.json.
	LegacyPath string
}

// EnvPlan is the environment variable that overrides the stored plan.
const EnvPlan = "CCM_PLAN"

// DefaultPath returns the standard settings document location.
func DefaultPath() string {
	return configDirFile("widget-config.json")
}

// DefaultLegacyPath returns the standard legacy parameters file location.
func DefaultLegacyPath() string {
	return configDirFile("last_used.json")
}

// configDirFile joins a file name onto the ~/.claude-monitor directory.
func configDirFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude-monitor", name)
}

// Package render turns a usage snapshot into menu-bar output.
//
// Rendering is a state machine over snapshot availability: analyzer missing,
// fetch failure, no usage data, no active block, or a full dashboard for the
// active block. Every state produces a complete menu and exit code zero;
// failures become display states, never process errors.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/iiunuii/ccmbar/pkg/analyzer"
	"github.com/iiunuii/ccmbar/pkg/display"
	"github.com/iiunuii/ccmbar/pkg/logger"
	"github.com/iiunuii/ccmbar/pkg/menubar"
	"github.com/iiunuii/ccmbar/pkg/plans"
	"github.com/iiunuii/ccmbar/pkg/settings"
)

// Font and layout constants for the SwiftBar widget.
const (
	titleFont   = "SFMono-Regular"
	monoFont    = "SFMono-Regular"
	titleSize   = 12
	bodySize    = 12
	smallSize   = 11
	titleOffset = 2 // push the title down to vertically center it

	barWidth       = 16
	errorMsgLimit  = 80
	modelNameLimit = 22
	maxLimitLines  = 3
)

// idleTitle is the menu-bar title when nothing is in progress.
const idleTitle = "CCM  Idle"

// emptyTitle is the menu-bar title when the error state has no metrics.
const emptyTitle = "CCM —"

// Config contains renderer configuration.
type Config struct {
	// Analyzer supplies usage snapshots.
	Analyzer analyzer.Client

	// Settings is the preference state resolved for this invocation.
	Settings settings.Settings

	// Plans resolves plan resource limits.
	Plans *plans.Table

	// ExecPath is this binary's path, bound to menu actions so the host
	// re-invokes it with arguments.
	ExecPath string

	// TerminalCommand opens the interactive monitor from the footer.
	// Default: ccm.
	TerminalCommand string

	// Now supplies the current time. Default: time.Now.
	Now func() time.Time
}

// Renderer builds the menu for one invocation.
type Renderer struct {
	cfg Config
	log logger.Logger
}

// New creates a renderer.
//
// Parameters:
//   - cfg: Renderer configuration
//   - log: Logger instance
//
// Returns a configured Renderer.
func New(cfg Config, log logger.Logger) *Renderer {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TerminalCommand == "" {
		cfg.TerminalCommand = "ccm"
	}
	if cfg.Plans == nil {
		cfg.Plans = plans.DefaultTable()
	}
	if len(cfg.Settings.Display) == 0 {
		cfg.Settings.Display = settings.DefaultDisplay()
	}
	return &Renderer{cfg: cfg, log: log}
}

// Render writes the menu in host markup form.
func (r *Renderer) Render(w io.Writer) error {
	return r.Menu().WriteTo(w)
}

// Preview writes the menu as plain text for a terminal.
func (r *Renderer) Preview(w io.Writer) error {
	return r.Menu().WritePlain(w)
}

// Menu fetches a snapshot and builds the menu for the resulting state.
func (r *Renderer) Menu() *menubar.Menu {
	snapshot, err := r.cfg.Analyzer.Fetch()
	switch {
	case errors.Is(err, analyzer.ErrNotInstalled):
		return r.notInstalledMenu()
	case err != nil:
		r.log.Error("snapshot fetch failed", "error", err)
		return r.errorMenu("Error loading data", truncate(err.Error(), errorMsgLimit))
	}

	if len(snapshot.Blocks) == 0 {
		return r.idleMenu()
	}

	block, ok := snapshot.ActiveBlock()
	if !ok {
		last, _ := snapshot.LastBlock()
		return r.lastSessionMenu(last)
	}

	return r.dashboardMenu(block, snapshot)
}

// notInstalledMenu prints install instructions for the missing analyzer.
func (r *Renderer) notInstalledMenu() *menubar.Menu {
	m := r.errorMenu("claude-monitor not installed", "Install: pip install claude-monitor")
	m.Separator()
	m.Add(menubar.Text("Install claude-monitor").
		Font(monoFont).Size(bodySize).
		Bash("pip", "install", "claude-monitor").
		Terminal(true))
	return m
}

// errorMenu builds the shared error layout: a dimmed title, the problem, and
// a detail line.
func (r *Renderer) errorMenu(title, detail string) *menubar.Menu {
	m := menubar.New()
	m.Add(menubar.Text(emptyTitle).
		Color(display.ColorGray).Font(titleFont).Size(titleSize).Offset(titleOffset))
	m.Separator()
	m.Add(menubar.Text(title).Color(display.ColorRed).Font(monoFont).Size(bodySize))
	m.Add(menubar.Text(detail).Color(display.ColorDim).Font(monoFont).Size(smallSize))
	return m
}

// idleMenu covers the no-usage-data state.
func (r *Renderer) idleMenu() *menubar.Menu {
	m := menubar.New()
	m.Add(menubar.Text(idleTitle).
		Color(display.ColorGray).Font(titleFont).Size(titleSize).Offset(titleOffset))
	m.Separator()
	m.Add(menubar.Text("No usage data found").
		Color(display.ColorDim).Font(monoFont).Size(bodySize))
	m.Add(menubar.Text("Start a Claude Code session to see metrics").
		Color(display.ColorDim).Font(monoFont).Size(smallSize))
	return m
}

// lastSessionMenu summarizes the most recent block when none is active.
func (r *Renderer) lastSessionMenu(block analyzer.Block) *menubar.Menu {
	m := menubar.New()
	m.Add(menubar.Text(idleTitle).
		Color(display.ColorGray).Font(titleFont).Size(titleSize).Offset(titleOffset))
	m.Separator()
	m.Add(menubar.Text("Last Session").
		Color(display.ColorWhite).Font(monoFont).Size(bodySize))
	m.Add(menubar.Textf("  TKN  %10s     MSG  %d",
		display.Number(block.TotalTokens), block.SentMessages).
		Font(monoFont).Size(smallSize).Color(display.ColorDim))
	m.Add(menubar.Textf("  CST  %10s     DUR  %s",
		display.Cost(block.CostUSD), display.Duration(block.DurationMinutes)).
		Font(monoFont).Size(smallSize).Color(display.ColorDim))
	m.Separator()
	r.footer(m)
	return m
}

// dashboardMenu renders the full dashboard for the active block.
func (r *Renderer) dashboardMenu(block analyzer.Block, snapshot *analyzer.Snapshot) *menubar.Menu {
	limits := r.cfg.Plans.Limits(r.cfg.Settings.Plan, snapshot.TokenTotals())

	tokenPct := display.Ratio(float64(block.TotalTokens), float64(limits.Tokens))
	costPct := display.Ratio(block.CostUSD, limits.CostUSD)
	msgPct := display.Ratio(float64(block.SentMessages), float64(limits.Messages))

	maxPct := tokenPct
	if costPct > maxPct {
		maxPct = costPct
	}
	if msgPct > maxPct {
		maxPct = msgPct
	}

	m := menubar.New()
	m.Add(menubar.Text(r.title(block, limits, tokenPct, costPct, msgPct)).
		Color(display.Color(maxPct)).Font(titleFont).Size(titleSize).Offset(titleOffset))

	m.Separator()
	r.planSubmenu(m)
	r.displaySubmenu(m)
	m.Separator()

	r.resourceSection(m, "Tokens", tokenPct,
		display.Number(block.TotalTokens)+" / "+display.Number(limits.Tokens))
	r.resourceSection(m, "Cost", costPct,
		display.Cost(block.CostUSD)+" / "+display.Cost(limits.CostUSD))
	r.resourceSection(m, "Messages", msgPct,
		display.Number(block.SentMessages)+" / "+display.Number(limits.Messages))

	m.Add(menubar.Text("Duration").Color(display.ColorWhite).Font(monoFont).Size(bodySize))
	m.Add(menubar.Textf("  %s", display.Duration(block.DurationMinutes)).
		Color(display.ColorDim).Font(monoFont).Size(smallSize))

	r.rateSection(m, block)
	r.modelSection(m, block)
	r.limitSection(m, block)

	m.Separator()
	r.footer(m)
	return m
}

// resourceSection emits a header, a bar line colored by the resource's own
// percentage, and a dimmed used/limit line.
func (r *Renderer) resourceSection(m *menubar.Menu, name string, pct float64, counts string) {
	m.Add(menubar.Text(name).Color(display.ColorWhite).Font(monoFont).Size(bodySize))
	m.Add(menubar.Textf("  %s  %.1f%%", display.BarGraph(pct, barWidth), pct).
		Color(display.Color(pct)).Font(monoFont).Size(smallSize))
	m.Add(menubar.Textf("  %s", counts).
		Color(display.ColorDim).Font(monoFont).Size(smallSize))
}

// rateSection emits burn rate, projection and reset lines when present.
func (r *Renderer) rateSection(m *menubar.Menu, block analyzer.Block) {
	projecting := block.Projection != nil && block.Projection.RemainingMinutes > 0
	if block.BurnRate != nil || block.Projection != nil {
		m.Separator()
	}

	if block.BurnRate != nil {
		costPerMin := block.BurnRate.CostPerHour / 60
		m.Add(menubar.Textf("Burn  %.0f tok/min  %s/min",
			block.BurnRate.TokensPerMinute, display.Cost(costPerMin)).
			Color(display.ColorLabel).Font(monoFont).Size(smallSize))
	}

	if projecting {
		remaining := block.Projection.RemainingMinutes
		exhaust := r.cfg.Now().UTC().Add(time.Duration(remaining * float64(time.Minute)))
		m.Add(menubar.Textf("ETA   %s left → %s",
			display.Duration(remaining), display.Clock(exhaust.Local())).
			Color(display.ColorLabel).Font(monoFont).Size(smallSize))
	}

	if reset, ok := block.ResetTime(); ok {
		m.Add(menubar.Textf("Reset %s", display.Clock(reset.Local())).
			Color(display.ColorLabel).Font(monoFont).Size(smallSize))
	}
}

// modelSection emits the per-model token share breakdown.
func (r *Renderer) modelSection(m *menubar.Menu, block analyzer.Block) {
	if len(block.PerModelStats) == 0 || block.TotalTokens <= 0 {
		return
	}

	type modelShare struct {
		name   string
		tokens int
	}
	shares := make([]modelShare, 0, len(block.PerModelStats))
	for name, stats := range block.PerModelStats {
		shares = append(shares, modelShare{name: name, tokens: stats.TotalTokens})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].tokens != shares[j].tokens {
			return shares[i].tokens > shares[j].tokens
		}
		return shares[i].name < shares[j].name
	})

	m.Separator()
	m.Add(menubar.Text("Models").Color(display.ColorWhite).Font(monoFont).Size(bodySize))

	for _, share := range shares {
		pct := display.Ratio(float64(share.tokens), float64(block.TotalTokens))
		color := display.ColorDim
		if pct > 50 {
			color = display.Color(pct)
		}
		m.Add(menubar.Textf("  %-24s %3.0f%%", ellipsize(share.name, modelNameLimit), pct).
			Color(color).Font(monoFont).Size(smallSize))
	}
}

// limitSection emits up to three limit-reached notices.
func (r *Renderer) limitSection(m *menubar.Menu, block analyzer.Block) {
	if len(block.LimitMessages) == 0 {
		return
	}

	m.Separator()
	m.Add(menubar.Text("⚠ Limit Reached").
		Color(display.ColorRed).Font(monoFont).Size(bodySize))

	notices := block.LimitMessages
	if len(notices) > maxLimitLines {
		notices = notices[:maxLimitLines]
	}
	for _, notice := range notices {
		kind := notice.Type
		if kind == "" {
			kind = "unknown"
		}
		text := "  " + kind
		if reset, ok := notice.ParseResetTime(); ok {
			text += fmt.Sprintf(" → resets %s", display.Clock(reset.Local()))
		}
		m.Add(menubar.Text(text).Font(monoFont).Size(smallSize).Color(display.ColorRed))
	}
}

// planSubmenu emits the plan selector.
func (r *Renderer) planSubmenu(m *menubar.Menu) {
	m.Add(menubar.Textf("Plan: %s", r.cfg.Settings.Plan.Label()).
		Color(display.ColorWhite).Font(monoFont).Size(bodySize))

	for _, plan := range plans.All() {
		m.Add(menubar.Text(checkmark(plan == r.cfg.Settings.Plan)+plan.Label()).
			Submenu().
			Font(monoFont).Size(smallSize).
			Bash(r.cfg.ExecPath, "--set-plan", string(plan)).
			Terminal(false).Refresh())
	}
}

// displaySubmenu emits the title metric toggles.
func (r *Renderer) displaySubmenu(m *menubar.Menu) {
	enabled := make(map[settings.Metric]bool, len(r.cfg.Settings.Display))
	for _, metric := range r.cfg.Settings.Display {
		enabled[metric] = true
	}

	m.Add(menubar.Text("Display").Color(display.ColorWhite).Font(monoFont).Size(bodySize))

	for _, metric := range settings.AllMetrics() {
		m.Add(menubar.Text(checkmark(enabled[metric])+metric.Label()).
			Submenu().
			Font(monoFont).Size(smallSize).
			Bash(r.cfg.ExecPath, "--toggle-display", string(metric)).
			Terminal(false).Refresh())
	}
}

// footer emits the shared footer actions.
func (r *Renderer) footer(m *menubar.Menu) {
	m.Add(menubar.Text("Open Terminal Monitor").
		Font(monoFont).Size(bodySize).
		Bash(r.cfg.TerminalCommand).Terminal(true))
	m.Add(menubar.Text("Refresh").Font(monoFont).Size(bodySize).Refresh())
}

// checkmark prefixes selected entries, aligning unselected ones.
func checkmark(selected bool) string {
	if selected {
		return "✓ "
	}
	return "   "
}

// truncate limits a string to n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ellipsize limits a string to n runes, appending an ellipsis when cut.
func ellipsize(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return truncate(s, n) + "…"
}

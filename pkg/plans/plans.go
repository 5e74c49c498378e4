// Package plans defines the subscription plan enumeration and the resource
// limits attached to each plan.
//
// Limits follow the published claude-monitor plan tables. The custom plan
// derives its token ceiling from observed usage (P90 of block totals) since
// there is no fixed tier to look up. A YAML override file lets users adjust
// any limit without rebuilding.
package plans

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Plan identifies a subscription tier.
type Plan string

const (
	// PlanPro is the Pro subscription tier.
	PlanPro Plan = "pro"

	// PlanMax5 is the Max 5x subscription tier.
	PlanMax5 Plan = "max5"

	// PlanMax20 is the Max 20x subscription tier.
	PlanMax20 Plan = "max20"

	// PlanCustom derives its token limit from observed usage.
	PlanCustom Plan = "custom"
)

// DefaultPlan is used when no other source yields a valid plan.
const DefaultPlan = PlanPro

// All returns every plan in menu display order.
func All() []Plan {
	return []Plan{PlanPro, PlanMax5, PlanMax20, PlanCustom}
}

// Parse normalizes and validates a plan string.
//
// Input is lowercased and trimmed before matching. Returns the parsed plan
// and true, or the zero Plan and false for unrecognized values.
func Parse(s string) (Plan, bool) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlanPro, PlanMax5, PlanMax20, PlanCustom:
		return p, true
	}
	return "", false
}

// Label returns the human-readable plan name for menus.
func (p Plan) Label() string {
	switch p {
	case PlanPro:
		return "Pro"
	case PlanMax5:
		return "Max 5"
	case PlanMax20:
		return "Max 20"
	case PlanCustom:
		return "Custom"
	default:
		return strings.ToUpper(string(p))
	}
}

// Limits holds the per-block resource ceilings for a plan.
type Limits struct {
	// Tokens is the token ceiling per accounting block.
	Tokens int `yaml:"tokens"`

	// CostUSD is the cost ceiling per accounting block.
	CostUSD float64 `yaml:"cost_usd"`

	// Messages is the message ceiling per accounting block.
	Messages int `yaml:"messages"`
}

// Table maps plans to their limits.
type Table struct {
	limits map[Plan]Limits
}

// DefaultTable returns the built-in limit table.
func DefaultTable() *Table {
	return &Table{
		limits: map[Plan]Limits{
			PlanPro:    {Tokens: 19000, CostUSD: 18.0, Messages: 250},
			PlanMax5:   {Tokens: 88000, CostUSD: 35.0, Messages: 1000},
			PlanMax20:  {Tokens: 220000, CostUSD: 140.0, Messages: 2000},
			PlanCustom: {Tokens: 0, CostUSD: 50.0, Messages: 250},
		},
	}
}

// Limits resolves the limits for a plan.
//
// Parameters:
//   - p: Plan to resolve
//   - blockTokens: Token totals of observed blocks, used only by the custom
//     plan to derive its token ceiling (P90 of totals; Pro ceiling when no
//     usable totals exist)
//
// Unknown plans resolve to the Pro limits.
func (t *Table) Limits(p Plan, blockTokens []int) Limits {
	l, ok := t.limits[p]
	if !ok {
		l = t.limits[PlanPro]
	}

	if p == PlanCustom && l.Tokens <= 0 {
		l.Tokens = p90(blockTokens)
		if l.Tokens <= 0 {
			l.Tokens = t.limits[PlanPro].Tokens
		}
	}

	return l
}

// p90 returns the 90th percentile of positive values, 0 when none exist.
func p90(values []int) int {
	positive := make([]int, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return 0
	}

	sort.Ints(positive)
	idx := (len(positive)*90 + 99) / 100
	if idx > 0 {
		idx--
	}
	return positive[idx]
}

// DefaultOverridePath returns the standard location of the limit override
// file (~/.claude-monitor/plans.yaml).
func DefaultOverridePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude-monitor", "plans.yaml")
}

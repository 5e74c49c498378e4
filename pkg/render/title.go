package render

import (
	"fmt"
	"strings"

	"github.com/iiunuii/ccmbar/pkg/analyzer"
	"github.com/iiunuii/ccmbar/pkg/display"
	"github.com/iiunuii/ccmbar/pkg/plans"
	"github.com/iiunuii/ccmbar/pkg/settings"
)

// fallbackTitle is shown when no display metrics are enabled.
const fallbackTitle = "CCM"

// title formats the menu-bar title from the enabled display metrics.
//
// Each metric maps to a short label-value pair; pairs are joined with two
// spaces, system-monitor style.
func (r *Renderer) title(block analyzer.Block, limits plans.Limits, tokenPct, costPct, msgPct float64) string {
	parts := make([]string, 0, len(r.cfg.Settings.Display))

	for _, metric := range r.cfg.Settings.Display {
		switch metric {
		case settings.MetricTokenPct:
			parts = append(parts, fmt.Sprintf("TKN %.0f%%", tokenPct))
		case settings.MetricCost:
			parts = append(parts, "CST "+display.Cost(block.CostUSD))
		case settings.MetricCostPct:
			parts = append(parts, fmt.Sprintf("CST %.0f%%", costPct))
		case settings.MetricMessages:
			parts = append(parts, fmt.Sprintf("MSG %d/%d", block.SentMessages, limits.Messages))
		case settings.MetricMessagePct:
			parts = append(parts, fmt.Sprintf("MSG %.0f%%", msgPct))
		}
	}

	if len(parts) == 0 {
		return fallbackTitle
	}
	return strings.Join(parts, "  ")
}

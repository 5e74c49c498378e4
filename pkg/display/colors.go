// Package display provides pure formatting for usage metrics: threshold
// colors, bar graphs, numbers, currency, percentages, durations and clock
// times.
//
// Everything here is deterministic and side-effect free; the render pipeline
// composes these helpers into menu lines.
package display

// SwiftBar hex colors used across the widget.
const (
	// ColorGreen marks usage below every warning threshold.
	ColorGreen = "#6BDB7B"

	// ColorYellow marks usage at or above 50%.
	ColorYellow = "#FFD95C"

	// ColorOrange marks usage at or above 80%.
	ColorOrange = "#FF9F43"

	// ColorRed marks usage at or above 95%.
	ColorRed = "#FF6B6B"

	// ColorGray is the idle title color.
	ColorGray = "#8E8E93"

	// ColorWhite is the section header color.
	ColorWhite = "#FFFFFF"

	// ColorDim is the secondary detail color.
	ColorDim = "#A0A0A8"

	// ColorLabel is the color for burn/projection/reset labels.
	ColorLabel = "#B0B0B8"
)

// Color maps a usage percentage to a severity color.
//
// Thresholds are inclusive lower bounds: >=95 red, >=80 orange, >=50 yellow,
// otherwise green.
func Color(pct float64) string {
	switch {
	case pct >= 95:
		return ColorRed
	case pct >= 80:
		return ColorOrange
	case pct >= 50:
		return ColorYellow
	default:
		return ColorGreen
	}
}

package display

import (
	"fmt"
	"strings"
	"time"
)

// Bar glyphs.
const (
	barFilled = "█"
	barEmpty  = "░"
)

// BarGraph renders a fixed-width usage bar.
//
// The filled portion is floor(pct/100*width) glyphs, clamped to width; the
// remainder uses the empty glyph. The result is always exactly width runes.
func BarGraph(pct float64, width int) string {
	if width <= 0 {
		return ""
	}

	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// Number formats an integer with comma thousand separators.
func Number(n int) string {
	s := fmt.Sprintf("%d", n)

	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}
	if len(s)-start <= 3 {
		return s
	}

	var b strings.Builder
	b.WriteString(s[:start])
	digits := s[start:]
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Cost formats a dollar amount as $X.XX.
func Cost(c float64) string {
	return fmt.Sprintf("$%.2f", c)
}

// Percent formats v as a one-decimal percentage of total.
//
// Returns "0.0%" when total is not positive, which also guards division by
// zero for unlimited resources.
func Percent(v, total float64) string {
	return fmt.Sprintf("%.1f%%", Ratio(v, total))
}

// Ratio returns v as a percentage of total, 0 when total is not positive.
func Ratio(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}

// Duration formats minutes as a human-readable duration.
//
// Under one minute renders "<1m", under an hour "Nm", otherwise "Xh Ym".
func Duration(minutes float64) string {
	if minutes < 1 {
		return "<1m"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", int(minutes))
	}
	return fmt.Sprintf("%dh %dm", int(minutes)/60, int(minutes)%60)
}

// Clock formats a timestamp as a 12-hour wall-clock time with AM/PM and no
// leading zero on the hour, in the timestamp's own location.
//
// Callers that want local time pass t.Local().
func Clock(t time.Time) string {
	return t.Format("3:04 PM")
}

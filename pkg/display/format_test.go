package display

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{name: "zero", pct: 0, want: ColorGreen},
		{name: "just below yellow", pct: 49.9, want: ColorGreen},
		{name: "yellow boundary inclusive", pct: 50, want: ColorYellow},
		{name: "mid yellow", pct: 65, want: ColorYellow},
		{name: "just below orange", pct: 79.9, want: ColorYellow},
		{name: "orange boundary inclusive", pct: 80, want: ColorOrange},
		{name: "just below red", pct: 94.9, want: ColorOrange},
		{name: "red boundary inclusive", pct: 95, want: ColorRed},
		{name: "over limit", pct: 140, want: ColorRed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Color(tt.pct); got != tt.want {
				t.Errorf("Color(%v) = %v, want %v", tt.pct, got, tt.want)
			}
		})
	}
}

func TestColor_FourTiersOnly(t *testing.T) {
	t.Parallel()

	valid := map[string]bool{
		ColorGreen:  true,
		ColorYellow: true,
		ColorOrange: true,
		ColorRed:    true,
	}

	for pct := 0.0; pct < 100; pct += 0.5 {
		if !valid[Color(pct)] {
			t.Fatalf("Color(%v) = %v, not a severity color", pct, Color(pct))
		}
	}
}

func TestBarGraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{name: "empty", pct: 0, width: 10, want: "░░░░░░░░░░"},
		{name: "full", pct: 100, width: 10, want: "██████████"},
		{name: "half", pct: 50, width: 10, want: "█████░░░░░"},
		{name: "floors partial fill", pct: 19, width: 10, want: "█░░░░░░░░░"},
		{name: "clamps above 100", pct: 250, width: 4, want: "████"},
		{name: "clamps below 0", pct: -5, width: 4, want: "░░░░"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BarGraph(tt.pct, tt.width); got != tt.want {
				t.Errorf("BarGraph(%v, %d) = %q, want %q", tt.pct, tt.width, got, tt.want)
			}
		})
	}
}

func TestBarGraph_WidthInvariant(t *testing.T) {
	t.Parallel()

	for pct := -10.0; pct <= 110; pct += 3.3 {
		got := BarGraph(pct, 16)
		if n := utf8.RuneCountInString(got); n != 16 {
			t.Fatalf("BarGraph(%v, 16) has %d runes, want 16", pct, n)
		}
	}
}

func TestBarGraph_Monotonic(t *testing.T) {
	t.Parallel()

	prev := 0
	for pct := 0.0; pct <= 100; pct++ {
		filled := strings.Count(BarGraph(pct, 20), barFilled)
		if filled < prev {
			t.Fatalf("filled count decreased at pct=%v: %d -> %d", pct, prev, filled)
		}
		prev = filled
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{50000, "50,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		if got := Number(tt.n); got != tt.want {
			t.Errorf("Number(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCost(t *testing.T) {
	t.Parallel()

	if got := Cost(5); got != "$5.00" {
		t.Errorf("Cost(5) = %q, want $5.00", got)
	}
	if got := Cost(0.125); got != "$0.12" {
		t.Errorf("Cost(0.125) = %q, want $0.12", got)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		v     float64
		total float64
		want  string
	}{
		{name: "half", v: 50, total: 100, want: "50.0%"},
		{name: "one decimal", v: 1, total: 3, want: "33.3%"},
		{name: "zero total guards division", v: 42, total: 0, want: "0.0%"},
		{name: "negative total guards division", v: 42, total: -1, want: "0.0%"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Percent(tt.v, tt.total); got != tt.want {
				t.Errorf("Percent(%v, %v) = %q, want %q", tt.v, tt.total, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes float64
		want    string
	}{
		{0.5, "<1m"},
		{0, "<1m"},
		{1, "1m"},
		{45, "45m"},
		{59.9, "59m"},
		{60, "1h 0m"},
		{125, "2h 5m"},
		{600, "10h 0m"},
	}

	for _, tt := range tests {
		if got := Duration(tt.minutes); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	utc := time.UTC
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "afternoon no leading zero", t: time.Date(2024, 1, 1, 15, 7, 0, 0, utc), want: "3:07 PM"},
		{name: "morning", t: time.Date(2024, 1, 1, 9, 30, 0, 0, utc), want: "9:30 AM"},
		{name: "midnight", t: time.Date(2024, 1, 1, 0, 5, 0, 0, utc), want: "12:05 AM"},
		{name: "noon", t: time.Date(2024, 1, 1, 12, 0, 0, 0, utc), want: "12:00 PM"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Clock(tt.t); got != tt.want {
				t.Errorf("Clock(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

// Package analyzer fetches usage snapshots from the external usage analyzer.
//
// The analyzer is an opaque subprocess; this package locates the binary,
// invokes it for a recent window of usage data, and decodes its JSON output
// into the block model. It computes nothing itself; limits, aggregation and
// projections all come from the analyzer.
package analyzer

import "time"

// Snapshot is one analyzer result: a sequence of accounting blocks ordered
// oldest to newest.
type Snapshot struct {
	Blocks []Block `json:"blocks"`
}

// ActiveBlock returns the first block flagged active, if any.
func (s *Snapshot) ActiveBlock() (Block, bool) {
	for _, b := range s.Blocks {
		if b.IsActive {
			return b, true
		}
	}
	return Block{}, false
}

// LastBlock returns the most recent block, if any.
func (s *Snapshot) LastBlock() (Block, bool) {
	if len(s.Blocks) == 0 {
		return Block{}, false
	}
	return s.Blocks[len(s.Blocks)-1], true
}

// TokenTotals returns the token total of every block, in order.
//
// Used to derive the custom plan's token ceiling.
func (s *Snapshot) TokenTotals() []int {
	totals := make([]int, len(s.Blocks))
	for i, b := range s.Blocks {
		totals[i] = b.TotalTokens
	}
	return totals
}

// Block is one accounting window (typically a 5-hour session).
//
// Field names follow the analyzer's JSON output and are immutable from this
// program's perspective.
type Block struct {
	// TotalTokens is the token count consumed in this block.
	TotalTokens int `json:"totalTokens"`

	// CostUSD is the cost accrued in this block.
	CostUSD float64 `json:"costUSD"`

	// SentMessages is the number of messages sent in this block.
	SentMessages int `json:"sentMessagesCount"`

	// DurationMinutes is the elapsed block duration.
	DurationMinutes float64 `json:"durationMinutes"`

	// IsActive marks the currently accumulating block.
	IsActive bool `json:"isActive"`

	// BurnRate is the consumption velocity, when the analyzer computed one.
	BurnRate *BurnRate `json:"burnRate,omitempty"`

	// Projection estimates time to exhaustion, when available.
	Projection *Projection `json:"projection,omitempty"`

	// EndTime is the block end as an ISO timestamp string. Malformed values
	// are tolerated and skipped at render time.
	EndTime string `json:"endTime,omitempty"`

	// PerModelStats breaks tokens down by model name.
	PerModelStats map[string]ModelStats `json:"perModelStats,omitempty"`

	// LimitMessages lists limit-reached notices for this block.
	LimitMessages []LimitMessage `json:"limitMessages,omitempty"`
}

// ResetTime parses the block end time, reporting whether it was usable.
func (b *Block) ResetTime() (time.Time, bool) {
	return parseTimestamp(b.EndTime)
}

// BurnRate is the analyzer's consumption velocity estimate.
type BurnRate struct {
	// TokensPerMinute is the token consumption rate.
	TokensPerMinute float64 `json:"tokensPerMinute"`

	// CostPerHour is the cost accrual rate.
	CostPerHour float64 `json:"costPerHour"`
}

// Projection is the analyzer's exhaustion estimate.
type Projection struct {
	// RemainingMinutes is the estimated time until a limit is exhausted.
	RemainingMinutes float64 `json:"remainingMinutes"`
}

// ModelStats is the per-model usage breakdown.
type ModelStats struct {
	// TotalTokens is the token count attributed to the model.
	TotalTokens int `json:"totalTokens"`
}

// LimitMessage is a limit-reached notice emitted by the analyzer.
type LimitMessage struct {
	// Type names the limit that was hit.
	Type string `json:"type"`

	// ResetTime is an optional ISO timestamp for when the limit resets.
	ResetTime string `json:"reset_time,omitempty"`
}

// ParseResetTime parses the notice reset time, reporting whether it was
// usable.
func (m *LimitMessage) ParseResetTime() (time.Time, bool) {
	return parseTimestamp(m.ResetTime)
}

// parseTimestamp decodes an ISO timestamp, tolerating a missing zone.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

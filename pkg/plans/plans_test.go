package plans

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  Plan
		valid bool
	}{
		{"pro", PlanPro, true},
		{"MAX5", PlanMax5, true},
		{"  max20  ", PlanMax20, true},
		{"Custom", PlanCustom, true},
		{"enterprise", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.valid, ok, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestPlan_Label(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Pro", PlanPro.Label())
	assert.Equal(t, "Max 5", PlanMax5.Label())
	assert.Equal(t, "Max 20", PlanMax20.Label())
	assert.Equal(t, "Custom", PlanCustom.Label())
	assert.Equal(t, "ODD", Plan("odd").Label())
}

func TestTable_Limits(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	pro := table.Limits(PlanPro, nil)
	assert.Equal(t, 19000, pro.Tokens)
	assert.Equal(t, 18.0, pro.CostUSD)
	assert.Equal(t, 250, pro.Messages)

	max20 := table.Limits(PlanMax20, nil)
	assert.Equal(t, 220000, max20.Tokens)

	unknown := table.Limits(Plan("odd"), nil)
	assert.Equal(t, pro, unknown, "unknown plans resolve to Pro limits")
}

func TestTable_Limits_CustomP90(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	tests := []struct {
		name   string
		tokens []int
		want   int
	}{
		{
			name:   "no blocks falls back to pro ceiling",
			tokens: nil,
			want:   19000,
		},
		{
			name:   "only non-positive totals falls back",
			tokens: []int{0, 0},
			want:   19000,
		},
		{
			name:   "single block",
			tokens: []int{42000},
			want:   42000,
		},
		{
			name:   "p90 of ten blocks",
			tokens: []int{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000},
			want:   900,
		},
		{
			name:   "zeros are ignored",
			tokens: []int{0, 5000, 0},
			want:   5000,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := table.Limits(PlanCustom, tt.tokens)
			assert.Equal(t, tt.want, got.Tokens)
			assert.Equal(t, 50.0, got.CostUSD, "custom cost limit comes from the table")
		})
	}
}

func TestTable_ApplyOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "plans.yaml")
	content := `
pro:
  tokens: 100000
  cost_usd: 10.0
max5:
  messages: 1200
ignored_plan:
  tokens: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	table := DefaultTable()
	require.NoError(t, table.ApplyOverrides(path))

	pro := table.Limits(PlanPro, nil)
	assert.Equal(t, 100000, pro.Tokens)
	assert.Equal(t, 10.0, pro.CostUSD)
	assert.Equal(t, 250, pro.Messages, "unset fields keep built-in values")

	max5 := table.Limits(PlanMax5, nil)
	assert.Equal(t, 88000, max5.Tokens)
	assert.Equal(t, 1200, max5.Messages)
}

func TestTable_ApplyOverrides_MissingFile(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	assert.NoError(t, table.ApplyOverrides(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.NoError(t, table.ApplyOverrides(""))
	assert.Equal(t, 19000, table.Limits(PlanPro, nil).Tokens)
}

func TestTable_ApplyOverrides_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pro: [not: a: mapping"), 0600))

	table := DefaultTable()
	err := table.ApplyOverrides(path)
	assert.True(t, errors.Is(err, ErrInvalidOverrides))
	assert.Equal(t, 19000, table.Limits(PlanPro, nil).Tokens, "table unchanged on parse failure")
}

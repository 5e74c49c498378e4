package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiunuii/ccmbar/pkg/logger"
	"github.com/iiunuii/ccmbar/pkg/plans"
)

// newTestStore builds a store over temp files, with the env override unset.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	t.Setenv(EnvPlan, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "widget-config.json")
	legacy := filepath.Join(dir, "last_used.json")

	return New(Config{Path: path, LegacyPath: legacy}, logger.Noop()), path
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestStore_Plan_Resolution(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		doc    string
		legacy string
		want   plans.Plan
	}{
		{
			name: "default when nothing stored",
			want: plans.PlanPro,
		},
		{
			name: "env wins over document",
			env:  "max20",
			doc:  `{"plan": "max5"}`,
			want: plans.PlanMax20,
		},
		{
			name: "env is normalized",
			env:  "  MAX5 ",
			want: plans.PlanMax5,
		},
		{
			name: "invalid env falls through to document",
			env:  "mega",
			doc:  `{"plan": "max5"}`,
			want: plans.PlanMax5,
		},
		{
			name: "document value",
			doc:  `{"plan": "custom"}`,
			want: plans.PlanCustom,
		},
		{
			name:   "invalid document value falls through to legacy",
			doc:    `{"plan": "bogus"}`,
			legacy: `{"plan": "max20"}`,
			want:   plans.PlanMax20,
		},
		{
			name:   "legacy parameters file",
			legacy: `{"plan": "max5"}`,
			want:   plans.PlanMax5,
		},
		{
			name: "corrupt document falls through",
			doc:  `{not json`,
			want: plans.PlanPro,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "widget-config.json")
			legacy := filepath.Join(dir, "last_used.json")

			if tt.doc != "" {
				writeDoc(t, path, tt.doc)
			}
			if tt.legacy != "" {
				writeDoc(t, legacy, tt.legacy)
			}
			t.Setenv(EnvPlan, tt.env)

			store := New(Config{Path: path, LegacyPath: legacy}, logger.Noop())
			assert.Equal(t, tt.want, store.Plan())
		})
	}
}

func TestStore_SetPlan_Persists(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.SetPlan(plans.PlanMax5))
	assert.Equal(t, plans.PlanMax5, store.Plan())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "max5", doc["plan"])
}

func TestStore_SetPlan_PreservesUnrelatedKeys(t *testing.T) {
	store, path := newTestStore(t)
	writeDoc(t, path, `{"display": ["cost"], "theme": "dark"}`)

	require.NoError(t, store.SetPlan(plans.PlanMax20))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "max20", doc["plan"])
	assert.Equal(t, "dark", doc["theme"])
	assert.Equal(t, []interface{}{"cost"}, doc["display"])
}

func TestStore_Display_NeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []Metric
	}{
		{
			name: "missing document",
			want: DefaultDisplay(),
		},
		{
			name: "empty list reverts to default",
			doc:  `{"display": []}`,
			want: DefaultDisplay(),
		},
		{
			name: "only unrecognized identifiers reverts to default",
			doc:  `{"display": ["bogus", "nope"]}`,
			want: DefaultDisplay(),
		},
		{
			name: "unrecognized identifiers are filtered",
			doc:  `{"display": ["bogus", "msg", "cost_pct"]}`,
			want: []Metric{MetricMessages, MetricCostPct},
		},
		{
			name: "corrupt document reverts to default",
			doc:  `{"display": [`,
			want: DefaultDisplay(),
		},
		{
			name: "wrong type reverts to default",
			doc:  `{"display": "token_pct"}`,
			want: DefaultDisplay(),
		},
		{
			name: "non-string entries are skipped",
			doc:  `{"display": [7, "cost"]}`,
			want: []Metric{MetricCost},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStore(t)
			if tt.doc != "" {
				writeDoc(t, path, tt.doc)
			}

			got := store.Display()
			require.NotEmpty(t, got, "Display() must never return an empty list")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_ToggleDisplay_Involutive(t *testing.T) {
	store, path := newTestStore(t)
	writeDoc(t, path, `{"display": ["token_pct", "cost"]}`)

	before := store.Display()

	require.NoError(t, store.ToggleDisplay(MetricMessages))
	assert.Equal(t, []Metric{MetricTokenPct, MetricCost, MetricMessages}, store.Display())

	require.NoError(t, store.ToggleDisplay(MetricMessages))
	assert.Equal(t, before, store.Display())
}

func TestStore_ToggleDisplay_RemovingLastRevertsToDefault(t *testing.T) {
	// The one case where toggling twice is not a round trip: removing the
	// sole enabled metric reverts to the default list instead of emptying it.
	store, path := newTestStore(t)
	writeDoc(t, path, `{"display": ["msg"]}`)

	require.NoError(t, store.ToggleDisplay(MetricMessages))
	assert.Equal(t, DefaultDisplay(), store.Display())

	require.NoError(t, store.ToggleDisplay(MetricMessages))
	assert.Equal(t, []Metric{MetricTokenPct, MetricCost, MetricMessages}, store.Display())
}

func TestStore_ToggleDisplay_RemovePreservesOrder(t *testing.T) {
	store, path := newTestStore(t)
	writeDoc(t, path, `{"display": ["msg_pct", "cost", "token_pct"]}`)

	require.NoError(t, store.ToggleDisplay(MetricCost))
	assert.Equal(t, []Metric{MetricMessagePct, MetricTokenPct}, store.Display())
}

func TestStore_ToggleDisplay_CreatesDocument(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.ToggleDisplay(MetricCostPct))
	assert.Equal(t, []Metric{MetricTokenPct, MetricCost, MetricCostPct}, store.Display())

	_, err := os.Stat(path)
	assert.NoError(t, err, "settings document should be created lazily on first write")
}

func TestStore_Load_DistinguishesFailures(t *testing.T) {
	store, path := newTestStore(t)

	_, err := store.Load()
	assert.True(t, errors.Is(err, ErrNotFound), "missing file should report ErrNotFound")

	writeDoc(t, path, `{broken`)
	_, err = store.Load()
	assert.True(t, errors.Is(err, ErrCorrupt), "unparseable file should report ErrCorrupt")

	writeDoc(t, path, `{"plan": "pro"}`)
	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "pro", doc["plan"])
}

func TestParseMetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  Metric
		valid bool
	}{
		{"token_pct", MetricTokenPct, true},
		{"  COST ", MetricCost, true},
		{"msg_pct", MetricMessagePct, true},
		{"bogus", "bogus", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMetric(tt.in)
		assert.Equal(t, tt.valid, ok, "ParseMetric(%q)", tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got)
		}
	}
}

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iiunuii/ccmbar/pkg/logger"
	"github.com/iiunuii/ccmbar/pkg/plans"
)

// Store reads and writes the settings document.
//
// Persistence is read-merge-write: the whole document is loaded, one key is
// replaced, and the whole document is written back. A document that fails to
// parse is treated as empty, so unrelated keys in a corrupt file are dropped
// on the next write. Read failures never propagate into rendering; they fall
// through to the next source or the built-in defaults.
type Store struct {
	path       string
	legacyPath string
	log        logger.Logger
}

// New creates a settings store.
//
// Parameters:
//   - cfg: Store configuration (empty fields use standard locations)
//   - log: Logger instance
//
// Returns a configured Store.
func New(cfg Config, log logger.Logger) *Store {
	if cfg.Path == "" {
		cfg.Path = DefaultPath()
	}
	if cfg.LegacyPath == "" {
		cfg.LegacyPath = DefaultLegacyPath()
	}
	return &Store{
		path:       cfg.Path,
		legacyPath: cfg.LegacyPath,
		log:        log,
	}
}

// Resolve loads the full preference state for one invocation.
func (s *Store) Resolve() Settings {
	return Settings{
		Plan:    s.Plan(),
		Display: s.Display(),
	}
}

// Plan resolves the selected plan.
//
// Resolution order: CCM_PLAN environment variable, settings document, legacy
// parameters file, then the built-in default. The first source holding a
// valid plan wins; invalid or missing values fall through.
func (s *Store) Plan() plans.Plan {
	if p, ok := plans.Parse(os.Getenv(EnvPlan)); ok {
		return p
	}

	if p, ok := s.planFromFile(s.path); ok {
		return p
	}

	if p, ok := s.planFromFile(s.legacyPath); ok {
		return p
	}

	return plans.DefaultPlan
}

// SetPlan persists the selected plan under the "plan" key.
//
// Membership in the plan enumeration is the caller's responsibility.
func (s *Store) SetPlan(p plans.Plan) error {
	return s.saveKey("plan", string(p))
}

// Display returns the enabled title metrics.
//
// The stored list is filtered to recognized identifiers; when the filtered
// result is empty, or the document is missing or corrupt, the default list
// is returned instead. The result is never empty.
func (s *Store) Display() []Metric {
	doc, err := s.readDocument(s.path)
	if err != nil {
		return DefaultDisplay()
	}

	raw, ok := doc["display"].([]interface{})
	if !ok {
		return DefaultDisplay()
	}

	filtered := make([]Metric, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if m := Metric(str); m.Valid() {
			filtered = append(filtered, m)
		}
	}

	if len(filtered) == 0 {
		return DefaultDisplay()
	}
	return filtered
}

// ToggleDisplay flips one metric in the enabled set and persists the result.
//
// Adding appends to the end; removing preserves order. A removal that would
// empty the set reverts to the default list instead, so at least one metric
// stays enabled.
func (s *Store) ToggleDisplay(metric Metric) error {
	current := s.Display()

	next := make([]Metric, 0, len(current)+1)
	removed := false
	for _, m := range current {
		if m == metric {
			removed = true
			continue
		}
		next = append(next, m)
	}
	if !removed {
		next = append(next, metric)
	}

	if len(next) == 0 {
		next = DefaultDisplay()
	}

	values := make([]string, len(next))
	for i, m := range next {
		values[i] = string(m)
	}
	return s.saveKey("display", values)
}

// Load reads the settings document, distinguishing failure modes.
//
// Returns:
//   - The parsed document
//   - ErrNotFound when the file does not exist
//   - ErrCorrupt when the file exists but is not valid JSON
//
// Callers that only need defaults can ignore the error; both failures
// collapse to the same fallback behavior.
func (s *Store) Load() (map[string]interface{}, error) {
	return s.readDocument(s.path)
}

// planFromFile extracts a valid plan from a JSON document, if present.
func (s *Store) planFromFile(path string) (plans.Plan, bool) {
	doc, err := s.readDocument(path)
	if err != nil {
		return "", false
	}

	str, ok := doc["plan"].(string)
	if !ok {
		return "", false
	}
	return plans.Parse(str)
}

// readDocument loads and parses a JSON document.
func (s *Store) readDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Debug("settings document is corrupt, treating as empty",
			"path", path,
			"error", err)
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}

	return doc, nil
}

// saveKey merges one key into the document and writes it back.
//
// The parent directory is created on first write. The file is written with
// 0600 permissions.
func (s *Store) saveKey(key string, value interface{}) error {
	doc, err := s.readDocument(s.path)
	if err != nil {
		doc = map[string]interface{}{}
	}
	doc[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// normalize lowercases and trims an identifier from the command line.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

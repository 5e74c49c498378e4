package plans

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML shape of the limit override document.
//
// Example:
//
//	pro:
//	  tokens: 25000
//	  cost_usd: 20.0
//	max5:
//	  messages: 1200
type overrideFile map[string]Limits

// ApplyOverrides merges limit overrides from a YAML file into the table.
//
// Parameters:
//   - path: Override file location (empty disables the lookup)
//
// Only positive values override; zero or negative fields keep the built-in
// value, so a file can adjust a single limit. Unknown plan names are skipped.
// A missing file is not an error. Returns an error only for unreadable or
// unparseable files so callers can decide whether to log it; the table is
// left unchanged in that case.
func (t *Table) ApplyOverrides(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read plan overrides: %w", err)
	}

	var overrides overrideFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOverrides, err)
	}

	for name, o := range overrides {
		plan, ok := Parse(name)
		if !ok {
			continue
		}

		l := t.limits[plan]
		if o.Tokens > 0 {
			l.Tokens = o.Tokens
		}
		if o.CostUSD > 0 {
			l.CostUSD = o.CostUSD
		}
		if o.Messages > 0 {
			l.Messages = o.Messages
		}
		t.limits[plan] = l
	}

	return nil
}

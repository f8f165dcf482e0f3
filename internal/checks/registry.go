package checks

import (
	"github.com/sahilm/fuzzy"
)

// Registry holds the known checks in registration order.
type Registry struct {
	checks []Check
	byID   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Default returns a registry with all built-in suites registered.
func Default() *Registry {
	r := NewRegistry()
	registerNodeChecks(r)
	registerClusterChecks(r)
	return r
}

// Register adds a check. A duplicate ID replaces the earlier registration.
func (r *Registry) Register(c Check) {
	if i, ok := r.byID[c.ID]; ok {
		r.checks[i] = c
		return
	}
	r.byID[c.ID] = len(r.checks)
	r.checks = append(r.checks, c)
}

// All returns the checks in registration order.
func (r *Registry) All() []Check {
	out := make([]Check, len(r.checks))
	copy(out, r.checks)
	return out
}

// Find returns the checks whose IDs fuzzy-match pattern, best match
// first. An exact ID match returns only that check. An empty pattern
// returns everything.
func (r *Registry) Find(pattern string) []Check {
	if pattern == "" {
		return r.All()
	}
	if i, ok := r.byID[pattern]; ok {
		return []Check{r.checks[i]}
	}

	ids := make([]string, len(r.checks))
	for i, c := range r.checks {
		ids[i] = c.ID
	}

	var out []Check
	for _, m := range fuzzy.Find(pattern, ids) {
		out = append(out, r.checks[r.byID[m.Str]])
	}
	return out
}

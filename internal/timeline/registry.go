package timeline

import (
	"strings"

	"github.com/michkochris/rune-analyze/internal/errors"
)

// Callback receives the checkpoint that matched a trigger's pattern.
// Callbacks are trusted, in-process code: they run synchronously and any
// panic propagates to the caller of Append.
type Callback func(*Checkpoint)

// Trigger is a pattern-matched subscription registered with the registry.
type Trigger struct {
	// Pattern is "*" for every checkpoint, a prefix ending in "*", or an
	// exact id. No regular expressions, no infix wildcards.
	Pattern string

	// Name is the unique display name.
	Name string

	// Enabled gates dispatch; checked before each dispatch, not cached.
	Enabled bool

	callback Callback
}

// Registry holds pattern → callback bindings consulted on every append.
type Registry struct {
	triggers []*Trigger
	byName   map[string]*Trigger
}

// NewRegistry creates an empty trigger registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Trigger)}
}

// Register binds a callback to a pattern under a unique name.
// Re-registering an existing name is an error and leaves the original
// binding intact.
func (r *Registry) Register(pattern, name string, callback Callback) error {
	if _, exists := r.byName[name]; exists {
		return errors.NewDuplicateTriggerError(name)
	}

	trigger := &Trigger{
		Pattern:  pattern,
		Name:     name,
		Enabled:  true,
		callback: callback,
	}
	r.triggers = append(r.triggers, trigger)
	r.byName[name] = trigger
	return nil
}

// Enable activates the named trigger. Unknown names are ignored.
func (r *Registry) Enable(name string) {
	if t, ok := r.byName[name]; ok {
		t.Enabled = true
	}
}

// Disable deactivates the named trigger. Triggers are never removed
// during a run, only disabled.
func (r *Registry) Disable(name string) {
	if t, ok := r.byName[name]; ok {
		t.Enabled = false
	}
}

// Count returns the number of registered triggers.
func (r *Registry) Count() int {
	return len(r.triggers)
}

// Dispatch runs every enabled trigger whose pattern matches the
// checkpoint id, in registration order. The checkpoint is marked fired
// before the first matching callback runs.
func (r *Registry) Dispatch(cp *Checkpoint) {
	for _, trigger := range r.triggers {
		if !trigger.Enabled {
			continue
		}
		if matchPattern(trigger.Pattern, cp.ID) {
			cp.TriggerFired = true
			trigger.callback(cp)
		}
	}
}

// matchPattern checks a checkpoint id against a trigger pattern.
// Supports exact match and a single trailing wildcard.
func matchPattern(pattern, id string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(id, strings.TrimSuffix(pattern, "*"))
	}

	return pattern == id
}

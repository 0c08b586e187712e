// Package flags provides feature flags read from the config file.
// Flags are read-only after initialization and unknown flags are disabled.
package flags

import (
	"maps"

	"github.com/zjrosen/tincture/internal/log"
)

const (
	// FlagDeferApply stops the session from pushing formatting to the store
	// after every load, reload and save. Explicit Apply calls still push.
	FlagDeferApply = "defer-apply"

	// FlagQuietEvents leaves the model copy out of resolved and saved
	// events. Subscribers still see the reason and generation.
	FlagQuietEvents = "quiet-events"
)

// Defaults returns the flag values written to a fresh config file.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagDeferApply:  false,
		FlagQuietEvents: false,
	}
}

// Registry holds flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. A nil map disables every flag.
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: maps.Clone(flags)}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

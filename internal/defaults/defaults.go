// Package defaults provides the editor's ambient text formatting and the
// built-in presets derived from it.
package defaults

import (
	"sync"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

// Resolver exposes the ambient default formatting and the built-in presets
// synthesized for it, keyed by language.
type Resolver interface {
	Ambient() style.Ambient
	BuiltInPresets(ambient style.Ambient) map[string][]settings.PresetSettings
}

// Static is a Resolver with a settable ambient. Built-in presets come from
// the named chroma styles, mapped onto each catalog language through the
// entries' token types.
type Static struct {
	mu      sync.RWMutex
	ambient style.Ambient
	catalog catalog.Provider
	styles  []string
}

var _ Resolver = (*Static)(nil)

// New creates a resolver. Unknown style names are ignored.
func New(ambient style.Ambient, cat catalog.Provider, styles ...string) *Static {
	return &Static{ambient: ambient, catalog: cat, styles: styles}
}

// Ambient returns the current ambient formatting.
func (s *Static) Ambient() style.Ambient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambient
}

// SetAmbient replaces the ambient formatting. Callers invalidate the
// environment afterwards so the model is rebuilt.
func (s *Static) SetAmbient(a style.Ambient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = a
}

// BuiltInPresets returns one preset per configured style for every catalog
// language.
func (s *Static) BuiltInPresets(ambient style.Ambient) map[string][]settings.PresetSettings {
	out := make(map[string][]settings.PresetSettings)
	for _, lang := range s.catalog.Languages() {
		entries := s.catalog.Classifications(lang)
		for _, name := range s.styles {
			p, ok := presetFromStyle(name, entries, ambient)
			if !ok {
				continue
			}
			out[lang] = append(out[lang], p)
		}
	}
	return out
}

// Package catalog describes which classifications exist for each language.
// The catalog owns classification existence: settings may only customize
// names the catalog lists.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrUnknownLanguage is returned when a language is not in the catalog.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrUnknownClassification is returned when a name is not in a language.
	ErrUnknownClassification = errors.New("unknown classification")
)

// Entry is one classification of a language.
type Entry struct {
	// Name identifies the classification; unique within its language.
	Name string
	// Label is the human readable name shown in settings surfaces.
	Label string
	// Token is the chroma token type used to derive built-in presets.
	// Empty when the classification has no preset equivalent.
	Token string
}

// Provider exposes the ordered classification set per language.
type Provider interface {
	Languages() []string
	Classifications(language string) []Entry
}

// Language is the catalog definition for one language.
type Language struct {
	Name    string
	Labels  LabelRule
	Entries []Entry
}

// Static is an in-memory Provider that can grow when new language support
// is registered.
type Static struct {
	mu        sync.RWMutex
	languages []Language
}

var _ Provider = (*Static)(nil)

// NewStatic builds a catalog from language definitions, filling missing
// labels from each language's label rule.
func NewStatic(languages ...Language) *Static {
	s := &Static{}
	for _, l := range languages {
		s.Add(l)
	}
	return s
}

// Add registers a language, replacing an existing one with the same name.
// Entries with an empty or repeated name are ignored.
func (s *Static) Add(l Language) {
	lang := Language{Name: l.Name, Labels: l.Labels}
	seen := make(map[string]struct{}, len(l.Entries))
	for _, e := range l.Entries {
		if e.Name == "" {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		if e.Label == "" {
			e.Label = l.Labels.Label(e.Name)
		}
		lang.Entries = append(lang.Entries, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.languages {
		if s.languages[i].Name == lang.Name {
			s.languages[i] = lang
			return
		}
	}
	s.languages = append(s.languages, lang)
}

// Languages returns language names in registration order.
func (s *Static) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.languages))
	for i, l := range s.languages {
		names[i] = l.Name
	}
	return names
}

// Classifications returns a copy of the language's entries in catalog order,
// or nil for an unknown language.
func (s *Static) Classifications(language string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.languages {
		if l.Name == language {
			return slices.Clone(l.Entries)
		}
	}
	return nil
}

// Lookup returns one entry of a language.
func Lookup(p Provider, language, name string) (Entry, error) {
	entries := p.Classifications(language)
	if entries == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownLanguage, language)
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnknownClassification, name)
}

// Freeze copies the current contents of p into a new catalog that later
// registrations on p do not affect.
func Freeze(p Provider) *Static {
	s := NewStatic()
	for _, name := range p.Languages() {
		s.languages = append(s.languages, Language{Name: name, Entries: p.Classifications(name)})
	}
	return s
}

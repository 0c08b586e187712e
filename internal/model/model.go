// Package model holds the resolved, render-ready classification styles of a
// session. A Model is rebuilt wholesale on every resolve; settings surfaces
// edit its entries in place until the next save.
package model

import (
	"slices"

	"github.com/zjrosen/tincture/internal/style"
)

// Classification is the fully resolved style of one classification.
type Classification struct {
	Name        string
	DisplayName string

	Foreground style.Tracked[style.Color]
	Background style.Tracked[style.Color]
	FontSize   style.Tracked[int]

	IsBold          bool
	IsItalic        bool
	IsOverline      bool
	IsUnderline     bool
	IsStrikethrough bool
	IsBaseline      bool

	IsEnabled            bool
	IsEnabledInXml       bool
	IsEnabledInQuickInfo bool
}

// Decorations returns the decoration flags as a set.
func (c Classification) Decorations() style.DecorationSet {
	var d style.DecorationSet
	d = d.Set(style.Overline, c.IsOverline)
	d = d.Set(style.Underline, c.IsUnderline)
	d = d.Set(style.Strikethrough, c.IsStrikethrough)
	d = d.Set(style.Baseline, c.IsBaseline)
	return d
}

// SetDecorations replaces the decoration flags from a set.
func (c *Classification) SetDecorations(d style.DecorationSet) {
	c.IsOverline = d.Has(style.Overline)
	c.IsUnderline = d.Has(style.Underline)
	c.IsStrikethrough = d.Has(style.Strikethrough)
	c.IsBaseline = d.Has(style.Baseline)
}

// Preset is a named bundle of resolved classifications. Built-in presets are
// recomputed on every resolve and never persisted.
type Preset struct {
	Name            string
	BuiltIn         bool
	Classifications []Classification
}

// Language is the resolved state of one catalog language.
type Language struct {
	Name            string
	Classifications []Classification
	Presets         []Preset
}

// Model is the resolved state of every catalog language, in catalog order.
type Model struct {
	Languages []Language
}

// Language returns a pointer to the named language so callers can edit it
// in place, or nil.
func (m *Model) Language(name string) *Language {
	for i := range m.Languages {
		if m.Languages[i].Name == name {
			return &m.Languages[i]
		}
	}
	return nil
}

// LanguageNames returns the language names in order.
func (m *Model) LanguageNames() []string {
	names := make([]string, len(m.Languages))
	for i, l := range m.Languages {
		names[i] = l.Name
	}
	return names
}

// Clone returns a deep copy.
func (m *Model) Clone() *Model {
	out := &Model{Languages: slices.Clone(m.Languages)}
	for i := range out.Languages {
		out.Languages[i] = out.Languages[i].Clone()
	}
	return out
}

// Clone returns a deep copy.
func (l Language) Clone() Language {
	out := Language{
		Name:            l.Name,
		Classifications: slices.Clone(l.Classifications),
		Presets:         slices.Clone(l.Presets),
	}
	for i := range out.Presets {
		out.Presets[i].Classifications = slices.Clone(out.Presets[i].Classifications)
	}
	return out
}

// Classification returns a pointer to the named classification, or nil.
func (l *Language) Classification(name string) *Classification {
	return find(l.Classifications, name)
}

// Preset returns a pointer to the named preset, or nil.
func (l *Language) Preset(name string) *Preset {
	for i := range l.Presets {
		if l.Presets[i].Name == name {
			return &l.Presets[i]
		}
	}
	return nil
}

// BuiltInNames returns the names of the language's built-in presets.
func (l *Language) BuiltInNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, p := range l.Presets {
		if p.BuiltIn {
			names[p.Name] = struct{}{}
		}
	}
	return names
}

func find(list []Classification, name string) *Classification {
	for i := range list {
		if list[i].Name == name {
			return &list[i]
		}
	}
	return nil
}

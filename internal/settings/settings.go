// Package settings provides the sparse, hand-editable persisted form of the
// classification customizations and its JSON codec.
package settings

import (
	"github.com/zjrosen/tincture/internal/style"
)

// CurrentKey is the reserved key holding a language's active classifications.
// Every other key under a language names a user preset.
const CurrentKey = "current"

// MaxFontRenderingSize bounds the font sizes honored on load.
const MaxFontRenderingSize = 512

// ClassificationSettings is the persisted override for one classification.
// Unset attributes keep following the ambient default.
type ClassificationSettings struct {
	Name string
	// DisplayName is written for readability only; the catalog label wins on load.
	DisplayName string

	Foreground        style.Pinnable[style.Color]
	Background        style.Pinnable[style.Color]
	FontRenderingSize style.Pinnable[int]

	IsBold          style.Pinnable[bool]
	IsItalic        style.Pinnable[bool]
	IsOverline      style.Pinnable[bool]
	IsUnderline     style.Pinnable[bool]
	IsStrikethrough style.Pinnable[bool]
	IsBaseline      style.Pinnable[bool]

	IsEnabled            style.Pinnable[bool]
	IsEnabledInXml       style.Pinnable[bool]
	IsEnabledInQuickInfo style.Pinnable[bool]
}

// PresetSettings is a named bundle of classification overrides.
type PresetSettings struct {
	Name            string
	Classifications []ClassificationSettings
}

// LanguageSettings holds everything persisted for one language.
type LanguageSettings struct {
	Name    string
	Current []ClassificationSettings
	Presets []PresetSettings
}

// Settings is the whole persisted tree.
type Settings struct {
	Languages []LanguageSettings
}

// Language returns the first entry named name.
func (s Settings) Language(name string) (LanguageSettings, bool) {
	for _, l := range s.Languages {
		if l.Name == name {
			return l, true
		}
	}
	return LanguageSettings{}, false
}

// Find returns the first override named name. Duplicates are not rejected on
// load, so the earliest entry wins.
func Find(list []ClassificationSettings, name string) (ClassificationSettings, bool) {
	for _, c := range list {
		if c.Name == name {
			return c, true
		}
	}
	return ClassificationSettings{}, false
}

// IsEmpty reports whether the tree holds no languages.
func (s Settings) IsEmpty() bool {
	return len(s.Languages) == 0
}

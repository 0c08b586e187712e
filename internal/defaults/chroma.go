package defaults

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

// TinctureStyle is the preset shipped with tincture, registered alongside
// chroma's own styles.
var TinctureStyle = styles.Register(chroma.MustNewStyle("tincture", chroma.StyleEntries{
	chroma.Background:           "bg:#1e1e1e",
	chroma.Text:                 "#dcdcdc",
	chroma.Keyword:              "#569cd6",
	chroma.KeywordType:          "#4ec9b0",
	chroma.Name:                 "#dcdcdc",
	chroma.NameVariable:         "#9cdcfe",
	chroma.NameVariableInstance: "#9cdcfe italic",
	chroma.NameVariableClass:    "#9cdcfe bold",
	chroma.NameConstant:         "#b5cea8",
	chroma.NameProperty:         "#dcdcaa",
	chroma.NameAttribute:        "#d7ba7d",
	chroma.NameFunction:         "#dcdcaa",
	chroma.NameClass:            "#4ec9b0",
	chroma.NameNamespace:        "#c8c8c8",
	chroma.NameLabel:            "#c8c8c8 underline",
	chroma.NameDecorator:        "#4ec9b0",
	chroma.NameBuiltin:          "#569cd6",
}))

// StyleExists reports whether a chroma style is registered under name.
func StyleExists(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// presetFromStyle maps a chroma style onto a language's entries. Entries
// without a token, or with a token chroma does not know, are left out of the
// preset so applying it keeps their current formatting.
func presetFromStyle(name string, entries []catalog.Entry, ambient style.Ambient) (settings.PresetSettings, bool) {
	st, ok := styles.Registry[name]
	if !ok {
		log.Debug(log.CatCatalog, "Unknown preset style", "style", name)
		return settings.PresetSettings{}, false
	}
	base := st.Get(chroma.Background)

	preset := settings.PresetSettings{Name: st.Name}
	for _, e := range entries {
		if e.Token == "" {
			continue
		}
		tt, err := chroma.TokenTypeString(e.Token)
		if err != nil {
			log.Debug(log.CatCatalog, "Unknown token type", "classification", e.Name, "token", e.Token)
			continue
		}
		preset.Classifications = append(preset.Classifications, overrideFromEntry(e.Name, st.Get(tt), base, ambient))
	}
	return preset, true
}

func overrideFromEntry(name string, se, base chroma.StyleEntry, ambient style.Ambient) settings.ClassificationSettings {
	c := settings.ClassificationSettings{Name: name}
	if se.Colour.IsSet() {
		c.Foreground = style.Pin(fromChroma(se.Colour))
	}
	// The style's own background is the canvas, not a highlight.
	if se.Background.IsSet() && se.Background != base.Background {
		c.Background = style.Pin(fromChroma(se.Background))
	}
	c.IsBold = style.Pin(trilean(se.Bold, ambient.Bold))
	c.IsItalic = style.Pin(trilean(se.Italic, ambient.Italic))
	c.IsUnderline = style.Pin(trilean(se.Underline, ambient.Decorations.Has(style.Underline)))
	return c
}

func fromChroma(c chroma.Colour) style.Color {
	return style.RGB(c.Red(), c.Green(), c.Blue())
}

func trilean(t chroma.Trilean, def bool) bool {
	switch t {
	case chroma.Yes:
		return true
	case chroma.No:
		return false
	default:
		return def
	}
}

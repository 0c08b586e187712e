package reconcile

import (
	"pgregory.net/rapid"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

func colorGen() *rapid.Generator[style.Color] {
	return rapid.Custom(func(t *rapid.T) style.Color {
		return style.RGB(rapid.Uint8().Draw(t, "r"), rapid.Uint8().Draw(t, "g"), rapid.Uint8().Draw(t, "b"))
	})
}

func pinnableGen[T comparable](g *rapid.Generator[T]) *rapid.Generator[style.Pinnable[T]] {
	return rapid.Custom(func(t *rapid.T) style.Pinnable[T] {
		if rapid.Bool().Draw(t, "pinned") {
			return style.Pin(g.Draw(t, "value"))
		}
		return style.Unset[T]()
	})
}

func ambientGen() *rapid.Generator[style.Ambient] {
	return rapid.Custom(func(t *rapid.T) style.Ambient {
		var d style.DecorationSet
		for _, dec := range style.Decorations {
			d = d.Set(dec, rapid.Bool().Draw(t, "decoration"))
		}
		return style.Ambient{
			Foreground:    colorGen().Draw(t, "fg"),
			Background:    colorGen().Draw(t, "bg"),
			HasBackground: rapid.Bool().Draw(t, "hasBg"),
			FontSize:      float64(rapid.IntRange(6, 40).Draw(t, "size")),
			HasFontSize:   true,
			Bold:          rapid.Bool().Draw(t, "bold"),
			Italic:        rapid.Bool().Draw(t, "italic"),
			Decorations:   d,
		}
	})
}

// Language and preset pools include JSON path meta characters so the
// document round trip covers keys that are not plain identifiers.
var (
	catalogLanguages = []string{"CSharp", "Visual Basic.NET", "F#", "Go", "@this"}
	treeLanguages    = []string{"CSharp", "Visual Basic.NET", "F#", "Go", "@this", "a|b", "Stale"}
	presetNames      = []string{"Dark", "Mine", "Solarized #2", "warm|cool", "@preset", "1", "x.y*?"}
)

// catalogGen draws a catalog whose names are drawn from a small pool so
// persisted trees hit both known and stale names.
func catalogGen() *rapid.Generator[*catalog.Static] {
	return rapid.Custom(func(t *rapid.T) *catalog.Static {
		langs := rapid.SliceOfNDistinct(rapid.SampledFrom(catalogLanguages), 0, 4, rapid.ID[string]).Draw(t, "languages")
		s := catalog.NewStatic()
		for _, l := range langs {
			names := rapid.SliceOfNDistinct(nameGen(), 0, 6, rapid.ID[string]).Draw(t, "names")
			entries := make([]catalog.Entry, len(names))
			for i, n := range names {
				entries[i] = catalog.Entry{Name: n}
			}
			s.Add(catalog.Language{Name: l, Labels: catalog.LabelRule{Suffix: " name", Capitalize: true}, Entries: entries})
		}
		return s
	})
}

func nameGen() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{
		"local name", "field name", "method name", "parameter name",
		"namespace name", "label name", "event name", "property name",
		"op|erator name", "#region name",
	})
}

func overrideGen() *rapid.Generator[settings.ClassificationSettings] {
	return rapid.Custom(func(t *rapid.T) settings.ClassificationSettings {
		b := pinnableGen(rapid.Bool())
		return settings.ClassificationSettings{
			Name:                 nameGen().Draw(t, "name"),
			DisplayName:          rapid.StringMatching(`[A-Za-z ]{0,8}`).Draw(t, "display"),
			Foreground:           pinnableGen(colorGen()).Draw(t, "fg"),
			Background:           pinnableGen(colorGen()).Draw(t, "bg"),
			FontRenderingSize:    pinnableGen(rapid.IntRange(1, settings.MaxFontRenderingSize-1)).Draw(t, "size"),
			IsBold:               b.Draw(t, "bold"),
			IsItalic:             b.Draw(t, "italic"),
			IsOverline:           b.Draw(t, "overline"),
			IsUnderline:          b.Draw(t, "underline"),
			IsStrikethrough:      b.Draw(t, "strikethrough"),
			IsBaseline:           b.Draw(t, "baseline"),
			IsEnabled:            b.Draw(t, "enabled"),
			IsEnabledInXml:       b.Draw(t, "xml"),
			IsEnabledInQuickInfo: b.Draw(t, "quickinfo"),
		}
	})
}

func treeGen() *rapid.Generator[settings.Settings] {
	return rapid.Custom(func(t *rapid.T) settings.Settings {
		langs := rapid.SliceOfN(rapid.SampledFrom(treeLanguages), 0, 4).Draw(t, "languages")
		var s settings.Settings
		for _, l := range langs {
			ls := settings.LanguageSettings{
				Name:    l,
				Current: rapid.SliceOfN(overrideGen(), 0, 8).Draw(t, "current"),
			}
			presets := rapid.SliceOfN(rapid.SampledFrom(presetNames), 0, 3).Draw(t, "presets")
			for _, p := range presets {
				ls.Presets = append(ls.Presets, settings.PresetSettings{
					Name:            p,
					Classifications: rapid.SliceOfN(overrideGen(), 0, 4).Draw(t, "preset"),
				})
			}
			s.Languages = append(s.Languages, ls)
		}
		return s
	})
}

// builtIns gives every language a "Dark" preset pinning one color.
func builtIns(cat catalog.Provider) map[string][]settings.PresetSettings {
	out := make(map[string][]settings.PresetSettings)
	for _, l := range cat.Languages() {
		p := settings.PresetSettings{Name: "Dark"}
		for _, e := range cat.Classifications(l) {
			p.Classifications = append(p.Classifications, settings.ClassificationSettings{
				Name:       e.Name,
				Foreground: style.Pin(style.RGB(30, 30, 30)),
			})
		}
		out[l] = []settings.PresetSettings{p}
	}
	return out
}

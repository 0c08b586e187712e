// Package reconcile converts between the sparse persisted settings tree and
// the resolved runtime model.
//
// Resolve merges a catalog, the ambient formatting and a persisted tree into
// a Model; Project turns a Model back into the smallest tree that resolves to
// the same Model. For an unchanged catalog and ambient,
// Resolve(Project(m)) equals m.
package reconcile

import (
	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/defaults"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

// Resolve builds the runtime model for every catalog language. Output order
// follows the catalog only; names the catalog does not list are dropped.
func Resolve(
	cat catalog.Provider,
	ambient style.Ambient,
	builtIns map[string][]settings.PresetSettings,
	tree settings.Settings,
) *model.Model {
	m := &model.Model{}
	for _, name := range cat.Languages() {
		entries := cat.Classifications(name)
		persisted, found := tree.Language(name)
		if !found {
			log.Debug(log.CatResolve, "No settings for language, using defaults", "language", name)
		}
		m.Languages = append(m.Languages, resolveLanguage(name, entries, ambient, builtIns[name], persisted))
	}
	logStaleLanguages(cat, tree)
	return m
}

// ResolveWith resolves against a defaults resolver's current ambient and
// built-in presets.
func ResolveWith(cat catalog.Provider, r defaults.Resolver, tree settings.Settings) *model.Model {
	ambient := r.Ambient()
	return Resolve(cat, ambient, r.BuiltInPresets(ambient), tree)
}

func resolveLanguage(
	name string,
	entries []catalog.Entry,
	ambient style.Ambient,
	builtIns []settings.PresetSettings,
	persisted settings.LanguageSettings,
) model.Language {
	lang := model.Language{
		Name:            name,
		Classifications: resolveList(name, entries, persisted.Current, ambient),
	}

	reserved := make(map[string]struct{}, len(builtIns))
	for _, p := range builtIns {
		if _, dup := reserved[p.Name]; dup {
			continue
		}
		reserved[p.Name] = struct{}{}
		lang.Presets = append(lang.Presets, model.Preset{
			Name:            p.Name,
			BuiltIn:         true,
			Classifications: resolveList(name, entries, p.Classifications, ambient),
		})
	}

	for _, p := range persisted.Presets {
		if p.Name == "" || p.Name == settings.CurrentKey {
			continue
		}
		if _, taken := reserved[p.Name]; taken {
			log.Debug(log.CatResolve, "Dropping user preset shadowed by a built-in", "language", name, "preset", p.Name)
			continue
		}
		reserved[p.Name] = struct{}{}
		lang.Presets = append(lang.Presets, model.Preset{
			Name:            p.Name,
			Classifications: resolveList(name, entries, p.Classifications, ambient),
		})
	}
	return lang
}

// resolveList resolves one classification per catalog entry, in catalog
// order. The first override with a matching name wins.
func resolveList(
	language string,
	entries []catalog.Entry,
	overrides []settings.ClassificationSettings,
	ambient style.Ambient,
) []model.Classification {
	out := make([]model.Classification, 0, len(entries))
	known := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		known[e.Name] = struct{}{}
		o, _ := settings.Find(overrides, e.Name)
		out = append(out, resolveClassification(e, o, ambient))
	}

	stale := 0
	for _, o := range overrides {
		if _, ok := known[o.Name]; !ok {
			stale++
		}
	}
	if stale > 0 {
		log.Debug(log.CatResolve, "Dropped unknown classifications", "language", language, "count", stale)
	}
	return out
}

// resolveClassification resolves one entry. A zero override resolves every
// attribute from the ambient defaults with the classification enabled.
func resolveClassification(e catalog.Entry, o settings.ClassificationSettings, a style.Ambient) model.Classification {
	return model.Classification{
		Name:        e.Name,
		DisplayName: e.Label,

		Foreground: style.Resolve(o.Foreground, a.Foreground),
		Background: style.Resolve(o.Background, a.Background),
		FontSize:   style.Resolve(o.FontRenderingSize, a.FontSizeValue()),

		IsBold:          o.IsBold.Or(a.Bold),
		IsItalic:        o.IsItalic.Or(a.Italic),
		IsOverline:      o.IsOverline.Or(a.Decorations.Has(style.Overline)),
		IsUnderline:     o.IsUnderline.Or(a.Decorations.Has(style.Underline)),
		IsStrikethrough: o.IsStrikethrough.Or(a.Decorations.Has(style.Strikethrough)),
		IsBaseline:      o.IsBaseline.Or(a.Decorations.Has(style.Baseline)),

		IsEnabled:            o.IsEnabled.Or(true),
		IsEnabledInXml:       o.IsEnabledInXml.Or(true),
		IsEnabledInQuickInfo: o.IsEnabledInQuickInfo.Or(true),
	}
}

func logStaleLanguages(cat catalog.Provider, tree settings.Settings) {
	known := make(map[string]struct{})
	for _, l := range cat.Languages() {
		known[l] = struct{}{}
	}
	for _, l := range tree.Languages {
		if _, ok := known[l.Name]; !ok {
			log.Debug(log.CatResolve, "Dropped unknown language", "language", l.Name)
		}
	}
}

package reconcile

import (
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

// Project returns the minimal persisted tree for m. Colors and font size are
// written only when pinned; boolean flags are always written. Built-in
// presets are left out. Every language is written, even when it only holds
// defaults, so the document keeps catalog order.
func Project(m *model.Model) settings.Settings {
	var s settings.Settings
	for _, lang := range m.Languages {
		ls := settings.LanguageSettings{
			Name:    lang.Name,
			Current: projectList(lang.Classifications),
		}
		for _, p := range lang.Presets {
			if p.BuiltIn {
				continue
			}
			ls.Presets = append(ls.Presets, settings.PresetSettings{
				Name:            p.Name,
				Classifications: projectList(p.Classifications),
			})
		}
		s.Languages = append(s.Languages, ls)
	}
	return s
}

func projectList(list []model.Classification) []settings.ClassificationSettings {
	out := make([]settings.ClassificationSettings, 0, len(list))
	for _, c := range list {
		out = append(out, projectClassification(c))
	}
	return out
}

func projectClassification(c model.Classification) settings.ClassificationSettings {
	return settings.ClassificationSettings{
		Name:        c.Name,
		DisplayName: c.DisplayName,

		Foreground:        c.Foreground.Pinnable(),
		Background:        c.Background.Pinnable(),
		FontRenderingSize: c.FontSize.Pinnable(),

		IsBold:          style.Pin(c.IsBold),
		IsItalic:        style.Pin(c.IsItalic),
		IsOverline:      style.Pin(c.IsOverline),
		IsUnderline:     style.Pin(c.IsUnderline),
		IsStrikethrough: style.Pin(c.IsStrikethrough),
		IsBaseline:      style.Pin(c.IsBaseline),

		IsEnabled:            style.Pin(c.IsEnabled),
		IsEnabledInXml:       style.Pin(c.IsEnabledInXml),
		IsEnabledInQuickInfo: style.Pin(c.IsEnabledInQuickInfo),
	}
}

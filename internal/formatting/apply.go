package formatting

import (
	"fmt"

	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/style"
)

// Report summarizes one Apply.
type Report struct {
	Language string
	// Updated lists classifications whose live entry was written.
	Updated []string
	// Skipped lists classifications with no live entry yet.
	Skipped []string
	// Changes counts individual attribute changes across all writes.
	Changes int
}

// Apply writes the language's resolved styles into store inside a single
// batch. Only entries with at least one differing attribute are written.
// Classifications the store does not know are skipped and picked up by a
// later apply.
func Apply(lang model.Language, store Store, ambient style.Ambient) (Report, error) {
	report := Report{Language: lang.Name}
	if err := store.BeginBatch(); err != nil {
		return report, fmt.Errorf("beginning batch for %s: %w", lang.Name, err)
	}
	defer store.EndBatch()

	for _, c := range lang.Classifications {
		live, ok := store.Attributes(c.Name)
		if !ok {
			report.Skipped = append(report.Skipped, c.Name)
			continue
		}
		n := Diff(&live, c, ambient)
		if n == 0 {
			continue
		}
		if err := store.SetAttributes(c.Name, live); err != nil {
			return report, fmt.Errorf("writing %s: %w", c.Name, err)
		}
		report.Updated = append(report.Updated, c.Name)
		report.Changes += n
	}

	if len(report.Skipped) > 0 {
		log.Debug(log.CatApply, "Skipped unregistered classifications", "language", lang.Name, "count", len(report.Skipped))
	}
	log.Debug(log.CatApply, "Applied language", "language", lang.Name, "updated", len(report.Updated), "changes", report.Changes)
	return report, nil
}

// ApplyModel applies every language of m in order, one batch each.
func ApplyModel(m *model.Model, store Store, ambient style.Ambient) ([]Report, error) {
	reports := make([]Report, 0, len(m.Languages))
	for _, lang := range m.Languages {
		r, err := Apply(lang, store, ambient)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Diff updates live to match c and returns the number of attributes it
// changed. Attributes tracking the default take the ambient value, or are
// cleared when the ambient has none.
func Diff(live *Attributes, c model.Classification, ambient style.Ambient) int {
	n := 0

	if c.Foreground.TracksDefault {
		n += live.setForeground(ambient.Foreground)
	} else {
		n += live.setForeground(c.Foreground.Value)
	}

	switch {
	case !c.Background.TracksDefault:
		n += live.setBackground(c.Background.Value)
	case ambient.HasBackground:
		n += live.setBackground(ambient.Background)
	default:
		n += live.clearBackground()
	}

	switch {
	case !c.FontSize.TracksDefault:
		n += live.setFontSize(float64(c.FontSize.Value))
	case ambient.HasFontSize:
		n += live.setFontSize(ambient.FontSize)
	default:
		n += live.clearFontSize()
	}

	n += setFlag(&live.Bold, c.IsBold)
	n += setFlag(&live.Italic, c.IsItalic)

	want := c.Decorations()
	for _, d := range style.Decorations {
		n += live.setDecoration(d, want.Has(d))
	}
	return n
}

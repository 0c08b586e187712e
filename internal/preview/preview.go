// Package preview renders resolved classification styles for the terminal.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/style"
)

// DefaultSample is the text each classification is rendered with.
const DefaultSample = "Sample"

// maxLabelWidth truncates long display names.
const maxLabelWidth = 32

// Options controls rendering.
type Options struct {
	Sample string
	// Renderer nil uses lipgloss's default renderer.
	Renderer *lipgloss.Renderer
}

func (o Options) renderer() *lipgloss.Renderer {
	if o.Renderer != nil {
		return o.Renderer
	}
	return lipgloss.DefaultRenderer()
}

// Language renders one language as a table: label, styled sample, colors,
// size, decorations and enablement. Pinned values are marked with '*'.
func Language(lang model.Language, opts Options) string {
	sample := opts.Sample
	if sample == "" {
		sample = DefaultSample
	}

	labelWidth := runewidth.StringWidth("Classification")
	for _, c := range lang.Classifications {
		labelWidth = max(labelWidth, runewidth.StringWidth(label(c)))
	}
	labelWidth = min(labelWidth, maxLabelWidth)
	sampleWidth := max(runewidth.StringWidth(sample), runewidth.StringWidth("Sample"))

	r := opts.renderer()
	headerStyle := r.NewStyle().Bold(true)
	dimStyle := r.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(headerStyle.Render(lang.Name))
	b.WriteByte('\n')
	header := strings.Join([]string{
		pad("Classification", labelWidth),
		pad("Sample", sampleWidth),
		pad("Foreground", 10),
		pad("Background", 10),
		pad("Size", 5),
		pad("Style", 6),
		"Enabled",
	}, "  ")
	b.WriteString(dimStyle.Render(header))
	b.WriteByte('\n')

	for _, c := range lang.Classifications {
		row := []string{
			pad(truncate.StringWithTail(label(c), uint(labelWidth), "…"), labelWidth),
			sampleStyle(c, r).Render(sample) + strings.Repeat(" ", sampleWidth-runewidth.StringWidth(sample)),
			pad(color(c.Foreground), 10),
			pad(color(c.Background), 10),
			pad(size(c.FontSize), 5),
			pad(flags(c), 6),
			enablement(c),
		}
		b.WriteString(strings.Join(row, "  "))
		b.WriteByte('\n')
	}
	return b.String()
}

// Presets lists the presets of a language, built-in ones first as resolved.
func Presets(lang model.Language, opts Options) string {
	r := opts.renderer()
	headerStyle := r.NewStyle().Bold(true)
	dimStyle := r.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(headerStyle.Render(lang.Name))
	b.WriteByte('\n')
	if len(lang.Presets) == 0 {
		b.WriteString(dimStyle.Render("  (no presets)"))
		b.WriteByte('\n')
		return b.String()
	}
	for _, p := range lang.Presets {
		kind := "user"
		if p.BuiltIn {
			kind = "built-in"
		}
		pinned := 0
		for _, c := range p.Classifications {
			if !c.Foreground.TracksDefault || !c.Background.TracksDefault || !c.FontSize.TracksDefault {
				pinned++
			}
		}
		fmt.Fprintf(&b, "  %s  %s  %d pinned\n", pad(p.Name, 20), pad(kind, 8), pinned)
	}
	return b.String()
}

func label(c model.Classification) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

func sampleStyle(c model.Classification, r *lipgloss.Renderer) lipgloss.Style {
	s := r.NewStyle().Foreground(lipgloss.Color(c.Foreground.Value.Hex()))
	if !c.Background.TracksDefault {
		s = s.Background(lipgloss.Color(c.Background.Value.Hex()))
	}
	return s.
		Bold(c.IsBold).
		Italic(c.IsItalic).
		Underline(c.IsUnderline).
		Strikethrough(c.IsStrikethrough)
}

func color(t style.Tracked[style.Color]) string {
	if t.TracksDefault {
		return "default"
	}
	return t.Value.Hex() + "*"
}

func size(t style.Tracked[int]) string {
	if t.TracksDefault {
		return "-"
	}
	return fmt.Sprintf("%d*", t.Value)
}

// flags renders B I O U S L, '.' for unset ones.
func flags(c model.Classification) string {
	var b strings.Builder
	for _, f := range []struct {
		on bool
		r  byte
	}{
		{c.IsBold, 'B'},
		{c.IsItalic, 'I'},
		{c.IsOverline, 'O'},
		{c.IsUnderline, 'U'},
		{c.IsStrikethrough, 'S'},
		{c.IsBaseline, 'L'},
	} {
		if f.on {
			b.WriteByte(f.r)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func enablement(c model.Classification) string {
	var parts []string
	if c.IsEnabled {
		parts = append(parts, "editor")
	}
	if c.IsEnabledInXml {
		parts = append(parts, "xml")
	}
	if c.IsEnabledInQuickInfo {
		parts = append(parts, "quickinfo")
	}
	if len(parts) == 0 {
		return "off"
	}
	return strings.Join(parts, ",")
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

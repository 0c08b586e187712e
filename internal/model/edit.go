package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

var (
	// ErrUnknownClassification is returned when an edit names a classification
	// the language does not have.
	ErrUnknownClassification = errors.New("unknown classification")
	// ErrUnknownPreset is returned when an edit names a missing preset.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrBuiltInPreset is returned when an edit would change a built-in preset.
	ErrBuiltInPreset = errors.New("built-in presets are read-only")
	// ErrInvalidPresetName is returned for empty or reserved preset names.
	ErrInvalidPresetName = errors.New("invalid preset name")
	// ErrInvalidFontSize is returned for sizes the settings document cannot
	// hold.
	ErrInvalidFontSize = errors.New("invalid font size")
)

// PinForeground fixes the foreground to col.
func (c *Classification) PinForeground(col style.Color) {
	c.Foreground = style.Fixed(col)
}

// PinBackground fixes the background to col.
func (c *Classification) PinBackground(col style.Color) {
	c.Background = style.Fixed(col)
}

// PinFontSize fixes the font size. Sizes outside 1..511 are rejected and
// leave the classification unchanged.
func (c *Classification) PinFontSize(size int) error {
	if size < 1 || size >= settings.MaxFontRenderingSize {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidFontSize, size, settings.MaxFontRenderingSize-1)
	}
	c.FontSize = style.Fixed(size)
	return nil
}

// ResetForeground makes the foreground follow the ambient default again.
func (c *Classification) ResetForeground(a style.Ambient) {
	c.Foreground = style.Track(a.Foreground)
}

// ResetBackground makes the background follow the ambient default again.
func (c *Classification) ResetBackground(a style.Ambient) {
	c.Background = style.Track(a.Background)
}

// ResetFontSize makes the font size follow the ambient default again.
func (c *Classification) ResetFontSize(a style.Ambient) {
	c.FontSize = style.Track(a.FontSizeValue())
}

// ToggleDecoration flips one decoration flag.
func (c *Classification) ToggleDecoration(d style.Decoration) {
	set := c.Decorations()
	c.SetDecorations(set.Set(d, !set.Has(d)))
}

// Edit runs fn on the named classification of the language.
func (l *Language) Edit(name string, fn func(*Classification)) error {
	c := l.Classification(name)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownClassification, name)
	}
	fn(c)
	return nil
}

// ApplyPreset copies a preset's styles over the current classifications.
// Display names stay those of the current set.
func (l *Language) ApplyPreset(name string) error {
	p := l.Preset(name)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	for _, src := range p.Classifications {
		dst := l.Classification(src.Name)
		if dst == nil {
			continue
		}
		display := dst.DisplayName
		*dst = src
		dst.DisplayName = display
	}
	return nil
}

// SavePreset stores the current classifications as a user preset, replacing
// a user preset of the same name.
func (l *Language) SavePreset(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == settings.CurrentKey {
		return fmt.Errorf("%w: %q", ErrInvalidPresetName, name)
	}
	p := Preset{Name: name, Classifications: append([]Classification(nil), l.Classifications...)}
	if existing := l.Preset(name); existing != nil {
		if existing.BuiltIn {
			return fmt.Errorf("%w: %s", ErrBuiltInPreset, name)
		}
		*existing = p
		return nil
	}
	l.Presets = append(l.Presets, p)
	return nil
}

// DeletePreset removes a user preset.
func (l *Language) DeletePreset(name string) error {
	for i, p := range l.Presets {
		if p.Name != name {
			continue
		}
		if p.BuiltIn {
			return fmt.Errorf("%w: %s", ErrBuiltInPreset, name)
		}
		l.Presets = append(l.Presets[:i], l.Presets[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
}

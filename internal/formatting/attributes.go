// Package formatting pushes resolved classification styles into a host's
// live formatting store, writing only what changed.
package formatting

import (
	"math"

	"github.com/zjrosen/tincture/internal/style"
)

// fontSizeEpsilon absorbs float noise in host font sizes.
const fontSizeEpsilon = 0.001

// Attributes is the live formatting of one classification as the host
// renders it. Unset colors and sizes fall through to the host's own default.
type Attributes struct {
	Foreground    style.Color
	HasForeground bool
	Background    style.Color
	HasBackground bool
	FontSize      float64
	HasFontSize   bool
	Bold          bool
	Italic        bool
	Decorations   style.DecorationSet
}

// AmbientAttributes is the live formatting of a classification that follows
// the ambient default entirely.
func AmbientAttributes(a style.Ambient) Attributes {
	return Attributes{
		Foreground:    a.Foreground,
		HasForeground: true,
		Background:    a.Background,
		HasBackground: a.HasBackground,
		FontSize:      a.FontSize,
		HasFontSize:   a.HasFontSize,
		Bold:          a.Bold,
		Italic:        a.Italic,
		Decorations:   a.Decorations,
	}
}

func (a *Attributes) setForeground(c style.Color) int {
	if a.HasForeground && a.Foreground == c {
		return 0
	}
	a.Foreground, a.HasForeground = c, true
	return 1
}

func (a *Attributes) setBackground(c style.Color) int {
	if a.HasBackground && a.Background == c {
		return 0
	}
	a.Background, a.HasBackground = c, true
	return 1
}

func (a *Attributes) clearBackground() int {
	if !a.HasBackground {
		return 0
	}
	a.Background, a.HasBackground = style.Color{}, false
	return 1
}

func (a *Attributes) setFontSize(size float64) int {
	if a.HasFontSize && math.Abs(a.FontSize-size) < fontSizeEpsilon {
		return 0
	}
	a.FontSize, a.HasFontSize = size, true
	return 1
}

func (a *Attributes) clearFontSize() int {
	if !a.HasFontSize {
		return 0
	}
	a.FontSize, a.HasFontSize = 0, false
	return 1
}

func setFlag(dst *bool, v bool) int {
	if *dst == v {
		return 0
	}
	*dst = v
	return 1
}

// setDecoration adds or removes one decoration, leaving the others alone.
func (a *Attributes) setDecoration(d style.Decoration, on bool) int {
	if a.Decorations.Has(d) == on {
		return 0
	}
	a.Decorations = a.Decorations.Set(d, on)
	return 1
}

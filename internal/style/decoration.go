package style

import "strings"

// Decoration is one text decoration a classification can carry.
type Decoration uint8

const (
	Overline Decoration = 1 << iota
	Underline
	Strikethrough
	Baseline
)

// Decorations lists every decoration in a stable order.
var Decorations = []Decoration{Overline, Underline, Strikethrough, Baseline}

func (d Decoration) String() string {
	switch d {
	case Overline:
		return "overline"
	case Underline:
		return "underline"
	case Strikethrough:
		return "strikethrough"
	case Baseline:
		return "baseline"
	default:
		return "unknown"
	}
}

// ParseDecoration maps a decoration name back to its value.
func ParseDecoration(name string) (Decoration, bool) {
	for _, d := range Decorations {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return 0, false
}

// DecorationSet is a set of decorations.
type DecorationSet uint8

// NewDecorationSet builds a set from the given decorations.
func NewDecorationSet(ds ...Decoration) DecorationSet {
	var s DecorationSet
	for _, d := range ds {
		s = s.With(d)
	}
	return s
}

// Has reports membership.
func (s DecorationSet) Has(d Decoration) bool {
	return s&DecorationSet(d) != 0
}

// With returns the set with d added.
func (s DecorationSet) With(d Decoration) DecorationSet {
	return s | DecorationSet(d)
}

// Without returns the set with d removed.
func (s DecorationSet) Without(d Decoration) DecorationSet {
	return s &^ DecorationSet(d)
}

// Set adds or removes d.
func (s DecorationSet) Set(d Decoration, on bool) DecorationSet {
	if on {
		return s.With(d)
	}
	return s.Without(d)
}

// Names lists the members in stable order.
func (s DecorationSet) Names() []string {
	var names []string
	for _, d := range Decorations {
		if s.Has(d) {
			names = append(names, d.String())
		}
	}
	return names
}

func (s DecorationSet) String() string {
	return strings.Join(s.Names(), ",")
}

package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LabelRule derives a display label from a classification name by stripping
// a fixed per-language prefix and suffix. The table is explicit input rather
// than computed from name lengths.
type LabelRule struct {
	Prefix     string `yaml:"prefix"`
	Suffix     string `yaml:"suffix"`
	Capitalize bool   `yaml:"capitalize"`
}

// Label applies the rule. Names that do not carry both affixes, or would
// strip to nothing, are returned unchanged.
func (r LabelRule) Label(name string) string {
	if !strings.HasPrefix(name, r.Prefix) || !strings.HasSuffix(name, r.Suffix) {
		return name
	}
	if len(name) <= len(r.Prefix)+len(r.Suffix) {
		return name
	}
	label := name[len(r.Prefix) : len(name)-len(r.Suffix)]
	if r.Capitalize {
		first, size := utf8.DecodeRuneInString(label)
		label = string(unicode.ToUpper(first)) + label[size:]
	}
	return label
}

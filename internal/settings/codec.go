package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/style"
)

// Field names of a persisted classification object.
const (
	fieldName                 = "Name"
	fieldDisplayName          = "DisplayName"
	fieldBackground           = "Background"
	fieldForeground           = "Foreground"
	fieldIsBold               = "IsBold"
	fieldIsItalic             = "IsItalic"
	fieldIsOverline           = "IsOverline"
	fieldIsUnderline          = "IsUnderline"
	fieldIsStrikethrough      = "IsStrikethrough"
	fieldIsBaseline           = "IsBaseline"
	fieldFontRenderingSize    = "FontRenderingSize"
	fieldIsEnabled            = "IsEnabled"
	fieldIsEnabledInXml       = "IsEnabledInXml"
	fieldIsEnabledInQuickInfo = "IsEnabledInQuickInfo"
)

// Decode parses a persisted document. It never fails: a document that is not
// a JSON object yields an empty tree, entries without a usable name are
// skipped and malformed attributes are dropped individually.
func Decode(data []byte) Settings {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Settings{}
	}
	if !gjson.ValidBytes(data) {
		log.Warn(log.CatSettings, "settings document is not valid JSON, using defaults")
		return Settings{}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		log.Warn(log.CatSettings, "settings document is not an object, using defaults", "type", root.Type.String())
		return Settings{}
	}

	var s Settings
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			log.Debug(log.CatSettings, "skipping non-object language entry", "language", key.String())
			return true
		}
		lang := LanguageSettings{Name: key.String()}
		value.ForEach(func(k, v gjson.Result) bool {
			list := decodeList(lang.Name, v)
			if k.String() == CurrentKey {
				lang.Current = list
			} else {
				lang.Presets = append(lang.Presets, PresetSettings{Name: k.String(), Classifications: list})
			}
			return true
		})
		s.Languages = append(s.Languages, lang)
		return true
	})
	return s
}

func decodeList(language string, v gjson.Result) []ClassificationSettings {
	if !v.IsArray() {
		log.Debug(log.CatSettings, "classification list is not an array", "language", language)
		return nil
	}
	var list []ClassificationSettings
	for _, item := range v.Array() {
		c, ok := decodeClassification(item)
		if !ok {
			log.Debug(log.CatSettings, "skipping classification without a name", "language", language)
			continue
		}
		list = append(list, c)
	}
	return list
}

func decodeClassification(v gjson.Result) (ClassificationSettings, bool) {
	if !v.IsObject() {
		return ClassificationSettings{}, false
	}
	name := v.Get(fieldName)
	if name.Type != gjson.String || name.Str == "" {
		return ClassificationSettings{}, false
	}

	c := ClassificationSettings{Name: name.Str}
	if dn := v.Get(fieldDisplayName); dn.Type == gjson.String {
		c.DisplayName = dn.Str
	}
	c.Foreground = decodeColor(v, fieldForeground)
	c.Background = decodeColor(v, fieldBackground)
	c.FontRenderingSize = decodeSize(v, fieldFontRenderingSize)
	c.IsBold = decodeBool(v, fieldIsBold)
	c.IsItalic = decodeBool(v, fieldIsItalic)
	c.IsOverline = decodeBool(v, fieldIsOverline)
	c.IsUnderline = decodeBool(v, fieldIsUnderline)
	c.IsStrikethrough = decodeBool(v, fieldIsStrikethrough)
	c.IsBaseline = decodeBool(v, fieldIsBaseline)
	c.IsEnabled = decodeBool(v, fieldIsEnabled)
	c.IsEnabledInXml = decodeBool(v, fieldIsEnabledInXml)
	c.IsEnabledInQuickInfo = decodeBool(v, fieldIsEnabledInQuickInfo)
	return c, true
}

func decodeBool(v gjson.Result, field string) style.Pinnable[bool] {
	r := v.Get(field)
	if !r.Exists() {
		return style.Unset[bool]()
	}
	if !r.IsBool() {
		log.Debug(log.CatSettings, "dropping malformed attribute", "field", field, "raw", r.Raw)
		return style.Unset[bool]()
	}
	return style.Pin(r.Bool())
}

func decodeSize(v gjson.Result, field string) style.Pinnable[int] {
	r := v.Get(field)
	if !r.Exists() {
		return style.Unset[int]()
	}
	n, ok := integer(r)
	if !ok || n < 1 || n >= MaxFontRenderingSize {
		log.Debug(log.CatSettings, "dropping malformed attribute", "field", field, "raw", r.Raw)
		return style.Unset[int]()
	}
	return style.Pin(int(n))
}

// decodeColor accepts exactly three integer components in 0..255.
func decodeColor(v gjson.Result, field string) style.Pinnable[style.Color] {
	r := v.Get(field)
	if !r.Exists() {
		return style.Unset[style.Color]()
	}
	if !r.IsArray() {
		log.Debug(log.CatSettings, "dropping malformed color", "field", field, "raw", r.Raw)
		return style.Unset[style.Color]()
	}
	parts := r.Array()
	if len(parts) != 3 {
		log.Debug(log.CatSettings, "dropping malformed color", "field", field, "raw", r.Raw)
		return style.Unset[style.Color]()
	}
	var rgb [3]uint8
	for i, p := range parts {
		n, ok := integer(p)
		if !ok || n < 0 || n > math.MaxUint8 {
			log.Debug(log.CatSettings, "dropping malformed color", "field", field, "raw", r.Raw)
			return style.Unset[style.Color]()
		}
		rgb[i] = uint8(n)
	}
	return style.Pin(style.RGB(rgb[0], rgb[1], rgb[2]))
}

// integer accepts JSON numbers without a fractional part.
func integer(r gjson.Result) (int64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	n, err := strconv.ParseInt(r.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Encode writes the tree as an indented document. Languages, lists and
// classifications keep their slice order; only pinned attributes are written.
// A repeated language or preset name keeps its first occurrence.
func Encode(s Settings) ([]byte, error) {
	doc := newObject()
	for _, lang := range s.Languages {
		langDoc := newObject()
		current, err := encodeList(lang.Current)
		if err != nil {
			return nil, fmt.Errorf("encoding %s current: %w", lang.Name, err)
		}
		langDoc.add(CurrentKey, current)
		for _, preset := range lang.Presets {
			if preset.Name == CurrentKey {
				continue
			}
			list, err := encodeList(preset.Classifications)
			if err != nil {
				return nil, fmt.Errorf("encoding %s preset %s: %w", lang.Name, preset.Name, err)
			}
			if !langDoc.add(preset.Name, list) {
				log.Debug(log.CatSettings, "skipping repeated preset", "language", lang.Name, "preset", preset.Name)
			}
		}
		if !doc.add(lang.Name, langDoc.bytes()) {
			log.Debug(log.CatSettings, "skipping repeated language", "language", lang.Name)
		}
	}
	return pretty.PrettyOptions(doc.bytes(), &pretty.Options{Width: 80, Indent: "  "}), nil
}

// object writes the members of a JSON object in insertion order. Keys are
// quoted as written, so language and preset names never go through path
// syntax.
type object struct {
	buf  []byte
	seen map[string]struct{}
}

func newObject() *object {
	return &object{buf: []byte{'{'}, seen: make(map[string]struct{})}
}

// add appends key with an already encoded value. It reports false, and
// writes nothing, for a key that is already present.
func (o *object) add(key string, raw []byte) bool {
	if _, dup := o.seen[key]; dup {
		return false
	}
	o.seen[key] = struct{}{}
	if len(o.buf) > 1 {
		o.buf = append(o.buf, ',')
	}
	o.buf = gjson.AppendJSONString(o.buf, key)
	o.buf = append(o.buf, ':')
	o.buf = append(o.buf, raw...)
	return true
}

func (o *object) bytes() []byte {
	return append(o.buf[:len(o.buf):len(o.buf)], '}')
}

func encodeList(list []ClassificationSettings) ([]byte, error) {
	out := []byte(`[]`)
	for _, c := range list {
		raw, err := encodeClassification(c)
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "-1", raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeClassification(c ClassificationSettings) ([]byte, error) {
	obj := []byte(`{}`)
	var err error
	set := func(field string, value any) {
		if err != nil {
			return
		}
		obj, err = sjson.SetBytes(obj, field, value)
	}
	setColor := func(field string, p style.Pinnable[style.Color]) {
		if col, ok := p.Get(); ok && err == nil {
			obj, err = sjson.SetRawBytes(obj, field, []byte(fmt.Sprintf("[%d,%d,%d]", col.R, col.G, col.B)))
		}
	}
	setBool := func(field string, p style.Pinnable[bool]) {
		if b, ok := p.Get(); ok {
			set(field, b)
		}
	}

	set(fieldName, c.Name)
	if c.DisplayName != "" {
		set(fieldDisplayName, c.DisplayName)
	}
	setColor(fieldForeground, c.Foreground)
	setColor(fieldBackground, c.Background)
	setBool(fieldIsBold, c.IsBold)
	setBool(fieldIsItalic, c.IsItalic)
	setBool(fieldIsOverline, c.IsOverline)
	setBool(fieldIsUnderline, c.IsUnderline)
	setBool(fieldIsStrikethrough, c.IsStrikethrough)
	setBool(fieldIsBaseline, c.IsBaseline)
	if size, ok := c.FontRenderingSize.Get(); ok {
		set(fieldFontRenderingSize, size)
	}
	setBool(fieldIsEnabled, c.IsEnabled)
	setBool(fieldIsEnabledInXml, c.IsEnabledInXml)
	setBool(fieldIsEnabledInQuickInfo, c.IsEnabledInQuickInfo)
	return obj, err
}

package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"pgregory.net/rapid"

	"github.com/zjrosen/tincture/internal/style"
)

func TestDecode_NotAnObject(t *testing.T) {
	for _, doc := range []string{"", "   ", "not json", "[1,2]", `"text"`, "42"} {
		require.True(t, Decode([]byte(doc)).IsEmpty(), "doc %q", doc)
	}
}

func TestDecode_CurrentAndPresets(t *testing.T) {
	doc := `{
	  "CSharp": {
	    "current": [{"Name": "local", "IsBold": true}],
	    "Night": [{"Name": "local", "Foreground": [1, 2, 3]}]
	  },
	  "Broken": 7
	}`
	s := Decode([]byte(doc))
	require.Len(t, s.Languages, 1)

	lang, ok := s.Language("CSharp")
	require.True(t, ok)
	require.Len(t, lang.Current, 1)
	assert.Equal(t, style.Pin(true), lang.Current[0].IsBold)
	require.Len(t, lang.Presets, 1)
	assert.Equal(t, "Night", lang.Presets[0].Name)
	assert.Equal(t, style.Pin(style.RGB(1, 2, 3)), lang.Presets[0].Classifications[0].Foreground)
}

func TestDecode_SkipsEntriesWithoutName(t *testing.T) {
	doc := `{"Go": {"current": [{"IsBold": true}, {"Name": ""}, {"Name": 3}, "x", {"Name": "ok"}]}}`
	lang, ok := Decode([]byte(doc)).Language("Go")
	require.True(t, ok)
	require.Len(t, lang.Current, 1)
	assert.Equal(t, "ok", lang.Current[0].Name)
}

func TestDecode_NonArrayListIsEmpty(t *testing.T) {
	lang, ok := Decode([]byte(`{"Go": {"current": {"Name": "x"}}}`)).Language("Go")
	require.True(t, ok)
	assert.Empty(t, lang.Current)
}

func TestDecode_DropsMalformedAttributesIndividually(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		check func(t *testing.T, c ClassificationSettings)
	}{
		{
			name:  "color with two components",
			entry: `"Foreground": [1, 2], "IsBold": true`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.Foreground.IsPinned())
				assert.Equal(t, style.Pin(true), c.IsBold)
			},
		},
		{
			name:  "color component out of range",
			entry: `"Background": [0, 256, 0]`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.Background.IsPinned())
			},
		},
		{
			name:  "color as string",
			entry: `"Foreground": "#ff0000"`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.Foreground.IsPinned())
			},
		},
		{
			name:  "fractional color component",
			entry: `"Foreground": [1.5, 2, 3]`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.Foreground.IsPinned())
			},
		},
		{
			name:  "size at bound",
			entry: `"FontRenderingSize": 512`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.FontRenderingSize.IsPinned())
			},
		},
		{
			name:  "size zero",
			entry: `"FontRenderingSize": 0`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.FontRenderingSize.IsPinned())
			},
		},
		{
			name:  "size in range",
			entry: `"FontRenderingSize": 511`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.Equal(t, style.Pin(511), c.FontRenderingSize)
			},
		},
		{
			name:  "bool as string",
			entry: `"IsItalic": "true", "IsEnabled": false`,
			check: func(t *testing.T, c ClassificationSettings) {
				assert.False(t, c.IsItalic.IsPinned())
				assert.Equal(t, style.Pin(false), c.IsEnabled)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"Go": {"current": [{"Name": "x", ` + tt.entry + `}]}}`
			lang, ok := Decode([]byte(doc)).Language("Go")
			require.True(t, ok)
			require.Len(t, lang.Current, 1)
			tt.check(t, lang.Current[0])
		})
	}
}

func TestEncode_WritesOnlyPinnedAttributes(t *testing.T) {
	s := Settings{Languages: []LanguageSettings{{
		Name: "Go",
		Current: []ClassificationSettings{{
			Name:        "local",
			DisplayName: "Local",
			Foreground:  style.Pin(style.RGB(10, 20, 30)),
			IsBold:      style.Pin(false),
		}},
	}}}
	data, err := Encode(s)
	require.NoError(t, err)

	entry := gjson.GetBytes(data, "Go.current.0")
	assert.Equal(t, "local", entry.Get("Name").String())
	assert.Equal(t, "Local", entry.Get("DisplayName").String())
	assert.JSONEq(t, `[10,20,30]`, entry.Get("Foreground").Raw)
	assert.False(t, entry.Get("Background").Exists())
	assert.False(t, entry.Get("FontRenderingSize").Exists())
	assert.True(t, entry.Get("IsBold").Exists())
	assert.False(t, entry.Get("IsItalic").Exists())
}

func TestEncode_KeepsOrder(t *testing.T) {
	s := Settings{Languages: []LanguageSettings{
		{Name: "Zeta", Current: []ClassificationSettings{{Name: "b"}, {Name: "a"}}},
		{Name: "Alpha", Current: []ClassificationSettings{{Name: "c"}}},
	}}
	data, err := Encode(s)
	require.NoError(t, err)

	text := string(data)
	assert.Less(t, strings.Index(text, "Zeta"), strings.Index(text, "Alpha"))
	assert.Less(t, strings.Index(text, `"b"`), strings.Index(text, `"a"`))
}

func TestEncode_EmptyCurrentIsWritten(t *testing.T) {
	data, err := Encode(Settings{Languages: []LanguageSettings{{Name: "Go"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Go":{"current":[]}}`, string(data))
}

func TestEncode_SkipsPresetNamedCurrent(t *testing.T) {
	s := Settings{Languages: []LanguageSettings{{
		Name:    "Go",
		Current: []ClassificationSettings{{Name: "a"}},
		Presets: []PresetSettings{{Name: CurrentKey, Classifications: []ClassificationSettings{{Name: "b"}}}},
	}}}
	data, err := Encode(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Go":{"current":[{"Name":"a"}]}}`, string(data))
}

func TestEncode_KeysWithPathCharacters(t *testing.T) {
	names := []string{"Visual Basic.NET", "F#", "a|b", "@this", "#", "a#b", "12", ":7", `q"uote`, `back\slash`, "a,b:c=d!", "x*y?"}
	s := Settings{}
	for _, name := range names {
		s.Languages = append(s.Languages, LanguageSettings{
			Name:    name,
			Current: []ClassificationSettings{{Name: "local", IsBold: style.Pin(true)}},
			Presets: []PresetSettings{{Name: "Solarized #2 " + name, Classifications: []ClassificationSettings{{Name: "x*y"}}}},
		})
	}
	data, err := Encode(s)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	decoded := Decode(data)
	require.Len(t, decoded.Languages, len(names))
	for i, name := range names {
		lang := decoded.Languages[i]
		assert.Equal(t, name, lang.Name)
		require.Len(t, lang.Current, 1, name)
		assert.Equal(t, style.Pin(true), lang.Current[0].IsBold, name)
		require.Len(t, lang.Presets, 1, name)
		assert.Equal(t, "Solarized #2 "+name, lang.Presets[0].Name)
		assert.Equal(t, "x*y", lang.Presets[0].Classifications[0].Name)
	}
}

func TestEncode_RepeatedNamesKeepFirst(t *testing.T) {
	s := Settings{Languages: []LanguageSettings{
		{Name: "Go", Presets: []PresetSettings{
			{Name: "dark", Classifications: []ClassificationSettings{{Name: "first"}}},
			{Name: "dark", Classifications: []ClassificationSettings{{Name: "second"}}},
		}},
		{Name: "Go", Current: []ClassificationSettings{{Name: "ignored"}}},
	}}
	data, err := Encode(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Go":{"current":[],"dark":[{"Name":"first"}]}}`, string(data))
}

func TestEncode_NamesRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringOf(rapid.SampledFrom([]rune(`ab#|@!,=:"\.*?{}[] 0é`))).Draw(t, "name")
		preset := rapid.StringOf(rapid.SampledFrom([]rune(`xy#|@.*:"`))).Draw(t, "preset")
		s := Settings{Languages: []LanguageSettings{{
			Name:    name,
			Current: []ClassificationSettings{{Name: "c"}},
			Presets: []PresetSettings{{Name: preset, Classifications: []ClassificationSettings{{Name: "p"}}}},
		}}}
		data, err := Encode(s)
		require.NoError(t, err)

		decoded := Decode(data)
		require.Len(t, decoded.Languages, 1)
		require.Equal(t, name, decoded.Languages[0].Name)
		require.Equal(t, s.Languages[0].Current, decoded.Languages[0].Current)
		require.Len(t, decoded.Languages[0].Presets, 1)
		require.Equal(t, preset, decoded.Languages[0].Presets[0].Name)
	})
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tincture/internal/style"
)

var ambient = style.Ambient{
	Foreground:  style.RGB(200, 200, 200),
	FontSize:    13,
	HasFontSize: true,
}

func testLanguage() Language {
	return Language{
		Name: "Go",
		Classifications: []Classification{
			{Name: "a", DisplayName: "A", Foreground: style.Track(ambient.Foreground), IsEnabled: true},
			{Name: "b", DisplayName: "B", Foreground: style.Track(ambient.Foreground), IsEnabled: true},
		},
		Presets: []Preset{
			{Name: "Dark", BuiltIn: true, Classifications: []Classification{
				{Name: "a", DisplayName: "preset label", Foreground: style.Fixed(style.RGB(1, 2, 3)), IsBold: true},
				{Name: "gone"},
			}},
		},
	}
}

func TestLanguage_Edit(t *testing.T) {
	l := testLanguage()
	require.NoError(t, l.Edit("a", func(c *Classification) { c.PinForeground(style.RGB(9, 9, 9)) }))
	require.Equal(t, style.Fixed(style.RGB(9, 9, 9)), l.Classification("a").Foreground)

	require.NoError(t, l.Edit("a", func(c *Classification) { c.ResetForeground(ambient) }))
	require.Equal(t, style.Track(ambient.Foreground), l.Classification("a").Foreground)

	err := l.Edit("zzz", func(*Classification) {})
	require.ErrorIs(t, err, ErrUnknownClassification)
}

func TestClassification_FontSizeAndBackground(t *testing.T) {
	var c Classification
	require.NoError(t, c.PinFontSize(20))
	c.PinBackground(style.RGB(1, 1, 1))
	assert.Equal(t, style.Fixed(20), c.FontSize)
	assert.Equal(t, style.Fixed(style.RGB(1, 1, 1)), c.Background)

	c.ResetFontSize(ambient)
	c.ResetBackground(ambient)
	assert.Equal(t, style.Track(13), c.FontSize)
	assert.True(t, c.Background.TracksDefault)
}

func TestClassification_PinFontSizeRejectsUnstorableSizes(t *testing.T) {
	c := Classification{FontSize: style.Track(13)}
	for _, size := range []int{0, -4, 512, 600} {
		err := c.PinFontSize(size)
		require.ErrorIs(t, err, ErrInvalidFontSize, "size %d", size)
	}
	assert.Equal(t, style.Track(13), c.FontSize, "rejected sizes leave the attribute alone")

	require.NoError(t, c.PinFontSize(1))
	require.NoError(t, c.PinFontSize(511))
	assert.Equal(t, style.Fixed(511), c.FontSize)
}

func TestClassification_ToggleDecoration(t *testing.T) {
	c := Classification{IsOverline: true}
	c.ToggleDecoration(style.Underline)
	assert.True(t, c.IsUnderline)
	assert.True(t, c.IsOverline)
	assert.False(t, c.IsStrikethrough)

	c.ToggleDecoration(style.Overline)
	assert.False(t, c.IsOverline)
	assert.Equal(t, style.NewDecorationSet(style.Underline), c.Decorations())
}

func TestLanguage_ApplyPreset(t *testing.T) {
	l := testLanguage()
	require.NoError(t, l.ApplyPreset("Dark"))

	a := l.Classification("a")
	assert.Equal(t, "A", a.DisplayName)
	assert.Equal(t, style.Fixed(style.RGB(1, 2, 3)), a.Foreground)
	assert.True(t, a.IsBold)
	assert.Nil(t, l.Classification("gone"))
	assert.Equal(t, style.Track(ambient.Foreground), l.Classification("b").Foreground)

	require.ErrorIs(t, l.ApplyPreset("Nope"), ErrUnknownPreset)
}

func TestLanguage_SavePreset(t *testing.T) {
	l := testLanguage()
	require.NoError(t, l.SavePreset(" Mine "))
	p := l.Preset("Mine")
	require.NotNil(t, p)
	require.False(t, p.BuiltIn)
	require.Len(t, p.Classifications, 2)

	// The preset holds a copy.
	l.Classifications[0].IsBold = true
	require.False(t, p.Classifications[0].IsBold)

	require.NoError(t, l.SavePreset("Mine"))
	require.Len(t, l.Presets, 2)
	require.True(t, l.Preset("Mine").Classifications[0].IsBold)

	require.ErrorIs(t, l.SavePreset("Dark"), ErrBuiltInPreset)
	require.ErrorIs(t, l.SavePreset("current"), ErrInvalidPresetName)
	require.ErrorIs(t, l.SavePreset("  "), ErrInvalidPresetName)
}

func TestLanguage_DeletePreset(t *testing.T) {
	l := testLanguage()
	require.NoError(t, l.SavePreset("Mine"))
	require.NoError(t, l.DeletePreset("Mine"))
	require.Nil(t, l.Preset("Mine"))

	require.ErrorIs(t, l.DeletePreset("Dark"), ErrBuiltInPreset)
	require.ErrorIs(t, l.DeletePreset("Mine"), ErrUnknownPreset)
}

func TestModel_CloneIsDeep(t *testing.T) {
	m := &Model{Languages: []Language{testLanguage()}}
	c := m.Clone()
	require.Equal(t, m, c)

	c.Language("Go").Classifications[0].IsBold = true
	c.Language("Go").Presets[0].Classifications[0].IsBold = false
	require.False(t, m.Language("Go").Classifications[0].IsBold)
	require.True(t, m.Language("Go").Presets[0].Classifications[0].IsBold)
	require.Nil(t, m.Language("Rust"))
	require.Equal(t, []string{"Go"}, m.LanguageNames())
}

func TestLanguage_BuiltInNames(t *testing.T) {
	l := testLanguage()
	require.NoError(t, l.SavePreset("Mine"))
	require.Equal(t, map[string]struct{}{"Dark": {}}, l.BuiltInNames())
}

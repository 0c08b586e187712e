package style

// Ambient is the editor's current default text formatting, the basis for
// every attribute a classification does not pin.
type Ambient struct {
	Foreground Color
	// Background is meaningful only when HasBackground is set; otherwise the
	// host renders a transparent background.
	Background    Color
	HasBackground bool
	// FontSize is meaningful only when HasFontSize is set.
	FontSize    float64
	HasFontSize bool
	Bold        bool
	Italic      bool
	Decorations DecorationSet
}

// FontSizeValue is the integral size a tracking classification displays.
func (a Ambient) FontSizeValue() int {
	return int(a.FontSize)
}

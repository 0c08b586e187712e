package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/style"
)

// styleEdit is one set of attribute changes for a classification. Zero
// fields leave the attribute alone.
type styleEdit struct {
	Foreground      string
	Background      string
	FontSize        int
	ResetForeground bool
	ResetBackground bool
	ResetFontSize   bool
	Bold            *bool
	Italic          *bool
	Toggle          []string
}

var (
	setLanguage string
	setEdit     styleEdit
)

var setCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Pin or reset the style of one classification",
	Long: `Change the current style of one classification and save the settings.
Pinned attributes keep their value when the ambient defaults change; reset
attributes follow the ambient defaults again.

Examples:
  tincture set --language CSharp "csharp local name" --foreground "#9cdcfe"
  tincture set --language CSharp "csharp local name" --font-size 14 --toggle underline
  tincture set --language CSharp "csharp local name" --reset-foreground --bold=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if setLanguage == "" {
			return fmt.Errorf("--language is required")
		}
		edit := setEdit
		f := cmd.Flags()
		if f.Changed("bold") {
			b, _ := f.GetBool("bold")
			edit.Bold = &b
		}
		if f.Changed("italic") {
			b, _ := f.GetBool("italic")
			edit.Italic = &b
		}
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runSet(cmd.Context(), cmd.OutOrStdout(), rt, setLanguage, args[0], edit)
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	f := setCmd.Flags()
	f.StringVarP(&setLanguage, "language", "l", "", "language of the classification")
	f.StringVar(&setEdit.Foreground, "foreground", "", "pin the foreground (#rrggbb)")
	f.StringVar(&setEdit.Background, "background", "", "pin the background (#rrggbb)")
	f.IntVar(&setEdit.FontSize, "font-size", 0, "pin the font size (1..511)")
	f.BoolVar(&setEdit.ResetForeground, "reset-foreground", false, "follow the ambient foreground")
	f.BoolVar(&setEdit.ResetBackground, "reset-background", false, "follow the ambient background")
	f.BoolVar(&setEdit.ResetFontSize, "reset-font-size", false, "follow the ambient font size")
	f.Bool("bold", false, "set bold")
	f.Bool("italic", false, "set italic")
	f.StringSliceVar(&setEdit.Toggle, "toggle", nil, "flip decorations: overline, underline, strikethrough, baseline")
	setCmd.MarkFlagsMutuallyExclusive("foreground", "reset-foreground")
	setCmd.MarkFlagsMutuallyExclusive("background", "reset-background")
	setCmd.MarkFlagsMutuallyExclusive("font-size", "reset-font-size")
}

// compile validates e and returns the edit to run on a classification. The
// returned func may fail part way; callers run it on a copy.
func (e styleEdit) compile(ambient style.Ambient) (func(*model.Classification) error, error) {
	var fg, bg style.Color
	var err error
	if e.Foreground != "" {
		if fg, err = style.ParseHex(e.Foreground); err != nil {
			return nil, err
		}
	}
	if e.Background != "" {
		if bg, err = style.ParseHex(e.Background); err != nil {
			return nil, err
		}
	}
	toggles := make([]style.Decoration, 0, len(e.Toggle))
	for _, name := range e.Toggle {
		d, ok := style.ParseDecoration(name)
		if !ok {
			return nil, fmt.Errorf("unknown decoration %q", name)
		}
		toggles = append(toggles, d)
	}

	return func(c *model.Classification) error {
		if e.FontSize != 0 {
			if err := c.PinFontSize(e.FontSize); err != nil {
				return err
			}
		}
		if e.ResetFontSize {
			c.ResetFontSize(ambient)
		}
		if e.Foreground != "" {
			c.PinForeground(fg)
		}
		if e.ResetForeground {
			c.ResetForeground(ambient)
		}
		if e.Background != "" {
			c.PinBackground(bg)
		}
		if e.ResetBackground {
			c.ResetBackground(ambient)
		}
		if e.Bold != nil {
			c.IsBold = *e.Bold
		}
		if e.Italic != nil {
			c.IsItalic = *e.Italic
		}
		for _, d := range toggles {
			c.ToggleDecoration(d)
		}
		return nil
	}, nil
}

func runSet(ctx context.Context, w io.Writer, rt *runtime, language, name string, e styleEdit) error {
	entry, err := catalog.Lookup(rt.catalog, language, name)
	if err != nil {
		return err
	}
	ambient := rt.resolver.Ambient()
	apply, err := e.compile(ambient)
	if err != nil {
		return err
	}

	var edited model.Classification
	err = rt.session.Edit(ctx, language, func(l *model.Language) error {
		var applyErr error
		err := l.Edit(entry.Name, func(c *model.Classification) {
			next := *c
			if applyErr = apply(&next); applyErr == nil {
				*c = next
				edited = next
			}
		})
		if err != nil {
			return err
		}
		return applyErr
	})
	if err != nil {
		return err
	}
	if err := rt.session.Save(ctx); err != nil {
		return err
	}

	label := entry.Label
	if label == "" {
		label = entry.Name
	}
	_, err = fmt.Fprintf(w, "Saved %s: foreground=%s size=%d decorations=%s\n",
		label, edited.Foreground.Value.Hex(), edited.FontSize.Value, edited.Decorations())
	return err
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tincture/internal/config"
)

var ambientCmd = &cobra.Command{
	Use:   "ambient",
	Short: "Show or change the ambient default formatting",
	Long: `Without flags, print the ambient default formatting every unpinned
attribute follows. With flags, update it in the config file.

Examples:
  tincture ambient
  tincture ambient --foreground "#d4d4d4" --background "#1e1e1e"
  tincture ambient --decorations underline`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := cfg.Ambient
		changed := false
		flags := cmd.Flags()
		if flags.Changed("foreground") {
			a.Foreground, _ = flags.GetString("foreground")
			changed = true
		}
		if flags.Changed("background") {
			a.Background, _ = flags.GetString("background")
			changed = true
		}
		if flags.Changed("font-size") {
			a.FontSize, _ = flags.GetFloat64("font-size")
			changed = true
		}
		if flags.Changed("bold") {
			a.Bold, _ = flags.GetBool("bold")
			changed = true
		}
		if flags.Changed("italic") {
			a.Italic, _ = flags.GetBool("italic")
			changed = true
		}
		if flags.Changed("decorations") {
			a.Decorations, _ = flags.GetStringSlice("decorations")
			changed = true
		}
		if !changed {
			return printAmbient(cmd.OutOrStdout(), a)
		}
		if err := config.SaveAmbient(configPath(), a); err != nil {
			return err
		}
		return printAmbient(cmd.OutOrStdout(), a)
	},
}

func init() {
	rootCmd.AddCommand(ambientCmd)
	f := ambientCmd.Flags()
	f.String("foreground", "", "default foreground (#rrggbb)")
	f.String("background", "", "default background (#rrggbb, empty for transparent)")
	f.Float64("font-size", 0, "default font size (0 for host default)")
	f.Bool("bold", false, "bold by default")
	f.Bool("italic", false, "italic by default")
	f.StringSlice("decorations", nil, "default decorations: overline, underline, strikethrough, baseline")
}

func printAmbient(w io.Writer, a config.AmbientConfig) error {
	resolved, err := a.Ambient()
	if err != nil {
		return err
	}
	background := "transparent"
	if resolved.HasBackground {
		background = resolved.Background.Hex()
	}
	size := "host default"
	if resolved.HasFontSize {
		size = fmt.Sprintf("%g", resolved.FontSize)
	}
	_, err = fmt.Fprintf(w, "foreground:  %s\nbackground:  %s\nfont size:   %s\nbold:        %t\nitalic:      %t\ndecorations: %s\n",
		resolved.Foreground.Hex(), background, size, resolved.Bold, resolved.Italic, resolved.Decorations)
	return err
}

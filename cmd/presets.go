package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tincture/internal/config"
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/preview"
)

var presetsLanguage string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List and manage presets",
	Long: `List the presets of every language. Built-in presets come from the
chroma styles named in the config; user presets live in the settings
document.

Examples:
  tincture presets
  tincture presets --language CSharp
  tincture presets save --language CSharp "My night"
  tincture presets apply --language CSharp monokai
  tincture presets delete --language CSharp "My night"
  tincture presets use tincture dracula`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runPresetsList(cmd.Context(), cmd.OutOrStdout(), rt, presetsLanguage)
	},
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the current styles of a language as a user preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPresets(cmd, func(l *model.Language) error { return l.SavePreset(args[0]) })
	},
}

var presetsApplyCmd = &cobra.Command{
	Use:   "apply NAME",
	Short: "Replace the current styles of a language with a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPresets(cmd, func(l *model.Language) error { return l.ApplyPreset(args[0]) })
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a user preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPresets(cmd, func(l *model.Language) error { return l.DeletePreset(args[0]) })
	},
}

var presetsUseCmd = &cobra.Command{
	Use:   "use STYLE...",
	Short: "Choose the chroma styles offered as built-in presets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.SavePresets(path, args); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Built-in presets set to %v in %s\n", args, path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.PersistentFlags().StringVarP(&presetsLanguage, "language", "l", "", "language to list or edit")
	presetsCmd.AddCommand(presetsSaveCmd, presetsApplyCmd, presetsDeleteCmd, presetsUseCmd)
}

func runPresetsList(ctx context.Context, w io.Writer, rt *runtime, language string) error {
	langs, err := selectLanguages(ctx, rt, language)
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := io.WriteString(w, preview.Presets(lang, preview.Options{})); err != nil {
			return err
		}
	}
	return nil
}

func editPresets(cmd *cobra.Command, fn func(*model.Language) error) error {
	if presetsLanguage == "" {
		return fmt.Errorf("--language is required")
	}
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return runPresetEdit(cmd.Context(), cmd.OutOrStdout(), rt, presetsLanguage, fn)
}

func runPresetEdit(ctx context.Context, w io.Writer, rt *runtime, language string, fn func(*model.Language) error) error {
	if err := rt.session.Edit(ctx, language, fn); err != nil {
		return err
	}
	if err := rt.session.Save(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Saved %s\n", rt.cfg.SettingsPath)
	return err
}

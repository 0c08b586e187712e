package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/model"
	"github.com/zjrosen/tincture/internal/preview"
)

var (
	resolveLanguage string
	resolveSample   string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the resolved classification styles",
	Long: `Resolve the settings document against the catalog and the ambient
default formatting and print one table per language.

Pinned values are marked with '*'; everything else follows the ambient
default.

Examples:
  tincture resolve
  tincture resolve --language CSharp --sample "var x = 1;"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runResolve(cmd.Context(), cmd.OutOrStdout(), rt, resolveLanguage, resolveSample)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolveLanguage, "language", "l", "", "only print this language")
	resolveCmd.Flags().StringVar(&resolveSample, "sample", preview.DefaultSample, "sample text rendered in each style")
}

func runResolve(ctx context.Context, w io.Writer, rt *runtime, language, sample string) error {
	langs, err := selectLanguages(ctx, rt, language)
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(w, preview.Language(lang, preview.Options{Sample: sample})); err != nil {
			return err
		}
	}
	return nil
}

// selectLanguages returns every resolved language, or only the named one.
func selectLanguages(ctx context.Context, rt *runtime, language string) ([]model.Language, error) {
	m, err := rt.session.Model(ctx)
	if err != nil {
		return nil, err
	}
	if language == "" {
		return m.Languages, nil
	}
	lang := m.Language(language)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownLanguage, language)
	}
	return []model.Language{*lang}, nil
}

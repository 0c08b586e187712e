package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tincture/internal/preview"
	"github.com/zjrosen/tincture/internal/reconcile"
	"github.com/zjrosen/tincture/internal/settings"
)

var normalizeDryRun bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite the settings document in its minimal form",
	Long: `Load the settings document, resolve it and write back the minimal
projection: stale classifications and languages are dropped, malformed
attributes are removed and entries follow catalog order.

The previous document is kept in the settings history when it is enabled.

Examples:
  tincture normalize --dry-run   # show the diff only
  tincture normalize`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()
		return runNormalize(cmd.Context(), cmd.OutOrStdout(), rt, normalizeDryRun)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().BoolVarP(&normalizeDryRun, "dry-run", "n", false, "print the diff without writing")
}

func runNormalize(ctx context.Context, w io.Writer, rt *runtime, dryRun bool) error {
	path := rt.cfg.SettingsPath
	before, err := settings.ReadDocument(path)
	if err != nil {
		return err
	}
	m, err := rt.session.Model(ctx)
	if err != nil {
		return err
	}
	after, err := settings.Encode(reconcile.Project(m))
	if err != nil {
		return err
	}

	if bytes.Equal(before, after) {
		_, err := fmt.Fprintf(w, "%s is already normalized\n", path)
		return err
	}
	if dryRun {
		_, err := io.WriteString(w, preview.Diff(string(before), string(after), preview.Options{}))
		return err
	}
	if err := rt.session.Save(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Normalized %s\n", path)
	return err
}

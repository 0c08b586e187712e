package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and restore previous settings documents",
	Long: `Every save keeps the document it replaces. Use list to see them, show
to print one and restore to write it back.

Examples:
  tincture history list
  tincture history show 3f2c...
  tincture history restore 3f2c...`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withHistory(func(rt *runtime) error {
			return runHistoryList(cmd.OutOrStdout(), rt, historyLimit)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(rt *runtime) error {
			snap, err := rt.history.Get(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(snap.Document)
			return err
		})
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Write a snapshot back to the settings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(rt *runtime) error {
			snap, err := rt.history.Restore(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", snap.Path, snap.CreatedAt.Format("2006-01-02 15:04:05"))
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRestoreCmd)
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of snapshots")
}

func withHistory(fn func(*runtime) error) error {
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	if rt.history == nil {
		return fmt.Errorf("history is disabled (history.enabled: false)")
	}
	return fn(rt)
}

func runHistoryList(w io.Writer, rt *runtime, limit int) error {
	snaps, err := rt.history.List(rt.cfg.SettingsPath, limit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CREATED", "REASON", "SIZE")
	for _, s := range snaps {
		t.Row(s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Reason, strconv.Itoa(len(s.Document)))
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}


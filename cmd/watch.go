package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tincture/internal/flags"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/pubsub"
	"github.com/zjrosen/tincture/internal/session"
	"github.com/zjrosen/tincture/internal/watcher"
)

var watchVerbose bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep styles in sync with the settings and catalog files",
	Long: `Load the settings once, apply them to the in-memory formatting store and
keep watching. A change to the settings document reloads it; a change to
the catalog file invalidates the cached catalog and ambient defaults and
re-resolves.

Press Ctrl+C to stop.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), rt, watchVerbose)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "echo log entries (requires --debug)")
}

func runWatch(ctx context.Context, out, errOut io.Writer, rt *runtime, verbose bool) error {
	settingsPath := rt.cfg.SettingsPath
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	watched := []string{settingsPath}
	if rt.cfg.CatalogPath != "" {
		watched = append(watched, rt.cfg.CatalogPath)
	}
	w, err := watcher.New(watcher.Config{Paths: watched, DebounceDur: rt.cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	changes, err := w.Start()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go pubsub.Handle(ctx, rt.session.Broker(), func(ev pubsub.Event[session.Event]) {
		_, _ = fmt.Fprintln(out, describe(ev))
	})
	if verbose {
		if listener := log.NewListener(ctx); listener != nil {
			go func() {
				for {
					entry, ok := listener.Next()
					if !ok {
						return
					}
					_, _ = io.WriteString(errOut, entry.Payload)
				}
			}()
		}
	}

	if err := rt.session.Ensure(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(errOut, "Watching %v (Ctrl+C to stop)\n", watched)

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if err := handleChange(ctx, rt, change); err != nil {
				log.ErrorErr(log.CatWatcher, "Handling change failed", err, "paths", change.Paths)
				_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
			}
		}
	}
}

func handleChange(ctx context.Context, rt *runtime, change watcher.Change) error {
	if err := rebuildFor(ctx, rt, change); err != nil {
		return err
	}
	if rt.flags.Enabled(flags.FlagDeferApply) {
		_, err := rt.session.Apply(ctx)
		return err
	}
	return nil
}

func rebuildFor(ctx context.Context, rt *runtime, change watcher.Change) error {
	if rt.cfg.CatalogPath != "" && change.Has(rt.cfg.CatalogPath) {
		if err := rt.reloadCatalog(); err != nil {
			return err
		}
		return rt.session.Invalidate(ctx, "catalog file changed")
	}
	return rt.session.Reload(ctx, "settings file changed")
}

func describe(ev pubsub.Event[session.Event]) string {
	p := ev.Payload
	switch ev.Type {
	case pubsub.ResolvedEvent:
		if p.Model == nil {
			return fmt.Sprintf("resolved (%s) generation=%d", p.Reason, p.Generation)
		}
		return fmt.Sprintf("resolved (%s) generation=%d languages=%d", p.Reason, p.Generation, len(p.Model.Languages))
	case pubsub.AppliedEvent:
		updated, skipped, changes := 0, 0, 0
		for _, r := range p.Reports {
			updated += len(r.Updated)
			skipped += len(r.Skipped)
			changes += r.Changes
		}
		return fmt.Sprintf("applied (%s) updated=%d skipped=%d changes=%d", p.Reason, updated, skipped, changes)
	case pubsub.SavedEvent:
		return fmt.Sprintf("saved snapshot=%q", p.SnapshotID)
	case pubsub.InvalidatedEvent:
		return fmt.Sprintf("invalidated (%s)", p.Reason)
	case pubsub.ClassificationsChangedEvent:
		enabled := 0
		for _, e := range p.Enablement {
			enabled += len(e.Editor)
		}
		return fmt.Sprintf("classifications changed (%s) enabled=%d", p.Reason, enabled)
	default:
		return string(ev.Type)
	}
}

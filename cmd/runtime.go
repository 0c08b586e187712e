package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/config"
	"github.com/zjrosen/tincture/internal/defaults"
	"github.com/zjrosen/tincture/internal/environment"
	"github.com/zjrosen/tincture/internal/flags"
	"github.com/zjrosen/tincture/internal/formatting"
	"github.com/zjrosen/tincture/internal/history"
	"github.com/zjrosen/tincture/internal/infrastructure/sqlite"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/session"
	"github.com/zjrosen/tincture/internal/tracing"
)

// runtime wires the collaborators every command shares.
type runtime struct {
	cfg      config.Config
	catalog  *catalog.Static
	resolver *defaults.Static
	env      *environment.Environment
	store    *formatting.MemoryStore
	flags    *flags.Registry
	history  *history.Recorder
	session  *session.Session
	tracing  *tracing.Provider
	db       *sqlite.DB
}

func newRuntime(c config.Config) (*runtime, error) {
	c = c.Resolved()
	if err := config.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ambient, err := c.Ambient.Ambient()
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(c.CatalogPath)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:      c,
		catalog:  cat,
		resolver: defaults.New(ambient, cat, c.Presets...),
		store:    formatting.NewMemoryStore(),
		flags:    flags.New(c.Flags),
	}
	rt.env = environment.New(rt.catalog, rt.resolver)

	if rt.tracing, err = tracing.NewProvider(c.Tracing); err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	if c.History.Enabled {
		if rt.db, err = sqlite.NewDB(c.History.Path); err != nil {
			rt.Close()
			return nil, fmt.Errorf("opening history: %w", err)
		}
		var opts []history.Option
		if c.History.Keep > 0 {
			opts = append(opts, history.WithKeep(c.History.Keep))
		}
		rt.history = history.NewRecorder(rt.db.SnapshotRepository(), opts...)
	}

	rt.session = session.New(session.Config{
		SettingsPath: c.SettingsPath,
		Environment:  rt.env,
		Store:        rt.store,
		History:      rt.history,
		Tracer:       rt.tracing.Tracer(),
		Flags:        rt.flags,
	})
	log.Debug(log.CatConfig, "Runtime ready", "settings", c.SettingsPath, "catalog", c.CatalogPath, "history", c.History.Enabled)
	return rt, nil
}

// reloadCatalog merges a re-read catalog file into the live catalog. The
// environment keeps serving its frozen copy until invalidated.
func (rt *runtime) reloadCatalog() error {
	fresh, err := catalog.Load(rt.cfg.CatalogPath)
	if err != nil {
		return err
	}
	for _, name := range fresh.Languages() {
		rt.catalog.Add(catalog.Language{Name: name, Entries: fresh.Classifications(name)})
	}
	return nil
}

// Close releases the session, the history database and the tracer.
func (rt *runtime) Close() {
	if rt.session != nil {
		rt.session.Close()
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			log.ErrorErr(log.CatHistory, "Closing history database failed", err)
		}
	}
	if rt.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.tracing.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
		}
	}
}

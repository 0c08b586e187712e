// Package environment caches the classification catalog, the ambient
// formatting and the built-in presets for the life of a session. The cache
// never expires: it is rebuilt only after Invalidate, which callers invoke
// when the host reports catalog growth or an ambient formatting change.
package environment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/zjrosen/tincture/internal/cachemanager"
	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/defaults"
	"github.com/zjrosen/tincture/internal/log"
	"github.com/zjrosen/tincture/internal/settings"
	"github.com/zjrosen/tincture/internal/style"
)

// ErrNotInitialized is returned by Current before Init.
var ErrNotInitialized = errors.New("environment not initialized")

type snapshotKey string

const currentKey snapshotKey = "current"

// Snapshot is an immutable view of the environment.
type Snapshot struct {
	Catalog  *catalog.Static
	Ambient  style.Ambient
	BuiltIns map[string][]settings.PresetSettings
	// Generation increases with every rebuild.
	Generation uint64
}

// Environment owns the cached Snapshot.
type Environment struct {
	catalog  catalog.Provider
	resolver defaults.Resolver

	mu          sync.Mutex
	initialized bool
	generation  atomic.Uint64
	cache       *cachemanager.ReadThroughCache[snapshotKey, Snapshot, struct{}]
}

// New creates an uninitialized environment over the live catalog and
// defaults resolver.
func New(cat catalog.Provider, resolver defaults.Resolver) *Environment {
	e := &Environment{catalog: cat, resolver: resolver}
	e.cache = cachemanager.NewReadThroughCache[snapshotKey, Snapshot, struct{}](
		cachemanager.NewInMemoryCacheManager[snapshotKey, Snapshot]("environment", cachemanager.NoExpiration, cachemanager.NoCleanup),
		e.build,
	)
	return e
}

// Init builds the first snapshot. Calling it again is a no-op that returns
// the cached snapshot.
func (e *Environment) Init(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()
	return e.cache.Get(ctx, currentKey, struct{}{}, cachemanager.NoExpiration)
}

// Current returns the cached snapshot, rebuilding it if it was invalidated.
func (e *Environment) Current(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	ok := e.initialized
	e.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrNotInitialized
	}
	return e.cache.Get(ctx, currentKey, struct{}{}, cachemanager.NoExpiration)
}

// Invalidate drops the cached snapshot so the next Current rebuilds it.
func (e *Environment) Invalidate(ctx context.Context, reason string) {
	e.cache.Invalidate(ctx, currentKey)
	log.Debug(log.CatCache, "Environment invalidated", "reason", reason)
}

// Reset invalidates and returns the environment to its uninitialized state.
func (e *Environment) Reset(ctx context.Context) {
	e.mu.Lock()
	e.initialized = false
	e.mu.Unlock()
	e.cache.Invalidate(ctx)
}

func (e *Environment) build(_ context.Context, _ struct{}) (Snapshot, error) {
	ambient := e.resolver.Ambient()
	snap := Snapshot{
		Catalog:    catalog.Freeze(e.catalog),
		Ambient:    ambient,
		BuiltIns:   e.resolver.BuiltInPresets(ambient),
		Generation: e.generation.Add(1),
	}
	log.Debug(log.CatCache, "Environment built", "generation", snap.Generation, "languages", len(snap.Catalog.Languages()))
	return snap, nil
}

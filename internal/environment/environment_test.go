package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tincture/internal/catalog"
	"github.com/zjrosen/tincture/internal/defaults"
	"github.com/zjrosen/tincture/internal/style"
)

func newTestEnvironment() (*Environment, *catalog.Static, *defaults.Static) {
	cat := catalog.NewStatic(catalog.Language{Name: "Go", Entries: []catalog.Entry{{Name: "var", Token: "NameVariable"}}})
	resolver := defaults.New(style.Ambient{Foreground: style.RGB(1, 1, 1)}, cat, "tincture")
	return New(cat, resolver), cat, resolver
}

func TestEnvironment_CurrentRequiresInit(t *testing.T) {
	env, _, _ := newTestEnvironment()
	_, err := env.Current(context.Background())
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestEnvironment_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	env, cat, resolver := newTestEnvironment()

	first, err := env.Init(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), first.Generation)
	require.Equal(t, []string{"Go"}, first.Catalog.Languages())
	require.Len(t, first.BuiltIns["Go"], 1)

	cat.Add(catalog.Language{Name: "Rust"})
	resolver.SetAmbient(style.Ambient{Foreground: style.RGB(2, 2, 2)})

	cached, err := env.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cached.Generation)
	require.Equal(t, []string{"Go"}, cached.Catalog.Languages())
	require.Equal(t, style.RGB(1, 1, 1), cached.Ambient.Foreground)

	env.Invalidate(ctx, "test")
	rebuilt, err := env.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), rebuilt.Generation)
	require.Equal(t, []string{"Go", "Rust"}, rebuilt.Catalog.Languages())
	require.Equal(t, style.RGB(2, 2, 2), rebuilt.Ambient.Foreground)
}

func TestEnvironment_InitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env, _, _ := newTestEnvironment()

	a, err := env.Init(ctx)
	require.NoError(t, err)
	b, err := env.Init(ctx)
	require.NoError(t, err)
	require.Equal(t, a.Generation, b.Generation)
}

func TestEnvironment_Reset(t *testing.T) {
	ctx := context.Background()
	env, _, _ := newTestEnvironment()
	_, err := env.Init(ctx)
	require.NoError(t, err)

	env.Reset(ctx)
	_, err = env.Current(ctx)
	require.ErrorIs(t, err, ErrNotInitialized)

	snap, err := env.Init(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), snap.Generation)
}

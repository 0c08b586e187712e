package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{"enabled flag", New(map[string]bool{FlagDeferApply: true}), FlagDeferApply, true},
		{"disabled flag", New(map[string]bool{FlagDeferApply: false}), FlagDeferApply, false},
		{"unknown flag", New(map[string]bool{FlagDeferApply: true}), "no-such-flag", false},
		{"nil registry", nil, FlagQuietEvents, false},
		{"nil map", New(nil), FlagQuietEvents, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_DefaultsAllDisabled(t *testing.T) {
	r := New(Defaults())
	require.Len(t, r.All(), 2)
	require.False(t, r.Enabled(FlagQuietEvents))
	require.False(t, r.Enabled(FlagDeferApply))
}

func TestRegistry_IsolatedFromCallerMap(t *testing.T) {
	src := map[string]bool{FlagDeferApply: true}
	r := New(src)
	src[FlagDeferApply] = false

	all := r.All()
	all["new-flag"] = true

	require.True(t, r.Enabled(FlagDeferApply))
	require.False(t, r.Enabled("new-flag"))
	require.Equal(t, map[string]bool{FlagDeferApply: true}, r.All())
}

func TestRegistry_AllOnNil(t *testing.T) {
	var r *Registry
	require.Empty(t, r.All())
	require.Empty(t, New(nil).All())
}

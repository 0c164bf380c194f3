package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.Active())
	require.Zero(t, r.Count())

	r.Register("tok-1", "user-1")
	r.Register("tok-2", "user-2")
	require.True(t, r.Active())
	require.Equal(t, 2, r.Count())
	require.True(t, r.Has("tok-1"))

	r.Remove("tok-1")
	require.False(t, r.Has("tok-1"))
	require.True(t, r.Active())

	r.Remove("tok-2")
	require.False(t, r.Active())

	// Removing an unknown token is harmless.
	r.Remove("tok-ghost")
	require.False(t, r.Active())
}

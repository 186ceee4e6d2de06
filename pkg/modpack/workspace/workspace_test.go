package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return New(filepath.Join(t.TempDir(), ".temp"), "reframework", "NestRarityLocker")
}

func TestWorkspace_Paths(t *testing.T) {
	t.Parallel()

	w := New(".temp", "reframework", "NestRarityLocker")

	assert.Equal(t, ".temp", w.Root())
	assert.Equal(t, filepath.Join(".temp", "reframework"), w.ModRoot())
	assert.Equal(t, filepath.Join(".temp", "reframework", "autorun"), w.AutorunDir())
	assert.Equal(t, filepath.Join(".temp", "reframework", "autorun", "NestRarityLocker"), w.ModuleDir())
}

func TestWorkspace_Reset(t *testing.T) {
	t.Parallel()

	t.Run("creates the full hierarchy empty", func(t *testing.T) {
		t.Parallel()
		w := newTestWorkspace(t)

		require.NoError(t, w.Reset())

		for _, dir := range w.Dirs() {
			info, err := os.Stat(dir)
			require.NoError(t, err, dir)
			assert.True(t, info.IsDir(), dir)
		}

		entries, err := os.ReadDir(w.ModuleDir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("destroys previous contents", func(t *testing.T) {
		t.Parallel()
		w := newTestWorkspace(t)
		require.NoError(t, w.Reset())

		stale := filepath.Join(w.AutorunDir(), "stale.lua")
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(w.Root(), "modinfo.ini"), []byte("old"), 0o644))

		require.NoError(t, w.Reset())

		_, err := os.Stat(stale)
		assert.True(t, os.IsNotExist(err))

		entries, err := os.ReadDir(w.Root())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "reframework", entries[0].Name())
	})
}

func TestWorkspace_Teardown(t *testing.T) {
	t.Parallel()

	t.Run("removes the tree", func(t *testing.T) {
		t.Parallel()
		w := newTestWorkspace(t)
		require.NoError(t, w.Reset())

		require.NoError(t, w.Teardown(false))
		assert.False(t, w.Exists())
	})

	t.Run("suppressed keeps the tree", func(t *testing.T) {
		t.Parallel()
		w := newTestWorkspace(t)
		require.NoError(t, w.Reset())

		require.NoError(t, w.Teardown(true))
		assert.True(t, w.Exists())
	})

	t.Run("missing tree is a no-op", func(t *testing.T) {
		t.Parallel()
		w := newTestWorkspace(t)

		assert.NoError(t, w.Teardown(false))
		assert.NoError(t, w.Teardown(false))
	})
}

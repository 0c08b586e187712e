package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/tincture/internal/history"
)

func setupTestRepo(t *testing.T) history.Repository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db.SnapshotRepository()
}

func TestSnapshotRepository_SaveAndFind(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Unix(1700000000, 123)
	snap := history.NewSnapshot("/s.json", "save", []byte(`{"a":{}}`), now)

	require.NoError(t, repo.Save(snap))

	found, err := repo.FindByID(snap.ID)
	require.NoError(t, err)
	require.Equal(t, snap.Path, found.Path)
	require.Equal(t, snap.Reason, found.Reason)
	require.Equal(t, snap.Document, found.Document)
	require.True(t, now.Equal(found.CreatedAt))
}

func TestSnapshotRepository_FindMissing(t *testing.T) {
	repo := setupTestRepo(t)
	_, err := repo.FindByID("nope")
	require.ErrorIs(t, err, history.ErrSnapshotNotFound)
}

func TestSnapshotRepository_DuplicateID(t *testing.T) {
	repo := setupTestRepo(t)
	snap := history.NewSnapshot("/s.json", "", []byte("{}"), time.Now())
	require.NoError(t, repo.Save(snap))
	require.Error(t, repo.Save(snap))
}

func TestSnapshotRepository_ListNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Unix(1700000000, 0)
	var ids []string
	for i := range 3 {
		s := history.NewSnapshot("/s.json", "", []byte{byte('a' + i)}, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Save(s))
		ids = append(ids, s.ID)
	}
	require.NoError(t, repo.Save(history.NewSnapshot("/other.json", "", []byte("x"), base)))

	all, err := repo.List("/s.json", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ids[2], all[0].ID)
	require.Equal(t, ids[0], all[2].ID)

	one, err := repo.List("/s.json", 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	require.Equal(t, ids[2], one[0].ID)

	none, err := repo.List("/missing.json", 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSnapshotRepository_Prune(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Unix(1700000000, 0)
	for i := range 5 {
		require.NoError(t, repo.Save(history.NewSnapshot("/s.json", "", []byte("x"), base.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, repo.Save(history.NewSnapshot("/other.json", "", []byte("x"), base)))

	n, err := repo.Prune("/s.json", 2)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	left, err := repo.List("/s.json", 0)
	require.NoError(t, err)
	require.Len(t, left, 2)
	require.Equal(t, base.Add(4*time.Second).UnixNano(), left[0].CreatedAt.UnixNano())

	other, err := repo.List("/other.json", 0)
	require.NoError(t, err)
	require.Len(t, other, 1)
}

// TestSnapshotRepository_PathIsolation is a property-based test using rapid.
func TestSnapshotRepository_PathIsolation(t *testing.T) {
	repo := setupTestRepo(t)
	rapid.Check(t, func(r *rapid.T) {
		path := rapid.StringMatching(`/cfg-[a-z]{6,10}\.json`).Draw(r, "path")
		n := rapid.IntRange(1, 6).Draw(r, "n")
		before, err := repo.List(path, 0)
		require.NoError(r, err)

		for i := range n {
			doc := rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(r, "doc")
			require.NoError(r, repo.Save(history.NewSnapshot(path, "", doc, time.Unix(int64(i), 0))))
		}

		after, err := repo.List(path, 0)
		require.NoError(r, err)
		require.Len(r, after, len(before)+n)
		for _, s := range after {
			require.Equal(r, path, s.Path)
		}
	})
}

package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegionRepositoryLoadsOrderedSet(t *testing.T) {
	repo, err := NewRegionRepository(filepath.Join("testdata", "regions.json"))
	require.NoError(t, err)

	require.Equal(t, 3, repo.Count())

	all := repo.GetAll()
	require.Equal(t, "north_ridge", all[0].ID)
	require.Equal(t, "silver-coast", all[1].ID)
	require.Equal(t, "high_mesa", all[2].ID)
}

func TestGetByID(t *testing.T) {
	repo, err := NewRegionRepository(filepath.Join("testdata", "regions.json"))
	require.NoError(t, err)

	region, err := repo.GetByID("high_mesa")
	require.NoError(t, err)
	require.Equal(t, "The High Mesa", region.Name())
	require.Equal(t, "mesa_long", region.Cue())

	_, err = repo.GetByID("atlantis")
	require.ErrorIs(t, err, ErrRegionNotFound)
	require.False(t, repo.Exists("atlantis"))
	require.True(t, repo.Exists("north_ridge"))
}

func TestGetRandomStaysInSet(t *testing.T) {
	repo, err := NewRegionRepository(filepath.Join("testdata", "regions.json"))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		region, err := repo.GetRandom()
		require.NoError(t, err)
		require.True(t, repo.Exists(region.ID))
	}
}

func TestNewRegionRepositoryRejectsBadInput(t *testing.T) {
	_, err := NewRegionRepository(filepath.Join("testdata", "missing.json"))
	require.Error(t, err)

	empty := writeTempJSON(t, `{"regions": []}`)
	_, err = NewRegionRepository(empty)
	require.ErrorIs(t, err, ErrEmptyRegistry)

	dup := writeTempJSON(t, `{"regions": [{"id": "a"}, {"id": "a"}]}`)
	_, err = NewRegionRepository(dup)
	require.ErrorContains(t, err, "duplicate region id")

	noID := writeTempJSON(t, `{"regions": [{"display_name": "Nameless"}]}`)
	_, err = NewRegionRepository(noID)
	require.ErrorContains(t, err, "empty id")
}

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreboardKeepsBestResult(t *testing.T) {
	sb := NewScoreboard()

	require.True(t, sb.Record(1, "@ada", 6, 12))
	require.False(t, sb.Record(1, "@ada", 5, 12), "worse result must not replace the best")
	require.True(t, sb.Record(1, "@ada", 12, 12))

	top := sb.Top(10)
	require.Len(t, top, 1)
	require.Equal(t, 100, top[0].Percentage)
}

func TestScoreboardOrdersBestFirst(t *testing.T) {
	sb := NewScoreboard()
	sb.Record(1, "@ada", 6, 12)
	sb.Record(2, "@linus", 12, 12)
	sb.Record(3, "@grace", 9, 12)

	top := sb.Top(2)
	require.Len(t, top, 2)
	require.Equal(t, "@linus", top[0].Name)
	require.Equal(t, "@grace", top[1].Name)

	rank, entry := sb.Position(1)
	require.Equal(t, 3, rank)
	require.Equal(t, "@ada", entry.Name)

	rank, _ = sb.Position(99)
	require.Equal(t, -1, rank)
}

func TestScoreboardIgnoresInvalidTotals(t *testing.T) {
	sb := NewScoreboard()
	require.False(t, sb.Record(1, "@ada", 0, 0))
	require.Empty(t, sb.Top(10))
}

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acheong08/mavenlicenses/internal/parser"
	"github.com/acheong08/mavenlicenses/pkg/models"
)

func TestBuildPreservesLockOrder(t *testing.T) {
	entries := []models.LockEntry{
		{Coord: "a.group:alpha:1.0", URL: "https://x/alpha-1.0.jar"},
		{Coord: "b.group:beta:2.0", URL: "https://x/beta-2.0.jar"},
		{Coord: "c.group:gamma:3.0", URL: "https://x/gamma-3.0.jar"},
	}
	// Unordered on purpose; membership is all that matters
	targets := []string{"c_group_gamma", "a_group_alpha", "unrelated_target"}

	deps, err := Build(entries, targets)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	assert.Equal(t, 0, deps[0].Index)
	assert.Equal(t, "a.group:alpha:1.0", deps[0].Entry.Coord)
	assert.Equal(t, "a_group_alpha", deps[0].TargetName)

	assert.Equal(t, 1, deps[1].Index)
	assert.Equal(t, "c.group:gamma:3.0", deps[1].Entry.Coord)
	assert.Equal(t, "https://x/gamma-3.0.jar", deps[1].Entry.URL)
}

func TestBuildNoMatches(t *testing.T) {
	deps, err := Build([]models.LockEntry{{Coord: "a:b:1"}}, nil)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestBuildMalformedCoordinate(t *testing.T) {
	_, err := Build([]models.LockEntry{{Coord: "a:b:1"}, {Coord: "broken"}}, []string{"a_b"})
	assert.ErrorIs(t, err, parser.ErrMalformedCoordinate)
}

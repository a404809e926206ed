package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegionList() *RegionList {
	return &RegionList{
		UpdatedAt: "2024-01-01T00:00:00Z",
		Regions: []Region{
			{ZipPrefix: "26", RegionID: "DE94", Name: "Weser-Ems"},
			{ZipPrefix: "261", RegionID: "DE943", Name: "Oldenburg"},
			{ZipPrefix: "1", RegionID: "DED2", Name: "Dresden"},
		},
	}
}

func TestRegionIndex_LongestPrefixWins(t *testing.T) {
	ri := NewRegionIndex(testRegionList())

	got, err := ri.Resolve("26122")
	require.NoError(t, err)
	assert.Equal(t, "DE943", got)

	got, err = ri.Resolve("26919")
	require.NoError(t, err)
	assert.Equal(t, "DE94", got)
}

func TestRegionIndex_NoMatch(t *testing.T) {
	ri := NewRegionIndex(testRegionList())
	_, err := ri.Resolve("99999")
	assert.Error(t, err)

	_, err = ri.Resolve("  ")
	assert.Error(t, err)
}

func TestRegionIndex_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.json")
	require.NoError(t, SaveRegionList(testRegionList(), path))

	ri, err := LoadRegionIndex(path)
	require.NoError(t, err)

	got, err := ri.Resolve("26122")
	require.NoError(t, err)
	assert.Equal(t, "DE943", got)
}

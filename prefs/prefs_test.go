package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRoundTrip(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSort("employee")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, s.SaveSort("employee", "firstName,desc"))
	require.NoError(t, s.SaveSort("asset", "number,asc"))

	got, err = s.LoadSort("employee")
	require.NoError(t, err)
	assert.Equal(t, "firstName,desc", got)

	all, err := s.Sorts()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"employee": "firstName,desc", "asset": "number,asc"}, all)

	require.NoError(t, s.SaveSort("employee", ""))
	got, err = s.LoadSort("employee")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveTab("assetHistory"))
	require.NoError(t, s.SaveSort("asset", "brand,asc"))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	tab, err := s.LoadTab()
	require.NoError(t, err)
	assert.Equal(t, "assetHistory", tab)

	sort, err := s.LoadSort("asset")
	require.NoError(t, err)
	assert.Equal(t, "brand,asc", sort)
}

func TestReset(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSort("asset", "brand,asc"))
	require.NoError(t, s.Reset())

	all, err := s.Sorts()
	require.NoError(t, err)
	assert.Empty(t, all)
}

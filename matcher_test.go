package licensepatterns

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) []uint64 {
	t.Helper()
	h, err := ParsePattern(text)
	require.NoError(t, err)
	return h
}

func TestParsePatternStripsLeadingAndTrailingSkips(t *testing.T) {
	h, err := ParsePattern("$skip5 copyright $skip3")
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Greater(t, h[0], uint64(99))
}

func TestParsePatternRejectsAllSkipMarkers(t *testing.T) {
	_, err := ParsePattern("$skip5 $skip3")
	assert.Error(t, err)
}

func TestFindMatchesExactPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/license.txt", []byte(
		"Copyright (c) 2020 Example Corp\nAll rights reserved\n"), 0o644))

	m := NewMatcher().WithFS(fs)
	require.NoError(t, m.AddPattern(1, mustParse(t, "copyright $skip10 all rights reserved")))

	matches := m.FindMatches("/license.txt")
	require.Len(t, matches, 1)
	assert.Equal(t, uint32(1), matches[0].Pid)
	assert.Equal(t, 1, matches[0].SLine)
	assert.Equal(t, 2, matches[0].ELine)
}

func TestFindMatchesMissingFileReturnsEmpty(t *testing.T) {
	m := NewMatcher().WithFS(afero.NewMemMapFs())
	assert.Empty(t, m.FindMatches("/does/not/exist.txt"))
}

func TestFindMatchesPrefersLongerOverlappingPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f.txt", []byte("alpha beta gamma delta\n"), 0o644))

	m := NewMatcher().WithFS(fs)
	require.NoError(t, m.AddPattern(1, mustParse(t, "alpha beta")))
	require.NoError(t, m.AddPattern(2, mustParse(t, "alpha beta gamma delta")))

	matches := m.FindMatches("/f.txt")
	require.Len(t, matches, 1)
	assert.Equal(t, uint32(2), matches[0].Pid)
}

func TestDumpLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.idx")

	src := NewMatcher()
	require.NoError(t, src.AddPattern(7, mustParse(t, "mit license permission")))
	require.NoError(t, src.Dump(path))

	loaded := NewMatcher()
	require.NoError(t, loaded.Load(path))
	defer loaded.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f.txt", []byte("mit license permission granted\n"), 0o644))
	loaded = loaded.WithFS(fs)

	matches := loaded.FindMatches("/f.txt")
	require.Len(t, matches, 1)
	assert.Equal(t, uint32(7), matches[0].Pid)
}

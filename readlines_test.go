package licensepatterns

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinesRetrievesTaggedLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/f.txt", []byte("one\ntwo\nthree\nfour\n"), 0o644))

	m := NewMatcher().WithFS(fs)
	results := m.ReadLines("/f.txt", map[int]uint64{2: 100, 4: 200})

	require.Len(t, results, 2)
	byLine := map[int]LineResult{}
	for _, r := range results {
		byLine[r.Line] = r
	}
	assert.Equal(t, "two", byLine[2].Text)
	assert.Equal(t, uint64(100), byLine[2].Tag)
	assert.Equal(t, "four", byLine[4].Text)
}

func TestReadLinesStopsOnceAllRequestedFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	// A trailing body of filler lines after the requested line. We can't
	// easily assert early-exit via
	// timing, so instead assert correctness: only the requested line comes
	// back even though much more file remains.
	big := make([]byte, 0, 100)
	big = append(big, []byte("first\n")...)
	for i := 0; i < 10; i++ {
		big = append(big, []byte("filler\n")...)
	}
	require.NoError(t, afero.WriteFile(fs, "/f.txt", big, 0o644))

	m := NewMatcher().WithFS(fs)
	results := m.ReadLines("/f.txt", map[int]uint64{1: 1})
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Text)
}

func TestReadLinesEmptyRequestReturnsNil(t *testing.T) {
	m := NewMatcher().WithFS(afero.NewMemMapFs())
	assert.Nil(t, m.ReadLines("/anything.txt", nil))
}

func TestReadLinesMissingFileReturnsEmpty(t *testing.T) {
	m := NewMatcher().WithFS(afero.NewMemMapFs())
	assert.Empty(t, m.ReadLines("/missing.txt", map[int]uint64{1: 1}))
}

package bagofpatterns

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestForRanksExactMatchHighest(t *testing.T) {
	b := New()
	b.SetPatterns(map[uint32]string{
		1: "the gnu general public license",
		2: "the mit license permission is hereby granted",
		3: "apache license version two",
	})

	results := b.BestFor("the gnu general public license", 3)
	require.Len(t, results, 3)
	assert.Equal(t, uint32(1), results[0].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestBestForRespectsCount(t *testing.T) {
	b := New()
	b.SetPatterns(map[uint32]string{
		1: "alpha beta gamma",
		2: "delta epsilon zeta",
		3: "eta theta iota",
	})
	results := b.BestFor("alpha beta", 2)
	assert.Len(t, results, 2)
}

func TestBestForUnknownTermsScoreZeroContribution(t *testing.T) {
	b := New()
	b.SetPatterns(map[uint32]string{1: "known terms only"})
	results := b.BestFor("completely unrelated gibberish words", 1)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

func TestCollapseRunsPreventsGlyphRunDomination(t *testing.T) {
	hashes := collapseRuns([]uint64{7, 7, 7, 7, 9})
	assert.Equal(t, []uint64{7, 9}, hashes)
}

func TestDumpLoadRoundTrip(t *testing.T) {
	b := New()
	b.SetPatterns(map[uint32]string{
		1: "the gnu general public license",
		2: "the mit license permission is hereby granted",
	})

	var buf bytes.Buffer
	require.NoError(t, b.Dump(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	before := b.BestFor("the gnu general public license", 2)
	after := loaded.BestFor("the gnu general public license", 2)
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.InDelta(t, before[i].Score, after[i].Score, 1e-9)
	}
}

func TestLoadRejectsCorruptData(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not a bag file")))
	assert.Error(t, err)
}

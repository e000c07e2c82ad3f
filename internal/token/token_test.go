package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	toks := Tokenize(nil, []byte("Copyright (c) 2020 The Free Software Foundation, Inc."), 1)
	assert.Equal(t, []string{"copyright", "c", "2020", "the", "free", "software", "foundation", "inc"}, texts(toks))
}

func TestTokenizeIsDeterministic(t *testing.T) {
	line := []byte("Some Text With MIXED Case.")
	a := Tokenize(nil, line, 1)
	b := Tokenize(nil, line, 1)
	require.Equal(t, texts(a), texts(b))
	for i := range a {
		assert.Equal(t, a[i].Hash, b[i].Hash)
	}
}

func TestTokenizeDropsIgnoredGlyphs(t *testing.T) {
	toks := Tokenize(nil, []byte("dnl this is an m4 comment"), 1)
	assert.NotContains(t, texts(toks), "dnl")
}

func TestTokenizeSingleSeparatorEmitsOwnToken(t *testing.T) {
	toks := Tokenize(nil, []byte("a=b"), 1)
	assert.Equal(t, []string{"a", "=", "b"}, texts(toks))
}

func TestTokenizeTrailingDotStripped(t *testing.T) {
	toks := Tokenize(nil, []byte("inc."), 1)
	require.Len(t, toks, 1)
	assert.Equal(t, "inc", toks[0].Text)
}

func TestTokenizeDropsPureNonAlnum(t *testing.T) {
	toks := Tokenize(nil, []byte("___ word"), 1)
	assert.Equal(t, []string{"word"}, texts(toks))
}

func TestTokenizeSkipPlaceholderOnlyInPatternMode(t *testing.T) {
	patternToks := Tokenize(nil, []byte("a $skip5 b"), 0)
	require.Len(t, patternToks, 3)
	assert.Equal(t, uint64(5), patternToks[1].Hash)

	fileToks := Tokenize(nil, []byte("a $skip5 b"), 1)
	require.Len(t, fileToks, 3)
	assert.Greater(t, fileToks[1].Hash, uint64(MaxSkip))
}

func TestTokenizeSkipPlaceholderRejectsOverMax(t *testing.T) {
	toks := Tokenize(nil, []byte("$skip100"), 0)
	require.Len(t, toks, 1)
	assert.Greater(t, toks[0].Hash, uint64(MaxSkip))
}

func TestTokenizeSkipPlaceholderRejectsNonNumeric(t *testing.T) {
	toks := Tokenize(nil, []byte("$skipN"), 0)
	require.Len(t, toks, 1)
	assert.Greater(t, toks[0].Hash, uint64(MaxSkip))
}

func TestTokenizeAllRealHashesExceedMaxSkip(t *testing.T) {
	toks := Tokenize(nil, []byte("The quick brown fox jumps over 42 lazy dogs"), 1)
	for _, tok := range toks {
		assert.Greater(t, tok.Hash, uint64(MaxSkip))
	}
}

func TestTokenizeTruncatesOverlongTokens(t *testing.T) {
	long := make([]byte, MaxTokenLength+50)
	for i := range long {
		long[i] = 'a'
	}
	toks := Tokenize(nil, long, 1)
	require.Len(t, toks, 1)
	assert.Len(t, toks[0].Text, MaxTokenLength)
}

func TestIgnoreIdempotence(t *testing.T) {
	line := []byte("// Copyright (c) 2020 Example Corp. dnl")
	first := Tokenize(nil, line, 1)
	roundtrip := make([]byte, 0)
	for i, tok := range first {
		if i > 0 {
			roundtrip = append(roundtrip, ' ')
		}
		roundtrip = append(roundtrip, []byte(tok.Text)...)
	}
	second := Tokenize(nil, roundtrip, 1)
	assert.Equal(t, texts(first), texts(second))
}

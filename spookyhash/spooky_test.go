package spookyhash

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash64Deterministic(t *testing.T) {
	data := []byte("copyright free software foundation")
	h1 := Hash64(data, 1)
	h2 := Hash64(data, 1)
	assert.Equal(t, h1, h2)
}

func TestHash64DiffersBySeed(t *testing.T) {
	data := []byte("the quick brown fox")
	assert.NotEqual(t, Hash64(data, 1), Hash64(data, 2))
}

func TestHash64DiffersByInput(t *testing.T) {
	assert.NotEqual(t, Hash64([]byte("a"), 1), Hash64([]byte("b"), 1))
}

func TestHash128ShortAndEmpty(t *testing.T) {
	h1, h2 := Hash128(nil, 1, 1)
	require.NotPanics(t, func() { Hash128(nil, 1, 1) })
	assert.NotEqual(t, uint64(0), h1|h2, "zero-length digest should not be all-zero")
}

func TestHash128LongPath(t *testing.T) {
	// bufSize is 192 bytes; exceed it to exercise the block-mixing path.
	data := bytes.Repeat([]byte("0123456789abcdef"), 20)
	require.True(t, len(data) >= bufSize)
	h1a, h2a := Hash128(data, 7, 9)
	h1b, h2b := Hash128(data, 7, 9)
	assert.Equal(t, h1a, h1b)
	assert.Equal(t, h2a, h2b)

	h1c, _ := Hash128(append(append([]byte{}, data...), '!'), 7, 9)
	assert.NotEqual(t, h1a, h1c)
}

func TestStreamingHashMatchesOneShot(t *testing.T) {
	h := New(3, 5)
	_, _ = h.Write([]byte("hello "))
	_, _ = h.Write([]byte("world"))
	got1, got2 := h.Sum128()
	want1, want2 := Hash128([]byte("hello world"), 3, 5)
	assert.Equal(t, want1, got1)
	assert.Equal(t, want2, got2)
}

func TestStreamingHashReset(t *testing.T) {
	h := New(1, 1)
	_, _ = h.Write([]byte("first"))
	h.Reset(1, 1)
	_, _ = h.Write([]byte("second"))
	got1, got2 := h.Sum128()
	want1, want2 := Hash128([]byte("second"), 1, 1)
	assert.Equal(t, want1, got1)
	assert.Equal(t, want2, got2)
}

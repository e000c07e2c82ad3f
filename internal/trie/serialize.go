package trie

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MarshalBinary encodes the index per the fixed on-disk layout: longest
// pattern length, vector sizes, then every TrieNode and AA-tree cell
// written inline in arena order. The index-0 sentinels are not written,
// but the vector sizes count them, so load can restore indices verbatim
// without any remapping.
func (ix *Index) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	var scratch [8]byte
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:8], v)
		buf.Write(scratch[:8])
	}
	putI64 := func(v int64) { putU64(uint64(v)) }
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		buf.Write(scratch[:4])
	}
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(scratch[:2], v)
		buf.Write(scratch[:2])
	}
	putU8 := func(v uint8) { buf.WriteByte(v) }

	putI64(int64(ix.LongestPattern))
	putU32(uint32(len(ix.Arena.Trees)))
	putU32(uint32(len(ix.Arena.Nodes)))

	for i := 1; i < len(ix.Arena.Trees); i++ {
		n := ix.Arena.Trees[i]
		putU32(n.Pid)
		putU8(uint8(len(n.Skips)))
		for _, s := range n.Skips {
			putU8(s.N)
			putU32(s.Child)
		}
		putU32(n.Root)
	}

	for i := 1; i < len(ix.Arena.Nodes); i++ {
		n := ix.Arena.Nodes[i]
		putU64(n.Element)
		putU32(n.Left)
		putU32(n.Right)
		putU16(n.Level)
		putU32(n.NextTree)
	}

	putU32(ix.Root)
	return buf.Bytes(), nil
}

// Unmarshal decodes a payload produced by Index.MarshalBinary. The
// returned index's arena is backed by freshly allocated slices; data is
// not retained after this call returns (so the caller is free to discard
// or unmap the source buffer).
func Unmarshal(data []byte) (*Index, error) {
	r := &byteReader{buf: data}

	longest := r.i64()
	treeCount := r.u32()
	nodeCount := r.u32()
	if err := r.err; err != nil {
		return nil, fmt.Errorf("trie: decode header: %w", err)
	}

	arena := &Arena{
		Trees: make([]trieNode, treeCount),
		Nodes: make([]aaNode, nodeCount),
	}

	for i := uint32(1); i < treeCount; i++ {
		pid := r.u32()
		skipCount := r.u8()
		skips := make([]skipEdge, skipCount)
		for j := range skips {
			skips[j] = skipEdge{N: r.u8(), Child: r.u32()}
		}
		root := r.u32()
		if r.err != nil {
			return nil, fmt.Errorf("trie: decode tree node %d: %w", i, r.err)
		}
		arena.Trees[i] = trieNode{Pid: pid, Root: root, Skips: skips}
	}

	for i := uint32(1); i < nodeCount; i++ {
		element := r.u64()
		left := r.u32()
		right := r.u32()
		level := r.u16()
		nextTree := r.u32()
		if r.err != nil {
			return nil, fmt.Errorf("trie: decode aa node %d: %w", i, r.err)
		}
		arena.Nodes[i] = aaNode{Element: element, Left: left, Right: right, Level: level, NextTree: nextTree}
	}

	root := r.u32()
	if r.err != nil {
		return nil, fmt.Errorf("trie: decode root: %w", r.err)
	}
	if root >= treeCount {
		return nil, fmt.Errorf("trie: pattern tree root index %d out of bounds (%d trees)", root, treeCount)
	}

	return &Index{
		Arena:          arena,
		Root:           root,
		LongestPattern: int(longest),
	}, nil
}

// byteReader is a minimal bounds-checked little-endian cursor; the first
// out-of-bounds read latches err and every subsequent read becomes a no-op,
// so callers can decode a whole structure and check err once at the end.
type byteReader struct {
	buf []byte
	pos int
	err error
}

func (r *byteReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("unexpected end of buffer at offset %d (need %d bytes)", r.pos, n)
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *byteReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *byteReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *byteReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *byteReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *byteReader) i64() int64 { return int64(r.u64()) }

// Package spookyhash implements Bob Jenkins' SpookyV2, a fast
// non-cryptographic 128-bit hash. It backs token and stream hashing for the
// pattern matcher; the 64-bit form used for tokens is the first half of the
// 128-bit result.
package spookyhash

import (
	"encoding/binary"
	"math/bits"
)

const (
	numVars  = 12
	blockSize = numVars * 8
	bufSize   = 2 * blockSize
	scConst   = uint64(0xdeadbeefdeadbeef)
)

// Hash64 returns the 64-bit SpookyV2 hash of data with the given seed. It is
// equivalent to taking the first word of Hash128(data, seed, seed).
func Hash64(data []byte, seed uint64) uint64 {
	h1, _ := Hash128(data, seed, seed)
	return h1
}

// Hash128 returns the 128-bit SpookyV2 hash of data for the given seed pair.
func Hash128(data []byte, seed1, seed2 uint64) (uint64, uint64) {
	if len(data) < bufSize {
		return short(data, seed1, seed2)
	}
	return long(data, seed1, seed2)
}

// Hash is a streaming SpookyV2 digest. Unlike the reference implementation,
// which mixes fixed-size blocks as they arrive, this buffers all written
// bytes and hashes them on Sum128; callers streaming gigabytes through it
// should chunk externally.
type Hash struct {
	seed1, seed2 uint64
	buf          []byte
}

// New returns a streaming hash seeded with seed1, seed2.
func New(seed1, seed2 uint64) *Hash {
	return &Hash{seed1: seed1, seed2: seed2}
}

// Write appends p to the pending digest input. It never returns an error.
func (h *Hash) Write(p []byte) (int, error) {
	h.buf = append(h.buf, p...)
	return len(p), nil
}

// Sum128 returns the 128-bit digest of everything written so far.
func (h *Hash) Sum128() (uint64, uint64) {
	return Hash128(h.buf, h.seed1, h.seed2)
}

// Reset clears pending input and reseeds the digest.
func (h *Hash) Reset(seed1, seed2 uint64) {
	h.seed1, h.seed2 = seed1, seed2
	h.buf = h.buf[:0]
}

func rot64(x uint64, k uint) uint64 {
	return bits.RotateLeft64(x, int(k))
}

func le64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off:])
}

// short implements SpookyShortHash, used for inputs under bufSize bytes.
func short(data []byte, seed1, seed2 uint64) (uint64, uint64) {
	a, b := seed1, seed2
	c, d := scConst, scConst

	length := len(data)
	remainder := length % 32
	pos := 0

	if length > 15 {
		end := pos + (length/32)*32
		for pos < end {
			c += le64(data, pos)
			d += le64(data, pos+8)
			a, b, c, d = shortMix(a, b, c, d)
			a += le64(data, pos+16)
			b += le64(data, pos+24)
			pos += 32
		}
		if remainder >= 16 {
			c += le64(data, pos)
			d += le64(data, pos+8)
			a, b, c, d = shortMix(a, b, c, d)
			pos += 16
			remainder -= 16
		}
	}

	d += uint64(length) << 56
	tail := data[pos : pos+remainder]
	switch remainder {
	case 15:
		d += uint64(tail[14]) << 48
		fallthrough
	case 14:
		d += uint64(tail[13]) << 40
		fallthrough
	case 13:
		d += uint64(tail[12]) << 32
		fallthrough
	case 12:
		d += uint64(tail[11]) << 24
		fallthrough
	case 11:
		d += uint64(tail[10]) << 16
		fallthrough
	case 10:
		d += uint64(tail[9]) << 8
		fallthrough
	case 9:
		d += uint64(tail[8])
		fallthrough
	case 8:
		c += le64(tail, 0)
	case 7:
		c += uint64(tail[6]) << 48
		fallthrough
	case 6:
		c += uint64(tail[5]) << 40
		fallthrough
	case 5:
		c += uint64(tail[4]) << 32
		fallthrough
	case 4:
		c += uint64(tail[3]) << 24
		fallthrough
	case 3:
		c += uint64(tail[2]) << 16
		fallthrough
	case 2:
		c += uint64(tail[1]) << 8
		fallthrough
	case 1:
		c += uint64(tail[0])
	case 0:
		c += scConst
		d += scConst
	}
	a, b, c, d = shortEnd(a, b, c, d)
	return a, b
}

func shortMix(h0, h1, h2, h3 uint64) (uint64, uint64, uint64, uint64) {
	h2 = rot64(h2, 50)
	h2 += h3
	h0 ^= h2
	h3 = rot64(h3, 52)
	h3 += h0
	h1 ^= h3
	h0 = rot64(h0, 30)
	h0 += h1
	h2 ^= h0
	h1 = rot64(h1, 41)
	h1 += h2
	h3 ^= h1
	h2 = rot64(h2, 54)
	h2 += h3
	h0 ^= h2
	h3 = rot64(h3, 48)
	h3 += h0
	h1 ^= h3
	h0 = rot64(h0, 38)
	h0 += h1
	h2 ^= h0
	h1 = rot64(h1, 37)
	h1 += h2
	h3 ^= h1
	h2 = rot64(h2, 62)
	h2 += h3
	h0 ^= h2
	h3 = rot64(h3, 34)
	h3 += h0
	h1 ^= h3
	h0 = rot64(h0, 5)
	h0 += h1
	h2 ^= h0
	h1 = rot64(h1, 36)
	h1 += h2
	h3 ^= h1
	return h0, h1, h2, h3
}

func shortEnd(h0, h1, h2, h3 uint64) (uint64, uint64, uint64, uint64) {
	h3 ^= h2
	h2 = rot64(h2, 15)
	h3 += h2
	h0 ^= h3
	h3 = rot64(h3, 52)
	h0 += h3
	h1 ^= h0
	h0 = rot64(h0, 26)
	h1 += h0
	h2 ^= h1
	h1 = rot64(h1, 51)
	h2 += h1
	h3 ^= h2
	h2 = rot64(h2, 28)
	h3 += h2
	h0 ^= h3
	h3 = rot64(h3, 9)
	h0 += h3
	h1 ^= h0
	h0 = rot64(h0, 47)
	h1 += h0
	h2 ^= h1
	h1 = rot64(h1, 54)
	h2 += h1
	h3 ^= h2
	h2 = rot64(h2, 32)
	h3 += h2
	h0 ^= h3
	h3 = rot64(h3, 25)
	h0 += h3
	h1 ^= h0
	h0 = rot64(h0, 63)
	h1 += h0
	return h0, h1, h2, h3
}

// long implements SpookyHash's block-mixing path for inputs >= bufSize bytes.
func long(data []byte, seed1, seed2 uint64) (uint64, uint64) {
	var s [numVars]uint64
	s[0], s[3], s[6], s[9] = seed1, seed1, seed1, seed1
	s[1], s[4], s[7], s[10] = seed2, seed2, seed2, seed2
	s[2], s[5], s[8], s[11] = scConst, scConst, scConst, scConst

	length := len(data)
	pos := 0
	for pos+blockSize <= length {
		var block [numVars]uint64
		for i := 0; i < numVars; i++ {
			block[i] = le64(data, pos+i*8)
		}
		mix(&block, &s)
		pos += blockSize
	}

	// Final partial (or exactly-full) block, padded with zero and tagged
	// with the true remaining length in the last byte, per SpookyV2's End.
	remainder := length - pos
	var tail [blockSize]byte
	copy(tail[:], data[pos:])
	tail[blockSize-1] = byte(remainder)
	var block [numVars]uint64
	for i := 0; i < numVars; i++ {
		block[i] = le64(tail[:], i*8)
	}

	for i := 0; i < numVars; i++ {
		s[i] += block[i]
	}
	endPartial(&s)
	endPartial(&s)
	endPartial(&s)

	return s[0], s[1]
}

func mix(data, s *[numVars]uint64) {
	s[0] += data[0]
	s[2] ^= s[10]
	s[11] ^= s[0]
	s[0] = rot64(s[0], 11)
	s[11] += s[1]

	s[1] += data[1]
	s[3] ^= s[11]
	s[0] ^= s[1]
	s[1] = rot64(s[1], 32)
	s[0] += s[2]

	s[2] += data[2]
	s[4] ^= s[0]
	s[1] ^= s[2]
	s[2] = rot64(s[2], 43)
	s[1] += s[3]

	s[3] += data[3]
	s[5] ^= s[1]
	s[2] ^= s[3]
	s[3] = rot64(s[3], 31)
	s[2] += s[4]

	s[4] += data[4]
	s[6] ^= s[2]
	s[3] ^= s[4]
	s[4] = rot64(s[4], 17)
	s[3] += s[5]

	s[5] += data[5]
	s[7] ^= s[3]
	s[4] ^= s[5]
	s[5] = rot64(s[5], 28)
	s[4] += s[6]

	s[6] += data[6]
	s[8] ^= s[4]
	s[5] ^= s[6]
	s[6] = rot64(s[6], 39)
	s[5] += s[7]

	s[7] += data[7]
	s[9] ^= s[5]
	s[6] ^= s[7]
	s[7] = rot64(s[7], 57)
	s[6] += s[8]

	s[8] += data[8]
	s[10] ^= s[6]
	s[7] ^= s[8]
	s[8] = rot64(s[8], 55)
	s[7] += s[9]

	s[9] += data[9]
	s[11] ^= s[7]
	s[8] ^= s[9]
	s[9] = rot64(s[9], 54)
	s[8] += s[10]

	s[10] += data[10]
	s[0] ^= s[8]
	s[9] ^= s[10]
	s[10] = rot64(s[10], 22)
	s[9] += s[11]

	s[11] += data[11]
	s[1] ^= s[9]
	s[10] ^= s[11]
	s[11] = rot64(s[11], 46)
	s[10] += s[0]
}

// endPartial is SpookyV2's EndPartial: three successive calls, with the
// final block's data already folded into s beforehand, finish the mix.
func endPartial(s *[numVars]uint64) {
	s[11] += s[1]
	s[2] ^= s[11]
	s[1] = rot64(s[1], 44)

	s[0] += s[2]
	s[3] ^= s[0]
	s[2] = rot64(s[2], 15)

	s[1] += s[3]
	s[4] ^= s[1]
	s[3] = rot64(s[3], 34)

	s[2] += s[4]
	s[5] ^= s[2]
	s[4] = rot64(s[4], 21)

	s[3] += s[5]
	s[6] ^= s[3]
	s[5] = rot64(s[5], 38)

	s[4] += s[6]
	s[7] ^= s[4]
	s[6] = rot64(s[6], 33)

	s[5] += s[7]
	s[8] ^= s[5]
	s[7] = rot64(s[7], 10)

	s[6] += s[8]
	s[9] ^= s[6]
	s[8] = rot64(s[8], 13)

	s[7] += s[9]
	s[10] ^= s[7]
	s[9] = rot64(s[9], 38)

	s[8] += s[10]
	s[11] ^= s[8]
	s[10] = rot64(s[10], 53)

	s[9] += s[11]
	s[0] ^= s[9]
	s[11] = rot64(s[11], 42)

	s[10] += s[0]
	s[1] ^= s[10]
	s[0] = rot64(s[0], 54)
}

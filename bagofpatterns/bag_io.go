package bagofpatterns

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/openSUSE/Spooky-Patterns-XS/internal/fileformat"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/obslog"
)

// Dump serializes the trained index to w: vocabulary size, then each
// (hash, idf) pair, then pattern count, then each pattern's id, norm, term
// count and (hash, value) pairs — all little-endian, framed with the same
// magic/version/checksum envelope as the pattern index.
func (b *Bag) Dump(w io.Writer) error {
	var buf bytes.Buffer
	var scratch [8]byte

	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:8], v)
		buf.Write(scratch[:8])
	}
	putF64 := func(v float64) { putU64(math.Float64bits(v)) }
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		buf.Write(scratch[:4])
	}

	hashes := make([]uint64, 0, len(b.idf))
	for h := range b.idf {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	putU64(uint64(len(hashes)))
	for _, h := range hashes {
		putU64(h)
		putF64(b.idf[h])
	}

	putU64(uint64(len(b.order)))
	for _, id := range b.order {
		pv := b.patterns[id]
		putU32(id)
		putF64(pv.Norm)
		putU64(uint64(len(pv.Terms)))
		for _, t := range pv.Terms {
			putU64(t.Hash)
			putF64(t.Value)
		}
	}

	return fileformat.WriteFramed(w, buf.Bytes())
}

// Load decodes a Bag previously written by Dump.
func Load(r io.Reader) (*Bag, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bagofpatterns: read: %w", err)
	}
	payload, err := fileformat.ReadFramed(raw)
	if err != nil {
		return nil, fmt.Errorf("bagofpatterns: %w", err)
	}

	cur := payload
	takeU64 := func() (uint64, error) {
		if len(cur) < 8 {
			return 0, fmt.Errorf("unexpected end of buffer")
		}
		v := binary.LittleEndian.Uint64(cur[:8])
		cur = cur[8:]
		return v, nil
	}
	takeU32 := func() (uint32, error) {
		if len(cur) < 4 {
			return 0, fmt.Errorf("unexpected end of buffer")
		}
		v := binary.LittleEndian.Uint32(cur[:4])
		cur = cur[4:]
		return v, nil
	}
	takeF64 := func() (float64, error) {
		bits, err := takeU64()
		return math.Float64frombits(bits), err
	}

	vocabSize, err := takeU64()
	if err != nil {
		return nil, fmt.Errorf("bagofpatterns: decode vocabulary size: %w", err)
	}
	idf := make(map[uint64]float64, vocabSize)
	for i := uint64(0); i < vocabSize; i++ {
		h, err := takeU64()
		if err != nil {
			return nil, fmt.Errorf("bagofpatterns: decode term %d: %w", i, err)
		}
		v, err := takeF64()
		if err != nil {
			return nil, fmt.Errorf("bagofpatterns: decode term %d: %w", i, err)
		}
		idf[h] = v
	}

	patternCount, err := takeU64()
	if err != nil {
		return nil, fmt.Errorf("bagofpatterns: decode pattern count: %w", err)
	}
	patterns := make(map[uint32]patternVector, patternCount)
	order := make([]uint32, 0, patternCount)
	for i := uint64(0); i < patternCount; i++ {
		id, err := takeU32()
		if err != nil {
			return nil, fmt.Errorf("bagofpatterns: decode pattern %d: %w", i, err)
		}
		norm, err := takeF64()
		if err != nil {
			return nil, fmt.Errorf("bagofpatterns: decode pattern %d: %w", i, err)
		}
		termCount, err := takeU64()
		if err != nil {
			return nil, fmt.Errorf("bagofpatterns: decode pattern %d: %w", i, err)
		}
		terms := make([]term, termCount)
		for j := range terms {
			h, err := takeU64()
			if err != nil {
				return nil, fmt.Errorf("bagofpatterns: decode pattern %d term %d: %w", i, j, err)
			}
			v, err := takeF64()
			if err != nil {
				return nil, fmt.Errorf("bagofpatterns: decode pattern %d term %d: %w", i, j, err)
			}
			terms[j] = term{Hash: h, Value: v}
		}
		patterns[id] = patternVector{Norm: norm, Terms: terms}
		order = append(order, id)
	}

	return &Bag{idf: idf, patterns: patterns, order: order, Logger: obslog.Default}, nil
}

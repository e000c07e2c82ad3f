// Package bagofpatterns implements the bag-of-patterns classifier (C8): a
// TF-IDF cosine retriever over the same tokenization the trie matcher uses,
// offered as a "nearest patterns" suggestor for text that doesn't match any
// pattern exactly.
package bagofpatterns

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/openSUSE/Spooky-Patterns-XS/internal/obslog"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/token"
)

type term struct {
	Hash  uint64
	Value float64
}

type patternVector struct {
	Norm  float64
	Terms []term
}

// Bag is a trained TF-IDF index over a fixed pattern corpus.
type Bag struct {
	idf      map[uint64]float64
	patterns map[uint32]patternVector
	order    []uint32
	Logger   zerolog.Logger
}

// New returns an empty bag; call SetPatterns before querying it.
func New() *Bag {
	return &Bag{
		idf:      make(map[uint64]float64),
		patterns: make(map[uint32]patternVector),
		Logger:   obslog.Default,
	}
}

// SetPatterns rebuilds the whole index from patterns, replacing anything
// trained previously.
func (b *Bag) SetPatterns(patterns map[uint32]string) {
	ids := make([]uint32, 0, len(patterns))
	for id := range patterns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tf := make(map[uint32]map[uint64]int, len(ids))
	df := make(map[uint64]int)
	for _, id := range ids {
		counts := termCounts(patterns[id])
		tf[id] = counts
		for h := range counts {
			df[h]++
		}
	}

	n := float64(len(ids))
	idf := make(map[uint64]float64, len(df))
	for h, d := range df {
		idf[h] = math.Log(n / float64(d))
	}

	result := make(map[uint32]patternVector, len(ids))
	for _, id := range ids {
		terms, norm := buildVector(tf[id], idf)
		result[id] = patternVector{Norm: norm, Terms: terms}
	}

	b.idf = idf
	b.patterns = result
	b.order = ids
	b.Logger.Debug().Int("patterns", len(ids)).Int("vocabulary", len(idf)).Msg("bag of patterns rebuilt")
}

func buildVector(counts map[uint64]int, idf map[uint64]float64) ([]term, float64) {
	terms := make([]term, 0, len(counts))
	var sumSq float64
	for h, c := range counts {
		v := float64(c) * idf[h]
		terms = append(terms, term{Hash: h, Value: v})
		sumSq += v * v
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Hash < terms[j].Hash })
	return terms, math.Sqrt(sumSq)
}

// termCounts tokenizes text as a pattern body (skip markers count as
// ordinary terms here) and counts term frequency, after collapsing runs of
// adjacent identical hashes so a glyph run like "======" contributes once
// rather than dominating the vector.
func termCounts(text string) map[uint64]int {
	hashes := collapseRuns(hashesOf(text))
	counts := make(map[uint64]int, len(hashes))
	for _, h := range hashes {
		counts[h]++
	}
	return counts
}

func hashesOf(text string) []uint64 {
	toks := token.Tokenize(nil, []byte(text), 1)
	hashes := make([]uint64, len(toks))
	for i, t := range toks {
		hashes[i] = t.Hash
	}
	return hashes
}

func collapseRuns(hashes []uint64) []uint64 {
	if len(hashes) == 0 {
		return hashes
	}
	out := hashes[:1]
	for _, h := range hashes[1:] {
		if h != out[len(out)-1] {
			out = append(out, h)
		}
	}
	return out
}

// Result is one scored pattern from BestFor.
type Result struct {
	ID uint32
	// Score is the raw asymmetric cosine score: (q . v_p) / ||v_p||. The
	// corpus vector is normalised, the query is not.
	Score float64
	// Display is Score renormalised against the query's own norm and
	// rounded to 4 decimal places, for presenting to a person.
	Display float64
}

// BestFor scores every trained pattern against text and returns the top
// count results, highest score first; ties keep corpus order.
func (b *Bag) BestFor(text string, count int) []Result {
	qCounts := termCounts(text)
	q := make(map[uint64]float64, len(qCounts))
	var qSumSq float64
	for h, c := range qCounts {
		v := float64(c) * b.idf[h] // b.idf[h] is 0 for vocabulary never seen in training
		q[h] = v
		qSumSq += v * v
	}
	qNorm := math.Sqrt(qSumSq)

	results := make([]Result, 0, len(b.order))
	for _, id := range b.order {
		pv := b.patterns[id]
		var dot float64
		for _, t := range pv.Terms {
			if qv, ok := q[t.Hash]; ok {
				dot += qv * t.Value
			}
		}
		var score float64
		if pv.Norm > 0 {
			score = dot / pv.Norm
		}
		var display float64
		if qNorm > 0 {
			display = math.Round(score*10000/qNorm) / 10000
		}
		results = append(results, Result{ID: id, Score: score, Display: display})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if count >= 0 && count < len(results) {
		results = results[:count]
	}
	return results
}

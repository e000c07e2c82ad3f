// Package matchengine implements the matcher (C6): it walks a file's token
// stream through the pattern trie, visiting every pattern terminus
// reachable via concrete descent and skip-edge expansion, keeps the
// furthest one per anchor position as a raw candidate, then reduces the
// raw candidates to a non-overlapping best set.
package matchengine

import (
	"github.com/openSUSE/Spooky-Patterns-XS/internal/token"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/trie"
)

// Candidate is one raw match: Start and Matched are token indices (Start is
// absolute across the whole file; Matched is how many file tokens,
// including any absorbed by skips, this match consumed).
type Candidate struct {
	Start   int
	Matched int
	Pid     uint32
	SLine   int
	ELine   int
}

func endOf(c Candidate) int { return c.Start + c.Matched - 1 }

func overlaps(a, b Candidate) bool {
	aStart, aEnd := a.Start, endOf(a)
	bStart, bEnd := b.Start, endOf(b)
	if aStart >= bStart && aStart <= bEnd {
		return true
	}
	if aEnd >= bStart && aEnd <= bEnd {
		return true
	}
	return false
}

// walk is the recursive DFS over the trie starting at node, consuming
// tokens[offset:]. It returns the furthest terminus reached and the pid
// that terminates there; ties along one path resolve to the longest
// (offset strictly increases to win), matching check_token_matches'
// `last_match < offset` rule.
func walk(arena *trie.Arena, node uint32, tokens []token.Token, offset int) (bestEnd int, bestPid uint32) {
	for {
		if offset >= len(tokens) {
			if pid := arena.Pid(node); pid != 0 && bestEnd < offset {
				bestEnd = offset
				bestPid = pid
			}
			return bestEnd, bestPid
		}

		for _, edge := range arena.Skips(node) {
			for gap := 1; gap <= int(edge.N); gap++ {
				if offset+gap > len(tokens) {
					continue
				}
				end, pid := walk(arena, edge.Child, tokens, offset+gap)
				if bestEnd < end {
					bestEnd = end
					bestPid = pid
				}
			}
		}

		if pid := arena.Pid(node); pid != 0 && bestEnd < offset {
			bestEnd = offset
			bestPid = pid
		}

		next := arena.ChildOf(node, tokens[offset].Hash)
		if next == 0 {
			return bestEnd, bestPid
		}
		node = next
		offset++
	}
}

// candidateAt anchors a scan at tokens[i] by looking it up among the root's
// concrete children, then walking from there. windowOffset is added to i to
// report the file-absolute start index, for callers using a sliding token
// window (see Scanner).
func candidateAt(idx *trie.Index, tokens []token.Token, i int, windowOffset int) (Candidate, bool) {
	child := idx.Arena.ChildOf(idx.Root, tokens[i].Hash)
	if child == 0 {
		return Candidate{}, false
	}
	end, pid := walk(idx.Arena, child, tokens, i+1)
	if pid == 0 {
		return Candidate{}, false
	}
	return Candidate{
		Start:   windowOffset + i,
		Matched: end - i,
		Pid:     pid,
		SLine:   tokens[i].Line,
		ELine:   tokens[end-1].Line,
	}, true
}

// FindCandidates returns at most one raw candidate per anchor position in
// tokens, treating windowOffset as the absolute index of tokens[0]. Each
// candidate is the furthest terminus reached from its anchor; shorter
// termini along the same paths are not returned as candidates.
func FindCandidates(idx *trie.Index, tokens []token.Token, windowOffset int) []Candidate {
	var out []Candidate
	for i := range tokens {
		if c, ok := candidateAt(idx, tokens, i, windowOffset); ok {
			out = append(out, c)
		}
	}
	return out
}

// Reduce resolves overlapping candidates to the non-overlapping best set:
// repeatedly pick the longest remaining candidate (ties broken by larger
// pid), keep it, and discard every candidate whose token range overlaps it.
// Result order is discovery order of the chosen bests, matching the
// original's list-based reduction.
func Reduce(candidates []Candidate) []Candidate {
	remaining := append([]Candidate(nil), candidates...)
	var result []Candidate
	for len(remaining) > 0 {
		bestIdx := 0
		for i := 1; i < len(remaining); i++ {
			c, b := remaining[i], remaining[bestIdx]
			if c.Matched > b.Matched || (c.Matched == b.Matched && c.Pid > b.Pid) {
				bestIdx = i
			}
		}
		best := remaining[bestIdx]
		result = append(result, best)

		kept := remaining[:0]
		for _, c := range remaining {
			if !overlaps(c, best) {
				kept = append(kept, c)
			}
		}
		remaining = kept
	}
	return result
}

// Scanner implements §4.5's bounded-memory streaming scan: tokens
// accumulate as lines are fed in, and once the live window exceeds
// 100 * longestPattern tokens, the oldest tokens are scanned as candidate
// starts and evicted, keeping only the tail a match could still span into.
type Scanner struct {
	idx         *trie.Index
	tokens      []token.Token
	tokenOffset int
	candidates  []Candidate
}

// NewScanner returns a Scanner over idx. idx must not be mutated for the
// lifetime of the scanner.
func NewScanner(idx *trie.Index) *Scanner {
	return &Scanner{idx: idx}
}

func (s *Scanner) longest() int {
	if s.idx.LongestPattern < 1 {
		return 1
	}
	return s.idx.LongestPattern
}

// Feed tokenizes one physical line (or length-capped chunk — see
// internal/linescan) and, if the live token window has grown past the
// bound, scans and evicts its oldest prefix.
func (s *Scanner) Feed(line []byte, lineNumber int) {
	s.tokens = token.Tokenize(s.tokens, line, lineNumber)

	longest := s.longest()
	if len(s.tokens) <= longest*100 {
		return
	}
	erasing := len(s.tokens) - longest - 1
	for i := 0; i < erasing; i++ {
		if c, ok := candidateAt(s.idx, s.tokens, i, s.tokenOffset); ok {
			s.candidates = append(s.candidates, c)
		}
	}
	remainder := make([]token.Token, len(s.tokens)-erasing)
	copy(remainder, s.tokens[erasing:])
	s.tokens = remainder
	s.tokenOffset += erasing
}

// Finish scans whatever tokens remain in the live window and returns the
// overlap-reduced best set for the whole file.
func (s *Scanner) Finish() []Candidate {
	for i := range s.tokens {
		if c, ok := candidateAt(s.idx, s.tokens, i, s.tokenOffset); ok {
			s.candidates = append(s.candidates, c)
		}
	}
	return Reduce(s.candidates)
}

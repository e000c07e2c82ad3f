package licensepatterns

import (
	"strings"

	"github.com/openSUSE/Spooky-Patterns-XS/internal/token"
)

// NormalizedToken is one token as tokenized for display or debugging: it
// retains both the literal text and the line it came from.
type NormalizedToken struct {
	Line int
	Text string
	Hash uint64
}

// Normalize tokenizes text for display/debug purposes, treating it as a
// multi-line block: text is split on "\n" first and each line is
// tokenized independently with its own 1-based line number, rather than
// tokenized as one undivided blob — matching how pattern bodies authored
// as multi-line text are actually lexed line by line.
func Normalize(text string) []NormalizedToken {
	var out []NormalizedToken
	for i, line := range strings.Split(text, "\n") {
		toks := token.Tokenize(nil, []byte(line), i+1)
		for _, t := range toks {
			out = append(out, NormalizedToken{Line: t.Line, Text: t.Text, Hash: t.Hash})
		}
	}
	return out
}

// Distance computes the classic two-row Levenshtein edit distance between
// two hash sequences (insert, delete and substitute all cost 1), comparing
// elements by equality. Token text is irrelevant here — only the hash
// sequence matters, so this also works directly on ParsePattern output.
func Distance(a, b []uint64) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

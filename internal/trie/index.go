package trie

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openSUSE/Spooky-Patterns-XS/internal/obslog"
)

// Index is the pattern trie (C5): an Arena plus the root TrieNode that
// pattern_add walks from, and the running longest-pattern length the
// matching engine needs to bound its live token window.
type Index struct {
	Arena          *Arena
	Root           uint32
	LongestPattern int
	Logger         zerolog.Logger
}

// NewIndex returns an empty pattern index.
func NewIndex() *Index {
	a := NewArena()
	return &Index{Arena: a, Root: a.NewTrieNode(), Logger: obslog.Default}
}

// AddPattern inserts hashes (already parsed by ParsePattern, with
// $skipN markers as hash values <= MaxSkip) under id, walking from the
// root and allocating TrieNodes and skip edges as needed. An empty hash
// list is refused and logged rather than inserted. A duplicate pattern
// body, or a pattern whose terminus was already claimed by another id,
// logs a warning and overwrites the previous pid.
func (ix *Index) AddPattern(id uint32, hashes []uint64) error {
	if len(hashes) == 0 {
		ix.Logger.Error().Uint32("id", id).Msg("pattern add failed: empty token list")
		return fmt.Errorf("pattern %d: empty token list", id)
	}

	cur := ix.Root
	for _, h := range hashes {
		if h <= MaxSkip {
			cur = ix.Arena.EnsureSkip(cur, uint8(h))
		} else {
			cur = ix.Arena.EnsureChild(cur, h)
		}
	}

	if existing := ix.Arena.Pid(cur); existing != 0 {
		ix.Logger.Warn().Uint32("new_id", id).Uint32("old_id", existing).
			Msg("pattern id overwrites existing id")
	}
	ix.Arena.SetPid(cur, id)

	if len(hashes) > ix.LongestPattern {
		ix.LongestPattern = len(hashes)
	}
	return nil
}

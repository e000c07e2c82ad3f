package token

import "github.com/openSUSE/Spooky-Patterns-XS/spookyhash"

// ignoredTokens (C3) are single-token comment and markup glyphs that are
// pre-dropped regardless of which licence dialect's comment style produced
// them, so a single pattern matches text wrapped in any of them. A plain Go
// map is enough here: the set is small (15 entries), built once at package
// init, and never persisted — unlike the pattern trie, there is no
// serialization format to share this with, so the arena's AA-tree buys
// nothing a map doesn't already give for O(1) membership.
var ignoredHashes = func() map[uint64]struct{} {
	tokens := []string{
		"/", "//", "%", "%%", "dnl",
		"#~", ";;", "\"\"", "--", "#:",
		"\\", ">", "==", "::", "##",
	}
	set := make(map[uint64]struct{}, len(tokens))
	for _, tok := range tokens {
		set[spookyhash.Hash64([]byte(tok), hashSeed)] = struct{}{}
	}
	return set
}()

// IsIgnored reports whether hash belongs to the ignored-token set. Only
// real (non-skip) token hashes are ever checked; skip markers are handled
// before this is reached.
func IsIgnored(hash uint64) bool {
	_, ok := ignoredHashes[hash]
	return ok
}

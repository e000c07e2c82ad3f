// Package licensepatterns recognizes licence and boilerplate text embedded
// in source files by matching each file's token stream against a catalogue
// of registered patterns, returning non-overlapping best matches as
// (pattern id, start line, end line) ranges.
package licensepatterns

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/openSUSE/Spooky-Patterns-XS/internal/indexio"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/linescan"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/matchengine"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/obslog"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/token"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/trie"
)

// Match is one resolved, non-overlapping hit: the pattern that matched and
// the inclusive source line range it covers.
type Match struct {
	Pid   uint32
	SLine int
	ELine int
}

// Matcher holds one pattern index plus the resources (filesystem, logger,
// line-length cap) its matching operations use. It is single-threaded and
// stateful: see the concurrency note below.
//
// Concurrency: a Matcher must not be used for FindMatches concurrently with
// AddPattern or with another FindMatches call on the same instance. Once
// Dump has been called and the result reloaded with Load, the loaded
// Matcher's index is read-only and safe to share across goroutines, as long
// as each goroutine calls FindMatches with its own token buffers — which
// FindMatches already allocates per call.
type Matcher struct {
	index        *trie.Index
	fs           afero.Fs
	logger       zerolog.Logger
	maxLineBytes int
	loaded       *indexio.Loaded
}

// clone returns a shallow copy of m: the configuration fields are copied,
// while the index is shared with m rather than duplicated; used by the
// With* builder methods.
func (m *Matcher) clone() *Matcher {
	c := *m
	return &c
}

// NewMatcher returns a Matcher with an empty pattern index and default
// configuration: the real filesystem, the package default logger, and an
// 8000-byte line cap.
func NewMatcher() *Matcher {
	return &Matcher{
		index:        trie.NewIndex(),
		fs:           afero.NewOsFs(),
		logger:       obslog.Default,
		maxLineBytes: linescan.DefaultMaxLineBytes,
	}
}

// WithFS returns a copy of m reading files through fsys instead of the real
// filesystem — primarily for substituting afero.NewMemMapFs() in tests.
func (m *Matcher) WithFS(fsys afero.Fs) *Matcher {
	c := m.clone()
	c.fs = fsys
	return c
}

// WithLogger returns a copy of m logging through logger instead of the
// package default.
func (m *Matcher) WithLogger(logger zerolog.Logger) *Matcher {
	c := m.clone()
	c.logger = logger
	c.index.Logger = logger
	return c
}

// WithMaxLineBytes returns a copy of m capping scanned lines at n bytes
// instead of the 8000-byte default.
func (m *Matcher) WithMaxLineBytes(n int) *Matcher {
	c := m.clone()
	c.maxLineBytes = n
	return c
}

// Close releases the memory-mapped index file, if this Matcher was
// produced by Load. It is a no-op otherwise.
func (m *Matcher) Close() error {
	if m.loaded == nil {
		return nil
	}
	return m.loaded.Close()
}

// ParsePattern tokenizes a pattern body (treating "$skipN" as a placeholder
// rather than literal text) and returns its hash sequence, with any
// leading or trailing skip markers stripped so the result always begins
// and ends on a concrete token the matcher can anchor on. An error is
// returned if nothing concrete remains.
func ParsePattern(text string) ([]uint64, error) {
	toks := token.Tokenize(nil, []byte(text), 0)
	hashes := make([]uint64, len(toks))
	for i, t := range toks {
		hashes[i] = t.Hash
	}

	start := 0
	for start < len(hashes) && hashes[start] <= token.MaxSkip {
		start++
	}
	end := len(hashes)
	for end > start && hashes[end-1] <= token.MaxSkip {
		end--
	}
	hashes = hashes[start:end]

	if len(hashes) == 0 {
		return nil, fmt.Errorf("licensepatterns: pattern %q has no concrete anchor token", text)
	}
	return hashes, nil
}

// AddPattern inserts hashes (as returned by ParsePattern) under id.
func (m *Matcher) AddPattern(id uint32, hashes []uint64) error {
	return m.index.AddPattern(id, hashes)
}

// FindMatches scans path and returns its non-overlapping best matches. A
// missing or unreadable file is logged and reported as an empty result,
// not an error, per this package's error-handling policy: only malformed
// input to AddPattern/ParsePattern is a hard error.
func (m *Matcher) FindMatches(path string) []Match {
	f, err := m.fs.Open(path)
	if err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("failed to open file for matching")
		return nil
	}
	defer f.Close()

	scanner := linescan.New(f, m.maxLineBytes)
	engine := matchengine.NewScanner(m.index)
	for scanner.Scan() {
		engine.Feed(scanner.Bytes(), scanner.Line())
	}
	if err := scanner.Err(); err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("error while scanning file")
	}

	candidates := engine.Finish()
	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{Pid: c.Pid, SLine: c.SLine, ELine: c.ELine}
	}
	return matches
}

// Dump writes the pattern index to path on m's filesystem.
func (m *Matcher) Dump(path string) error {
	return indexio.Save(m.fs, path, m.index)
}

// Load replaces m's pattern index with the one memory-mapped from path.
// The Matcher must be closed with Close once the caller is done with it, to
// release the mapping.
func (m *Matcher) Load(path string) error {
	loaded, err := indexio.Load(path)
	if err != nil {
		return fmt.Errorf("licensepatterns: load %s: %w", path, err)
	}
	if m.loaded != nil {
		m.loaded.Close()
	}
	m.index = loaded.Index
	m.loaded = loaded
	return nil
}

// Package indexio persists and loads a pattern trie (C7): Save writes the
// framed binary format through an afero.Fs (so callers can exercise it
// against an in-memory filesystem in tests), and Load memory-maps the file
// back in read-only and decodes the arena from it into freshly allocated
// slices.
package indexio

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/spf13/afero"

	"github.com/openSUSE/Spooky-Patterns-XS/internal/fileformat"
	"github.com/openSUSE/Spooky-Patterns-XS/internal/trie"
)

// Save writes ix to path on fsys, wrapped in the fileformat envelope.
func Save(fsys afero.Fs, path string, ix *trie.Index) error {
	payload, err := ix.MarshalBinary()
	if err != nil {
		return fmt.Errorf("indexio: marshal: %w", err)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("indexio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := fileformat.WriteFramed(f, payload); err != nil {
		return fmt.Errorf("indexio: write %s: %w", path, err)
	}
	return nil
}

// Loaded is a memory-mapped index plus the handle needed to release the
// mapping once the caller is done querying it.
type Loaded struct {
	*trie.Index
	mapping mmap.MMap
	file    *os.File
}

// Close unmaps and closes the backing file. The Index must not be used
// after Close.
func (l *Loaded) Close() error {
	var err error
	if l.mapping != nil {
		err = l.mapping.Unmap()
	}
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Load memory-maps path read-only and decodes the index from the mapped
// bytes in one linear pass; the decoded arena is a copy. mmap-go
// requires a real *os.File, so unlike Save this always goes through the OS
// filesystem rather than an afero.Fs.
func Load(path string) (*Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("indexio: open %s: %w", path, err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("indexio: mmap %s: %w", path, err)
	}

	payload, err := fileformat.ReadFramed(m)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("indexio: %s: %w", path, err)
	}

	ix, err := trie.Unmarshal(payload)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("indexio: %s: %w", path, err)
	}

	return &Loaded{Index: ix, mapping: m, file: f}, nil
}

// Package linescan provides a bounded-length line scanner that reproduces
// a specific fgets(buf, n, f) quirk: a physical line longer than the cap
// is not discarded or silently re-joined — it comes back across several
// Scan calls, each one bumping the line counter, exactly as the original
// scanner saw it when a single fgets call couldn't fit the whole line.
package linescan

import (
	"bufio"
	"errors"
	"io"

	"github.com/spf13/afero"
)

// DefaultMaxLineBytes is the scanner's default cap, per the file-scanning
// line limit.
const DefaultMaxLineBytes = 8000

// Scanner reads length-capped chunks from an io.Reader.
type Scanner struct {
	br   *bufio.Reader
	line int
	cur  []byte
	err  error
	done bool
}

// New wraps r in a Scanner capped at maxLineBytes (DefaultMaxLineBytes if
// <= 0).
func New(r io.Reader, maxLineBytes int) *Scanner {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Scanner{br: bufio.NewReaderSize(r, maxLineBytes)}
}

// Open opens path on fsys and returns a Scanner over it; the caller is
// responsible for closing the returned file once done.
func Open(fsys afero.Fs, path string, maxLineBytes int) (*Scanner, afero.File, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return New(f, maxLineBytes), f, nil
}

// Scan advances to the next chunk. A physical line within the cap is
// delivered whole (newline included); a line exceeding the cap is
// delivered as successive cap-sized chunks, each counted as its own Line.
// Scan returns false at EOF or on error; check Err afterward.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	chunk, err := s.br.ReadSlice('\n')
	if len(chunk) == 0 && err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return false
	}

	s.cur = append(s.cur[:0], chunk...)
	s.line++

	switch {
	case errors.Is(err, io.EOF):
		s.done = true
	case err != nil && !errors.Is(err, bufio.ErrBufferFull):
		s.err = err
		s.done = true
	}
	return true
}

// Bytes returns the current chunk. The slice is only valid until the next
// Scan call.
func (s *Scanner) Bytes() []byte { return s.cur }

// Line returns the 1-based counter of the current chunk, incrementing once
// per Scan regardless of whether that chunk ended on a real newline.
func (s *Scanner) Line() int { return s.line }

// Err returns the first non-EOF error encountered, if any.
func (s *Scanner) Err() error { return s.err }

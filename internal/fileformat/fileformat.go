// Package fileformat is the shared magic+version+checksum envelope wrapped
// around every binary index this module writes. It is an extension beyond
// the original ad-hoc dump format, added so a reader can refuse a
// corrupted or version-skewed file before it ever touches the payload.
package fileformat

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Magic identifies a file produced by this module. Version lets a future
// payload layout change without the reader silently misinterpreting it.
const (
	Magic   uint32 = 0x53585031 // "SXP1"
	Version uint16 = 1
)

// headerLen is Magic(4) + Version(2) + payload length(8) + checksum(8).
const headerLen = 4 + 2 + 8 + 8

// WriteFramed writes Magic, Version, len(payload), an xxhash64 checksum of
// payload, and then payload itself, to w.
func WriteFramed(w io.Writer, payload []byte) error {
	var hdr [headerLen]byte
	binary.LittleEndian.PutUint32(hdr[0:4], Magic)
	binary.LittleEndian.PutUint16(hdr[4:6], Version)
	binary.LittleEndian.PutUint64(hdr[6:14], uint64(len(payload)))
	binary.LittleEndian.PutUint64(hdr[14:22], xxhash.Sum64(payload))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("fileformat: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("fileformat: write payload: %w", err)
	}
	return nil
}

// ReadFramed validates and strips the envelope from buf, returning the
// payload slice (a sub-slice of buf, not a copy — suited to an mmap'd
// buffer where copying would defeat the point).
func ReadFramed(buf []byte) ([]byte, error) {
	if len(buf) < headerLen {
		return nil, fmt.Errorf("fileformat: truncated header (%d bytes)", len(buf))
	}
	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != Magic {
		return nil, fmt.Errorf("fileformat: bad magic %#x", magic)
	}
	version := binary.LittleEndian.Uint16(buf[4:6])
	if version != Version {
		return nil, fmt.Errorf("fileformat: unsupported version %d (want %d)", version, Version)
	}
	payloadLen := binary.LittleEndian.Uint64(buf[6:14])
	wantSum := binary.LittleEndian.Uint64(buf[14:22])

	payload := buf[headerLen:]
	if uint64(len(payload)) != payloadLen {
		return nil, fmt.Errorf("fileformat: payload length mismatch: header says %d, have %d", payloadLen, len(payload))
	}
	if sum := xxhash.Sum64(payload); sum != wantSum {
		return nil, fmt.Errorf("fileformat: checksum mismatch: file is corrupt")
	}
	return payload, nil
}

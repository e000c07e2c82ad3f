package licensepatterns

import (
	"github.com/openSUSE/Spooky-Patterns-XS/internal/linescan"
)

// LineResult is one requested line's retrieved content, paired with the
// caller-supplied tag that named it.
type LineResult struct {
	Line int
	Tag  uint64
	Text string
}

// ReadLines retrieves specific line numbers (the keys of needed, mapped to
// caller-supplied tags) from path. It stops reading as soon as every
// requested line has been found, even if the file continues — it does not
// read to EOF unless the last requested line is also the last line read. A
// missing or unreadable file is logged and yields an empty result.
func (m *Matcher) ReadLines(path string, needed map[int]uint64) []LineResult {
	if len(needed) == 0 {
		return nil
	}
	remaining := make(map[int]uint64, len(needed))
	for k, v := range needed {
		remaining[k] = v
	}

	f, err := m.fs.Open(path)
	if err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("failed to open file for line retrieval")
		return nil
	}
	defer f.Close()

	var out []LineResult
	scanner := linescan.New(f, m.maxLineBytes)
	for scanner.Scan() {
		line := scanner.Line()
		if tag, ok := remaining[line]; ok {
			text := trimTrailingNewline(scanner.Bytes())
			out = append(out, LineResult{Line: line, Tag: tag, Text: string(text)})
			delete(remaining, line)
		}
		if len(remaining) == 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("error while reading lines")
	}
	return out
}

func trimTrailingNewline(b []byte) []byte {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		n--
	}
	if n > 0 && b[n-1] == '\r' {
		n--
	}
	return b[:n]
}

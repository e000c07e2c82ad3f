// Package token implements the tokenizer (C2): it splits a line of bytes
// into lower-cased word tokens, drops pre-registered ignored glyph tokens,
// hashes the rest with SpookyV2, and recognizes the $skipN pattern
// placeholder when tokenizing pattern bodies rather than file text.
package token

import (
	"github.com/openSUSE/Spooky-Patterns-XS/spookyhash"
)

// MaxSkip is the largest permitted $skipN gap; hashes at or below it are
// reserved skip markers.
const MaxSkip = 99

// MaxTokenLength is the default cap on a single token's byte length; longer
// runs are truncated before hashing.
const MaxTokenLength = 100

// hashSeed is the SpookyV2 seed used for all token text hashing.
const hashSeed = 1

// Token is one lexed unit: its source line, its hash (a skip-marker value
// <= MaxSkip, or a SpookyV2 hash > MaxSkip), and — retained for
// normalize/debug output — its literal text.
type Token struct {
	Line int
	Hash uint64
	Text string
}

// ignoreSeparators terminate the current token and are discarded outright.
var ignoreSeparators = map[byte]bool{
	' ': true, '\r': true, '\n': true, '\t': true,
	'*': true, ';': true, ',': true, ':': true, '!': true, '#': true,
	'{': true, '}': true, '(': true, ')': true, '[': true, ']': true,
	'|': true, '>': true, '<': true,
}

// singleSeparators terminate the current token AND are emitted as their
// own one-byte token, so a pattern can insist on a literal glyph like '='.
var singleSeparators = map[byte]bool{
	'-': true, '.': true, '+': true, '?': true,
	'"': true, '\'': true, '`': true, '=': true,
}

// Tokenize appends to dst one Token per word extracted from line, per
// §4.1. lineNumber 0 means "parsing a pattern body, not file text": only
// then is "$skip" + digits recognized as a skip marker.
func Tokenize(dst []Token, line []byte, lineNumber int) []Token {
	buf := make([]byte, len(line))
	copy(buf, line)
	for i, b := range buf {
		if b < 0x20 {
			b = ' '
		}
		buf[i] = lower(b)
	}

	start := 0
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if ignoreSeparators[b] {
			dst = addToken(dst, buf[start:i], lineNumber)
			start = i + 1
		} else if singleSeparators[b] {
			dst = addToken(dst, buf[start:i], lineNumber)
			dst = addToken(dst, buf[i:i+1], lineNumber)
			start = i + 1
		}
	}
	dst = addToken(dst, buf[start:], lineNumber)
	return dst
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

func addToken(dst []Token, text []byte, lineNumber int) []Token {
	if len(text) == 0 {
		return dst
	}
	if text[len(text)-1] == '.' {
		text = text[:len(text)-1]
	}
	if len(text) == 0 {
		return dst
	}
	if len(text) > MaxTokenLength {
		text = text[:MaxTokenLength]
	}
	// A lone single-separator glyph (e.g. "=") is kept even though it is
	// not alphanumeric, so a pattern can insist on it; a lone "." never
	// gets here, since the peel above empties it. Longer runs of pure
	// punctuation (e.g. "___") are dropped as noise.
	if len(text) > 1 && !hasAlnum(text) {
		return dst
	}

	if lineNumber == 0 {
		if n, ok := skipValue(text); ok {
			return append(dst, Token{Line: lineNumber, Hash: uint64(n), Text: string(text)})
		}
	}

	hash := spookyhash.Hash64(text, hashSeed)
	if hash <= MaxSkip {
		panic("token hash collided with the reserved skip-marker range")
	}
	if IsIgnored(hash) {
		return dst
	}
	return append(dst, Token{Line: lineNumber, Hash: hash, Text: string(text)})
}

func hasAlnum(text []byte) bool {
	for _, b := range text {
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') {
			return true
		}
	}
	return false
}

// skipValue recognizes "$skip" followed by 1-3 decimal digits naming a
// value <= MaxSkip. Anything else with a "$skip" prefix (non-numeric
// suffix, or a too-large number) falls through to ordinary hashing.
func skipValue(text []byte) (int, bool) {
	const prefix = "$skip"
	if len(text) <= len(prefix) || string(text[:len(prefix)]) != prefix {
		return 0, false
	}
	digits := text[len(prefix):]
	if len(digits) == 0 || len(digits) > 3 {
		return 0, false
	}
	n := 0
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, false
		}
		n = n*10 + int(d-'0')
	}
	if n > MaxSkip {
		return 0, false
	}
	return n, true
}

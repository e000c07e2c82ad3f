// Package obslog centralizes the diagnostic logging every layer of the
// matcher shares: refused empty patterns, overwritten pattern ids and
// file-open failures all go to stderr through one zerolog.Logger, the way
// wazero centralizes its own debug-facing concerns in internal/logging.
// A corrupted index file is reported as a returned error, not logged.
package obslog

import (
	"os"

	"github.com/rs/zerolog"
)

// Default is the package-level logger used when a component isn't given one
// explicitly. It writes human-readable, leveled lines to stderr.
var Default = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

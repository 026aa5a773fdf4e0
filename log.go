package britetopo

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger creates a console logger at the level named (debug, info, warn, ...).
// An unrecognized level falls back to info.  A nil writer means standard error.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || len(level) == 0 {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

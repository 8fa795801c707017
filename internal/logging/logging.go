package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFile is the log file written next to the working directory.
const DefaultFile = "english_practice.log"

// Options configures the application logger.
type Options struct {
	// File receives every log line. Empty disables file output.
	File string

	// Console receives a human-readable copy of every line. Nil disables
	// console output, which is what the full-screen UI wants.
	Console io.Writer

	Level zerolog.Level
}

// Logger pairs a zerolog.Logger with the file it writes to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New opens the log file and builds a logger that fans out to the file and
// the optional console writer.
func New(opts Options) (*Logger, error) {
	var writers []io.Writer
	var f *os.File

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		var err error
		f, err = os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			NoColor:    true,
			TimeFormat: time.DateTime,
		})
	}

	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.Kitchen,
		})
	}

	if len(writers) == 0 {
		return &Logger{Logger: zerolog.Nop()}, nil
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opts.Level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: zl, file: f}, nil
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Package logging builds the diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ccollicutt/logreport/pkg/config"
)

// New creates a logger at the configured level. Without a log file it writes
// human-readable lines to console; with one it writes JSON to a rotating
// file. Console writes are serialized so goroutines may share the logger.
// The returned closer releases the file and is never nil.
func New(cfg config.LogConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	if cfg.File == "" {
		out := zerolog.ConsoleWriter{Out: zerolog.SyncWriter(console), TimeFormat: time.RFC3339, NoColor: true}
		return zerolog.New(out).Level(level).With().Timestamp().Logger(), nopCloser{}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	logger := zerolog.New(file).Level(level).With().Timestamp().Caller().Logger()
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

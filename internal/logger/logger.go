package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/config"
)

const filePermission = 0664

// Build collects logger options before the writer is opened.
type Build struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

// Logger wraps the process logger together with the file it may own.
type Logger struct {
	zerolog.Logger
	file *os.File
}

func New() *Build {
	return &Build{
		writer: os.Stdout,
		level:  zerolog.InfoLevel,
	}
}

// FromConfig builds the process logger from LOG_* settings.
func FromConfig(cfg *config.Config) (*Logger, error) {
	return New().
		FromPath(cfg.LogFile).
		WithLevel(cfg.LogLevel).
		Console(cfg.LogFormat == "console").
		Make()
}

func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

func (b *Build) FromBuffer(w io.Writer) *Build {
	b.writer = w
	return b
}

// WithLevel sets the minimum level; unknown names keep the info default.
func (b *Build) WithLevel(level string) *Build {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return b
	}
	b.level = parsed
	return b
}

func (b *Build) Console(enabled bool) *Build {
	b.console = enabled
	return b
}

func (b *Build) Make() (*Logger, error) {
	l := &Logger{}
	writer := b.writer
	if b.path != "" {
		file, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return nil, err
		}
		l.file = file
		writer = zerolog.SyncWriter(file)
	}
	if b.console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	l.Logger = zerolog.New(writer).Level(b.level).With().Timestamp().Logger()
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// WithContext stores a logger in ctx so that zerolog.Ctx can find it.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext returns the request logger, or a disabled logger when none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

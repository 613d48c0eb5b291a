// Package log provides structured logging for the pesto CLI.
//
// Entries are JSON lines on stderr (or the app's error writer) so they
// never mix with rendered output on stdout. The wrapped zap.Logger is what
// the SDK client and the catalog cache receive.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Logger provides structured logging.
type Logger struct {
	zap *zap.Logger
}

// ParseLevel parses a level name (debug, info, warn, error).
// An empty name yields DefaultLevel.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:     "timestamp",
	LevelKey:    "level",
	MessageKey:  "message",
	EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
	EncodeLevel: zapcore.LowercaseLevelEncoder,
}

// New creates a JSON logger writing to w at the given level.
// A nil writer defaults to os.Stderr.
func New(w io.Writer, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w), lvl)
	return &Logger{zap: zap.New(core)}, nil
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(component string) *Logger {
	return l.With(zap.String("component", component))
}

// With returns a child logger carrying fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

func (l *Logger) Debug(message string, fields ...zap.Field) { l.zap.Debug(message, fields...) }
func (l *Logger) Info(message string, fields ...zap.Field)  { l.zap.Info(message, fields...) }
func (l *Logger) Warn(message string, fields ...zap.Field)  { l.zap.Warn(message, fields...) }
func (l *Logger) Error(message string, fields ...zap.Field) { l.zap.Error(message, fields...) }

// Sync flushes buffered entries. Errors from syncing a terminal or pipe are
// expected and returned as-is.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts rs/zerolog to the Logger interface. APP_ENV=dev
// switches to a human-readable console writer, anything else emits JSON.
// LOG_LEVEL selects the minimum level; unset means debug.
type ZerologLogger struct {
	z zerolog.Logger
}

// NewZerologLogger returns a logger writing to stdout, tagged with the given
// component.
func NewZerologLogger(component string) Logger {
	return newZerologLogger(component, os.Stdout)
}

func newZerologLogger(component string, out io.Writer) *ZerologLogger {
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level := zerolog.DebugLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && l != zerolog.NoLevel {
		level = l
	}
	z := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &ZerologLogger{z: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.z.Debug().Msgf(format, args...)
}

// Debugw logs at debug level with structured fields attached to the entry.
func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.z.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.z.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.z.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.z.Error().Msgf(format, args...)
}

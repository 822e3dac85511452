package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger with info level JSON output.
func Init() {
	InitWithLevel("info")
}

func InitWithLevel(level string) {
	log = New(os.Stdout, level)
}

// New builds a JSON logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetOutput swaps the underlying writer, keeping the current level.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}

// Info logs msg with optional key/value pairs.
func Info(msg string, kv ...interface{}) {
	log.Info().Fields(kv).Msg(msg)
}

func Infof(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

func Warn(msg string, kv ...interface{}) {
	log.Warn().Fields(kv).Msg(msg)
}

func Error(msg string, kv ...interface{}) {
	log.Error().Fields(kv).Msg(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

func Debug(msg string, kv ...interface{}) {
	log.Debug().Fields(kv).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func Fatal(msg string, kv ...interface{}) {
	log.Fatal().Fields(kv).Msg(msg)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}

// WithError returns a child logger carrying err.
func WithError(err error) zerolog.Logger {
	return log.With().Err(err).Logger()
}

func WithFields(fields map[string]interface{}) zerolog.Logger {
	return log.With().Fields(fields).Logger()
}

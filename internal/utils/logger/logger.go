package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = newLogger(os.Stderr, zerolog.InfoLevel)
)

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	// Customize ConsoleWriter
	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	consoleWriter.FormatLevel = func(i interface{}) string {
		switch i {
		case "info":
			return "\033[32m[INFO]\033[0m" // Green
		case "error":
			return "\033[31m[ERROR]\033[0m" // Red
		case "debug":
			return "\033[36m[DEBUG]\033[0m" // Cyan
		case "warn":
			return "\033[33m[WARN]\033[0m" // Yellow
		case "fatal":
			return "\033[35m[FATAL]\033[0m" // Magenta
		default:
			return fmt.Sprintf("[%s]", i)
		}
	}
	consoleWriter.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	consoleWriter.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("\033[1m%s:\033[0m", i) // Bold field names
	}
	consoleWriter.FormatFieldValue = func(i interface{}) string {
		return fmt.Sprintf("%v", i)
	}

	return zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetLevel changes the minimum level of the shared logger.
// Unknown level names leave the level unchanged and return an error.
func SetLevel(name string) error {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(level)
	return nil
}

// SetOutput redirects the shared logger, keeping its current level.
func SetOutput(out io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(out, base.GetLevel())
}

func Info(message string, args ...interface{}) {
	logger := logger()
	if len(args) == 0 {
		logger.Info().Msg(message)
	} else {
		logger.Info().Msgf(message, args...)
	}
}

func Warn(message string, args ...interface{}) {
	logger := logger()
	if len(args) == 0 {
		logger.Warn().Msg(message)
	} else {
		logger.Warn().Msgf(message, args...)
	}
}

func Error(message string, args ...interface{}) {
	logger := logger()
	if len(args) == 0 {
		logger.Error().Msg(message)
	} else {
		logger.Error().Msgf(message, args...)
	}
}

func Fatal(message string, args ...interface{}) {
	logger := logger()
	if len(args) == 0 {
		logger.Fatal().Msg(message)
	} else {
		logger.Fatal().Msgf(message, args...)
	}
}

func Debug(message string, args ...interface{}) {
	logger := logger()
	if len(args) == 0 {
		logger.Debug().Msg(message)
	} else {
		logger.Debug().Msgf(message, args...)
	}
}

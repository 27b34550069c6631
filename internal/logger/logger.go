package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger for application-wide structured logging
type Logger struct {
	*zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Enable pretty console output (for local development)
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{Logger: &logger}
}

// NewDefault creates a logger with default settings
// Plain JSON output, suitable for Lambda/CloudWatch
func NewDefault() *Logger {
	return New(Config{
		Level:  "info",
		Pretty: false,
	})
}

// WithComponent returns a logger with a component field
func (l *Logger) WithComponent(component string) *Logger {
	newLogger := l.With().Str("component", component).Logger()
	return &Logger{Logger: &newLogger}
}

// WithProvider returns a logger with a provider field
func (l *Logger) WithProvider(provider string) *Logger {
	newLogger := l.With().Str("provider", provider).Logger()
	return &Logger{Logger: &newLogger}
}

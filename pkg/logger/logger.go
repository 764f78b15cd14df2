package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zerolog.Logger with per-module level overrides.
type Logger struct {
	zerolog.Logger
	moduleLevels map[string]zerolog.Level
}

// Config controls logger construction. It mirrors logging.json.
type Config struct {
	Level        string
	Console      bool
	FilePath     string
	MaxSizeMB    int
	ModuleLevels map[string]string
}

// New creates a new logger instance
func New(serviceName string, environment string) *Logger {
	var output io.Writer = os.Stdout

	if environment == "development" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{Logger: logger}
}

// NewFromConfig creates a logger from the logging configuration: console
// and/or rotating file sinks, a global level, and per-module level overrides.
func NewFromConfig(serviceName string, cfg Config) *Logger {
	var sinks []io.Writer

	if cfg.Console {
		sinks = append(sinks, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	if cfg.FilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		sinks = append(sinks, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxSize,
			MaxBackups: 3,
		})
	}

	var output io.Writer = os.Stdout
	if len(sinks) == 1 {
		output = sinks[0]
	} else if len(sinks) > 1 {
		output = zerolog.MultiLevelWriter(sinks...)
	}

	level := ParseLevel(cfg.Level)

	moduleLevels := make(map[string]zerolog.Level, len(cfg.ModuleLevels))
	for module, lvl := range cfg.ModuleLevels {
		moduleLevels[module] = ParseLevel(lvl)
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{Logger: logger, moduleLevels: moduleLevels}
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
		return lvl
	}
	return zerolog.InfoLevel
}

// ForModule returns a logger tagged with the module name. A per-module level
// from logging.json overrides the global level.
func (l *Logger) ForModule(module string) *Logger {
	sub := l.Logger.With().Str("module", module).Logger()
	if lvl, ok := l.moduleLevels[module]; ok {
		sub = sub.Level(lvl)
	}
	return &Logger{Logger: sub, moduleLevels: l.moduleLevels}
}

// WithRequestID returns a logger with the request ID attached
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger:       l.Logger.With().Str("request_id", requestID).Logger(),
		moduleLevels: l.moduleLevels,
	}
}

// WithComponent returns a logger with the component name attached
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:       l.Logger.With().Str("component", component).Logger(),
		moduleLevels: l.moduleLevels,
	}
}

// WithError returns a logger with the error attached
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger:       l.Logger.With().Err(err).Logger(),
		moduleLevels: l.moduleLevels,
	}
}

// Package logging provides the component loggers used throughout distiter.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// ParseLevel translates the name of a log level ("trace" through "fatal") to its enum
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(name) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// ToZerologLevel translates a log level enum to a zerolog.Level
func ToZerologLevel(level int) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.TraceLevel
	}
}

// Config configures the root logger
type Config struct {
	Level  int    // minimum level to emit
	Format string // "json" or "console"
	Output io.Writer
}

var (
	rootLock sync.RWMutex
	root     = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// Configure replaces the root logger from which component loggers derive
func Configure(conf Config) {
	out := conf.Output
	if out == nil {
		out = os.Stderr
	}
	var zl zerolog.Logger
	if strings.ToLower(conf.Format) == "json" {
		zl = zerolog.New(out)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	rootLock.Lock()
	defer rootLock.Unlock()
	root = zl.With().Timestamp().Logger().Level(ToZerologLevel(conf.Level))
}

// New returns a logger for a named component
func New(component string) zerolog.Logger {
	rootLock.RLock()
	defer rootLock.RUnlock()
	return root.With().Str("component", component).Logger()
}

package logger

import (
	"os"
	"syscall"
	"time"

	"codeberg.org/mutker/sysmond/internal/errors"
	"github.com/rs/zerolog"
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

type zeroLogger struct {
	log zerolog.Logger
}

// New creates a logger handle writing to stdout at the given level.
// Unrecognized levels fall back to info.
func New(level string, isService bool) Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log := zerolog.New(output).With().Timestamp().Logger().Level(parseLevel(level))

	return &zeroLogger{log: log}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zeroLogger{log: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warning", "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

func (l *zeroLogger) Debug() *LogEvent {
	return &LogEvent{l.log.Debug()}
}

func (l *zeroLogger) Info() *LogEvent {
	return &LogEvent{l.log.Info()}
}

func (l *zeroLogger) Warn() *LogEvent {
	return &LogEvent{l.log.Warn()}
}

func (l *zeroLogger) Error() *LogEvent {
	return &LogEvent{l.log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func (l *zeroLogger) ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{l.log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

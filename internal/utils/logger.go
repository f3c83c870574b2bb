package utils

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// logPrefix is printed in front of every log line.
const logPrefix = "todo"

// Logger provides leveled logging with verbose mode support.
// All output goes to stderr so stdout stays reserved for command output.
type Logger struct {
	mu  sync.RWMutex
	log *log.Logger
}

var (
	loggerInstance *Logger
	once           sync.Once
)

// GetLogger returns the singleton logger instance.
func GetLogger() *Logger {
	once.Do(func() {
		loggerInstance = newLogger(os.Stderr)
	})
	return loggerInstance
}

func newLogger(w io.Writer) *Logger {
	return &Logger{
		log: log.NewWithOptions(w, log.Options{
			Level:  log.InfoLevel,
			Prefix: logPrefix,
		}),
	}
}

// SetVerboseMode sets the verbose mode globally.
func SetVerboseMode(verbose bool) {
	GetLogger().SetVerbose(verbose)
}

// SetOutput redirects the global logger, mostly useful in tests.
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// SetVerbose sets the verbose mode for this logger instance.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if verbose {
		l.log.SetLevel(log.DebugLevel)
	} else {
		l.log.SetLevel(log.InfoLevel)
	}
}

// SetOutput changes the destination of this logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetOutput(w)
}

// formatMessage formats a message with optional printf-style arguments.
func formatMessage(msgOrFormat string, args ...interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(msgOrFormat, args...)
	}
	return msgOrFormat
}

// Debug logs a debug message (only shown when verbose=true).
// Can be used with a simple message or printf-style format string with args.
func (l *Logger) Debug(msgOrFormat string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log.Debug(formatMessage(msgOrFormat, args...))
}

// Warn logs a warning message (always shown).
func (l *Logger) Warn(msgOrFormat string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log.Warn(formatMessage(msgOrFormat, args...))
}

// Debugf is a convenience function that logs a debug message using the global logger.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

// Warnf is a convenience function that logs a warning message using the global logger.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the different logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled messages through a single log.Logger
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	out   *log.Logger
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// New creates a logger writing to output; a nil output means stderr
func New(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		level: level,
		out:   log.New(output, "", log.LstdFlags),
	}
}

// Init replaces the global logger
func Init(level LogLevel, output io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = New(level, output)
}

// ParseLogLevel parses a string log level. Unknown names fall back to INFO
// and are reported through the returned error.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARNING", "WARN":
		return WARNING, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = New(INFO, os.Stderr)
	}
	return globalLogger
}

// SetLevel changes the level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput changes the output destination
func (l *Logger) SetOutput(output io.Writer) {
	l.out.SetOutput(output)
}

func (l *Logger) logf(level LogLevel, format string, v ...interface{}) {
	if level < l.Level() {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(DEBUG, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(INFO, format, v...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, v ...interface{}) {
	l.logf(WARNING, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(ERROR, format, v...)
}

// Global convenience functions
func Debug(format string, v ...interface{}) {
	GetLogger().Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	GetLogger().Info(format, v...)
}

func Warning(format string, v ...interface{}) {
	GetLogger().Warning(format, v...)
}

func Error(format string, v ...interface{}) {
	GetLogger().Error(format, v...)
}

// SetLevel changes the log level of the global logger
func SetLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	return GetLogger().Level()
}

// Writer returns an io.Writer that logs each write at the given level.
// Used to route third-party loggers (gin) through this logger.
func Writer(level LogLevel) io.Writer {
	return levelWriter{level: level}
}

type levelWriter struct {
	level LogLevel
}

func (w levelWriter) Write(p []byte) (int, error) {
	GetLogger().logf(w.level, "%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

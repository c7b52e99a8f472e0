package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/carddeck/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// Level is a logging severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// String returns the level name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a LOG_LEVEL value onto a Level. Unknown names fall back to INFO.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO", "":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	}
	return INFO, false
}

// Logger writes leveled lines tagged with the calling file and line
type Logger struct {
	*log.Logger
	level Level
}

// NewLogger creates a new logger instance writing to stdout
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level Level) *Logger {
	return &Logger{
		Logger: log.New(w, "", 0),
		level:  level,
	}
}

// Level returns the minimum level that is written
func (l *Logger) Level() Level {
	return l.level
}

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// logf writes one line as "[timestamp] LEVEL file:line: message".
// The caller is the code that called Debug, Info, Warn or Error.
func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	l.Output(3, fmt.Sprintf("[%s] %-5s %s: %s",
		time.Now().Format(timestampLayout),
		level,
		caller,
		fmt.Sprintf(format, v...),
	))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) { l.logf(DEBUG, format, v...) }

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) { l.logf(INFO, format, v...) }

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) { l.logf(WARN, format, v...) }

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) { l.logf(ERROR, format, v...) }

// LogError logs a CardError with its code and cause
func (l *Logger) LogError(err error) {
	var cardErr *types.CardError
	if types.As(err, &cardErr) {
		lines := []string{"Code: " + string(cardErr.Code), "Message: " + cardErr.Message}
		if cardErr.Err != nil {
			lines = append(lines, fmt.Sprintf("Cause: %v", cardErr.Err))
		}
		l.logf(ERROR, "Card error occurred:\n\t%s", strings.Join(lines, "\n\t"))
		return
	}
	l.logf(ERROR, "Unexpected error: %v", err)
}

// Default logger instance
var Default = NewLogger(INFO)

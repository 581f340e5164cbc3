package logger

import (
	"fmt"
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel specifies the severity of a given log message
type LogLevel int

// Log levels
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// String returns the string form for a given LogLevel
func (lvl LogLevel) String() string {
	switch lvl {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarning:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	}
	return "DEBUG"
}

// Logger contains a logger.
type Logger struct {
	DebugMode bool
	Log       *log.Logger
}

// Discard returns a Logger that drops every message.
func Discard() Logger {
	return Logger{Log: log.New(io.Discard, "", 0)}
}

// NewFileLogger returns a Logger writing to a size-rotated log file.
func NewFileLogger(path string, debug bool) Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	}
	return Logger{
		DebugMode: debug,
		Log:       log.New(w, "", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Debugf logs only when DebugMode is set.
func (l Logger) Debugf(format string, v ...interface{}) {
	if !l.DebugMode {
		return
	}
	l.output(LogLevelDebug, format, v...)
}

// Infof logs an informational message.
func (l Logger) Infof(format string, v ...interface{}) {
	l.output(LogLevelInfo, format, v...)
}

// Warnf logs a recoverable problem.
func (l Logger) Warnf(format string, v ...interface{}) {
	l.output(LogLevelWarning, format, v...)
}

// Errorf logs an error.
func (l Logger) Errorf(format string, v ...interface{}) {
	l.output(LogLevelError, format, v...)
}

func (l Logger) output(lvl LogLevel, format string, v ...interface{}) {
	if l.Log == nil {
		return
	}
	l.Log.Output(3, "["+lvl.String()+"] "+fmt.Sprintf(format, v...))
}

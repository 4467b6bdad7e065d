package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger is a small colored console logger. Each component creates its own
// instance so log lines can be traced back to the subsystem that wrote them.
type Logger struct {
	component string
}

func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) format(level, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s | %-7s | %s | %s:%d | %s",
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		l.component,
		filepath.Base(file),
		line,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.format("INFO", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.format("SUCCESS", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.format("WARN", fmt.Sprintf(msg, args...)))
}

// Error logs and returns a wrapped error so call sites can
// `return log.Error("context", err)` in one statement.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	args = append(args, err)
	color.Red(l.format("ERROR", fmt.Sprintf(msg+": %v", args...)))
	return fmt.Errorf("%s: %w", msg, err)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	color.Magenta(l.format("DEBUG", fmt.Sprintf(msg, args...)))
}

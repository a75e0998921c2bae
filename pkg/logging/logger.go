package logging

import (
	"log"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes the workspace activity log under the project state directory.
// It is constructed per invocation and passed explicitly; nothing here is a
// process-wide singleton.
type Logger struct {
	logger  *log.Logger
	logFile *lumberjack.Logger
}

// New creates a logger writing to <stateDir>/seam.log with rotation.
func New(stateDir string) *Logger {
	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(stateDir, "seam.log"),
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return &Logger{
		logger:  log.New(logFile, "", log.LstdFlags),
		logFile: logFile,
	}
}

// Discard returns a logger that writes nowhere. Useful for tests and for
// commands that run before a project root exists.
func Discard() *Logger {
	return &Logger{logger: log.New(discardWriter{}, "", 0)}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Close closes the underlying log file.
func (l *Logger) Close() error {
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// Log writes a general message to the log file.
func (l *Logger) Log(message string) {
	l.logger.Print(message)
}

// Logf writes a formatted message to the log file.
func (l *Logger) Logf(format string, v ...interface{}) {
	l.logger.Printf(format, v...)
}

// LogError records an error.
func (l *Logger) LogError(err error) {
	l.logger.Printf("Error: %s", err)
}

// LogOperation records one plan operation outcome.
func (l *Logger) LogOperation(index int, description string, err error) {
	if err != nil {
		l.logger.Printf("Operation %d failed: %s: %v", index+1, description, err)
		return
	}
	l.logger.Printf("Operation %d applied: %s", index+1, description)
}

// LogPlan records the start of a plan execution.
func (l *Logger) LogPlan(entryID, description string, operationCount int) {
	l.logger.Printf("Plan %s (%d operations): %s", entryID, operationCount, description)
}

package search

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Diagnostics go to a log file, never to stdout: stdout is reserved for
// the match stream the engine emits through the report sink.
const (
	maxLogSize      = 10 * 1024 * 1024
	logBufferSize   = 32 * 1024
	maxLogRotations = 5
)

type logger struct {
	mu       sync.Mutex
	writer   *bufio.Writer
	file     *os.File
	disabled bool
}

var (
	globalLogger *logger
	loggerOnce   sync.Once
)

// getLogger returns the lazily initialized global logger.
func getLogger() *logger {
	loggerOnce.Do(initLogger)
	return globalLogger
}

func initLogger() {
	// Logging is best-effort: a search must still run when the log
	// location is unusable.
	logDir := filepath.Join(os.TempDir(), "fwalker-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		globalLogger = &logger{disabled: true}
		return
	}

	logPath := filepath.Join(logDir, "fwalker.log")
	rotateLogFile(logPath)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		globalLogger = &logger{disabled: true}
		return
	}

	writer := bufio.NewWriterSize(file, logBufferSize)
	fmt.Fprintf(writer, "\n=== Log started at %s ===\n", time.Now().Format("2006-01-02 15:04:05"))
	globalLogger = &logger{writer: writer, file: file}
}

// rotateLogFile shifts old logs aside once the current one grows too big.
func rotateLogFile(logPath string) {
	fi, err := os.Stat(logPath)
	if err != nil || fi.Size() <= maxLogSize {
		return
	}
	for i := maxLogRotations - 1; i > 0; i-- {
		os.Rename(fmt.Sprintf("%s.%d", logPath, i), fmt.Sprintf("%s.%d", logPath, i+1))
	}
	os.Rename(logPath, logPath+".1")
}

func (l *logger) log(level, format string, args ...interface{}) {
	if l == nil || l.disabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer != nil {
		fmt.Fprintf(l.writer, "[%s] "+format+"\n", append([]interface{}{level}, args...)...)
	}
}

func logDebug(format string, args ...interface{}) {
	getLogger().log("DEBUG", format, args...)
}

func logInfo(format string, args ...interface{}) {
	getLogger().log("INFO", format, args...)
}

func logError(format string, args ...interface{}) {
	l := getLogger()
	l.log("ERROR", format, args...)
	l.flush()
}

func (l *logger) flush() {
	if l == nil || l.disabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer != nil {
		l.writer.Flush()
	}
}

// CloseLogger flushes and closes the log file. Safe to call when logging
// never initialized or was disabled.
func CloseLogger() error {
	l := getLogger()
	if l == nil || l.disabled {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer != nil {
		if err := l.writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush log buffer: %v", err)
		}
	}
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %v", err)
		}
		l.file = nil
		l.writer = nil
		l.disabled = true
	}
	return nil
}

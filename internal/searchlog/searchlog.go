// Package searchlog provides the run log used by the folder and the
// command-line driver: every line grailbio/base/log would print to the
// console is also teed to the run's "<prefix>.log" file, so a completed
// run's log survives after the terminal is gone.
package searchlog

import (
	"io"
	"log"
	"os"

	graillog "github.com/grailbio/base/log"
)

// Logger tees Infof/Warnf/Debugf output to both the process's
// normal grailbio log destination and a run-specific file.
type Logger struct {
	file *os.File
	tee  *log.Logger
}

// New opens path (truncating any previous run's log) and returns a
// Logger that writes to it in addition to the console.
func New(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Logger{
		file: f,
		tee:  log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags),
	}, nil
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Infof logs a normal progress line.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		graillog.Printf(format, args...)
		return
	}
	graillog.Printf(format, args...)
	l.tee.Printf(format, args...)
}

// Warnf logs a line worth a second look but not fatal to the run, such
// as a disconnected subunit graph or a timeout-triggered partial flush.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		graillog.Error.Printf(format, args...)
		return
	}
	graillog.Error.Printf(format, args...)
	l.tee.Printf("WARN "+format, args...)
}

// Debugf logs a line only visible when the process's log level includes
// Debug, but still teed to the run file when it is.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	if graillog.At(graillog.Debug) {
		graillog.Debug.Printf(format, args...)
		l.tee.Printf("DEBUG "+format, args...)
	}
}

// Package audit appends timestamped entries to the audit trail file.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"flooring/internal/models"
)

// TimestampLayout is the yyyy-MM-dd HH:mm:ss prefix of each entry
const TimestampLayout = "2006-01-02 15:04:05"

// FileWriter appends audit entries to a file
type FileWriter struct {
	path string
	now  func() time.Time
	open func(path string) (io.WriteCloser, error)
}

// NewFileWriter creates an audit writer for path
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path, now: time.Now, open: openAppend}
}

func openAppend(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// WriteEntry appends one "timestamp : message" line
func (w *FileWriter) WriteEntry(message string) (err error) {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: could not create audit directory: %w", models.ErrPersistence, err)
		}
	}

	f, err := w.open(w.path)
	if err != nil {
		return fmt.Errorf("%w: could not write to audit file: %w", models.ErrPersistence, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: could not close audit file: %w", models.ErrPersistence, cerr)
		}
	}()

	if _, err := fmt.Fprintf(f, "%s : %s\n", w.now().Format(TimestampLayout), message); err != nil {
		return fmt.Errorf("%w: could not write to audit file: %w", models.ErrPersistence, err)
	}
	return nil
}

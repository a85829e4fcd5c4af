package audit

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flooring/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEntryAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.txt")
	w := NewFileWriter(path)
	w.now = func() time.Time { return time.Date(2025, time.March, 4, 9, 5, 7, 0, time.UTC) }

	require.NoError(t, w.WriteEntry(models.OrderAuditMessage(1, models.AuditActionAdded)))
	require.NoError(t, w.WriteEntry(models.ExportAuditMessage()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"2025-03-04 09:05:07 : Order 1 ADDED.\n"+
			"2025-03-04 09:05:07 : All data EXPORTED.\n",
		string(content))
}

func TestWriteEntryUnwritable(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(dir)

	err := w.WriteEntry("Order 1 ADDED.")
	assert.ErrorIs(t, err, models.ErrPersistence)
}

type failingCloser struct {
	bytes.Buffer
}

func (failingCloser) Close() error {
	return errors.New("disk full")
}

func TestWriteEntryCloseFailure(t *testing.T) {
	w := NewFileWriter(filepath.Join(t.TempDir(), "audit.txt"))
	sink := &failingCloser{}
	w.open = func(string) (io.WriteCloser, error) { return sink, nil }

	err := w.WriteEntry("Order 1 REMOVED.")
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, sink.String(), "Order 1 REMOVED.")
}

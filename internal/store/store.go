package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flooring/internal/flatfile"
	"flooring/internal/models"
	"flooring/internal/util"

	"go.uber.org/zap"
)

const (
	orderFilePrefix = "Orders_"
	orderFileExt    = ".txt"
	sequenceFile    = ".order_sequence"
	sequenceHeader  = "LastOrderNumber"
)

// Store persists orders as one flat file per order date. It keeps the
// orders it has read in memory and tracks the highest order number it has
// ever seen so that numbers are not handed out twice.
//
// A Store is not safe for concurrent use, and two processes sharing one
// directory will race on the per-date files and on numbering.
type Store struct {
	dir                string
	orders             map[time.Time]map[int]models.Order
	largestOrderNumber int
	sequence           int // high-water mark last persisted to the sequence file
	logger             *zap.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create orders directory: %w", models.ErrPersistence, err)
	}

	s := &Store{
		dir:    dir,
		orders: make(map[time.Time]map[int]models.Order),
		logger: util.GetLogger(),
	}
	s.sequence = s.readSequence()
	s.largestOrderNumber = s.sequence

	return s, nil
}

// Dir returns the orders directory
func (s *Store) Dir() string {
	return s.dir
}

// OrderFileName returns the file name holding the orders of date
func OrderFileName(date time.Time) string {
	return orderFilePrefix + date.Format(models.FileDateLayout) + orderFileExt
}

// parseOrderFileName extracts the order date from an Orders_MMddyyyy.txt name
func parseOrderFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, orderFilePrefix) || !strings.HasSuffix(name, orderFileExt) {
		return time.Time{}, false
	}

	datePart := strings.TrimSuffix(strings.TrimPrefix(name, orderFilePrefix), orderFileExt)
	if len(datePart) != len(models.FileDateLayout) {
		return time.Time{}, false
	}

	date, err := time.Parse(models.FileDateLayout, datePart)
	if err != nil {
		return time.Time{}, false
	}
	return models.DateOf(date), true
}

func (s *Store) orderFilePath(date time.Time) string {
	return filepath.Join(s.dir, OrderFileName(date))
}

// readSequence returns the persisted high-water mark, or 0 when it cannot be read
func (s *Store) readSequence() int {
	records, err := flatfile.ReadRecords(filepath.Join(s.dir, sequenceFile), sequenceHeader)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Ignoring unreadable order sequence", zap.Error(err))
		}
		return 0
	}
	if len(records) == 0 {
		return 0
	}

	n, err := strconv.Atoi(records[0].Fields[0])
	if err != nil {
		s.logger.Warn("Ignoring malformed order sequence", zap.Error(err))
		return 0
	}
	return n
}

// writeSequence persists the high-water mark
func (s *Store) writeSequence(n int) error {
	path := filepath.Join(s.dir, sequenceFile)
	if err := flatfile.WriteFile(path, sequenceHeader, [][]string{{strconv.Itoa(n)}}); err != nil {
		return fmt.Errorf("%w: could not save order sequence: %w", models.ErrPersistence, err)
	}
	s.sequence = n
	return nil
}

// persistSequence makes sure the sequence file covers n
func (s *Store) persistSequence(n int) error {
	if n <= s.sequence {
		return nil
	}
	return s.writeSequence(n)
}

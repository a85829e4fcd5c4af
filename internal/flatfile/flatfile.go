// Package flatfile reads and writes the header-prefixed, comma-delimited text
// files used for orders, catalogs and exports.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// Delimiter separates fields within a line. It is never escaped.
const Delimiter = ","

// ErrDelimiterInField is returned when a value cannot be written without
// corrupting the line layout
var ErrDelimiterInField = errors.New("field contains delimiter or line break")

// ErrHeaderMismatch is returned when the first line of a file is not the
// expected header
var ErrHeaderMismatch = errors.New("unexpected header")

// Record is one data line of a file
type Record struct {
	Line   int
	Fields []string
}

// ReadRecords reads path, checks that its first line is header, skips blank
// lines and splits each remaining line into as many values as header has
// columns. Header columns are compared ignoring case and surrounding spaces.
func ReadRecords(path, header string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	columns := strings.Split(header, Delimiter)
	fields := len(columns)

	var records []Record
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")

		if line == 1 {
			if !matchesHeader(text, columns) {
				return nil, fmt.Errorf("%s:1: %w: got %q, want %q", filepath.Base(path), ErrHeaderMismatch, text, header)
			}
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		values := strings.Split(text, Delimiter)
		if len(values) != fields {
			return nil, fmt.Errorf("%s:%d: expected %d fields, got %d", filepath.Base(path), line, fields, len(values))
		}

		records = append(records, Record{Line: line, Fields: values})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return records, nil
}

func matchesHeader(line string, columns []string) bool {
	got := strings.Split(line, Delimiter)
	if len(got) != len(columns) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(strings.TrimSpace(got[i]), strings.TrimSpace(columns[i])) {
			return false
		}
	}
	return true
}

// JoinFields joins values into one line, refusing values that would break it
func JoinFields(values []string) (string, error) {
	for i, v := range values {
		if strings.Contains(v, Delimiter) || strings.ContainsAny(v, "\r\n") {
			return "", fmt.Errorf("column %d %q: %w", i+1, v, ErrDelimiterInField)
		}
	}
	return strings.Join(values, Delimiter), nil
}

// WriteFile replaces path with header followed by rows. The content is
// written to a temporary file in the same directory and renamed into place,
// so a failed write leaves the previous file untouched.
func WriteFile(path, header string, rows [][]string) (err error) {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line, err := JoinFields(row)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err = fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err = fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// FormatDecimal renders d with at least two fractional digits, keeping any
// additional scale it was parsed with.
func FormatDecimal(d decimal.Decimal) string {
	places := int32(2)
	if exp := d.Exponent(); -exp > places {
		places = -exp
	}
	return d.StringFixed(places)
}

// ParseDecimal parses a plain decimal value such as "4.45"
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("empty decimal value")
	}
	return decimal.NewFromString(s)
}

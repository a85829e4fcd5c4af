package flatfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taxHeader = "State,StateName,TaxRate"

func TestWriteAndReadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Products.txt")

	rows := [][]string{
		{"Tile", "3.50", "4.15"},
		{"Wood", "5.15", "4.75"},
	}
	require.NoError(t, WriteFile(path, "ProductType,CostPerSquareFoot,LaborCostPerSquareFoot", rows))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ProductType,CostPerSquareFoot,LaborCostPerSquareFoot\nTile,3.50,4.15\nWood,5.15,4.75\n", string(content))

	records, err := ReadRecords(path, "ProductType,CostPerSquareFoot,LaborCostPerSquareFoot")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, rows[0], records[0].Fields)
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, rows[1], records[1].Fields)
}

func TestReadRecordsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Taxes.txt")
	require.NoError(t, os.WriteFile(path, []byte("State,StateName,TaxRate\r\nTX,Texas,4.45\r\n\r\nWA,Washington,9.25\r\n"), 0o644))

	records, err := ReadRecords(path, taxHeader)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"WA", "Washington", "9.25"}, records[1].Fields)
}

func TestReadRecordsWrongFieldCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Taxes.txt")
	require.NoError(t, os.WriteFile(path, []byte("State,StateName,TaxRate\nTX,Texas\n"), 0o644))

	_, err := ReadRecords(path, taxHeader)
	assert.Error(t, err)
}

func TestReadRecordsChecksHeader(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"data row first", "TX,Texas,4.45\nWA,Washington,9.25\n"},
		{"missing column", "State,TaxRate\nTX,4.45\n"},
		{"renamed column", "State,Name,TaxRate\nTX,Texas,4.45\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Taxes.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ReadRecords(path, taxHeader)
			assert.ErrorIs(t, err, ErrHeaderMismatch)
		})
	}
}

func TestReadRecordsHeaderIgnoresCaseAndSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Taxes.txt")
	require.NoError(t, os.WriteFile(path, []byte("state, StateName ,TAXRATE\r\nTX,Texas,4.45\r\n"), 0o644))

	records, err := ReadRecords(path, taxHeader)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReadRecordsMissingFile(t *testing.T) {
	_, err := ReadRecords(filepath.Join(t.TempDir(), "missing.txt"), taxHeader)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileRejectsDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Orders_01012030.txt")
	require.NoError(t, WriteFile(path, "Header", [][]string{{"1", "Doe"}}))

	err := WriteFile(path, "Header", [][]string{{"1", "Doe, Jane"}})
	assert.ErrorIs(t, err, ErrDelimiterInField)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Header\n1,Doe\n", string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100.00"},
		{"100.00", "100.00"},
		{"4.5", "4.50"},
		{"4.455", "4.455"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDecimal(d))
		})
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal(" 3.50 ")
	require.NoError(t, err)
	assert.Equal(t, "3.50", FormatDecimal(d))

	_, err = ParseDecimal("")
	assert.Error(t, err)

	_, err = ParseDecimal("abc")
	assert.Error(t, err)
}

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flooring/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testOrder(number int, name string) models.Order {
	return models.Order{
		OrderNumber:            number,
		CustomerName:           name,
		State:                  "WA",
		TaxRate:                decimal.RequireFromString("9.25"),
		ProductType:            "Wood",
		Area:                   decimal.RequireFromString("243.00"),
		CostPerSquareFoot:      decimal.RequireFromString("5.15"),
		LaborCostPerSquareFoot: decimal.RequireFromString("4.75"),
		MaterialCost:           decimal.RequireFromString("1251.45"),
		LaborCost:              decimal.RequireFromString("1154.25"),
		Tax:                    decimal.RequireFromString("222.53"),
		Total:                  decimal.RequireFromString("2628.23"),
	}
}

func testOrders() map[time.Time]map[int]models.Order {
	june := time.Date(2013, time.June, 2, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
	return map[time.Time]map[int]models.Order{
		june: {
			3: testOrder(3, "Albert Einstein"),
			1: testOrder(1, "Ada Lovelace"),
		},
		jan: {
			2: testOrder(2, "Doctor Who"),
		},
	}
}

func TestExportAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Backup")
	w := NewWriter(dir)

	n, err := w.ExportAll(testOrders())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	content, err := os.ReadFile(filepath.Join(dir, TextFile))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "OrderNumber,CustomerName,State,TaxRate,ProductType,Area,CostPerSquareFoot,"+
		"LaborCostPerSquareFoot,MaterialCost,LaborCost,Tax,Total,OrderDate", lines[0])
	assert.Equal(t, "2,Doctor Who,WA,9.25,Wood,243.00,5.15,4.75,1251.45,1154.25,222.53,2628.23,01-01-2013", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "1,Ada Lovelace,"))
	assert.True(t, strings.HasSuffix(lines[2], ",06-02-2013"))
	assert.True(t, strings.HasPrefix(lines[3], "3,Albert Einstein,"))

	for _, line := range lines {
		assert.Len(t, strings.Split(line, ","), 13)
	}
}

func TestExportAllOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	_, err := w.ExportAll(testOrders())
	require.NoError(t, err)

	n, err := w.ExportAll(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	content, err := os.ReadFile(filepath.Join(dir, TextFile))
	require.NoError(t, err)
	assert.Equal(t, Header+"\n", string(content))
}

func TestExportXLSX(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	n, err := w.Export(testOrders(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := excelize.OpenFile(filepath.Join(dir, XLSXFile))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "OrderDate", rows[0][12])
	assert.Equal(t, "Doctor Who", rows[1][1])
	assert.Equal(t, "01-01-2013", rows[1][12])
	assert.Equal(t, "2628.23", rows[3][11])
	assert.Equal(t, "243.00", rows[1][5])

	total, err := f.GetCellValue(sheetName, "L4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2628.23", total)

	textTypes := []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}
	for _, cell := range []string{"A2", "D2", "F2", "L2"} {
		cellType, err := f.GetCellType(sheetName, cell)
		require.NoError(t, err)
		assert.NotContains(t, textTypes, cellType, cell)
	}

	cellType, err := f.GetCellType(sheetName, "B2")
	require.NoError(t, err)
	assert.Contains(t, textTypes, cellType)
}

func TestExportUnknownFormat(t *testing.T) {
	w := NewWriter(t.TempDir())

	_, err := w.Export(testOrders(), "pdf")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExportAllUnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w := NewWriter(filepath.Join(file, "Backup"))
	_, err := w.ExportAll(testOrders())
	assert.ErrorIs(t, err, models.ErrPersistence)
}

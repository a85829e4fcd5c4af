// Package export flattens every stored order into one backup file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"flooring/internal/flatfile"
	"flooring/internal/models"
	"flooring/internal/store"
	"flooring/internal/util"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Export file names inside the backup directory
const (
	TextFile = "DataExport.txt"
	XLSXFile = "DataExport.xlsx"
)

// Supported export formats
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
)

// Header is the per-date order header plus the order date column
const Header = store.OrderHeader + ",OrderDate"

const sheetName = "Orders"

// two-decimal number format for the rate, area and money columns
const moneyNumFmt = 2

// Writer writes consolidated exports into a backup directory
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates a writer for dir
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:    dir,
		logger: util.GetLogger(),
	}
}

// Path returns the destination file for format
func (w *Writer) Path(format string) string {
	if format == FormatXLSX {
		return filepath.Join(w.dir, XLSXFile)
	}
	return filepath.Join(w.dir, TextFile)
}

// Export writes allOrders in the given format and returns the number of rows
func (w *Writer) Export(allOrders map[time.Time]map[int]models.Order, format string) (int, error) {
	switch format {
	case "", FormatText:
		return w.ExportAll(allOrders)
	case FormatXLSX:
		return w.ExportXLSX(allOrders)
	default:
		return 0, fmt.Errorf("%w: unknown export format %q", models.ErrValidation, format)
	}
}

// ExportAll overwrites DataExport.txt with one row per order, sorted by
// date and then order number.
func (w *Writer) ExportAll(allOrders map[time.Time]map[int]models.Order) (int, error) {
	if err := w.ensureDir(); err != nil {
		return 0, err
	}

	orders := flatten(allOrders)
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, marshalRow(o))
	}

	path := w.Path(FormatText)
	if err := flatfile.WriteFile(path, Header, rows); err != nil {
		return 0, fmt.Errorf("%w: could not write export file: %w", models.ErrPersistence, err)
	}

	w.logger.Info("Orders exported", zap.String("path", path), zap.Int("rows", len(rows)))
	return len(rows), nil
}

// ExportXLSX overwrites DataExport.xlsx with the same table as ExportAll
func (w *Writer) ExportXLSX(allOrders map[time.Time]map[int]models.Order) (n int, err error) {
	if err := w.ensureDir(); err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", models.ErrPersistence, cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}

	header := toCells(strings.Split(Header, flatfile.Delimiter))
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	for _, cols := range []string{"D", "F:L"} {
		if err := f.SetColStyle(sheetName, cols, style); err != nil {
			return 0, fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
	}

	orders := flatten(allOrders)
	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
		row := xlsxRow(o)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("%w: %w", models.ErrPersistence, err)
		}
	}

	path := w.Path(FormatXLSX)
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("%w: could not write export file: %w", models.ErrPersistence, err)
	}

	w.logger.Info("Orders exported", zap.String("path", path), zap.Int("rows", len(orders)))
	return len(orders), nil
}

func (w *Writer) ensureDir() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create backup directory: %w", models.ErrPersistence, err)
	}
	return nil
}

func flatten(allOrders map[time.Time]map[int]models.Order) []models.Order {
	var orders []models.Order
	for date, ordersForDate := range allOrders {
		for _, o := range ordersForDate {
			o.OrderDate = date
			orders = append(orders, o)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].OrderDate.Before(orders[j].OrderDate)
		}
		return orders[i].OrderNumber < orders[j].OrderNumber
	})
	return orders
}

func marshalRow(o models.Order) []string {
	return append(store.MarshalOrder(o), o.OrderDate.Format(models.DisplayDateLayout))
}

// xlsxRow keeps the numeric columns numeric so spreadsheets can sum them
func xlsxRow(o models.Order) []interface{} {
	return []interface{}{
		o.OrderNumber,
		o.CustomerName,
		o.State,
		o.TaxRate.InexactFloat64(),
		o.ProductType,
		o.Area.InexactFloat64(),
		o.CostPerSquareFoot.InexactFloat64(),
		o.LaborCostPerSquareFoot.InexactFloat64(),
		o.MaterialCost.InexactFloat64(),
		o.LaborCost.InexactFloat64(),
		o.Tax.InexactFloat64(),
		o.Total.InexactFloat64(),
		o.OrderDate.Format(models.DisplayDateLayout),
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

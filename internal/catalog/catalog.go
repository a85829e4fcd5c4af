// Package catalog loads the read-only product and tax reference files.
package catalog

import (
	"fmt"
	"os"
	"time"

	"flooring/internal/flatfile"
	"flooring/internal/models"
)

// Default catalog file names inside the data directory
const (
	ProductsFile = "Products.txt"
	TaxesFile    = "Taxes.txt"
)

// Catalog file headers
const (
	ProductsHeader = "ProductType,CostPerSquareFoot,LaborCostPerSquareFoot"
	TaxesHeader    = "State,StateName,TaxRate"
)

// fileStamp identifies one version of a catalog file on disk
type fileStamp struct {
	modTime time.Time
	size    int64
}

// stat returns the current stamp of path. A missing file is a persistence failure.
func stat(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, fmt.Errorf("%w: could not load catalog %s: %w", models.ErrPersistence, path, err)
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}, nil
}

// readCatalog reads every record of a catalog file and hands it to parse
func readCatalog(path, header string, parse func(flatfile.Record) error) error {
	records, err := flatfile.ReadRecords(path, header)
	if err != nil {
		return fmt.Errorf("%w: could not load catalog %s: %w", models.ErrPersistence, path, err)
	}

	for _, rec := range records {
		if err := parse(rec); err != nil {
			return fmt.Errorf("%w: %s line %d: %w", models.ErrPersistence, path, rec.Line, err)
		}
	}
	return nil
}

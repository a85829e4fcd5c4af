package catalog

import (
	"sort"
	"strings"

	"flooring/internal/flatfile"
	"flooring/internal/models"
	"flooring/internal/util"

	"go.uber.org/zap"
)

// TaxReader reads the per-state tax rates
type TaxReader struct {
	path   string
	taxes  map[string]models.Tax
	stamp  fileStamp
	logger *zap.Logger
}

// NewTaxReader creates a reader for the tax file at path
func NewTaxReader(path string) *TaxReader {
	return &TaxReader{
		path:   path,
		logger: util.GetLogger(),
	}
}

// LoadTaxes returns every tax record keyed by upper-case state abbreviation
func (r *TaxReader) LoadTaxes() (map[string]models.Tax, error) {
	stamp, err := stat(r.path)
	if err != nil {
		return nil, err
	}

	if r.taxes == nil || stamp != r.stamp {
		taxes := make(map[string]models.Tax)
		err := readCatalog(r.path, TaxesHeader, func(rec flatfile.Record) error {
			rate, err := flatfile.ParseDecimal(rec.Fields[2])
			if err != nil {
				return err
			}

			abbr := strings.ToUpper(strings.TrimSpace(rec.Fields[0]))
			taxes[abbr] = models.Tax{
				StateAbbreviation: abbr,
				StateName:         strings.TrimSpace(rec.Fields[1]),
				TaxRate:           rate,
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		r.taxes = taxes
		r.stamp = stamp
		r.logger.Debug("Tax catalog loaded", zap.String("path", r.path), zap.Int("states", len(taxes)))
	}

	out := make(map[string]models.Tax, len(r.taxes))
	for k, v := range r.taxes {
		out[k] = v
	}
	return out, nil
}

// GetTax retrieves the tax record for a state abbreviation. Returns nil
// when the state is not in the catalog.
func (r *TaxReader) GetTax(stateAbbreviation string) (*models.Tax, error) {
	taxes, err := r.LoadTaxes()
	if err != nil {
		return nil, err
	}

	tax, ok := taxes[strings.ToUpper(strings.TrimSpace(stateAbbreviation))]
	if !ok {
		return nil, nil
	}
	return &tax, nil
}

// GetAllTaxes retrieves all tax records ordered by state abbreviation
func (r *TaxReader) GetAllTaxes() ([]models.Tax, error) {
	taxes, err := r.LoadTaxes()
	if err != nil {
		return nil, err
	}

	list := make([]models.Tax, 0, len(taxes))
	for _, t := range taxes {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StateAbbreviation < list[j].StateAbbreviation
	})
	return list, nil
}

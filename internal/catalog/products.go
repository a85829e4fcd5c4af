package catalog

import (
	"sort"
	"strings"

	"flooring/internal/flatfile"
	"flooring/internal/models"
	"flooring/internal/util"

	"go.uber.org/zap"
)

// ProductReader reads the product price sheet
type ProductReader struct {
	path     string
	products map[string]models.Product
	stamp    fileStamp
	logger   *zap.Logger
}

// NewProductReader creates a reader for the product file at path
func NewProductReader(path string) *ProductReader {
	return &ProductReader{
		path:   path,
		logger: util.GetLogger(),
	}
}

// LoadProducts returns every product keyed by product type. The file is
// re-parsed whenever its modification time or size changed since the last load.
func (r *ProductReader) LoadProducts() (map[string]models.Product, error) {
	stamp, err := stat(r.path)
	if err != nil {
		return nil, err
	}

	if r.products == nil || stamp != r.stamp {
		products := make(map[string]models.Product)
		err := readCatalog(r.path, ProductsHeader, func(rec flatfile.Record) error {
			cost, err := flatfile.ParseDecimal(rec.Fields[1])
			if err != nil {
				return err
			}
			labor, err := flatfile.ParseDecimal(rec.Fields[2])
			if err != nil {
				return err
			}

			productType := strings.TrimSpace(rec.Fields[0])
			products[productType] = models.Product{
				ProductType:            productType,
				CostPerSquareFoot:      cost,
				LaborCostPerSquareFoot: labor,
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		r.products = products
		r.stamp = stamp
		r.logger.Debug("Product catalog loaded", zap.String("path", r.path), zap.Int("products", len(products)))
	}

	out := make(map[string]models.Product, len(r.products))
	for k, v := range r.products {
		out[k] = v
	}
	return out, nil
}

// GetProduct retrieves a product by type, ignoring case. Returns nil when
// the product is not in the catalog.
func (r *ProductReader) GetProduct(productType string) (*models.Product, error) {
	products, err := r.LoadProducts()
	if err != nil {
		return nil, err
	}

	if p, ok := products[productType]; ok {
		return &p, nil
	}
	for k, p := range products {
		if strings.EqualFold(k, strings.TrimSpace(productType)) {
			return &p, nil
		}
	}
	return nil, nil
}

// GetAllProducts retrieves all products ordered by type
func (r *ProductReader) GetAllProducts() ([]models.Product, error) {
	products, err := r.LoadProducts()
	if err != nil {
		return nil, err
	}

	list := make([]models.Product, 0, len(products))
	for _, p := range products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ProductType < list[j].ProductType
	})
	return list, nil
}

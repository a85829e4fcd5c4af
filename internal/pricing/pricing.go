package pricing

import (
	"flooring/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the derived monetary fields of an order
type Totals struct {
	MaterialCost decimal.Decimal
	LaborCost    decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// ComputeTotals derives the monetary fields of an order. Every step is
// rounded half-up on its own: currency to 2 places, the tax fraction to 4.
// Rounding only the final total gives different cents.
func ComputeTotals(area, costPerSqFt, laborCostPerSqFt, taxRatePercent decimal.Decimal) Totals {
	materialCost := area.Mul(costPerSqFt).Round(2)
	laborCost := area.Mul(laborCostPerSqFt).Round(2)
	taxFraction := taxRatePercent.DivRound(hundred, 4)
	subtotal := materialCost.Add(laborCost)
	tax := subtotal.Mul(taxFraction).Round(2)
	total := subtotal.Add(tax).Round(2)

	return Totals{
		MaterialCost: materialCost,
		LaborCost:    laborCost,
		Tax:          tax,
		Total:        total,
	}
}

// Apply recomputes the derived fields of order from its raw inputs
func Apply(order *models.Order) {
	totals := ComputeTotals(order.Area, order.CostPerSquareFoot, order.LaborCostPerSquareFoot, order.TaxRate)

	order.MaterialCost = totals.MaterialCost
	order.LaborCost = totals.LaborCost
	order.Tax = totals.Tax
	order.Total = totals.Total
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a flooring product in the catalog
type Product struct {
	ProductType            string          `json:"product_type"`
	CostPerSquareFoot      decimal.Decimal `json:"cost_per_square_foot"`
	LaborCostPerSquareFoot decimal.Decimal `json:"labor_cost_per_square_foot"`
}

// Tax represents the sales tax applied in one state
type Tax struct {
	StateAbbreviation string          `json:"state_abbreviation"`
	StateName         string          `json:"state_name"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
}

// Order represents a customer order. OrderDate and OrderNumber identify it;
// MaterialCost, LaborCost, Tax and Total are derived by the pricing engine.
type Order struct {
	OrderNumber            int             `json:"order_number"`
	OrderDate              time.Time       `json:"order_date"`
	CustomerName           string          `json:"customer_name"`
	State                  string          `json:"state"`
	TaxRate                decimal.Decimal `json:"tax_rate"`
	ProductType            string          `json:"product_type"`
	Area                   decimal.Decimal `json:"area"`
	CostPerSquareFoot      decimal.Decimal `json:"cost_per_square_foot"`
	LaborCostPerSquareFoot decimal.Decimal `json:"labor_cost_per_square_foot"`
	MaterialCost           decimal.Decimal `json:"material_cost"`
	LaborCost              decimal.Decimal `json:"labor_cost"`
	Tax                    decimal.Decimal `json:"tax"`
	Total                  decimal.Decimal `json:"total"`
}

// Date layouts
const (
	// FileDateLayout is the MMddyyyy form used in order file names
	FileDateLayout = "01022006"
	// DisplayDateLayout is the MM-dd-yyyy form used for input and export
	DisplayDateLayout = "01-02-2006"
)

// DateOf truncates t to its calendar date so it can be used as a map key
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDisplayDate parses a MM-dd-yyyy date
func ParseDisplayDate(s string) (time.Time, error) {
	t, err := time.Parse(DisplayDateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

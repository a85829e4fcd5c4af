package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"flooring/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printOrderTable(w io.Writer, orders []models.Order) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NUMBER\tCUSTOMER\tSTATE\tPRODUCT\tAREA\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t$%s\n",
			o.OrderNumber, o.CustomerName, o.State, o.ProductType,
			o.Area.StringFixed(2), o.Total.StringFixed(2))
	}
	return tw.Flush()
}

func printOrder(w io.Writer, o *models.Order) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Order Number:\t%d\n", o.OrderNumber)
	fmt.Fprintf(tw, "Order Date:\t%s\n", o.OrderDate.Format(models.DisplayDateLayout))
	fmt.Fprintf(tw, "Customer:\t%s\n", o.CustomerName)
	fmt.Fprintf(tw, "State:\t%s (%s%%)\n", o.State, o.TaxRate.StringFixed(2))
	fmt.Fprintf(tw, "Product:\t%s\n", o.ProductType)
	fmt.Fprintf(tw, "Area:\t%s sq ft\n", o.Area.StringFixed(2))
	fmt.Fprintf(tw, "Cost/sq ft:\t$%s\n", o.CostPerSquareFoot.StringFixed(2))
	fmt.Fprintf(tw, "Labor/sq ft:\t$%s\n", o.LaborCostPerSquareFoot.StringFixed(2))
	fmt.Fprintf(tw, "Material Cost:\t$%s\n", o.MaterialCost.StringFixed(2))
	fmt.Fprintf(tw, "Labor Cost:\t$%s\n", o.LaborCost.StringFixed(2))
	fmt.Fprintf(tw, "Tax:\t$%s\n", o.Tax.StringFixed(2))
	fmt.Fprintf(tw, "Total:\t$%s\n", o.Total.StringFixed(2))
	return tw.Flush()
}

func printProducts(w io.Writer, products []models.Product) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PRODUCT\tCOST/SQ FT\tLABOR/SQ FT")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t$%s\t$%s\n",
			p.ProductType, p.CostPerSquareFoot.StringFixed(2), p.LaborCostPerSquareFoot.StringFixed(2))
	}
	return tw.Flush()
}

func printTaxes(w io.Writer, taxes []models.Tax) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "STATE\tNAME\tTAX RATE")
	for _, t := range taxes {
		fmt.Fprintf(tw, "%s\t%s\t%s%%\n", t.StateAbbreviation, t.StateName, t.TaxRate.StringFixed(2))
	}
	return tw.Flush()
}

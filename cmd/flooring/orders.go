package main

import (
	"fmt"
	"time"

	"flooring/internal/models"
	"flooring/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, show, add, edit and remove orders",
	}

	cmd.AddCommand(
		a.ordersListCmd(),
		a.ordersShowCmd(),
		a.ordersAddCmd(),
		a.ordersEditCmd(),
		a.ordersRemoveCmd(),
	)
	return cmd
}

func (a *app) ordersListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display the orders of one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}

			orders, err := a.svc.GetOrdersForDate(cmd.Context(), orderDate)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No orders for %s.\n", orderDate.Format(models.DisplayDateLayout))
				return nil
			}
			return printOrderTable(cmd.OutOrStdout(), orders)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (MM-dd-yyyy)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func (a *app) ordersShowCmd() *cobra.Command {
	var (
		date   string
		number int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display one order",
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}

			order, err := a.svc.GetOrder(cmd.Context(), orderDate, number)
			if err != nil {
				return err
			}
			return printOrder(cmd.OutOrStdout(), order)
		},
	}

	addOrderKeyFlags(cmd, &date, &number)
	return cmd
}

func (a *app) ordersAddCmd() *cobra.Command {
	var (
		date     string
		customer string
		state    string
		product  string
		area     string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new order",
		Long: `Add a new order for a future date. Rates are taken from the current
product and tax catalogs. Use --dry-run to preview the priced order
without saving it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}
			orderArea, err := parseArea(area)
			if err != nil {
				return err
			}

			req := &service.AddOrderRequest{
				OrderDate:    orderDate,
				CustomerName: customer,
				State:        state,
				ProductType:  product,
				Area:         orderArea,
			}

			out := cmd.OutOrStdout()
			if dryRun {
				order, err := a.svc.PreviewOrder(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Order preview (not saved):")
				return printOrder(out, order)
			}

			order, err := a.svc.AddOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Order %d added.\n", order.OrderNumber)
			return printOrder(out, order)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (MM-dd-yyyy), must be in the future")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name (letters, digits, periods and spaces)")
	cmd.Flags().StringVar(&state, "state", "", "State abbreviation")
	cmd.Flags().StringVar(&product, "product", "", "Product type")
	cmd.Flags().StringVar(&area, "area", "", "Area in square feet")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Price the order without saving it")
	for _, name := range []string{"date", "customer", "state", "product", "area"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) ordersEditCmd() *cobra.Command {
	var (
		date   string
		number int
		req    service.EditOrderRequest
		area   string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an existing order",
		Long: `Edit an existing order. Omitted fields keep their current value. Tax
and product rates are refreshed from the catalogs and the totals are
recomputed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("area") {
				orderArea, err := parseArea(area)
				if err != nil {
					return err
				}
				req.Area = &orderArea
			}

			order, err := a.svc.EditOrder(cmd.Context(), orderDate, number, &req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Order %d edited.\n", order.OrderNumber)
			return printOrder(out, order)
		},
	}

	addOrderKeyFlags(cmd, &date, &number)
	cmd.Flags().StringVar(&req.CustomerName, "customer", "", "New customer name")
	cmd.Flags().StringVar(&req.State, "state", "", "New state abbreviation")
	cmd.Flags().StringVar(&req.ProductType, "product", "", "New product type")
	cmd.Flags().StringVar(&area, "area", "", "New area in square feet")
	return cmd
}

func (a *app) ordersRemoveCmd() *cobra.Command {
	var (
		date   string
		number int
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			orderDate, err := parseDate(date)
			if err != nil {
				return err
			}

			order, err := a.svc.RemoveOrder(cmd.Context(), orderDate, number)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %d removed.\n", order.OrderNumber)
			return nil
		},
	}

	addOrderKeyFlags(cmd, &date, &number)
	return cmd
}

func addOrderKeyFlags(cmd *cobra.Command, date *string, number *int) {
	cmd.Flags().StringVar(date, "date", "", "Order date (MM-dd-yyyy)")
	cmd.Flags().IntVar(number, "number", 0, "Order number")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("number")
}

func parseDate(s string) (time.Time, error) {
	date, err := models.ParseDisplayDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not in MM-dd-yyyy form", models.ErrValidation, s)
	}
	return date, nil
}

func parseArea(s string) (decimal.Decimal, error) {
	area, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: area %q is not a number", models.ErrValidation, s)
	}
	return area, nil
}

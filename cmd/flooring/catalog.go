package main

import (
	"fmt"

	"flooring/internal/export"

	"github.com/spf13/cobra"
)

func (a *app) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Display the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.svc.GetAllProducts(cmd.Context())
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
}

func (a *app) taxesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxes",
		Short: "Display the states we sell in and their tax rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			taxes, err := a.svc.GetAllTaxes(cmd.Context())
			if err != nil {
				return err
			}
			return printTaxes(cmd.OutOrStdout(), taxes)
		},
	}
}

func (a *app) nextNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-number",
		Short: "Display the number the next added order will receive",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.svc.NextOrderNumber(cmd.Context()))
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every order to the backup export file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Business.ExportFormat
			}

			path, rows, err := a.svc.ExportAllData(cmd.Context(), format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %s.\n", rows, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", export.FormatText, "Export format (text or xlsx)")
	return cmd
}

package main

import (
	"fmt"

	"vatrefunder/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newVatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vat",
		Short: "VAT helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "gross <total>",
		Short:   "Print the 21% VAT contained in a VAT-inclusive total",
		Example: "  vatctl vat gross 121.00",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := decimal.NewFromString(args[0])
			if err != nil || total.IsNegative() {
				return fmt.Errorf("total must be a non-negative decimal, got %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.VatFromGrossTotal(total).StringFixed(2))
			return nil
		},
	})
	return cmd
}

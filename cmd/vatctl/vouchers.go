package main

import (
	"fmt"
	"text/tabwriter"

	"vatrefunder/internal/service"

	"github.com/spf13/cobra"
)

func newVouchersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vouchers",
		Short: "List or record payment vouchers",
	}

	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List vouchers, latest period first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.open()
			if err != nil {
				return err
			}
			vouchers, total, err := container.Services.Voucher.ListVouchers(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNUMBER\tPERIOD\tAMOUNT\tBENEFICIARY")
			for _, v := range vouchers {
				fmt.Fprintf(tw, "%d\t%s\tQ%d %d\t%s\t%s\n", v.ID, v.Number, v.Quarter, v.Year, v.Amount, v.Beneficiary)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(vouchers), total)
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&limit, "limit", 50, "vouchers per page")

	var fields service.VoucherFields
	add := &cobra.Command{
		Use:     "add",
		Short:   "Record a voucher that is not attached to an invoice",
		Example: `  vatctl vouchers add --number 7 --beneficiary "ACME SL" --amount 121.00 --quarter 1 --year 2024 --budget-head Utilities`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.open()
			if err != nil {
				return err
			}
			v, err := container.Services.Voucher.RecordVoucher(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "voucher %d recorded: %s %s\n", v.ID, v.Number, v.Amount)
			return nil
		},
	}
	add.Flags().StringVar(&fields.Number, "number", "", "voucher number, zero-padded to 10 characters")
	add.Flags().StringVar(&fields.Beneficiary, "beneficiary", "", "who the voucher pays")
	add.Flags().StringVar(&fields.Amount, "amount", "", "amount in euros")
	add.Flags().StringVar(&fields.Quarter, "quarter", "", "fiscal quarter (1-4)")
	add.Flags().StringVar(&fields.Year, "year", "", "fiscal year")
	add.Flags().StringVar(&fields.BudgetHeadName, "budget-head", "", "budget head name")

	cmd.AddCommand(list, add)
	return cmd
}

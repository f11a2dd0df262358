package main

import (
	"fmt"

	"vatrefunder/internal/batch"
	"vatrefunder/internal/model"

	"github.com/spf13/cobra"
)

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <category> <file>",
		Short: "Import a CSV or XLSX batch of invoices",
		Long: `Import invoices into the chancery or residence table.

Required columns: Supplier_Name, Invoice_Number, Invoice_Date, Invoice_Amount,
Invoice_VAT, Refundable. Status is optional. Invoice numbers that already
exist are skipped and listed.`,
		Example: `  vatctl import chancery q2.csv
  vatctl import residence q2.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			b, err := batch.ReadFile(args[1])
			if err != nil {
				return err
			}
			container, err := c.open()
			if err != nil {
				return err
			}

			result, err := container.Services.Import.ImportBatch(cmd.Context(), category, b)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inserted: %d\n", result.Inserted)
			for _, n := range result.SkippedDuplicates {
				fmt.Fprintf(out, "skipped duplicate: %s\n", n)
			}
			for _, re := range result.RowErrors {
				fmt.Fprintf(out, "line %d: %s\n", re.Line, re.Reason)
			}
			return nil
		},
	}
}

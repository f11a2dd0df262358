package main

import (
	"fmt"

	"vatrefunder/internal/service"

	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		req         service.ExportRequest
		colleagueID uint
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a quarterly submission as PDF or CSV",
		Example: `  vatctl export --scope official --quarter 2 --year 2024 --format pdf
  vatctl export --scope personal --quarter 2 --year 2024 --format csv --colleague 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("colleague") {
				req.ColleagueID = &colleagueID
			}
			container, err := c.open()
			if err != nil {
				return err
			}

			result, err := container.Services.Export.BuildExport(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range result.Files {
				fmt.Fprintln(out, f)
			}
			if result.AuditFile != "" {
				fmt.Fprintf(out, "%s (%d truncated invoice numbers)\n", result.AuditFile, len(result.Truncations))
			}
			fmt.Fprintf(out, "total: %s  vat: %s\n", result.GrandTotal, result.GrandTotalVAT)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Scope, "scope", service.ScopeOfficial, "official, chancery, residence, personal or vouchers")
	cmd.Flags().IntVar(&req.Quarter, "quarter", 0, "quarter 1-4")
	cmd.Flags().IntVar(&req.FiscalYear, "year", 0, "fiscal year")
	cmd.Flags().StringVar(&req.Format, "format", service.FormatPDF, "pdf or csv")
	cmd.Flags().UintVar(&colleagueID, "colleague", 0, "restrict a personal export to one colleague id")
	_ = cmd.MarkFlagRequired("quarter")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

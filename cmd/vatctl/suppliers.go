package main

import (
	"fmt"
	"text/tabwriter"

	"vatrefunder/internal/service"

	"github.com/spf13/cobra"
)

func newSuppliersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "List or register suppliers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List suppliers by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.open()
			if err != nil {
				return err
			}
			suppliers, err := container.Services.Reference.ListSuppliers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNIF\tNAME")
			for _, s := range suppliers {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.TaxCode, s.Name)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "add <nif-code> <name>",
		Short:   "Register a supplier",
		Example: `  vatctl suppliers add B12345678 "ACME SL"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := c.open()
			if err != nil {
				return err
			}
			supplier, err := container.Services.Reference.CreateSupplier(cmd.Context(), service.CreateSupplierRequest{
				TaxCode: args[0],
				Name:    args[1],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "supplier %d created: %s %s\n", supplier.ID, supplier.TaxCode, supplier.Name)
			return nil
		},
	})

	return cmd
}

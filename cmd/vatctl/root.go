package main

import (
	"fmt"
	"os"

	"vatrefunder/internal/app"
	"vatrefunder/internal/config"
	"vatrefunder/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// cli carries the state shared by every subcommand.
type cli struct {
	envFile   string
	cfg       *config.Config
	container *app.Container
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "vatctl",
		Short: "Record invoices and build quarterly VAT refund submissions",
		Long: `vatctl works directly against the VAT refunder database.

Configuration comes from the environment (DB_DRIVER, DB_PATH, DB_HOST, ...,
OUTPUT_DIRECTORY, LOG_LEVEL) and an optional env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.envFile)
			if err != nil {
				return err
			}
			// stdout is reserved for command output
			if err := logger.Setup(logger.LogConfig{Level: cfg.Logger.Level, Format: cfg.Logger.Format, Output: os.Stderr}); err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			c.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.container == nil {
				return nil
			}
			err := c.container.Close()
			c.container = nil
			return err
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env", "configs/.env", "optional env file")

	root.AddCommand(
		newSuppliersCmd(c),
		newVouchersCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newVatCmd(),
		newMigrateCmd(c),
	)
	return root
}

// open connects on first use.
func (c *cli) open() (*app.Container, error) {
	if c.container != nil {
		return c.container, nil
	}
	container, err := app.Open(c.cfg, nil)
	if err != nil {
		return nil, err
	}
	c.container = container
	return container, nil
}

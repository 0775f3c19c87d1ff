package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/seeder"
	"github.com/smartshop/shopctl/internal/session"
	"github.com/smartshop/shopctl/pkg/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the catalog with fake data",
	Long: `Create fake categories, products, stock records and customer accounts
through the API. Requires an admin or vendor login.

Configuration cascade (priority order):
  1. Command-line flags
  2. --file, or ./seed.yaml
  3. seed.yaml in the config directory
  4. Built-in defaults

Examples:
  # Default volume
  shopctl seed

  # Reproducible run with more products
  shopctl seed --seed 42 --products 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		seedCfg, err := seeder.LoadConfig(file, cfg.Dir())
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("categories") {
			seedCfg.Categories, _ = flags.GetInt("categories")
		}
		if flags.Changed("products") {
			seedCfg.ProductsPerCategory, _ = flags.GetInt("products")
		}
		if flags.Changed("customers") {
			seedCfg.Customers, _ = flags.GetInt("customers")
		}
		if flags.Changed("batch-size") {
			seedCfg.BatchSize, _ = flags.GetInt("batch-size")
		}
		if flags.Changed("seed") {
			seedCfg.Seed, _ = flags.GetInt64("seed")
		}
		if flags.Changed("no-inventory") {
			skip, _ := flags.GetBool("no-inventory")
			seedCfg.Inventory = !skip
		}
		if err := seedCfg.Validate(); err != nil {
			return err
		}

		if err := app.RequireRole(cmd.Context(), session.RoleAdmin, session.RoleVendor); err != nil {
			return err
		}

		report, err := seeder.NewRunner(seedCfg, app.API, app.Logger).Run(cmd.Context())
		if err != nil {
			return err
		}
		return output.Render(outputFormat, report, func() {
			output.Success("Seeding complete")
			output.Info("  Categories: %d", report.Categories)
			output.Info("  Products:   %d", report.Products)
			output.Info("  Inventory:  %d", report.Inventory)
			output.Info("  Customers:  %d", report.Customers)
			if report.Failed > 0 {
				output.Warn("%d records failed, see the warnings above", report.Failed)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("file", "", "seed config file (default: ./seed.yaml)")
	seedCmd.Flags().Int("categories", 0, "number of categories")
	seedCmd.Flags().Int("products", 0, "products per category")
	seedCmd.Flags().Int("customers", 0, "customer accounts to register")
	seedCmd.Flags().Int("batch-size", 0, "products per bulk request")
	seedCmd.Flags().Int64("seed", 0, "random seed for reproducible data")
	seedCmd.Flags().Bool("no-inventory", false, "skip stock records")
}

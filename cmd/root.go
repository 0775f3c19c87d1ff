package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/config"
	"github.com/smartshop/shopctl/internal/metrics"
	"github.com/smartshop/shopctl/pkg/color"
	"github.com/smartshop/shopctl/pkg/output"
)

// skipApp marks commands that only need configuration, not an API client.
const skipApp = "skip-app"

var (
	configDir    string
	profileName  string
	outputFlag   string
	metricsFile  string
	noColor      bool
	outputFormat = output.FormatTable

	cfg *config.Config
	app *App
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "SmartShop command-line client",
	Long: `shopctl is the command-line client for the SmartShop e-commerce API.

Log in, browse the catalog, manage orders, inventory, reviews and your cart,
and administer users from your terminal.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command line and prints any error on stderr.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		output.Error("%s", err.Error())
	}
	teardown()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: $SHOPCTL_CONFIG_DIR or ~/.shopctl)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "profile to use (default: current_profile from config)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func setup(cmd *cobra.Command, _ []string) error {
	if noColor {
		color.NoColor = true
	}

	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}
	outputFormat = format

	// Config-only commands must still run against a file holding bad
	// values, or there would be no way to repair it.
	configOnly := cmd.Annotations[skipApp] == "true"
	if configOnly {
		cfg, err = config.LoadUnvalidated(configDir)
	} else {
		cfg, err = config.Load(configDir)
	}
	if err != nil {
		return err
	}
	if profileName != "" {
		cfg.CurrentProfile = profileName
	}

	if configOnly {
		return nil
	}
	app, err = newApp(cmd.Context(), cfg)
	return err
}

func teardown() {
	if app != nil {
		if err := app.Close(); err != nil {
			output.Warn("failed to close token store: %v", err)
		}
		app = nil
	}
	if metricsFile != "" {
		if err := writeMetrics(metricsFile); err != nil {
			output.Warn("failed to write metrics: %v", err)
		}
	}
}

func writeMetrics(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := metrics.WriteText(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	return f.Close()
}

package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/pkg/output"
)

// Set at build time with -ldflags "-X github.com/smartshop/shopctl/cmd.version=...".
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the shopctl version",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		info := map[string]string{
			"version": version,
			"go":      runtime.Version(),
			"os":      runtime.GOOS + "/" + runtime.GOARCH,
		}
		return output.Render(outputFormat, info, func() {
			output.Info("shopctl %s (%s, %s)", version, info["go"], info["os"])
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/config"
	"github.com/smartshop/shopctl/pkg/output"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "View and change shopctl settings",
	Annotations: map[string]string{skipApp: "true"},
}

// settings flattens cfg into the keys config set understands.
func settings(c *config.Config) map[string]string {
	return map[string]string{
		"current_profile":       c.CurrentProfile,
		"api.base_url":          c.API.BaseURL,
		"api.graphql_url":       c.API.GraphQLURL,
		"api.timeout":           c.API.Timeout.String(),
		"catalog.transport":     c.Catalog.Transport,
		"token_store.backend":   c.TokenStore.Backend,
		"token_store.redis_url": c.TokenStore.RedisURL,
		"token_store.ttl":       c.TokenStore.TTL.String(),
		"session.server_logout": strconv.FormatBool(c.Session.ServerLogout),
		"logging.level":         c.Logging.Level,
		"logging.format":        c.Logging.Format,
	}
}

var configViewCmd = &cobra.Command{
	Use:         "view",
	Short:       "Show the effective configuration",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		values := settings(cfg)
		return output.Render(outputFormat, values, func() {
			output.Info("Configuration (%s)", cfg.Path())
			t := output.NewTable("KEY", "VALUE")
			for _, k := range config.Keys() {
				t.AddRow(k, values[k])
			}
			t.Render()
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:         "set [key] [value]",
	Short:       "Write one setting to config.yaml",
	Annotations: map[string]string{skipApp: "true"},
	Args:        cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		output.Success("Set %s = %s in %s", args[0], args[1], cfg.Path())
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:         "use [profile]",
	Short:       "Switch the current profile",
	Annotations: map[string]string{skipApp: "true"},
	Args:        cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.UseProfile(args[0]); err != nil {
			return err
		}
		output.Success("Now using profile '%s'", args[0])
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List the settings config set accepts",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range config.Keys() {
			output.Info("%s", k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configKeysCmd)
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/session"
	"github.com/smartshop/shopctl/pkg/output"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to SmartShop",
	Long:  "Authenticate with email and password and keep the token for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		id, err := app.Session.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, id, func() {
			output.Success("Logged in as %s (%s)", id.Name(), id.Email)
			output.Info("Role: %s, dashboard: %s", id.Role, id.Role.Dashboard())
			output.Info("Profile '%s' saved to the %s token store", cfg.CurrentProfile, app.Tokens.Backend())
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		id, err := app.Session.Register(cmd.Context(), firstName, lastName, email, password)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, id, func() {
			output.Success("Registered and logged in as %s (%s)", id.Name(), id.Email)
			output.Info("Dashboard: %s", id.Role.Dashboard())
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.Session.Logout(cmd.Context())
		output.Success("Logged out from profile '%s'", cfg.CurrentProfile)
		return nil
	},
}

type whoami struct {
	session.Identity
	Dashboard string     `json:"dashboard"`
	Profile   string     `json:"profile"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the signed-in user",
	Long:  "Restore the stored session and show who it belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := app.Identity(cmd.Context())
		if err != nil {
			return err
		}

		info := whoami{
			Identity:  *id,
			Dashboard: id.Role.Dashboard(),
			Profile:   cfg.CurrentProfile,
		}
		if claims, err := session.ParseClaims(app.API.Credentials().Token(cmd.Context())); err == nil && !claims.ExpiresAt.IsZero() {
			info.ExpiresAt = &claims.ExpiresAt
			info.Expired = claims.Expired(time.Now())
		}

		return output.Render(outputFormat, info, func() {
			output.Info("Profile:   %s", info.Profile)
			fmt.Fprintf(output.Stdout, "  ID:        %d\n", id.ID)
			fmt.Fprintf(output.Stdout, "  Name:      %s\n", id.Name())
			fmt.Fprintf(output.Stdout, "  Email:     %s\n", id.Email)
			fmt.Fprintf(output.Stdout, "  Role:      %s\n", id.Role)
			fmt.Fprintf(output.Stdout, "  Dashboard: %s\n", info.Dashboard)
			if info.ExpiresAt != nil {
				fmt.Fprintf(output.Stdout, "  Expires:   %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
			}
			if info.Expired {
				output.Warn("The stored token has expired; the server may reject it")
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
	registerCmd.Flags().StringP("email", "e", "", "Email address")
	registerCmd.Flags().StringP("password", "p", "", "Password (8-20 characters)")
	registerCmd.MarkFlagRequired("first-name")
	registerCmd.MarkFlagRequired("last-name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
}

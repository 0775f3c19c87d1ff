package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/session"
	"github.com/smartshop/shopctl/pkg/output"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User and profile commands",
	Long:  "Show or update your profile, and manage accounts (admin only)",
}

var usersProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := app.API.Users.Profile(cmd.Context())
		if err != nil {
			return err
		}
		return output.Render(outputFormat, user, func() { printUser(user) })
	},
}

var usersUpdateProfileCmd = &cobra.Command{
	Use:   "update-profile",
	Short: "Update your name or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.UpdateProfileRequest{}
		in.FirstName, _ = cmd.Flags().GetString("first-name")
		in.LastName, _ = cmd.Flags().GetString("last-name")
		in.Email, _ = cmd.Flags().GetString("email")

		user, err := app.API.Users.UpdateProfile(cmd.Context(), in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, user, func() {
			output.Success("Profile updated")
			printUser(user)
		})
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.RequireRole(cmd.Context(), session.RoleAdmin); err != nil {
			return err
		}
		page, size := paging(cmd)
		users, err := app.API.Users.List(cmd.Context(), page, size)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, users, func() {
			t := output.NewTable("ID", "NAME", "EMAIL", "ROLE")
			for _, u := range users.Content {
				t.AddRow(u.ID, u.FullName(), u.Email, u.Role)
			}
			t.Render()
			printPageFooter(users)
		})
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get [user-id]",
	Short: "Get user details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.RequireRole(cmd.Context(), session.RoleAdmin); err != nil {
			return err
		}
		user, err := app.API.Users.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, user, func() { printUser(user) })
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Update a user",
	Long:  "Update a user's name, email or role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in := client.UpdateUserRequest{}
		in.FirstName, _ = cmd.Flags().GetString("first-name")
		in.LastName, _ = cmd.Flags().GetString("last-name")
		in.Email, _ = cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		in.Role = client.Role(role).Normalize()

		if err := app.RequireRole(cmd.Context(), session.RoleAdmin); err != nil {
			return err
		}
		user, err := app.API.Users.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, user, func() {
			output.Success("User %d updated", user.ID)
			printUser(user)
		})
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.RequireRole(cmd.Context(), session.RoleAdmin); err != nil {
			return err
		}
		if err := app.API.Users.Delete(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("User %d deleted", id)
		return nil
	},
}

func printUser(u *client.User) {
	fmt.Fprintf(output.Stdout, "  ID:    %d\n", u.ID)
	fmt.Fprintf(output.Stdout, "  Name:  %s\n", u.FullName())
	fmt.Fprintf(output.Stdout, "  Email: %s\n", u.Email)
	fmt.Fprintf(output.Stdout, "  Role:  %s\n", u.Role)
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersProfileCmd)
	usersCmd.AddCommand(usersUpdateProfileCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	for _, c := range []*cobra.Command{usersUpdateProfileCmd, usersUpdateCmd} {
		c.Flags().String("first-name", "", "New first name")
		c.Flags().String("last-name", "", "New last name")
		c.Flags().String("email", "", "New email address")
	}
	usersUpdateCmd.Flags().String("role", "", "New role: ADMIN, VENDOR or CUSTOMER")

	addPagingFlags(usersListCmd)
}

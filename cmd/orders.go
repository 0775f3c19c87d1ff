package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/session"
	"github.com/smartshop/shopctl/pkg/output"
)

var ordersCmd = &cobra.Command{
	Use:     "orders",
	Aliases: []string{"order"},
	Short:   "Place and manage orders",
}

var ordersCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Place an order",
	Example: `  shopctl orders create --item 12:2 --item 40:1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringSlice("item")
		items, err := parseOrderItems(pairs)
		if err != nil {
			return err
		}
		order, err := app.API.Orders.Create(cmd.Context(), client.CreateOrderRequest{Items: items})
		if err != nil {
			return err
		}
		return output.Render(outputFormat, order, func() {
			output.Success("Order %d placed", order.ID)
			printOrder(order)
		})
	},
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	Long:  "List your own orders, or with --all every order in the shop (admin or vendor)",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		var (
			orders *client.Page[client.Order]
			err    error
		)
		if all {
			if err := app.RequireRole(cmd.Context(), session.RoleAdmin, session.RoleVendor); err != nil {
				return err
			}
			orders, err = app.API.Orders.ListAll(cmd.Context(), listOptions(cmd))
		} else {
			page, size := paging(cmd)
			orders, err = app.API.Orders.ListMine(cmd.Context(), page, size)
		}
		if err != nil {
			return err
		}

		return output.Render(outputFormat, orders, func() {
			t := output.NewTable("ID", "CUSTOMER", "STATUS", "ITEMS", "TOTAL", "CREATED")
			for _, o := range orders.Content {
				t.AddRow(o.ID, o.UserName, o.Status, len(o.Items), fmt.Sprintf("%.2f", o.TotalAmount), formatTime(o.CreatedAt))
			}
			t.Render()
			printPageFooter(orders)
		})
	},
}

var ordersGetCmd = &cobra.Command{
	Use:   "get [order-id]",
	Short: "Get order details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		order, err := app.API.Orders.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, order, func() { printOrder(order) })
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status [order-id] [status]",
	Short: "Change an order's status",
	Long:  "Set an order to PENDING, PROCESSING, SHIPPED, DELIVERED or CANCELLED",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		order, err := app.API.Orders.UpdateStatus(cmd.Context(), id, client.OrderStatus(args[1]))
		if err != nil {
			return err
		}
		return output.Render(outputFormat, order, func() {
			output.Success("Order %d is now %s", order.ID, order.Status)
		})
	},
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete [order-id]",
	Short: "Delete an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.API.Orders.Delete(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Order %d deleted", id)
		return nil
	},
}

// parseOrderItems reads "productID:quantity" pairs. A missing quantity means 1.
func parseOrderItems(pairs []string) ([]client.OrderItemInput, error) {
	items := make([]client.OrderItemInput, 0, len(pairs))
	for _, raw := range pairs {
		idPart, qtyPart, hasQty := strings.Cut(raw, ":")
		id, err := parseID(idPart)
		if err != nil {
			return nil, fmt.Errorf("invalid item %q: %w", raw, err)
		}
		qty := 1
		if hasQty {
			if qty, err = strconv.Atoi(qtyPart); err != nil {
				return nil, fmt.Errorf("invalid quantity in item %q", raw)
			}
		}
		items = append(items, client.OrderItemInput{ProductID: id, Quantity: qty})
	}
	return items, nil
}

func printOrder(o *client.Order) {
	fmt.Fprintf(output.Stdout, "  ID:       %d\n", o.ID)
	fmt.Fprintf(output.Stdout, "  Customer: %s\n", o.UserName)
	fmt.Fprintf(output.Stdout, "  Status:   %s\n", o.Status)
	fmt.Fprintf(output.Stdout, "  Total:    %.2f\n", o.TotalAmount)
	fmt.Fprintf(output.Stdout, "  Created:  %s\n", formatTime(o.CreatedAt))
	if len(o.Items) == 0 {
		return
	}
	fmt.Fprintln(output.Stdout)
	t := output.NewTable("PRODUCT", "NAME", "QTY", "TOTAL")
	for _, it := range o.Items {
		t.AddRow(it.ProductID, it.ProductName, it.Quantity, fmt.Sprintf("%.2f", it.TotalPrice))
	}
	t.Render()
}

func formatTime(t client.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersGetCmd)
	ordersCmd.AddCommand(ordersStatusCmd)
	ordersCmd.AddCommand(ordersDeleteCmd)

	ordersCreateCmd.Flags().StringSlice("item", nil, "productID:quantity, repeatable")
	ordersCreateCmd.MarkFlagRequired("item")

	addPagingFlags(ordersListCmd)
	ordersListCmd.Flags().Bool("all", false, "list every order (admin or vendor)")
	ordersListCmd.Flags().String("sort-by", "", "sort field, with --all")
	ordersListCmd.Flags().Bool("asc", true, "sort ascending, with --all")
}

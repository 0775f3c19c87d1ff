package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/pkg/output"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Shopping cart commands",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := app.API.Cart.Get(cmd.Context())
		if err != nil {
			return err
		}
		return renderCart(cart, "")
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to your cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := parseID(args[0])
		if err != nil {
			return err
		}
		qty, _ := cmd.Flags().GetInt("quantity")
		cart, err := app.API.Cart.AddItem(cmd.Context(), client.CartItemInput{ProductID: productID, Quantity: qty})
		if err != nil {
			return err
		}
		return renderCart(cart, fmt.Sprintf("Added product %d", productID))
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update [item-id] [quantity]",
	Short: "Change the quantity of a cart item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		cart, err := app.API.Cart.UpdateItem(cmd.Context(), itemID, qty)
		if err != nil {
			return err
		}
		return renderCart(cart, fmt.Sprintf("Item %d updated", itemID))
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [item-id]",
	Short: "Remove an item from your cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0])
		if err != nil {
			return err
		}
		cart, err := app.API.Cart.RemoveItem(cmd.Context(), itemID)
		if err != nil {
			return err
		}
		return renderCart(cart, fmt.Sprintf("Item %d removed", itemID))
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.API.Cart.Clear(cmd.Context()); err != nil {
			return err
		}
		output.Success("Cart cleared")
		return nil
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Check out your cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := app.API.Cart.Checkout(cmd.Context())
		if err != nil {
			return err
		}
		return renderCart(cart, "Checked out")
	},
}

func renderCart(cart *client.Cart, message string) error {
	return output.Render(outputFormat, cart, func() {
		if message != "" {
			output.Success("%s", message)
		}
		if len(cart.Items) == 0 {
			output.Info("Your cart is empty")
			return
		}
		t := output.NewTable("ITEM", "PRODUCT", "NAME", "PRICE", "QTY", "TOTAL")
		for _, it := range cart.Items {
			t.AddRow(it.ID, it.ProductID, it.ProductName,
				fmt.Sprintf("%.2f", it.ProductPrice), it.Quantity, fmt.Sprintf("%.2f", it.TotalPrice))
		}
		t.Render()
		output.Info("%d items, total %.2f", cart.TotalItems, cart.TotalAmount)
	})
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartCheckoutCmd)

	cartAddCmd.Flags().IntP("quantity", "q", 1, "Quantity")
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/pkg/output"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage stock levels",
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory records",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, size := paging(cmd)
		items, err := app.API.Inventory.List(cmd.Context(), page, size)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, items, func() {
			t := output.NewTable("ID", "PRODUCT", "NAME", "QTY", "LOCATION")
			for _, it := range items.Content {
				t.AddRow(it.ID, it.ProductID, it.ProductName, it.Quantity, it.Location)
			}
			t.Render()
			printPageFooter(items)
		})
	},
}

var inventoryGetCmd = &cobra.Command{
	Use:   "get [inventory-id]",
	Short: "Get an inventory record",
	Long:  "Get an inventory record by its ID, or with --product by product ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		byProduct, _ := cmd.Flags().GetBool("product")

		var item *client.InventoryItem
		if byProduct {
			item, err = app.API.Inventory.GetByProduct(cmd.Context(), id)
		} else {
			item, err = app.API.Inventory.Get(cmd.Context(), id)
		}
		if err != nil {
			return err
		}
		return output.Render(outputFormat, item, func() { printInventory(item) })
	},
}

var inventoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an inventory record",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.InventoryInput{}
		in.ProductID, _ = cmd.Flags().GetInt64("product-id")
		in.Quantity, _ = cmd.Flags().GetInt("quantity")
		in.Location, _ = cmd.Flags().GetString("location")

		item, err := app.API.Inventory.Add(cmd.Context(), in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, item, func() {
			output.Success("Inventory record created")
			printInventory(item)
		})
	},
}

var inventoryUpdateCmd = &cobra.Command{
	Use:   "update [inventory-id]",
	Short: "Set quantity or location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in := client.InventoryUpdate{}
		if cmd.Flags().Changed("quantity") {
			v, _ := cmd.Flags().GetInt("quantity")
			in.Quantity = &v
		}
		in.Location, _ = cmd.Flags().GetString("location")

		item, err := app.API.Inventory.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, item, func() {
			output.Success("Inventory %d updated", item.ID)
			printInventory(item)
		})
	},
}

var inventoryAdjustCmd = &cobra.Command{
	Use:     "adjust [inventory-id] [delta]",
	Short:   "Add to or remove from the stock quantity",
	Example: `  shopctl inventory adjust 7 -- -3`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity change %q", args[1])
		}
		item, err := app.API.Inventory.AdjustQuantity(cmd.Context(), id, delta)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, item, func() {
			output.Success("Inventory %d now holds %d", item.ID, item.Quantity)
		})
	},
}

var inventoryDeleteCmd = &cobra.Command{
	Use:   "delete [inventory-id]",
	Short: "Delete an inventory record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.API.Inventory.Delete(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Inventory %d deleted", id)
		return nil
	},
}

func printInventory(it *client.InventoryItem) {
	fmt.Fprintf(output.Stdout, "  ID:       %d\n", it.ID)
	fmt.Fprintf(output.Stdout, "  Product:  %d %s\n", it.ProductID, it.ProductName)
	fmt.Fprintf(output.Stdout, "  Quantity: %d\n", it.Quantity)
	fmt.Fprintf(output.Stdout, "  Location: %s\n", it.Location)
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryGetCmd)
	inventoryCmd.AddCommand(inventoryAddCmd)
	inventoryCmd.AddCommand(inventoryUpdateCmd)
	inventoryCmd.AddCommand(inventoryAdjustCmd)
	inventoryCmd.AddCommand(inventoryDeleteCmd)

	addPagingFlags(inventoryListCmd)
	inventoryGetCmd.Flags().Bool("product", false, "treat the argument as a product ID")

	inventoryAddCmd.Flags().Int64("product-id", 0, "Product ID")
	inventoryAddCmd.Flags().Int("quantity", 0, "Units in stock")
	inventoryAddCmd.Flags().String("location", "", "Storage location")
	inventoryAddCmd.MarkFlagRequired("product-id")

	inventoryUpdateCmd.Flags().Int("quantity", 0, "Units in stock")
	inventoryUpdateCmd.Flags().String("location", "", "Storage location")
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/pkg/output"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Browse and manage product categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Long:  "List categories over the configured catalog transport (rest or graphql)",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := app.Catalog.ListCategories(cmd.Context(), listOptions(cmd))
		if err != nil {
			return err
		}
		return output.Render(outputFormat, categories, func() {
			t := output.NewTable("ID", "NAME", "DESCRIPTION")
			for _, c := range categories.Content {
				t.AddRow(c.ID, c.Name, c.Description)
			}
			t.Render()
			printPageFooter(categories)
		})
	},
}

var categoriesGetCmd = &cobra.Command{
	Use:   "get [category-id]",
	Short: "Get category details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		category, err := app.API.Categories.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, category, func() { printCategory(category) })
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.CategoryInput{}
		in.Name, _ = cmd.Flags().GetString("name")
		in.Description, _ = cmd.Flags().GetString("description")

		category, err := app.API.Categories.Add(cmd.Context(), in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, category, func() {
			output.Success("Category created")
			printCategory(category)
		})
	},
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update [category-id]",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in := client.CategoryUpdate{}
		in.Name, _ = cmd.Flags().GetString("name")
		in.Description, _ = cmd.Flags().GetString("description")

		category, err := app.API.Categories.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, category, func() {
			output.Success("Category %d updated", category.ID)
			printCategory(category)
		})
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete [category-id]",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.API.Categories.Delete(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Category %d deleted", id)
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Browse and manage products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Long: `List products over the configured catalog transport.

Paging, category filter and sorting apply to the rest transport; the graphql
transport returns the whole catalog as a single page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := app.Catalog.ListProducts(cmd.Context(), listOptions(cmd))
		if err != nil {
			return err
		}
		return output.Render(outputFormat, products, func() {
			printProducts(products.Content)
			printPageFooter(products)
		})
	},
}

var productsGetCmd = &cobra.Command{
	Use:   "get [product-id]",
	Short: "Get product details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		product, err := app.Catalog.GetProduct(cmd.Context(), id)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, product, func() { printProduct(product) })
	},
}

var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.ProductInput{}
		in.Name, _ = cmd.Flags().GetString("name")
		in.Description, _ = cmd.Flags().GetString("description")
		in.ImageURL, _ = cmd.Flags().GetString("image-url")
		in.SKU, _ = cmd.Flags().GetString("sku")
		in.CategoryID, _ = cmd.Flags().GetInt64("category-id")
		in.Price, _ = cmd.Flags().GetFloat64("price")

		product, err := app.API.Products.Add(cmd.Context(), in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, product, func() {
			output.Success("Product created")
			printProduct(product)
		})
	},
}

var productsAddBulkCmd = &cobra.Command{
	Use:   "add-bulk [file]",
	Short: "Create several products from a JSON or YAML file",
	Long: `Create several products in one request. The file holds a list of
products using the API field names, for example:

  - name: Desk Lamp
    price: 24.99
    categoryId: 3
    sku: LAMP-001`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readProductFile(args[0])
		if err != nil {
			return err
		}
		products, err := app.API.Products.AddBulk(cmd.Context(), in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, products, func() {
			output.Success("%d products created", len(products))
			printProducts(products)
		})
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update [product-id]",
	Short: "Update a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		in := client.ProductUpdate{}
		in.Name, _ = flags.GetString("name")
		in.Description, _ = flags.GetString("description")
		in.ImageURL, _ = flags.GetString("image-url")
		in.SKU, _ = flags.GetString("sku")
		if flags.Changed("category-id") {
			v, _ := flags.GetInt64("category-id")
			in.CategoryID = &v
		}
		if flags.Changed("price") {
			v, _ := flags.GetFloat64("price")
			in.Price = &v
		}
		if flags.Changed("available") {
			v, _ := flags.GetBool("available")
			in.IsAvailable = &v
		}

		product, err := app.API.Products.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, product, func() {
			output.Success("Product %d updated", product.ID)
			printProduct(product)
		})
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete [product-id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.API.Products.Delete(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Product %d deleted", id)
		return nil
	},
}

// listOptions builds ListOptions from the flags the user actually set.
func listOptions(cmd *cobra.Command) *client.ListOptions {
	flags := cmd.Flags()
	opts := &client.ListOptions{}
	if flags.Changed("page") {
		v, _ := flags.GetInt("page")
		opts.Page = &v
	}
	if flags.Changed("size") {
		v, _ := flags.GetInt("size")
		opts.Size = &v
	}
	if f := flags.Lookup("category"); f != nil && f.Changed {
		v, _ := flags.GetInt64("category")
		opts.CategoryID = &v
	}
	if f := flags.Lookup("sort-by"); f != nil {
		opts.SortBy = f.Value.String()
	}
	if f := flags.Lookup("asc"); f != nil && f.Changed {
		v, _ := flags.GetBool("asc")
		opts.Ascending = &v
	}
	if f := flags.Lookup("algorithm"); f != nil {
		opts.Algorithm = f.Value.String()
	}
	return opts
}

func readProductFile(path string) ([]client.ProductInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var generic []map[string]any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return nil, err
		}
	}

	var products []client.ProductInput
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return products, nil
}

func printCategory(c *client.Category) {
	fmt.Fprintf(output.Stdout, "  ID:          %d\n", c.ID)
	fmt.Fprintf(output.Stdout, "  Name:        %s\n", c.Name)
	fmt.Fprintf(output.Stdout, "  Description: %s\n", c.Description)
}

func printProduct(p *client.Product) {
	fmt.Fprintf(output.Stdout, "  ID:       %d\n", p.ID)
	fmt.Fprintf(output.Stdout, "  Name:     %s\n", p.Name)
	fmt.Fprintf(output.Stdout, "  Price:    %.2f\n", p.Price)
	fmt.Fprintf(output.Stdout, "  Quantity: %d\n", p.Quantity)
	fmt.Fprintf(output.Stdout, "  Category: %s\n", p.CategoryName)
}

func printProducts(products []client.Product) {
	t := output.NewTable("ID", "NAME", "PRICE", "QTY", "CATEGORY")
	for _, p := range products {
		t.AddRow(p.ID, p.Name, fmt.Sprintf("%.2f", p.Price), p.Quantity, p.CategoryName)
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesGetCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesUpdateCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)

	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsGetCmd)
	productsCmd.AddCommand(productsAddCmd)
	productsCmd.AddCommand(productsAddBulkCmd)
	productsCmd.AddCommand(productsUpdateCmd)
	productsCmd.AddCommand(productsDeleteCmd)

	addPagingFlags(categoriesListCmd)
	categoriesListCmd.Flags().String("sort-by", "", "sort field")
	categoriesListCmd.Flags().Bool("asc", true, "sort ascending")

	addPagingFlags(productsListCmd)
	productsListCmd.Flags().Int64("category", 0, "only products in this category")
	productsListCmd.Flags().String("sort-by", "", "sort field, e.g. price or name")
	productsListCmd.Flags().Bool("asc", true, "sort ascending")
	productsListCmd.Flags().String("algorithm", "", "server-side sort algorithm")

	for _, c := range []*cobra.Command{categoriesAddCmd, categoriesUpdateCmd} {
		c.Flags().String("name", "", "Category name")
		c.Flags().String("description", "", "Category description")
	}

	for _, c := range []*cobra.Command{productsAddCmd, productsUpdateCmd} {
		c.Flags().String("name", "", "Product name")
		c.Flags().String("description", "", "Product description")
		c.Flags().String("image-url", "", "Image URL")
		c.Flags().String("sku", "", "Stock keeping unit")
		c.Flags().Int64("category-id", 0, "Category ID")
		c.Flags().Float64("price", 0, "Price")
	}
	productsUpdateCmd.Flags().Bool("available", true, "Mark the product available or not")
}

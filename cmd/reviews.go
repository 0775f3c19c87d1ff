package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/pkg/output"
)

var reviewsCmd = &cobra.Command{
	Use:     "reviews",
	Aliases: []string{"review"},
	Short:   "Read and write product reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews",
	Long:  "List all reviews, reviews of one product with --product, or your own with --mine",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, size := paging(cmd)
		productID, _ := cmd.Flags().GetInt64("product")
		mine, _ := cmd.Flags().GetBool("mine")

		var (
			reviews *client.Page[client.Review]
			err     error
		)
		switch {
		case mine:
			reviews, err = app.API.Reviews.ListMine(cmd.Context(), page, size)
		case productID > 0:
			reviews, err = app.API.Reviews.ListByProduct(cmd.Context(), productID, page, size)
		default:
			reviews, err = app.API.Reviews.List(cmd.Context(), page, size)
		}
		if err != nil {
			return err
		}

		return output.Render(outputFormat, reviews, func() {
			t := output.NewTable("ID", "PRODUCT", "USER", "RATING", "COMMENT")
			for _, r := range reviews.Content {
				t.AddRow(r.ID, r.ProductName, r.UserName, stars(r.Rating), r.Comment)
			}
			t.Render()
			printPageFooter(reviews)
		})
	},
}

var reviewsGetCmd = &cobra.Command{
	Use:   "get [review-id]",
	Short: "Get a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		review, err := app.API.Reviews.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, review, func() { printReview(review) })
	},
}

var reviewsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Review a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.ReviewInput{}
		in.ProductID, _ = cmd.Flags().GetInt64("product-id")
		in.Rating, _ = cmd.Flags().GetInt("rating")
		in.Comment, _ = cmd.Flags().GetString("comment")

		review, err := app.API.Reviews.Add(cmd.Context(), in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, review, func() {
			output.Success("Review %d posted", review.ID)
			printReview(review)
		})
	},
}

var reviewsUpdateCmd = &cobra.Command{
	Use:   "update [review-id]",
	Short: "Edit a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in := client.ReviewUpdate{}
		if cmd.Flags().Changed("rating") {
			v, _ := cmd.Flags().GetInt("rating")
			in.Rating = &v
		}
		in.Comment, _ = cmd.Flags().GetString("comment")

		review, err := app.API.Reviews.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return output.Render(outputFormat, review, func() {
			output.Success("Review %d updated", review.ID)
			printReview(review)
		})
	},
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete [review-id]",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := app.API.Reviews.Delete(cmd.Context(), id); err != nil {
			return err
		}
		output.Success("Review %d deleted", id)
		return nil
	},
}

func stars(rating int) string {
	rating = min(max(rating, 0), 5)
	out := make([]rune, 5)
	for i := range out {
		out[i] = '☆'
		if i < rating {
			out[i] = '★'
		}
	}
	return string(out)
}

func printReview(r *client.Review) {
	fmt.Fprintf(output.Stdout, "  ID:      %d\n", r.ID)
	fmt.Fprintf(output.Stdout, "  Product: %d %s\n", r.ProductID, r.ProductName)
	fmt.Fprintf(output.Stdout, "  User:    %s\n", r.UserName)
	fmt.Fprintf(output.Stdout, "  Rating:  %s\n", stars(r.Rating))
	fmt.Fprintf(output.Stdout, "  Comment: %s\n", r.Comment)
}

func init() {
	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.AddCommand(reviewsListCmd)
	reviewsCmd.AddCommand(reviewsGetCmd)
	reviewsCmd.AddCommand(reviewsAddCmd)
	reviewsCmd.AddCommand(reviewsUpdateCmd)
	reviewsCmd.AddCommand(reviewsDeleteCmd)

	addPagingFlags(reviewsListCmd)
	reviewsListCmd.Flags().Int64("product", 0, "only reviews of this product")
	reviewsListCmd.Flags().Bool("mine", false, "only your own reviews")

	reviewsAddCmd.Flags().Int64("product-id", 0, "Product ID")
	reviewsAddCmd.Flags().Int("rating", 0, "Rating from 1 to 5")
	reviewsAddCmd.Flags().String("comment", "", "Review text")
	reviewsAddCmd.MarkFlagRequired("product-id")
	reviewsAddCmd.MarkFlagRequired("rating")

	reviewsUpdateCmd.Flags().Int("rating", 0, "Rating from 1 to 5")
	reviewsUpdateCmd.Flags().String("comment", "", "Review text")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercadillo/internal/api"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews <product-slug>",
	Short: "Show reviews for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviews, err := app.Reviews.ForProduct(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			fmt.Println("No reviews yet")
			return nil
		}
		for _, review := range reviews {
			fmt.Printf("[%d/5] %s (%s)\n", review.Rating, review.Title, review.Username)
			if review.Comment != "" {
				fmt.Printf("  %s\n", review.Comment)
			}
		}
		return nil
	},
}

var myReviewsCmd = &cobra.Command{
	Use:   "mine",
	Short: "Show your reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		reviews, err := app.Reviews.Mine(cmd.Context())
		if err != nil {
			return err
		}
		for _, review := range reviews {
			fmt.Printf("[%d/5] %s (%s, review %s)\n", review.Rating, review.Title, review.ProductSlug, review.ID)
		}
		return nil
	},
}

var reviewAddCmd = &cobra.Command{
	Use:   "add <product-slug> <product-id>",
	Short: "Review a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		rating, _ := cmd.Flags().GetInt("rating")
		title, _ := cmd.Flags().GetString("title")
		comment, _ := cmd.Flags().GetString("comment")

		input := api.ReviewInput{
			ProductID: args[1],
			Rating:    rating,
			Title:     title,
			Comment:   comment,
		}
		if _, err := app.Reviews.Create(cmd.Context(), args[0], input); err != nil {
			return err
		}
		fmt.Println("Review posted")
		return nil
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Reviews.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Review deleted")
		return nil
	},
}

func init() {
	reviewAddCmd.Flags().Int("rating", 5, "rating 1-5")
	reviewAddCmd.Flags().String("title", "", "review title")
	reviewAddCmd.Flags().String("comment", "", "review text")
	reviewsCmd.AddCommand(myReviewsCmd, reviewAddCmd, reviewDeleteCmd)
	rootCmd.AddCommand(reviewsCmd)
}

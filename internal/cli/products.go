package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercadillo/internal/domain/entity"
)

var (
	listCategory string
	listBrand    string
	listMaterial string
	listMinPrice string
	listMaxPrice string
	listOrdering string
	listPage     string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse and filter the product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]string{
			"category":  listCategory,
			"brand":     listBrand,
			"material":  listMaterial,
			"min_price": listMinPrice,
			"max_price": listMaxPrice,
			"ordering":  listOrdering,
			"page":      listPage,
		}
		list, err := app.Catalog.Products(cmd.Context(), params)
		if err != nil {
			return err
		}
		printProducts(list.Products)
		fmt.Printf("%d of %d products\n", len(list.Products), list.Total)
		return nil
	},
}

var productCmd = &cobra.Command{
	Use:   "product <slug>",
	Short: "Show product detail, reviews and related products",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		product, err := app.Catalog.ProductBySlug(cmd.Context(), slug)
		if err != nil {
			return err
		}
		app.Catalog.RecordView(cmd.Context(), slug)

		fmt.Printf("%s\n", product.Name)
		fmt.Printf("  price: %.2f", product.Price)
		if product.FinalPrice > 0 && product.FinalPrice != product.Price {
			fmt.Printf(" (now %.2f)", product.FinalPrice)
		}
		fmt.Printf("\n  stock: %d   rating: %.1f (%d)\n", product.Stock, product.RatingAverage, product.RatingCount)
		if product.Description != "" {
			fmt.Printf("  %s\n", product.Description)
		}

		reviews, err := app.Reviews.ForProduct(cmd.Context(), slug)
		if err == nil && len(reviews) > 0 {
			fmt.Println("\nReviews:")
			for _, review := range reviews {
				fmt.Printf("  [%d/5] %s (%s)\n", review.Rating, review.Title, review.Username)
			}
		}

		related, err := app.Catalog.Related(cmd.Context(), slug)
		if err == nil && len(related) > 0 {
			fmt.Println("\nRelated:")
			printProducts(related)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search products",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := app.Search.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products found")
			return nil
		}
		printProducts(products)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories [slug]",
	Short: "List categories, or the products of one category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			categories, err := app.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Printf("  %-24s %s\n", category.Slug, category.Name)
			}
			return nil
		}

		products, err := app.Catalog.CategoryProducts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printProducts(products)
		return nil
	},
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List brands",
	RunE: func(cmd *cobra.Command, args []string) error {
		brands, err := app.Catalog.Brands(cmd.Context(), nil)
		if err != nil {
			return err
		}
		for _, brand := range brands {
			fmt.Printf("  %-24s %s\n", brand.Slug, brand.Name)
		}
		return nil
	},
}

func printProducts(products []entity.Product) {
	for _, product := range products {
		fmt.Printf("  %-32s %8.2f  stock %d  %s\n",
			product.Name, product.EffectivePrice(), product.Stock, product.Slug)
	}
}

func init() {
	productsCmd.Flags().StringVar(&listCategory, "category", "", "filter by category slug")
	productsCmd.Flags().StringVar(&listBrand, "brand", "", "filter by brand slug")
	productsCmd.Flags().StringVar(&listMaterial, "material", "", "filter by material")
	productsCmd.Flags().StringVar(&listMinPrice, "min-price", "", "minimum price")
	productsCmd.Flags().StringVar(&listMaxPrice, "max-price", "", "maximum price")
	productsCmd.Flags().StringVar(&listOrdering, "ordering", "", "sort order")
	productsCmd.Flags().StringVar(&listPage, "page", "", "page number")

	rootCmd.AddCommand(productsCmd, productCmd, searchCmd, categoriesCmd, brandsCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show the wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		wishlist, err := app.Cart.Wishlist(cmd.Context())
		if err != nil {
			return err
		}
		if len(wishlist.Items) == 0 {
			fmt.Println("Your wishlist is empty")
			return nil
		}
		for _, item := range wishlist.Items {
			name := item.ProductID
			price := 0.0
			if item.Product != nil {
				name = item.Product.Name
				price = item.Product.EffectivePrice()
			}
			fmt.Printf("  %-32s %8.2f   (item %s)\n", name, price, item.ID)
		}
		return nil
	},
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Cart.AddToWishlist(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Added to wishlist")
		return nil
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an item from the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Cart.RemoveWishlistItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Item removed")
		return nil
	},
}

var wishlistMoveCmd = &cobra.Command{
	Use:   "move-to-cart <item-id>",
	Short: "Move a wishlist item into the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Cart.MoveWishlistItemToCart(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Moved to cart")
		return nil
	},
}

func init() {
	wishlistCmd.AddCommand(wishlistAddCmd, wishlistRemoveCmd, wishlistMoveCmd)
	rootCmd.AddCommand(wishlistCmd)
}

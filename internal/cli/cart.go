package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		cart, err := app.Cart.Get(cmd.Context())
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			fmt.Println("Your cart is empty")
			return nil
		}
		for _, item := range cart.Items {
			name := item.ID
			if item.Product != nil {
				name = item.Product.Name
			}
			fmt.Printf("  %-32s x%-3d %8.2f   (item %s)\n", name, item.Quantity, item.Subtotal, item.ID)
		}
		fmt.Printf("Items: %d   Total: %.2f\n", app.Cart.Count(), app.Cart.TotalPrice())
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		quantity := 1
		if len(args) == 2 {
			q, err := strconv.Atoi(args[1])
			if err != nil || q < 1 {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			quantity = q
		}
		if err := app.Cart.AddItem(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		fmt.Println("Added to cart")
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change the quantity of a cart item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil || quantity < 1 {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		if err := app.Cart.UpdateItemQuantity(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		fmt.Println("Cart updated")
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Cart.RemoveItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Item removed")
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Cart.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cart cleared")
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

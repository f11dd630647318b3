package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		orders, err := app.Orders.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet")
			return nil
		}
		for _, order := range orders {
			fmt.Printf("  %-16s %-12s %8.2f  %s\n",
				order.OrderNumber, order.Status, order.Total, order.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var orderShowCmd = &cobra.Command{
	Use:   "show <order-number>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		order, err := app.Orders.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", order.OrderNumber, order.Status)
		for _, item := range order.Items {
			fmt.Printf("  %-32s x%-3d %8.2f\n", item.ProductName, item.Quantity, item.Subtotal)
		}
		fmt.Printf("Subtotal %.2f  Shipping %.2f  Total %.2f\n", order.Subtotal, order.ShippingCost, order.Total)
		fmt.Printf("Ship to: %s, %s, %s %s, %s\n", order.AddressLine1, order.City, order.State, order.PostalCode, order.Country)
		return nil
	},
}

var orderCancelCmd = &cobra.Command{
	Use:   "cancel <order-number>",
	Short: "Cancel an order that has not shipped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		order, err := app.Orders.Cancel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Order %s is now %s\n", order.OrderNumber, order.Status)
		return nil
	},
}

var orderInvoiceCmd = &cobra.Command{
	Use:   "invoice <order-number>",
	Short: "Fetch the invoice link for an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		invoice, err := app.Orders.Invoice(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(invoice.URL)
		return nil
	},
}

func init() {
	ordersCmd.AddCommand(orderShowCmd, orderCancelCmd, orderInvoiceCmd)
	rootCmd.AddCommand(ordersCmd)
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mercadillo/internal/payment"
	"mercadillo/internal/usecase"
)

var (
	checkoutEmail      string
	checkoutFirstName  string
	checkoutLastName   string
	checkoutPhone      string
	checkoutAddress    string
	checkoutCity       string
	checkoutState      string
	checkoutPostalCode string
	checkoutCountry    string
	checkoutNotes      string
	checkoutMethod     string
	checkoutCoupon     string
	checkoutCardNumber string
	checkoutCardExp    string
	checkoutCardCVC    string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		ctx := cmd.Context()

		flow := app.NewCheckout()
		if err := flow.Begin(ctx); err != nil {
			return err
		}

		totals := flow.Totals()
		fmt.Printf("Subtotal %.2f  Shipping %.2f  Total %.2f\n", totals.Subtotal, totals.Shipping, totals.Total)

		if err := flow.ProceedToShipping(); err != nil {
			return err
		}
		details := usecase.ShippingDetails{
			Email:      checkoutEmail,
			FirstName:  checkoutFirstName,
			LastName:   checkoutLastName,
			Phone:      checkoutPhone,
			Address:    checkoutAddress,
			City:       checkoutCity,
			State:      checkoutState,
			PostalCode: checkoutPostalCode,
			Country:    checkoutCountry,
			Notes:      checkoutNotes,
		}
		if err := flow.SubmitShipping(details); err != nil {
			return err
		}

		if checkoutCoupon != "" {
			if err := flow.ApplyCoupon(ctx, checkoutCoupon); err != nil {
				return err
			}
			totals = flow.Totals()
			fmt.Printf("Coupon applied, new total %.2f\n", totals.Total)
		}

		switch checkoutMethod {
		case usecase.MethodCard:
			card, err := cardFromFlags()
			if err != nil {
				return err
			}
			if err := flow.PayWithCard(ctx, card); err != nil {
				return err
			}
		case usecase.MethodOnDelivery:
			if err := flow.PlaceOrder(ctx); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown payment method %q", checkoutMethod)
		}

		fmt.Printf("Order placed: %s\n", flow.OrderNumber())
		return nil
	},
}

func cardFromFlags() (payment.Card, error) {
	if checkoutCardNumber == "" || checkoutCardExp == "" || checkoutCardCVC == "" {
		return payment.Card{}, fmt.Errorf("--card-number, --card-exp (MM/YY) and --card-cvc are required for card payment")
	}
	if len(checkoutCardExp) != 5 || checkoutCardExp[2] != '/' {
		return payment.Card{}, fmt.Errorf("card expiry must be MM/YY")
	}
	month, err1 := strconv.Atoi(checkoutCardExp[:2])
	year, err2 := strconv.Atoi(checkoutCardExp[3:])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return payment.Card{}, fmt.Errorf("card expiry must be MM/YY")
	}
	return payment.Card{
		Number:   checkoutCardNumber,
		ExpMonth: month,
		ExpYear:  2000 + year,
		CVC:      checkoutCardCVC,
	}, nil
}

func init() {
	checkoutCmd.Flags().StringVar(&checkoutEmail, "email", "", "contact email")
	checkoutCmd.Flags().StringVar(&checkoutFirstName, "first-name", "", "first name")
	checkoutCmd.Flags().StringVar(&checkoutLastName, "last-name", "", "last name")
	checkoutCmd.Flags().StringVar(&checkoutPhone, "phone", "", "phone number")
	checkoutCmd.Flags().StringVar(&checkoutAddress, "address", "", "street address")
	checkoutCmd.Flags().StringVar(&checkoutCity, "city", "", "city")
	checkoutCmd.Flags().StringVar(&checkoutState, "state", "", "state or province")
	checkoutCmd.Flags().StringVar(&checkoutPostalCode, "postal-code", "", "postal code")
	checkoutCmd.Flags().StringVar(&checkoutCountry, "country", "", "country")
	checkoutCmd.Flags().StringVar(&checkoutNotes, "notes", "", "delivery notes")
	checkoutCmd.Flags().StringVar(&checkoutMethod, "method", usecase.MethodCard, "payment method: card or on_delivery")
	checkoutCmd.Flags().StringVar(&checkoutCoupon, "coupon", "", "coupon code")
	checkoutCmd.Flags().StringVar(&checkoutCardNumber, "card-number", "", "card number")
	checkoutCmd.Flags().StringVar(&checkoutCardExp, "card-exp", "", "card expiry MM/YY")
	checkoutCmd.Flags().StringVar(&checkoutCardCVC, "card-cvc", "", "card CVC")

	rootCmd.AddCommand(checkoutCmd)
}

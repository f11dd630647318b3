package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercadillo/internal/domain/entity"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		profile, err := app.Account.Profile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", profile.Username, profile.Email)
		if profile.FirstName != "" || profile.LastName != "" {
			fmt.Printf("  %s %s\n", profile.FirstName, profile.LastName)
		}
		if profile.Phone != "" {
			fmt.Printf("  phone: %s\n", profile.Phone)
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		fields := map[string]string{}
		for flag, key := range map[string]string{
			"first-name": "first_name",
			"last-name":  "last_name",
			"phone":      "phone",
			"email":      "email",
		} {
			if cmd.Flags().Changed(flag) {
				value, _ := cmd.Flags().GetString(flag)
				fields[key] = value
			}
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update")
		}
		if _, err := app.Account.UpdateProfile(cmd.Context(), fields); err != nil {
			return err
		}
		fmt.Println("Profile updated")
		return nil
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		oldPassword, err := readSecret("Current password: ")
		if err != nil {
			return err
		}
		newPassword, err := readSecret("New password: ")
		if err != nil {
			return err
		}
		newPassword2, err := readSecret("Repeat new password: ")
		if err != nil {
			return err
		}
		if err := app.Account.ChangePassword(cmd.Context(), oldPassword, newPassword, newPassword2); err != nil {
			return err
		}
		fmt.Println("Password changed")
		return nil
	},
}

var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "List your addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		addresses, err := app.Account.Addresses(cmd.Context())
		if err != nil {
			return err
		}
		for _, address := range addresses {
			marker := " "
			if address.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %s: %s, %s, %s %s, %s\n", marker, address.ID,
				address.AddressLine1, address.City, address.State, address.PostalCode, address.Country)
		}
		return nil
	},
}

var addressAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		get := func(name string) string {
			value, _ := cmd.Flags().GetString(name)
			return value
		}
		address := entity.Address{
			FullName:     get("full-name"),
			Phone:        get("phone"),
			AddressLine1: get("address"),
			City:         get("city"),
			State:        get("state"),
			PostalCode:   get("postal-code"),
			Country:      get("country"),
		}
		created, err := app.Account.CreateAddress(cmd.Context(), address)
		if err != nil {
			return err
		}
		fmt.Printf("Address %s saved\n", created.ID)
		return nil
	},
}

var addressRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := app.Account.DeleteAddress(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Address removed")
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().String("first-name", "", "first name")
	profileUpdateCmd.Flags().String("last-name", "", "last name")
	profileUpdateCmd.Flags().String("phone", "", "phone number")
	profileUpdateCmd.Flags().String("email", "", "email")
	profileCmd.AddCommand(profileUpdateCmd, passwordCmd)

	addressAddCmd.Flags().String("full-name", "", "recipient name")
	addressAddCmd.Flags().String("phone", "", "phone number")
	addressAddCmd.Flags().String("address", "", "street address")
	addressAddCmd.Flags().String("city", "", "city")
	addressAddCmd.Flags().String("state", "", "state or province")
	addressAddCmd.Flags().String("postal-code", "", "postal code")
	addressAddCmd.Flags().String("country", "", "country")
	addressesCmd.AddCommand(addressAddCmd, addressRemoveCmd)

	rootCmd.AddCommand(profileCmd, addressesCmd)
}

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercadillo/internal/api"
	"mercadillo/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}
		if err := app.Auth.Login(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", args[0])
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}
		password2, err := readSecret("Repeat password: ")
		if err != nil {
			return err
		}

		input := api.RegisterInput{
			Username:  args[0],
			Email:     args[1],
			Password:  password,
			Password2: password2,
			FirstName: registerFirstName,
			LastName:  registerLastName,
		}
		if err := app.Auth.Register(cmd.Context(), input); err != nil {
			return err
		}
		fmt.Printf("Registered and logged in as %s\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Auth.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := app.Session.State()
		if state.Phase != session.Authenticated {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", state.User.Username, state.User.Email)
		return nil
	},
}

var (
	registerFirstName string
	registerLastName  string
)

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(line), nil
}

func init() {
	registerCmd.Flags().StringVar(&registerFirstName, "first-name", "", "first name")
	registerCmd.Flags().StringVar(&registerLastName, "last-name", "", "last name")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

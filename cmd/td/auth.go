package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	GroupID: "core",
	Short:   "Sign in to the backend",
	Long: `Sign in with email and password.

With a terminal attached and no flags given, an interactive form collects the
credentials. In scripts, pass --email and read the password from stdin:

  echo "$PASSWORD" | td login --email you@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" && ui.IsInteractive() {
			creds, err := ui.LoginForm()
			if err != nil {
				return err
			}
			email, password = creds.Email, creds.Password
		}
		if email == "" {
			return fmt.Errorf("--email is required without a terminal")
		}
		if password == "" {
			password, err = ui.ReadPassword("Password: ")
			if err != nil {
				return err
			}
		}

		user, err := a.store.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		a.saveSession()

		fmt.Println(ui.Success("Signed in as " + user.Name))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:     "register",
	GroupID: "core",
	Short:   "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" && ui.IsInteractive() {
			reg, err := ui.RegisterForm()
			if err != nil {
				return err
			}
			name, email, password = reg.Name, reg.Email, reg.Password
		}
		if email == "" {
			return fmt.Errorf("--email is required without a terminal")
		}
		if password == "" {
			password, err = ui.ReadPassword("Password: ")
			if err != nil {
				return err
			}
		}

		user, err := a.store.Register(cmd.Context(), name, email, password)
		if err != nil {
			return err
		}
		a.saveSession()

		fmt.Println(ui.Success("Account created, signed in as " + user.Name))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	GroupID: "core",
	Short:   "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		a.store.Logout()
		if err := a.client.ClearCookies(a.cookiePath); err != nil {
			return err
		}

		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	GroupID: "core",
	Short:   "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if !a.store.InitSession(cmd.Context()) {
			return fmt.Errorf("not signed in; run 'td login'")
		}
		a.saveSession()

		auth := a.store.Auth()
		fmt.Println(ui.UserSummary(*auth.User))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prefer stdin)")

	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password (prefer stdin)")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

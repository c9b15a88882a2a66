package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/state"
	"github.com/taskdeck/taskdeck/internal/ui"
)

var inviteCmd = &cobra.Command{
	Use:     "invite",
	GroupID: "core",
	Short:   "Manage team invitations",
}

var inviteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invitations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		invitations, err := a.store.Invitations(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(ui.InvitationTable(invitations))
		return nil
	},
}

var inviteSendCmd = &cobra.Command{
	Use:   "send <email>",
	Short: "Invite an email address to the team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.store.SendInvitation(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println(ui.Success("Invitation sent to " + args[0]))
		return nil
	},
}

var inviteValidateCmd = &cobra.Command{
	Use:   "validate <token>",
	Short: "Check whether an invitation token is still usable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		inv, err := a.store.ValidateInvitation(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Invitation for %s: %s (expires %s)\n",
			inv.Email, inv.Status, inv.ExpiresAt.Local().Format("2006-01-02"))
		return nil
	},
}

var inviteAcceptCmd = &cobra.Command{
	Use:   "accept <token>",
	Short: "Redeem an invitation token and create the account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		if name == "" && ui.IsInteractive() {
			reg, err := ui.RegisterForm()
			if err != nil {
				return err
			}
			name, password = reg.Name, reg.Password
		}
		if name == "" {
			return fmt.Errorf("--name is required without a terminal")
		}
		if password == "" {
			password, err = ui.ReadPassword("Password: ")
			if err != nil {
				return err
			}
		}

		user, err := a.store.AcceptInvitation(cmd.Context(), state.AcceptInvitationInput{
			Token:    args[0],
			Name:     name,
			Password: password,
		})
		if err != nil {
			return err
		}
		a.saveSession()

		fmt.Println(ui.Success("Welcome, " + user.Name))
		return nil
	},
}

func init() {
	inviteAcceptCmd.Flags().String("name", "", "Display name for the new account")
	inviteAcceptCmd.Flags().String("password", "", "Password for the new account (prefer stdin)")

	inviteCmd.AddCommand(inviteListCmd, inviteSendCmd, inviteValidateCmd, inviteAcceptCmd)
	rootCmd.AddCommand(inviteCmd)
}

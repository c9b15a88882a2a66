package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/state"
	"github.com/taskdeck/taskdeck/internal/ui"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	GroupID: "core",
	Short:   "Manage boards",
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		boards, err := a.store.FetchBoards(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(ui.BoardTable(boards, a.currentBoardID()))
		return nil
	},
}

var boardCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a board",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.store.InitSession(cmd.Context()) {
			return fmt.Errorf("not signed in; run 'td login'")
		}
		a.saveSession()

		title := ""
		if len(args) > 0 {
			title = args[0]
		}
		description, _ := cmd.Flags().GetString("description")
		color, _ := cmd.Flags().GetString("color")

		if title == "" {
			if !ui.IsInteractive() {
				return fmt.Errorf("a title is required without a terminal")
			}
			if err := ui.BoardForm(&title, &description, &color); err != nil {
				return err
			}
		}

		board, err := a.store.CreateBoard(cmd.Context(), state.CreateBoardInput{
			Title:       title,
			Description: description,
			Color:       color,
		})
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Created board " + board.ID))
		return nil
	},
}

var boardUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		in := state.UpdateBoardInput{ID: args[0]}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			in.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			in.Description = &v
		}
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			in.Color = &v
		}
		if in.Title == nil && in.Description == nil && in.Color == nil {
			return fmt.Errorf("nothing to update; pass --title, --description, or --color")
		}

		board, err := a.store.UpdateBoard(cmd.Context(), in)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Updated board " + board.ID))
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && ui.IsInteractive() {
			ok, err := ui.Confirm("Delete board " + args[0] + "?")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		if err := a.store.DeleteBoard(cmd.Context(), args[0]); err != nil {
			return err
		}
		if a.currentBoardID() == args[0] {
			if err := a.setCurrentBoardID(""); err != nil {
				return err
			}
		}

		fmt.Println("Deleted board " + args[0])
		return nil
	},
}

var boardShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a board (the selected one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id := a.currentBoardID()
		if len(args) > 0 {
			id = args[0]
		}
		if id == "" {
			return fmt.Errorf("no board selected; pass an id or run 'td board use'")
		}

		board, err := a.store.FetchBoardByID(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Println(ui.BoardDetail(*board))
		return nil
	},
}

var boardUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the board other commands default to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		board, err := a.store.FetchBoardByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := a.setCurrentBoardID(board.ID); err != nil {
			return err
		}

		fmt.Println("Using board " + board.Title)
		return nil
	},
}

func init() {
	boardCreateCmd.Flags().String("description", "", "Board description")
	boardCreateCmd.Flags().String("color", "", "Board color (hex)")

	boardUpdateCmd.Flags().String("title", "", "New title")
	boardUpdateCmd.Flags().String("description", "", "New description")
	boardUpdateCmd.Flags().String("color", "", "New color (hex)")

	boardDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation")

	boardCmd.AddCommand(boardListCmd, boardCreateCmd, boardUpdateCmd, boardDeleteCmd, boardShowCmd, boardUseCmd)
	rootCmd.AddCommand(boardCmd)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/state"
	"github.com/taskdeck/taskdeck/internal/types"
	"github.com/taskdeck/taskdeck/internal/ui"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	GroupID: "core",
	Short:   "Manage server-side categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var filter state.CategoryFilter
		filter.Search, _ = cmd.Flags().GetString("search")
		if v, _ := cmd.Flags().GetString("priority"); v != "" {
			filter.Priority = types.Priority(v)
			if !filter.Priority.Valid() {
				return fmt.Errorf("invalid priority %q (low, medium, high)", v)
			}
		}

		categories, err := a.store.Categories(cmd.Context(), filter)
		if err != nil {
			return err
		}

		fmt.Println(ui.CategoryTable(categories))
		return nil
	},
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		in := state.CreateCategoryInput{Name: args[0], Description: description}
		if v, _ := cmd.Flags().GetString("priority"); v != "" {
			in.Priority = types.Priority(v)
			if !in.Priority.Valid() {
				return fmt.Errorf("invalid priority %q (low, medium, high)", v)
			}
		}

		category, err := a.store.CreateCategory(cmd.Context(), in)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Created category %d", category.ID)))
		return nil
	},
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("category ids are numeric: %q", args[0])
		}

		in := state.UpdateCategoryInput{ID: id}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			in.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			in.Description = &v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			p := types.Priority(v)
			if !p.Valid() {
				return fmt.Errorf("invalid priority %q (low, medium, high)", v)
			}
			in.Priority = &p
		}
		if in.Name == nil && in.Description == nil && in.Priority == nil {
			return fmt.Errorf("nothing to update; pass --name, --description, or --priority")
		}

		category, err := a.store.UpdateCategory(cmd.Context(), in)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Updated category %d", category.ID)))
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("category ids are numeric: %q", args[0])
		}

		if err := a.store.DeleteCategory(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Println("Deleted category " + args[0])
		return nil
	},
}

func init() {
	categoryListCmd.Flags().String("search", "", "Filter by text")
	categoryListCmd.Flags().String("priority", "", "Filter by priority (low, medium, high)")

	categoryCreateCmd.Flags().String("description", "", "Category description")
	categoryCreateCmd.Flags().String("priority", "", "Priority (low, medium, high)")

	categoryUpdateCmd.Flags().String("name", "", "New name")
	categoryUpdateCmd.Flags().String("description", "", "New description")
	categoryUpdateCmd.Flags().String("priority", "", "New priority")

	categoryCmd.AddCommand(categoryListCmd, categoryCreateCmd, categoryUpdateCmd, categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/state"
	"github.com/taskdeck/taskdeck/internal/types"
	"github.com/taskdeck/taskdeck/internal/ui"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	GroupID: "core",
	Short:   "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the selected board's tasks from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		boardID, err := resolveBoard(a, cmd)
		if err != nil {
			return err
		}
		filter, err := taskFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		tasks, err := a.store.FetchTasksByBoard(cmd.Context(), boardID, filter)
		if err != nil {
			return err
		}

		// Locally-created tasks for this board are shown alongside the
		// backend's, clearly theirs by their uuid ids.
		local, err := a.local.LoadTasks()
		if err != nil {
			return err
		}
		for _, t := range local {
			if t.BoardID == boardID {
				tasks = append(tasks, t)
			}
		}

		fmt.Println(ui.TaskTable(tasks))
		return nil
	},
}

var taskKanbanCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Show the selected board's tasks as status columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		boardID, err := resolveBoard(a, cmd)
		if err != nil {
			return err
		}

		tasks, err := a.store.FetchTasksByBoard(cmd.Context(), boardID, state.TaskFilter{})
		if err != nil {
			return err
		}
		local, err := a.local.LoadTasks()
		if err != nil {
			return err
		}
		for _, t := range local {
			if t.BoardID == boardID {
				tasks = append(tasks, t)
			}
		}

		fmt.Println(ui.Kanban(tasks))
		return nil
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a task on the selected board",
	Long: `Create a task.

By default the task is stored locally on the selected board. With --remote
the task is created on the backend instead (no board attached there).

Dates take natural language: --due "next friday", --start "tomorrow 9am".`,
	Args: cobra.MaximumNArgs(1),
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
		statusFlag, _ := cmd.Flags().GetString("status")
		priorityFlag, _ := cmd.Flags().GetString("priority")

		if title == "" {
			if !ui.IsInteractive() {
				return fmt.Errorf("a title is required without a terminal")
			}
			if statusFlag == "" {
				statusFlag = string(types.StatusTodo)
			}
			if priorityFlag == "" {
				priorityFlag = string(types.PriorityMedium)
			}
			if err := ui.TaskForm(&title, &description, &statusFlag, &priorityFlag); err != nil {
				return err
			}
		}

		due, err := parseWhen(cmd, "due")
		if err != nil {
			return err
		}
		start, err := parseWhen(cmd, "start")
		if err != nil {
			return err
		}
		end, err := parseWhen(cmd, "end")
		if err != nil {
			return err
		}

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			task, err := a.store.CreateRemoteTask(cmd.Context(), state.RemoteTaskInput{
				Title:       title,
				Description: description,
				Status:      types.Status(statusFlag),
				Priority:    types.Priority(priorityFlag),
				Date:        due,
			})
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Created task " + task.ID + " on the backend"))
			return nil
		}

		boardID, err := resolveBoard(a, cmd)
		if err != nil {
			return err
		}
		tags, _ := cmd.Flags().GetStringSlice("tag")
		allDay, _ := cmd.Flags().GetBool("all-day")

		task, err := a.store.CreateTask(cmd.Context(), state.CreateTaskInput{
			Title:       title,
			Description: description,
			Status:      types.Status(statusFlag),
			Priority:    types.Priority(priorityFlag),
			Tags:        tags,
			DueDate:     due,
			StartDate:   start,
			EndDate:     end,
			AllDay:      allDay,
			BoardID:     boardID,
		})
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Created task " + task.ID))
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Long: `Update a task. Only the flags you pass change.

Local tasks take their uuid id; backend tasks (with --remote) take their
numeric id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("backend task ids are numeric: %q", args[0])
			}
			in := state.UpdateRemoteTaskInput{ID: id}
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				in.Title = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				in.Description = &v
			}
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				s := types.Status(v)
				in.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				v, _ := cmd.Flags().GetString("priority")
				p := types.Priority(v)
				in.Priority = &p
			}
			if due, err := parseWhen(cmd, "due"); err != nil {
				return err
			} else if due != nil {
				in.Date = due
			}
			task, err := a.store.UpdateRemoteTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Updated task " + task.ID + " on the backend"))
			return nil
		}

		in := state.UpdateTaskInput{ID: args[0]}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			in.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			in.Description = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			s := types.Status(v)
			in.Status = &s
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			p := types.Priority(v)
			in.Priority = &p
		}
		if cmd.Flags().Changed("tag") {
			in.Tags, _ = cmd.Flags().GetStringSlice("tag")
		}
		if due, err := parseWhen(cmd, "due"); err != nil {
			return err
		} else if due != nil {
			in.DueDate = due
		}
		if start, err := parseWhen(cmd, "start"); err != nil {
			return err
		} else if start != nil {
			in.StartDate = start
		}
		if end, err := parseWhen(cmd, "end"); err != nil {
			return err
		} else if end != nil {
			in.EndDate = end
		}

		task, err := a.store.UpdateTask(cmd.Context(), in)
		if err != nil {
			return err
		}

		fmt.Println(ui.Success("Updated task " + task.ID))
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Move a task to another status column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		task, err := a.store.MoveTask(cmd.Context(), args[0], types.Status(args[1]))
		if err != nil {
			return err
		}

		fmt.Printf("Moved %s to %s\n", task.Title, task.Status)
		return nil
	},
}

var taskPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Replay locally-created tasks to the backend",
	Long: `Push the local task queue to the backend.

Tasks created offline (the default create path) queue up in the local store.
Push replays them as backend creates; each accepted task leaves the queue.
The first rejection stops the push and keeps the rest queued for a retry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.store.InitSession(cmd.Context()) {
			return fmt.Errorf("not signed in; run 'td login'")
		}
		a.saveSession()

		pushed, err := a.store.PushLocalTasks(cmd.Context())
		if pushed > 0 {
			fmt.Printf("Pushed %d task(s)\n", pushed)
		}
		if err != nil {
			return err
		}
		if pushed == 0 {
			fmt.Println("Nothing to push")
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("backend task ids are numeric: %q", args[0])
			}
			if err := a.store.DeleteRemoteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Deleted task " + args[0] + " on the backend")
			return nil
		}

		if err := a.store.DeleteTask(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Deleted task " + args[0])
		return nil
	},
}

// resolveBoard picks the board a task command targets: --board wins, then the
// remembered selection.
func resolveBoard(a *app, cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("board") {
		id, _ := cmd.Flags().GetString("board")
		return id, nil
	}
	if id := a.currentBoardID(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no board selected; pass --board or run 'td board use'")
}

func taskFilterFromFlags(cmd *cobra.Command) (state.TaskFilter, error) {
	var filter state.TaskFilter
	filter.Search, _ = cmd.Flags().GetString("search")
	filter.Page, _ = cmd.Flags().GetInt("page")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	if v, _ := cmd.Flags().GetString("status"); v != "" {
		filter.Status = types.Status(v)
		if !filter.Status.Valid() {
			return filter, fmt.Errorf("invalid status %q (todo, in-progress, done)", v)
		}
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		filter.Priority = types.Priority(v)
		if !filter.Priority.Valid() {
			return filter, fmt.Errorf("invalid priority %q (low, medium, high)", v)
		}
	}
	return filter, nil
}

// parseWhen parses a natural-language date flag ("tomorrow", "next friday
// 5pm", or a plain 2006-01-02). Returns nil when the flag was not given.
func parseWhen(cmd *cobra.Command, flag string) (*time.Time, error) {
	if !cmd.Flags().Changed(flag) {
		return nil, nil
	}
	text, _ := cmd.Flags().GetString(flag)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if t, err := time.ParseInLocation("2006-01-02", text, time.Local); err == nil {
		return &t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(text, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to parse --%s: %w", flag, err)
	}
	if result == nil {
		return nil, fmt.Errorf("could not understand --%s %q", flag, text)
	}
	return &result.Time, nil
}

func init() {
	taskListCmd.Flags().String("board", "", "Board id (defaults to the selected board)")
	taskListCmd.Flags().String("search", "", "Filter by text")
	taskListCmd.Flags().String("status", "", "Filter by status (todo, in-progress, done)")
	taskListCmd.Flags().String("priority", "", "Filter by priority (low, medium, high)")
	taskListCmd.Flags().Int("page", 0, "Page number")
	taskListCmd.Flags().Int("limit", 0, "Page size")

	taskKanbanCmd.Flags().String("board", "", "Board id (defaults to the selected board)")

	taskCreateCmd.Flags().String("board", "", "Board id (defaults to the selected board)")
	taskCreateCmd.Flags().String("description", "", "Task description")
	taskCreateCmd.Flags().String("status", "", "Status (todo, in-progress, done)")
	taskCreateCmd.Flags().String("priority", "", "Priority (low, medium, high)")
	taskCreateCmd.Flags().StringSlice("tag", nil, "Tag (repeatable)")
	taskCreateCmd.Flags().String("due", "", "Due date (natural language)")
	taskCreateCmd.Flags().String("start", "", "Start date (natural language)")
	taskCreateCmd.Flags().String("end", "", "End date (natural language)")
	taskCreateCmd.Flags().Bool("all-day", false, "All-day task")
	taskCreateCmd.Flags().Bool("remote", false, "Create on the backend instead of locally")

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().String("description", "", "New description")
	taskUpdateCmd.Flags().String("status", "", "New status")
	taskUpdateCmd.Flags().String("priority", "", "New priority")
	taskUpdateCmd.Flags().StringSlice("tag", nil, "Replace tags (repeatable)")
	taskUpdateCmd.Flags().String("due", "", "New due date (natural language)")
	taskUpdateCmd.Flags().String("start", "", "New start date (natural language)")
	taskUpdateCmd.Flags().String("end", "", "New end date (natural language)")
	taskUpdateCmd.Flags().Bool("remote", false, "Target a backend task")

	taskDeleteCmd.Flags().Bool("remote", false, "Target a backend task")

	taskCmd.AddCommand(taskListCmd, taskKanbanCmd, taskCreateCmd, taskUpdateCmd, taskMoveCmd, taskDeleteCmd, taskPushCmd)
	rootCmd.AddCommand(taskCmd)
}

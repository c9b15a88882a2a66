package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/dashboard"
	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/state"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: "advanced",
	Short:   "Start a real-time WebSocket dashboard of state changes",
	Long: `Start a WebSocket dashboard server that broadcasts state changes.

Connected clients receive a JSON event for every change: board and task
mutations made by this process, plus rewrites of the collection files made by
other td processes sharing the data directory.

Event types:
- auth_change: login, logout, or session restore
- board_update: board created, updated, or deleted
- task_update: task created, updated, moved, or deleted
- category_update: category mutation succeeded on the backend
- invitation_update: invitation sent or accepted

Example usage:
  td dashboard                   # Start on the configured port
  td dashboard --port 9000       # Start on a custom port

Connect with a WebSocket client:
  ws://localhost:8484/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		if !cmd.Flags().Changed("port") {
			port = a.cfg.DashboardPort
		}

		server := dashboard.NewServer(&dashboard.Config{
			Port:   port,
			Logger: log.New(os.Stderr, "[dashboard] ", log.LstdFlags),
		})
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start dashboard: %w", err)
		}

		// Rewrites of the collection files by other td processes surface as
		// events too, so the dashboard sees every writer of the shared data
		// directory, not just this process.
		watcher, err := localstore.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		if err := watcher.Start(a.cfg.DataDir); err != nil {
			return fmt.Errorf("failed to watch data directory: %w", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ce, ok := <-watcher.Events():
					if !ok {
						return
					}
					typ := state.EventBoardChange
					if ce.Collection == localstore.CollectionTasks {
						typ = state.EventTaskChange
					}
					server.Publish(state.Event{Type: typ, Action: "rewritten"})
				case err, ok := <-watcher.Errors():
					if !ok {
						return
					}
					a.logger.Printf("Watcher error: %v", err)
				}
			}
		}()

		fmt.Printf("Dashboard server started on http://localhost:%d\n", port)
		fmt.Printf("WebSocket endpoint: ws://localhost:%d/ws\n", port)
		fmt.Printf("Health check: http://localhost:%d/health\n", port)
		fmt.Println("\nPress Ctrl+C to stop...")

		<-ctx.Done()

		fmt.Println("\nShutting down dashboard server...")
		if err := watcher.Stop(); err != nil {
			a.logger.Printf("Watcher stop error: %v", err)
		}
		if err := server.Stop(); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}

		fmt.Println("Dashboard server stopped")
		return nil
	},
}

func init() {
	dashboardCmd.Flags().IntP("port", "p", 8484, "Port to listen on")

	rootCmd.AddCommand(dashboardCmd)
}

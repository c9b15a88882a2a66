package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/state"
)

var (
	flagConfig  string
	flagAPIURL  string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "td",
	Short: "Task and board management from the terminal",
	Long: `td manages task boards against a shared backend.

Boards and locally-created tasks are kept on disk under the data directory
and survive offline use. Server-owned data (task queries, categories, team
invitations) is fetched on demand and cached for the life of the process.

Run 'td login' first to establish a session, then 'td board create' to get
started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (overrides config)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "advanced", Title: "Advanced Commands:"},
	)
}

// app bundles the wired collaborators a command needs.
type app struct {
	cfg        config.Config
	logger     *log.Logger
	client     *api.Client
	local      *localstore.Store
	store      *state.Store
	cookiePath string
}

// newApp loads configuration and wires the client, local store, and state
// store. The session cookie file is loaded when present so an earlier login
// carries over.
func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	logger := newLogger(cfg)

	client, err := api.New(cfg.APIURL, logger)
	if err != nil {
		return nil, err
	}

	cookiePath := filepath.Join(cfg.DataDir, "session.json")
	if err := client.LoadCookies(cookiePath); err != nil {
		logger.Printf("Failed to load session: %v", err)
	}

	local, err := localstore.New(cfg.DataDir, localstore.Options{
		SeedBoards: cfg.SeedBoards,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	store, err := state.New(state.Config{
		API:    client,
		Local:  local,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		local:      local,
		store:      store,
		cookiePath: cookiePath,
	}, nil
}

// saveSession writes the session cookies back so the next invocation stays
// signed in.
func (a *app) saveSession() {
	if err := a.client.SaveCookies(a.cookiePath); err != nil {
		a.logger.Printf("Failed to save session: %v", err)
	}
}

// newLogger builds the activity logger. With log_file set the log rotates on
// disk and stays quiet on the terminal; otherwise it goes to stderr.
func newLogger(cfg config.Config) *log.Logger {
	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
	}
	return log.New(out, "[td] ", log.LstdFlags)
}

// currentBoardPath is where the selected board id is remembered between runs.
func (a *app) currentBoardPath() string {
	return filepath.Join(a.cfg.DataDir, "current_board")
}

// currentBoardID returns the remembered board selection, empty when none.
func (a *app) currentBoardID() string {
	data, err := os.ReadFile(a.currentBoardPath())
	if err != nil {
		return ""
	}
	return string(data)
}

// setCurrentBoardID remembers (or with empty id forgets) the board selection.
func (a *app) setCurrentBoardID(id string) error {
	if id == "" {
		err := os.Remove(a.currentBoardPath())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear board selection: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(a.currentBoardPath(), []byte(id), 0644); err != nil {
		return fmt.Errorf("failed to save board selection: %w", err)
	}
	return nil
}

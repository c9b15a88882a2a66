package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "advanced",
	Short:   "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = config.File(config.Defaults().DataDir)
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}

		fmt.Println("Wrote " + path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagAPIURL != "" {
			cfg.APIURL = flagAPIURL
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		fmt.Printf("api_url:        %s\n", cfg.APIURL)
		fmt.Printf("data_dir:       %s\n", cfg.DataDir)
		fmt.Printf("seed_boards:    %t\n", cfg.SeedBoards)
		fmt.Printf("log_file:       %s\n", cfg.LogFile)
		fmt.Printf("dashboard_port: %d\n", cfg.DashboardPort)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

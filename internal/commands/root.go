package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg is loaded once in the persistent pre-run.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "A calendar and todo manager with recurring items",
	Long: `daybook is a command-line calendar and todo manager built around
recurring items: repeat rules, per-occurrence edits, and day/week views.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c

		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.LogLevel
		logging.Init(logCfg)
		return nil
	},
}

// initDB initializes the database and panics on error
func initDB() {
	if err := db.Initialize(cfg.DatabasePath); err != nil {
		panic(err)
	}
}

// withDB wraps a command function to initialize the database first
func withDB(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		initDB()
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daybook %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(calCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/config"
	"github.com/dukerupert/choreboard/internal/database"
)

var (
	Version = "dev"
	Commit  = "none"
)

// dbPath overrides CHOREBOARD_DB_PATH when set.
var dbPath string

// RootCmd is the choreboard command.
var RootCmd = &cobra.Command{
	Use:     "choreboard",
	Version: Version,
	Short:   "A household chore tracker with local AI planning",
	Long: `Choreboard tracks a household's chores and who does them.

A local Ollama model can reorder chores by urgency, rebalance
assignments across household members, and suggest how to get a
chore done.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides CHOREBOARD_DB_PATH)")
	RootCmd.SetVersionTemplate(fmt.Sprintf("choreboard %s (%s)\n", Version, Commit))
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openDB opens and migrates the configured database.
func openDB(ctx context.Context) (*sql.DB, string, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, "", err
	}
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, "", err
	}
	return db, cfg.DBPath, nil
}

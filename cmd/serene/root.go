/*
root.go - CLI entry commands and shared helpers

PURPOSE:
  Declares the root cobra command and the helpers every subcommand uses:
  repository setup, collection loading, and the default database path.

DATABASE LOCATION:
  --db flag > SERENE_DB env > $XDG_DATA_HOME/serene/serene.db

SEE ALSO:
  - serve.go: HTTP server command
  - limits.go: Limit management commands
*/
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/greenclean/serene/store/sqlite"
	"github.com/greenclean/serene/tracking"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:     "serene",
	Short:   "Track consumption limits, progress, and clean time",
	Long:    "serene keeps daily ledgers against self-imposed limits on foods, drugs, and activities, and scores how well you stay under them.",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: $XDG_DATA_HOME/serene/serene.db)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newCleanDateCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if explicit := os.Getenv("SERENE_DB"); explicit != "" {
		return explicit, nil
	}

	dir := filepath.Join(xdg.DataHome, "serene")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "serene.db"), nil
}

func openRepo() (*sqlite.Repository, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return sqlite.New(path)
}

// withCollection opens the store, loads the collection, runs fn, and closes.
// Mutating commands persist inside fn; there is no transaction across limits.
func withCollection(fn func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := context.Background()
	c, err := tracking.LoadCollection(ctx, repo)
	if err != nil {
		return err
	}
	return fn(ctx, repo, c)
}

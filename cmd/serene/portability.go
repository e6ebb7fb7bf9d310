package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenclean/serene/portability"
	"github.com/greenclean/serene/store/sqlite"
	"github.com/greenclean/serene/tracking"
)

func newExportCmd() *cobra.Command {
	var (
		password string
		names    []string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write limits to an encrypted archive",
		Long:  "Exports limits with their full history to an encrypted archive. Without --limit, everything is exported.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withCollection(func(_ context.Context, _ *sqlite.Repository, c *tracking.Collection) error {
				selected := c.Limits
				if len(names) > 0 {
					selected = nil
					for _, name := range names {
						limit, found := c.FindByName(name)
						if !found {
							return fmt.Errorf("%w: %s", tracking.ErrLimitNotFound, name)
						}
						selected = append(selected, limit)
					}
				}

				data, err := portability.Export(selected, password)
				if err != nil {
					return err
				}

				path := args[0]
				if !strings.HasSuffix(path, portability.FileExtension) {
					path += portability.FileExtension
				}
				if err := os.WriteFile(path, data, 0o600); err != nil {
					return err
				}
				fmt.Printf("Exported %d limit(s) to %s\n", len(selected), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Archive password (required)")
	cmd.Flags().StringSliceVar(&names, "limit", nil, "Limit name to export; repeatable")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newImportCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Restore limits from an encrypted archive",
		Long:  "Imports limits from an archive. Limits whose names collide with existing ones are skipped, not overwritten.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			limits, err := portability.Import(data, password)
			if err != nil {
				return err
			}

			return withCollection(func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error {
				var imported, skipped int
				for _, limit := range limits {
					if err := c.Add(limit); err != nil {
						fmt.Printf("Skipped %q: name already in use\n", limit.Name)
						skipped++
						continue
					}
					if err := repo.SaveLimit(ctx, limit); err != nil {
						return err
					}
					imported++
				}
				fmt.Printf("Imported %d limit(s), skipped %d\n", imported, skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Archive password (required)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

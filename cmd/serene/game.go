package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenclean/serene/store/sqlite"
	"github.com/greenclean/serene/tracking"
)

func newGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game",
		Short: "Show the aggregate mood, score, and clean time",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withCollection(func(_ context.Context, _ *sqlite.Repository, c *tracking.Collection) error {
				now := time.Now()
				fmt.Printf("Mood:  %s\n", c.GameMood(now))
				fmt.Printf("Score: %d\n", c.GameScore(now))
				fmt.Println(c.GameScoreString(now))
				if date, has := c.CleanDate(); has {
					fmt.Printf("Clean since %s (%s)\n", date.Format(dayLayout), c.CleanTimeString(now))
				}
				return nil
			})
		},
	}
}

func newCleanDateCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "clean-date",
		Short: "Reset the global clean date",
		Long:  "Marks the start of the current clean stretch. Defaults to now; past dates are allowed, future dates are rejected.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withCollection(func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error {
				now := time.Now()
				when := now
				if date != "" {
					parsed, err := parseDayFlag(date, now)
					if err != nil {
						return fmt.Errorf("invalid date: %w", err)
					}
					when = parsed
				}

				if err := c.ResetCleanDate(when, now); err != nil {
					return err
				}
				if err := repo.AppendCleanDate(ctx, when); err != nil {
					return err
				}
				fmt.Printf("Clean since %s (%s)\n", when.Format(dayLayout), c.CleanTimeString(now))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Clean date (2006-01-02, default now)")
	return cmd
}

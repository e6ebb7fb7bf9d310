package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/greenclean/serene/store/sqlite"
	"github.com/greenclean/serene/tracking"
)

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List limits with today's standing",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withCollection(func(_ context.Context, _ *sqlite.Repository, c *tracking.Collection) error {
				limits := c.Limits
				if category != "" {
					cat, err := tracking.ParseCategory(category)
					if err != nil {
						return err
					}
					limits = c.ByCategory(cat)
				}

				now := time.Now()
				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Name", "Category", "Quota", "Timing", "Today", "Status"})
				for _, l := range limits {
					day := l.CurrentDay(now)
					t.AppendRow(table.Row{
						l.Name,
						l.Category.String(),
						l.Quota.String() + " " + l.UnitsName,
						l.Timing.String(),
						day.UnitsLogged().String(),
						string(l.StatusForDay(day)),
					})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category: food, drug, or activity")
	return cmd
}

func newAddCmd() *cobra.Command {
	var (
		category string
		units    string
		quota    string
		timing   string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cat, err := tracking.ParseCategory(category)
			if err != nil {
				return err
			}
			tim, err := tracking.ParseTiming(timing)
			if err != nil {
				return err
			}
			q, err := decimal.NewFromString(quota)
			if err != nil {
				return fmt.Errorf("invalid quota: %w", err)
			}

			limit, err := tracking.NewLimit(args[0], cat, units, q, tim, time.Now())
			if err != nil {
				return err
			}
			limit.IconName = icon

			return withCollection(func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error {
				// Uniqueness runs before any persistence write.
				if err := c.Add(limit); err != nil {
					return err
				}
				if err := repo.SaveLimit(ctx, limit); err != nil {
					return err
				}
				fmt.Printf("Added %q: %s %s %s\n", limit.Name, limit.Quota, limit.UnitsName, limit.Timing)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category: food, drug, or activity (required)")
	cmd.Flags().StringVar(&units, "units", "Units", "Name of the units being counted, e.g. Cups")
	cmd.Flags().StringVar(&quota, "quota", "", "Positive decimal quota (required)")
	cmd.Flags().StringVar(&timing, "timing", "daily", "Timing: daily, weekly, monthly, or yearly")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("quota")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a limit and all of its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withCollection(func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error {
				limit, found := c.FindByName(args[0])
				if !found {
					return tracking.ErrLimitNotFound
				}
				if err := repo.DeleteLimit(ctx, limit.ID); err != nil {
					return err
				}
				fmt.Printf("Removed %q\n", limit.Name)
				return nil
			})
		},
	}
}

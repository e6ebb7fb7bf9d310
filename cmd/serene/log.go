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

const dayLayout = "2006-01-02"

func parseDayFlag(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	return time.ParseInLocation(dayLayout, value, now.Location())
}

func newLogCmd() *cobra.Command {
	var (
		day    string
		reduce bool
	)

	cmd := &cobra.Command{
		Use:   "log NAME AMOUNT",
		Short: "Record a consumption delta against a limit",
		Long:  "Appends a signed amount to the day's ledger. With --reduce the amount is treated as a reduction request and clamped so the day's total never goes below zero.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			return withCollection(func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error {
				limit, found := c.FindByName(args[0])
				if !found {
					return tracking.ErrLimitNotFound
				}

				now := time.Now()
				date, err := parseDayFlag(day, now)
				if err != nil {
					return fmt.Errorf("invalid day: %w", err)
				}

				if reduce {
					amount = tracking.ReductionDelta(limit.DayFor(date).UnitsLogged(), amount)
				}

				entry := limit.AppendLog(date, tracking.NewLogEntry(amount, now))
				if entry == nil {
					fmt.Println("Nothing to record")
					return nil
				}
				if err := repo.SaveLimit(ctx, limit); err != nil {
					return err
				}

				ledger := limit.DayFor(date)
				fmt.Printf("Logged %s %s against %q\n", entry.Amount, limit.UnitsName, limit.Name)
				fmt.Println(limit.ProgressString(ledger))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Calendar day to log against (2006-01-02, default today)")
	cmd.Flags().BoolVar(&reduce, "reduce", false, "Clamp the amount against the day's total")
	return cmd
}

func newProgressCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "progress NAME",
		Short: "Show derived figures for a limit on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withCollection(func(ctx context.Context, repo *sqlite.Repository, c *tracking.Collection) error {
				limit, found := c.FindByName(args[0])
				if !found {
					return tracking.ErrLimitNotFound
				}

				now := time.Now()
				date, err := parseDayFlag(day, now)
				if err != nil {
					return fmt.Errorf("invalid day: %w", err)
				}

				ledger, existed := limit.FindDay(date)
				if !existed {
					// Reading a fresh day lazily creates its ledger, which is a write.
					ledger = limit.DayFor(date)
					if err := repo.SaveLimit(ctx, limit); err != nil {
						return err
					}
				}

				period := limit.Timing.PeriodFor(ledger.Date)

				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.SetStyle(table.StyleLight)
				t.AppendRows([]table.Row{
					{"Day", ledger.Date.Format(dayLayout)},
					{"Period", period.String()},
					{"Logged", ledger.UnitsLogged().String() + " " + limit.UnitsName},
					{"Remaining", limit.UnitsRemaining(ledger).String() + " " + limit.UnitsName},
					{"Progress", limit.ProgressPercentString(ledger)},
					{"Status", string(limit.StatusForDay(ledger))},
					{"Days since relapse", limit.DaysSinceRelapse(ledger)},
					{"Points for day", limit.PointsForDay(ledger, now).String()},
					{"Total points", limit.TotalPoints(now).String()},
				})
				t.Render()

				fmt.Println(limit.ProgressString(ledger))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Calendar day to inspect (2006-01-02, default today)")
	return cmd
}

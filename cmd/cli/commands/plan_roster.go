package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/core/holidays"
	"github.com/jakechorley/duty-planner/pkg/core/planner"
	"github.com/jakechorley/duty-planner/pkg/core/services"
)

// PlanRosterCmd creates the planRoster command
func PlanRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planRoster",
		Short: "Plan the duty roster for a month and publish the report",
		Long: `Plan the duty roster for a month from the staff sheet.

Public holidays come from the configured rules and calendar, plus any days
given with --holidays (e.g. --holidays 5/19). When --last-day-eve is not set
it is derived from whether the 1st of the following month is a holiday.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			holidayFlag, _ := cmd.Flags().GetString("holidays")
			timeLimit, _ := cmd.Flags().GetDuration("time-limit")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			noHistory, _ := cmd.Flags().GetBool("no-history")

			year, month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}

			cal := holidays.Union{app.Holidays}
			if strings.TrimSpace(holidayFlag) != "" {
				static, warnings := holidays.ParseDayList(holidayFlag, app.Logger)
				for _, w := range warnings {
					app.Logger.Warn("Ignored holiday input", zap.String("detail", w))
				}
				cal = append(cal, holidays.MonthOnly{Year: year, Month: month, Calendar: static})
			}

			req := services.PlanRosterRequest{
				Year:       year,
				Month:      month,
				MinGapDays: app.Cfg.Solver.MinGapDays,
				TimeLimit:  app.Cfg.Solver.TimeLimit,
				DryRun:     dryRun,
			}
			if timeLimit > 0 {
				req.TimeLimit = timeLimit
			}
			if cmd.Flags().Changed("last-day-eve") {
				eve, _ := cmd.Flags().GetBool("last-day-eve")
				req.LastDayIsEve = &eve
			}

			var store services.PlanRosterStore
			if app.Database != nil && !noHistory {
				store = app.Database
			}

			app.Logger.Debug("planRoster command",
				zap.Int("year", year),
				zap.String("month", month.String()),
				zap.Duration("time_limit", req.TimeLimit),
				zap.Bool("dry_run", dryRun))

			result, err := services.PlanRoster(app.Ctx, app.StaffSource, cal, app.Sinks, store, app.Logger, req)
			if err != nil {
				return err
			}

			printRoster(result)
			return nil
		},
	}

	cmd.Flags().String("month", "", "Month to plan as YYYY-MM (defaults to the current month)")
	cmd.Flags().String("holidays", "", "Extra public holidays as day numbers, e.g. 5/19")
	cmd.Flags().Bool("last-day-eve", false, "Treat the last day of the month as a holiday eve")
	cmd.Flags().Duration("time-limit", 0, "Solver time limit (overrides config)")
	cmd.Flags().Bool("dry-run", false, "Plan and print without writing any output")
	cmd.Flags().Bool("no-history", false, "Do not save the run to the database")

	return cmd
}

func printRoster(result *services.PlanRosterResult) {
	report := result.Report
	sol := result.Roster.Solution

	fmt.Printf("\n✓ Duty roster for %s (%s)\n\n", report.Title(), sol.Status)
	fmt.Printf("%-12s %-4s %-24s %-7s %s\n", "Date", "Day", "Assigned To", "Points", "Standby")
	fmt.Println(strings.Repeat("-", 72))
	for _, row := range report.Schedule {
		assignee := row.AssignedTo
		if assignee == "" {
			assignee = "-"
		}
		fmt.Printf("%-12s %-4s %-24s %-7s %s\n",
			row.Date.Format("2006-01-02"),
			row.Date.Format("Mon"),
			assignee,
			row.Points.StringFixed(1),
			row.Standby)
	}

	fmt.Printf("\nUpdated scores (average duty score %s):\n\n", report.AverageDutyScore.String())
	for i, s := range report.Scores {
		line := result.Roster.Scores.Lines[i]
		fmt.Printf("  %-28s duties %d  score %-8s next %s\n", s.Name, line.Duties, s.ScoreAfterPlanning.String(), s.NextScore.String())
	}

	engine := "local search"
	if sol.Stats.Exact {
		engine = "MILP"
	}
	fmt.Printf("\nObjective %s (%s, %s) in %s\n",
		sol.Objective, sol.Status, engine, sol.Stats.Elapsed.Round(time.Millisecond))

	if len(result.Diagnostics) > 0 {
		fmt.Printf("\n⚠️  %d warning(s):\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Printf("  %s\n", d)
		}
	}

	if sol.Status == planner.StatusFeasible {
		fmt.Println("\nThe time limit ran out before this roster was proven optimal.")
	}

	if len(result.Published) > 0 {
		fmt.Printf("\nPublished to: %s\n", strings.Join(result.Published, ", "))
	} else {
		fmt.Println("\nDry run, nothing written.")
	}
	if result.Saved {
		fmt.Printf("Saved as run %s\n", result.RunID)
	}
	fmt.Println()
}

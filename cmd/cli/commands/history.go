package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
	"github.com/jakechorley/duty-planner/pkg/core/services"
)

var errNoDatabase = errors.New("no database configured: set databaseURL or DUTY_PLANNER_DATABASE_URL")

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved planning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Database == nil {
				return errNoDatabase
			}
			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 1 {
				return fmt.Errorf("limit must be a positive integer, got: %d", limit)
			}

			runs, err := services.ListHistory(app.Ctx, app.Database, app.Logger, limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("\nNo planning runs saved yet.")
				return nil
			}

			fmt.Printf("\n%-38s %-8s %-10s %-10s %s\n", "Run", "Month", "Status", "Objective", "Created")
			for _, r := range runs {
				fmt.Printf("%-38s %-8s %-10s %-10s %s\n", r.ID, r.Month, r.Status, formatMilli(r.Objective), r.CreatedAt)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("limit", 12, "Number of runs to show")

	return cmd
}

// ViewRunCmd creates the viewRun command
func ViewRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewRun [run_id]",
		Short: "Show a saved roster and its scores (defaults to the latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Database == nil {
				return errNoDatabase
			}
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}
			app.Logger.Debug("viewRun command", zap.String("run_id", runID))

			detail, err := services.ViewRun(app.Ctx, app.Database, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Printf("\nRun %s for %s (%s), created %s\n\n", detail.Run.ID, detail.Run.Month, detail.Run.Status, detail.Run.CreatedAt)
			for _, e := range detail.Roster {
				assignee := e.Assignee
				if assignee == "" {
					assignee = "-"
				}
				standby := e.Standby
				if standby == "" {
					standby = "-"
				}
				fmt.Printf("  %s  %-6s %-24s %s\n", e.DutyDate, formatMilli(e.Points), assignee, standby)
			}

			fmt.Println("\nScores:")
			for _, s := range detail.Scores {
				fmt.Printf("  %-28s duties %d  score %-8s next %s\n", s.Name, s.Duties, s.Final, s.Next)
			}
			fmt.Println()

			return nil
		},
	}
}

func formatMilli(v int64) string {
	return calendar.Points(v).String()
}

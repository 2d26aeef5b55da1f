package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/core/holidays"
	"github.com/jakechorley/duty-planner/pkg/core/model"
	"github.com/jakechorley/duty-planner/pkg/core/planner"
	"github.com/jakechorley/duty-planner/pkg/db"
)

// ReportSink receives the published report of a successful run
type ReportSink interface {
	Name() string
	PublishReport(ctx context.Context, report *model.Report) error
}

// PlanRosterStore defines the database operations needed for saving a run
type PlanRosterStore interface {
	SavePlanningRun(ctx context.Context, run *db.PlanningRun, roster []db.RosterEntry, scores []db.ScoreEntry) error
}

// PlanRosterRequest describes the month to plan
type PlanRosterRequest struct {
	Year  int
	Month time.Month

	// LastDayIsEve overrides the holiday calendar when set
	LastDayIsEve *bool

	MinGapDays int
	TimeLimit  time.Duration

	// DryRun solves and reports without publishing or saving
	DryRun bool
}

// PlanRosterResult contains the planning outcome
type PlanRosterResult struct {
	RunID       string
	Month       *MonthPlan
	Problem     *planner.Problem
	Roster      *planner.Roster
	Report      *model.Report
	Diagnostics []planner.Diagnostic
	Published   []string
	Saved       bool
}

// PlanRoster builds the month's duty roster from the staff table and publishes it.
// Nothing is published or saved when the solver finds no feasible roster.
// store may be nil to skip history.
func PlanRoster(
	ctx context.Context,
	source StaffSource,
	cal holidays.Calendar,
	sinks []ReportSink,
	store PlanRosterStore,
	logger *zap.Logger,
	req PlanRosterRequest,
) (*PlanRosterResult, error) {
	logger.Debug("Starting planRoster",
		zap.Int("year", req.Year),
		zap.String("month", req.Month.String()),
		zap.Bool("dry_run", req.DryRun))

	minGap := req.MinGapDays
	if minGap == 0 {
		minGap = planner.DefaultMinGapDays
	}

	// Step 1: Weigh the month
	month, err := ResolveMonth(cal, req.Year, req.Month, req.LastDayIsEve, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Built duty days",
		zap.Int("days", len(month.Days)),
		zap.String("total_points", month.TotalPoints.String()),
		zap.Bool("last_day_is_eve", month.LastDayIsEve))

	// Step 2: Fetch and decode staff
	staff, diags, err := LoadStaff(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	// Step 3: Build the problem
	problem, err := planner.NewProblem(month.Days, staff, minGap)
	if err != nil {
		return nil, fmt.Errorf("failed to build planning problem: %w", err)
	}
	diags = append(diags, problem.Diagnostics...)
	logger.Debug("Built planning problem",
		zap.Int("staff", len(problem.Staff)),
		zap.Int("active", len(problem.Active)),
		zap.String("average_month_points", problem.AverageMonthPoints.String()),
		zap.String("target", problem.Target.String()))

	// Step 4: Solve
	roster, err := planner.Plan(ctx, problem, planner.SolveOptions{TimeLimit: req.TimeLimit})
	if err != nil {
		logDiagnostics(logger, diags)
		if errors.Is(err, planner.ErrNoSolution) {
			return nil, fmt.Errorf("no roster satisfies the constraints for %s: %w", month.Key(), err)
		}
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	sol := roster.Solution
	logger.Info("Solved roster",
		zap.String("status", sol.Status.String()),
		zap.String("objective", sol.Objective.String()),
		zap.Bool("exact", sol.Stats.Exact),
		zap.Int64("nodes", sol.Stats.Nodes),
		zap.Int("moves", sol.Stats.Moves),
		zap.Duration("elapsed", sol.Stats.Elapsed))

	// Standby diagnostics only exist after planning; problem ones are already in diags
	for _, d := range roster.Diagnostics {
		if d.Kind == planner.DiagNoEligibleStandby {
			diags = append(diags, d)
		}
	}
	logDiagnostics(logger, diags)

	runID := uuid.New().String()
	report := buildReport(runID, month, problem, roster)

	result := &PlanRosterResult{
		RunID:       runID,
		Month:       month,
		Problem:     problem,
		Roster:      roster,
		Report:      report,
		Diagnostics: diags,
	}

	if req.DryRun {
		logger.Debug("Dry run, skipping publish and history")
		return result, nil
	}

	// Step 5: Publish
	for _, sink := range sinks {
		logger.Debug("Publishing report", zap.String("sink", sink.Name()))
		if err := sink.PublishReport(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to publish report to %s: %w", sink.Name(), err)
		}
		result.Published = append(result.Published, sink.Name())
	}

	// Step 6: Save history
	if store != nil {
		run, entries, scores := convertToDBRecords(runID, month, roster, report)
		if err := store.SavePlanningRun(ctx, run, entries, scores); err != nil {
			return nil, fmt.Errorf("failed to save planning run: %w", err)
		}
		result.Saved = true
		logger.Debug("Saved planning run", zap.String("run_id", runID))
	}

	return result, nil
}

func logDiagnostics(logger *zap.Logger, diags []planner.Diagnostic) {
	for _, d := range diags {
		logger.Warn(d.Message,
			zap.String("kind", string(d.Kind)),
			zap.String("subject", d.Subject))
	}
}

package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/db"
)

// ViewHistoryStore defines the database operations needed for reading history
type ViewHistoryStore interface {
	ListPlanningRuns(ctx context.Context, limit int) ([]db.PlanningRun, error)
	GetRosterEntries(ctx context.Context, runID string) ([]db.RosterEntry, error)
	GetScoreEntries(ctx context.Context, runID string) ([]db.ScoreEntry, error)
}

// RunDetail is one saved run with its roster and scores
type RunDetail struct {
	Run    db.PlanningRun
	Roster []db.RosterEntry
	Scores []db.ScoreEntry
}

// ListHistory returns the most recent planning runs
func ListHistory(ctx context.Context, store ViewHistoryStore, logger *zap.Logger, limit int) ([]db.PlanningRun, error) {
	logger.Debug("Fetching planning runs", zap.Int("limit", limit))
	runs, err := store.ListPlanningRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch planning runs: %w", err)
	}
	logger.Debug("Found planning runs", zap.Int("count", len(runs)))
	return runs, nil
}

// ViewRun loads a run by id; an empty id selects the latest run
func ViewRun(ctx context.Context, store ViewHistoryStore, logger *zap.Logger, runID string) (*RunDetail, error) {
	runs, err := store.ListPlanningRuns(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch planning runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no planning runs found - run planRoster first")
	}

	var target *db.PlanningRun
	if runID == "" {
		target = &runs[0]
	} else {
		for i := range runs {
			if runs[i].ID == runID {
				target = &runs[i]
				break
			}
		}
	}
	if target == nil {
		return nil, fmt.Errorf("planning run %s not found among the latest %d runs", runID, len(runs))
	}
	logger.Debug("Using planning run", zap.String("id", target.ID), zap.String("month", target.Month))

	roster, err := store.GetRosterEntries(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster entries: %w", err)
	}

	scores, err := store.GetScoreEntries(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score entries: %w", err)
	}

	return &RunDetail{Run: *target, Roster: roster, Scores: scores}, nil
}

package db

import "context"

// HistoryStore defines the interface for planning run persistence
type HistoryStore interface {
	SavePlanningRun(ctx context.Context, run *PlanningRun, roster []RosterEntry, scores []ScoreEntry) error
	ListPlanningRuns(ctx context.Context, limit int) ([]PlanningRun, error)
	GetRosterEntries(ctx context.Context, runID string) ([]RosterEntry, error)
	GetScoreEntries(ctx context.Context, runID string) ([]ScoreEntry, error)
}

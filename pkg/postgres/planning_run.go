package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/duty-planner/pkg/db"
)

var _ db.HistoryStore = (*DB)(nil)

// SavePlanningRun stores a run with its roster and scores in one transaction
func (d *DB) SavePlanningRun(ctx context.Context, run *db.PlanningRun, roster []db.RosterEntry, scores []db.ScoreEntry) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	holidays := run.Holidays
	if holidays == nil {
		holidays = []int32{}
	}

	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO planning_run (id, month, status, objective, average_month_points, holidays, last_day_is_eve, nodes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, run.ID, run.Month, run.Status, run.Objective, run.AverageMonthPoints, holidays, run.LastDayIsEve, run.Nodes).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert planning run: %w", err)
	}

	for _, e := range roster {
		dutyDate, err := time.Parse("2006-01-02", e.DutyDate)
		if err != nil {
			return fmt.Errorf("invalid duty date %q: %w", e.DutyDate, err)
		}
		var assignee, standby *string
		if e.Assignee != "" {
			assignee = &e.Assignee
		}
		if e.Standby != "" {
			standby = &e.Standby
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO roster_entry (run_id, duty_date, points, assignee, standby)
			VALUES ($1, $2, $3, $4, $5)
		`, run.ID, dutyDate, e.Points, assignee, standby)
		if err != nil {
			return fmt.Errorf("failed to insert roster entry: %w", err)
		}
	}

	for _, s := range scores {
		_, err := tx.Exec(ctx, `
			INSERT INTO score_entry (run_id, position, name, frozen, duties, final_score, next_score)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, run.ID, s.Position, s.Name, s.Frozen, s.Duties, s.Final, s.Next)
		if err != nil {
			return fmt.Errorf("failed to insert score entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	run.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return nil
}

// ListPlanningRuns returns the most recent runs first
func (d *DB) ListPlanningRuns(ctx context.Context, limit int) ([]db.PlanningRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id::text, month, status, objective, average_month_points, holidays, last_day_is_eve, nodes, created_at
		FROM planning_run
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query planning runs: %w", err)
	}
	defer rows.Close()

	var runs []db.PlanningRun
	for rows.Next() {
		var r db.PlanningRun
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.Month, &r.Status, &r.Objective, &r.AverageMonthPoints, &r.Holidays, &r.LastDayIsEve, &r.Nodes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan planning run: %w", err)
		}
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating planning runs: %w", err)
	}

	return runs, nil
}

// GetRosterEntries returns a run's duty days in date order
func (d *DB) GetRosterEntries(ctx context.Context, runID string) ([]db.RosterEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id::text, duty_date, points, assignee, standby
		FROM roster_entry
		WHERE run_id = $1
		ORDER BY duty_date
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster entries: %w", err)
	}
	defer rows.Close()

	var entries []db.RosterEntry
	for rows.Next() {
		var e db.RosterEntry
		var dutyDate time.Time
		var assignee, standby *string
		if err := rows.Scan(&e.RunID, &dutyDate, &e.Points, &assignee, &standby); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		e.DutyDate = dutyDate.Format("2006-01-02")
		if assignee != nil {
			e.Assignee = *assignee
		}
		if standby != nil {
			e.Standby = *standby
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster entries: %w", err)
	}

	return entries, nil
}

// GetScoreEntries returns a run's score lines in sheet order
func (d *DB) GetScoreEntries(ctx context.Context, runID string) ([]db.ScoreEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id::text, position, name, frozen, duties, final_score::text, next_score::text
		FROM score_entry
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score entries: %w", err)
	}
	defer rows.Close()

	var scores []db.ScoreEntry
	for rows.Next() {
		var s db.ScoreEntry
		if err := rows.Scan(&s.RunID, &s.Position, &s.Name, &s.Frozen, &s.Duties, &s.Final, &s.Next); err != nil {
			return nil, fmt.Errorf("failed to scan score entry: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score entries: %w", err)
	}

	return scores, nil
}

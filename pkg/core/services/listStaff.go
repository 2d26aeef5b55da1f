package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/core/model"
	"github.com/jakechorley/duty-planner/pkg/core/planner"
)

// StaffSource provides the raw staff table
type StaffSource interface {
	ListStaff(ctx context.Context) ([]model.StaffRecord, error)
}

// LoadStaff fetches the staff table and decodes every row into a planner.Person.
// Decoding problems never fail the load; they are returned as diagnostics.
func LoadStaff(ctx context.Context, source StaffSource, logger *zap.Logger) ([]planner.Person, []planner.Diagnostic, error) {
	logger.Debug("Fetching staff")
	records, err := source.ListStaff(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	logger.Debug("Found staff", zap.Int("count", len(records)))

	staff := make([]planner.Person, 0, len(records))
	var diags []planner.Diagnostic
	for _, r := range records {
		person, personDiags := planner.NewPerson(r.Name, r.Constraints, r.Score)
		staff = append(staff, person)
		diags = append(diags, personDiags...)
	}

	return staff, diags, nil
}

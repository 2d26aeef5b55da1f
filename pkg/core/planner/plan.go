package planner

import (
	"context"
	"fmt"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// RosterDay is one published row of the duty schedule
type RosterDay struct {
	Day      calendar.DutyDay
	Assignee PersonID
	Standby  PersonID
}

// Roster is the complete outcome of a planning run
type Roster struct {
	Days        []RosterDay
	Scores      ScoreReport
	Solution    *Solution
	Diagnostics []Diagnostic
}

// AssigneeName returns the display name of the person on duty, or "" when unassigned
func (r *Roster) AssigneeName(p *Problem, d DayID) string {
	j := r.Days[d].Assignee
	if j == NoPerson {
		return ""
	}
	return p.Staff[j].Name
}

// StandbyName returns the standby display name or the NoEligibleStaff sentinel
func (r *Roster) StandbyName(p *Problem, d DayID) string {
	j := r.Days[d].Standby
	if j == NoPerson {
		return NoEligibleStaff
	}
	return p.Staff[j].Name
}

// Plan solves the problem and derives standby and score carry-forward.
// It returns ErrNoSolution (wrapped with the solver status) when no roster satisfies
// the hard constraints; nothing should be written in that case.
func Plan(ctx context.Context, p *Problem, opts SolveOptions) (*Roster, error) {
	sol := Solve(ctx, p, opts)
	if !sol.Status.HasSolution() {
		return nil, fmt.Errorf("%w: solver status %s after %s", ErrNoSolution, sol.Status, sol.Stats.Elapsed)
	}

	violations := Validate(p, sol.Assignment)
	if len(violations) > 0 {
		return nil, fmt.Errorf("solver returned a roster that breaks %d constraint(s), first: %s", len(violations), violations[0].Description)
	}

	standby, standbyDiags := AllocateStandby(p, sol.Assignment)

	roster := &Roster{
		Days:     make([]RosterDay, len(p.Days)),
		Scores:   Reconcile(p, sol.Assignment),
		Solution: sol,
	}
	for d, day := range p.Days {
		roster.Days[d] = RosterDay{
			Day:      day,
			Assignee: sol.Assignment[d],
			Standby:  standby[d].Person,
		}
	}

	roster.Diagnostics = append(roster.Diagnostics, p.Diagnostics...)
	roster.Diagnostics = append(roster.Diagnostics, standbyDiags...)

	return roster, nil
}

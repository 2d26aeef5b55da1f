package planner

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// Eligibility is a dense day × person table of who may take which duty
type Eligibility struct {
	people int
	cells  []bool
}

func newEligibility(days []calendar.DutyDay, staff []Person) *Eligibility {
	e := &Eligibility{
		people: len(staff),
		cells:  make([]bool, len(days)*len(staff)),
	}
	for d, day := range days {
		for p, person := range staff {
			e.cells[d*e.people+p] = !person.Availability.Blocks(day.DayOfMonth())
		}
	}
	return e
}

// Allowed reports whether person p may be assigned day d
func (e *Eligibility) Allowed(d DayID, p PersonID) bool {
	return e.cells[int(d)*e.people+int(p)]
}

// Candidates returns the eligible persons for day d in input order
func (e *Eligibility) Candidates(d DayID) []PersonID {
	var out []PersonID
	for p := 0; p < e.people; p++ {
		if e.cells[int(d)*e.people+p] {
			out = append(out, PersonID(p))
		}
	}
	return out
}

// Problem is the immutable input of one planning run
type Problem struct {
	Days        []calendar.DutyDay
	Staff       []Person
	MinGapDays  int
	Eligibility *Eligibility

	// Active lists the non-frozen persons in input order
	Active []PersonID

	// TotalPoints is the sum of all day weights of the month
	TotalPoints calendar.Points

	// AverageMonthPoints is TotalPoints / len(Active), floored to fixed-point resolution
	AverageMonthPoints calendar.Points

	// Target is the end-of-month score every active person is steered towards
	Target calendar.Points

	// DeviationCap bounds each person's |total - Target|
	DeviationCap calendar.Points

	// Diagnostics found while building the problem
	Diagnostics []Diagnostic
}

// NewProblem validates the inputs and precomputes eligibility and fairness targets
func NewProblem(days []calendar.DutyDay, staff []Person, minGapDays int) (*Problem, error) {
	if len(days) == 0 {
		return nil, ErrNoDays
	}
	if minGapDays < 0 {
		return nil, fmt.Errorf("min gap days must not be negative, got %d", minGapDays)
	}

	p := &Problem{
		Days:        days,
		Staff:       staff,
		MinGapDays:  minGapDays,
		Eligibility: newEligibility(days, staff),
		TotalPoints: calendar.TotalPoints(days),
	}

	seen := make(map[string]bool)
	for i, person := range staff {
		if seen[person.Key()] {
			p.Diagnostics = append(p.Diagnostics, Diagnostic{
				Kind:    DiagDuplicateName,
				Subject: person.Name,
				Message: "name appears more than once (names are compared case-insensitively)",
			})
		}
		seen[person.Key()] = true

		if !person.IsFrozen() {
			p.Active = append(p.Active, PersonID(i))
		}
	}

	if len(p.Active) == 0 {
		return nil, ErrNoActiveStaff
	}

	p.AverageMonthPoints = p.TotalPoints / calendar.Points(len(p.Active))
	p.DeviationCap = p.TotalPoints

	// Average carried score over the whole roster (frozen included), rounded half to even
	sum := decimal.Zero
	for _, person := range staff {
		sum = sum.Add(decimal.NewFromInt(int64(person.CarriedPoints())))
	}
	avgCarried := sum.Div(decimal.NewFromInt(int64(len(staff))))
	p.Target = calendar.Points(avgCarried.Add(decimal.NewFromInt(int64(p.AverageMonthPoints))).RoundBank(0).IntPart())

	for d, day := range days {
		if len(p.Eligibility.Candidates(DayID(d))) == 0 {
			p.Diagnostics = append(p.Diagnostics, Diagnostic{
				Kind:    DiagNoEligibleStaff,
				Subject: day.Date.Format("2006-01-02"),
				Message: "no staff available, day left unassigned",
			})
		}
	}

	return p, nil
}

package planner

import (
	"github.com/shopspring/decimal"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// ScoreLine is the fairness outcome of one person
type ScoreLine struct {
	Person      PersonID
	DisplayName string
	Frozen      bool
	Duties      int

	// AssignedPoints is the weight of this cycle's duties
	AssignedPoints calendar.Points

	// Final is carried score + assigned points, to 3 decimals
	Final decimal.Decimal

	// Next is the score to carry into the next cycle
	Next decimal.Decimal
}

// ScoreReport holds every person's scores and the month average used for carry-forward
type ScoreReport struct {
	Lines              []ScoreLine
	AverageMonthPoints calendar.Points
}

// Reconcile folds the assignment into each person's score.
// Active persons carry final - AverageMonthPoints; frozen persons carry their
// input score unchanged.
func Reconcile(p *Problem, assignment []PersonID) ScoreReport {
	assigned := make([]calendar.Points, len(p.Staff))
	duties := make([]int, len(p.Staff))
	for d, j := range assignment {
		if j == NoPerson {
			continue
		}
		assigned[j] += p.Days[d].Points
		duties[j]++
	}

	report := ScoreReport{
		Lines:              make([]ScoreLine, len(p.Staff)),
		AverageMonthPoints: p.AverageMonthPoints,
	}

	for i, person := range p.Staff {
		line := ScoreLine{
			Person:      PersonID(i),
			DisplayName: person.DisplayName(),
			Frozen:      person.IsFrozen(),
		}

		if person.IsFrozen() {
			line.Final = person.CarriedPoints().Decimal()
			line.Next = person.CarriedScore
		} else {
			final := person.CarriedPoints() + assigned[i]
			line.Duties = duties[i]
			line.AssignedPoints = assigned[i]
			line.Final = final.Decimal()
			line.Next = (final - p.AverageMonthPoints).Decimal()
		}

		report.Lines[i] = line
	}

	return report
}

package planner

import "fmt"

// Violation describes a hard constraint broken by a roster
type Violation struct {
	Day         DayID
	Date        string
	Constraint  string
	Description string
}

// Constraint names used in violations
const (
	ConstraintEligibility = "Eligibility"
	ConstraintOnePerWeek  = "OnePerWeek"
	ConstraintMinGap      = "MinGap"
	ConstraintFrozen      = "Frozen"
	ConstraintCoverage    = "Coverage"
)

// Validate re-checks every hard constraint against an assignment.
// An empty result means the roster is valid.
func Validate(p *Problem, assignment []PersonID) []Violation {
	var violations []Violation

	add := func(d int, constraint, format string, args ...any) {
		violations = append(violations, Violation{
			Day:         DayID(d),
			Date:        p.Days[d].Date.Format("2006-01-02"),
			Constraint:  constraint,
			Description: fmt.Sprintf(format, args...),
		})
	}

	type weekKey struct {
		person PersonID
		year   int
		week   int
	}
	weekSeen := make(map[weekKey]int)
	lastDuty := make(map[PersonID]int)

	for d, j := range assignment {
		if j == NoPerson {
			if len(p.Eligibility.Candidates(DayID(d))) > 0 {
				add(d, ConstraintCoverage, "day %d has eligible staff but no assignee", p.Days[d].DayOfMonth())
			}
			continue
		}
		person := p.Staff[j]
		day := p.Days[d]

		if person.IsFrozen() {
			add(d, ConstraintFrozen, "frozen person %q is assigned", person.Name)
		}
		if !p.Eligibility.Allowed(DayID(d), j) {
			add(d, ConstraintEligibility, "%q is not available on day %d", person.Name, day.DayOfMonth())
		}

		y, w := day.ISOWeek()
		key := weekKey{person: j, year: y, week: w}
		if prev, ok := weekSeen[key]; ok {
			add(d, ConstraintOnePerWeek, "%q already has a duty in ISO week %d (%s)", person.Name, w, p.Days[prev].Date.Format("2006-01-02"))
		}
		weekSeen[key] = d

		if prev, ok := lastDuty[j]; ok {
			if gap := day.Ordinal() - p.Days[prev].Ordinal(); gap < p.MinGapDays {
				add(d, ConstraintMinGap, "%q has duties %d days apart (minimum %d)", person.Name, gap, p.MinGapDays)
			}
		}
		lastDuty[j] = d
	}

	return violations
}

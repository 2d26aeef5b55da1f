package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/duty-planner/pkg/core/availability"
	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// DefaultMinGapDays is the minimum number of calendar days between two duties of one person
const DefaultMinGapDays = 4

var (
	// ErrNoActiveStaff is returned when every person is frozen or the roster is empty
	ErrNoActiveStaff = errors.New("no active (non-frozen) staff to plan")

	// ErrNoDays is returned when the problem has no duty days
	ErrNoDays = errors.New("no duty days to plan")

	// ErrNoSolution is returned when the hard constraints cannot be satisfied within the time budget
	ErrNoSolution = errors.New("no feasible solution found")
)

// PersonID indexes Problem.Staff
type PersonID int

// DayID indexes Problem.Days
type DayID int

// NoPerson marks a day without an assignee
const NoPerson PersonID = -1

// Person is one staff member of the roster
type Person struct {
	Name         string
	Availability availability.Availability

	// CarriedScore is the fairness score from the previous cycle, exactly as supplied
	CarriedScore decimal.Decimal
}

// Key returns the case-insensitive identity of the person
func (p Person) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}

// IsFrozen reports whether the person is excluded from this cycle
func (p Person) IsFrozen() bool {
	return p.Availability.IsFrozen()
}

// CarriedPoints returns the carried score in fixed-point
func (p Person) CarriedPoints() calendar.Points {
	return calendar.PointsFromDecimal(p.CarriedScore)
}

// DisplayName returns the name used in reports; frozen persons are annotated
func (p Person) DisplayName() string {
	if p.IsFrozen() {
		return strings.ToUpper(strings.TrimSpace(p.Name)) + " (Frozen)"
	}
	return strings.TrimSpace(p.Name)
}

// DiagnosticKind classifies non-fatal findings
type DiagnosticKind string

const (
	DiagUnparsableConstraint DiagnosticKind = "unparsable-constraint"
	DiagUnparsableScore      DiagnosticKind = "unparsable-score"
	DiagNoEligibleStaff      DiagnosticKind = "no-eligible-staff"
	DiagNoEligibleStandby    DiagnosticKind = "no-eligible-standby"
	DiagDuplicateName        DiagnosticKind = "duplicate-name"
)

// Diagnostic is a non-fatal warning surfaced to the operator
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Subject, d.Message)
}

// NewPerson decodes a raw staff record. Malformed constraint or score text never
// fails: the field falls back to a safe value and a diagnostic is returned.
func NewPerson(name, constraints, score string) (Person, []Diagnostic) {
	var diags []Diagnostic
	subject := strings.TrimSpace(name)

	avail, warnings := availability.Parse(constraints)
	for _, w := range warnings {
		diags = append(diags, Diagnostic{
			Kind:    DiagUnparsableConstraint,
			Subject: subject,
			Message: w,
		})
	}

	carried := decimal.Zero
	if trimmed := strings.TrimSpace(score); trimmed != "" {
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:    DiagUnparsableScore,
				Subject: subject,
				Message: fmt.Sprintf("score %q is not a number, using 0", trimmed),
			})
		} else {
			carried = parsed
		}
	}

	return Person{
		Name:         subject,
		Availability: avail,
		CarriedScore: carried,
	}, diags
}

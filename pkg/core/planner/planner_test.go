package planner

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

func newTestPerson(t *testing.T, name, constraints, score string) Person {
	t.Helper()
	p, diags := NewPerson(name, constraints, score)
	require.Empty(t, diags, "unexpected diagnostics for %s", name)
	return p
}

func staffNamed(t *testing.T, names ...string) []Person {
	t.Helper()
	staff := make([]Person, len(names))
	for i, name := range names {
		staff[i] = newTestPerson(t, name, "", "")
	}
	return staff
}

// february2027 returns the duty days of Feb 2027, which starts on a Monday
func february2027() []calendar.DutyDay {
	return calendar.BuildDutyDays(2027, time.February, nil, false)
}

// pickDays selects days of month (1-based) from a month's duty days
func pickDays(days []calendar.DutyDay, dayNumbers ...int) []calendar.DutyDay {
	out := make([]calendar.DutyDay, 0, len(dayNumbers))
	for _, n := range dayNumbers {
		out = append(out, days[n-1])
	}
	return out
}

func countDuties(assignment []PersonID) map[PersonID]int {
	counts := make(map[PersonID]int)
	for _, j := range assignment {
		counts[j]++
	}
	return counts
}

func TestNewPerson_Diagnostics(t *testing.T) {
	p, diags := NewPerson("  Alice ", "5, 12 next week", "abc")

	assert.Equal(t, "Alice", p.Name)
	assert.True(t, p.CarriedScore.IsZero(), "unparsable score falls back to 0")
	assert.True(t, p.Availability.Blocks(5))
	assert.True(t, p.Availability.Blocks(12))

	kinds := make(map[DiagnosticKind]int)
	for _, d := range diags {
		kinds[d.Kind]++
		assert.Equal(t, "Alice", d.Subject)
	}
	assert.Equal(t, 2, kinds[DiagUnparsableConstraint])
	assert.Equal(t, 1, kinds[DiagUnparsableScore])
}

func TestNewPerson_FrozenDisplayName(t *testing.T) {
	p, diags := NewPerson("Bob", "Frozen", "2.5")
	require.Empty(t, diags)

	assert.True(t, p.IsFrozen())
	assert.Equal(t, "BOB (Frozen)", p.DisplayName())
	assert.Equal(t, calendar.Points(2500), p.CarriedPoints())
}

func TestNewProblem_Targets(t *testing.T) {
	// Friday 5th and Saturday 6th: 1.5 + 2
	days := pickDays(february2027(), 5, 6)
	staff := []Person{
		newTestPerson(t, "A", "", "1.2"),
		newTestPerson(t, "B", "", ""),
		newTestPerson(t, "C", "frozen", "3.333"),
	}

	p, err := NewProblem(days, staff, DefaultMinGapDays)
	require.NoError(t, err)

	assert.Equal(t, []PersonID{0, 1}, p.Active)
	assert.Equal(t, calendar.Points(3500), p.TotalPoints)
	assert.Equal(t, calendar.Points(1750), p.AverageMonthPoints)
	// carried average over all three staff is 4533 / 3 = 1511
	assert.Equal(t, calendar.Points(1511+1750), p.Target)
	assert.Equal(t, p.TotalPoints, p.DeviationCap)

	for d := range days {
		assert.False(t, p.Eligibility.Allowed(DayID(d), 2), "frozen person is never eligible")
	}
}

func TestNewProblem_TargetRoundsHalfToEven(t *testing.T) {
	// One weekday shared by two people: average month points 500, carried average 0.5
	days := pickDays(february2027(), 1)
	staff := []Person{
		newTestPerson(t, "A", "", "0.001"),
		newTestPerson(t, "B", "", "0"),
	}

	p, err := NewProblem(days, staff, DefaultMinGapDays)
	require.NoError(t, err)
	assert.Equal(t, calendar.Points(500), p.Target)
}

func TestNewProblem_Errors(t *testing.T) {
	_, err := NewProblem(nil, staffNamed(t, "A"), DefaultMinGapDays)
	assert.ErrorIs(t, err, ErrNoDays)

	frozen := []Person{newTestPerson(t, "A", "frozen", "")}
	_, err = NewProblem(february2027(), frozen, DefaultMinGapDays)
	assert.ErrorIs(t, err, ErrNoActiveStaff)

	_, err = NewProblem(february2027(), nil, DefaultMinGapDays)
	assert.ErrorIs(t, err, ErrNoActiveStaff)
}

func TestNewProblem_DiagnosesDuplicatesAndUncoveredDays(t *testing.T) {
	days := pickDays(february2027(), 1, 8)
	staff := []Person{
		newTestPerson(t, "Alice", "1", ""),
		newTestPerson(t, "alice ", "1", ""),
	}

	p, err := NewProblem(days, staff, DefaultMinGapDays)
	require.NoError(t, err)

	kinds := make(map[DiagnosticKind][]string)
	for _, d := range p.Diagnostics {
		kinds[d.Kind] = append(kinds[d.Kind], d.Subject)
	}
	assert.Equal(t, []string{"alice"}, kinds[DiagDuplicateName])
	assert.Equal(t, []string{"2027-02-01"}, kinds[DiagNoEligibleStaff])
}

func TestSolve_FairnessPrefersLowScoreForHeavyDay(t *testing.T) {
	// Mon-Fri of one ISO week; five people must take one day each
	days := pickDays(february2027(), 1, 2, 3, 4, 5)
	staff := []Person{
		newTestPerson(t, "Ahead", "", "0.5"),
		newTestPerson(t, "B", "", ""),
		newTestPerson(t, "C", "", ""),
		newTestPerson(t, "D", "", ""),
		newTestPerson(t, "E", "", ""),
	}

	p, err := NewProblem(days, staff, DefaultMinGapDays)
	require.NoError(t, err)

	sol := Solve(context.Background(), p, SolveOptions{TimeLimit: 5 * time.Second})
	require.Equal(t, StatusOptimal, sol.Status)

	assert.NotEqual(t, PersonID(0), sol.Assignment[4], "the Friday should go to someone without a carried score")
	// target 1.2: Ahead 1.5 (0.3), Friday taker 1.5 (0.3), three at 1 (0.2 each)
	assert.Equal(t, calendar.Points(1200), sol.Objective)
	assert.True(t, sol.Stats.Exact, "optimality is proven by the MILP")

	for j, n := range countDuties(sol.Assignment) {
		assert.Equal(t, 1, n, "person %d", j)
	}
}

func TestSolve_RespectsBlockedDays(t *testing.T) {
	days := pickDays(february2027(), 1, 2, 3, 4, 5)
	staff := []Person{
		newTestPerson(t, "Busy", "1-4", ""),
		newTestPerson(t, "B", "", ""),
		newTestPerson(t, "C", "", ""),
		newTestPerson(t, "D", "", ""),
		newTestPerson(t, "E", "", ""),
	}

	p, err := NewProblem(days, staff, DefaultMinGapDays)
	require.NoError(t, err)

	sol := Solve(context.Background(), p, SolveOptions{TimeLimit: 5 * time.Second})
	require.True(t, sol.Status.HasSolution())
	assert.Equal(t, PersonID(0), sol.Assignment[4])
}

func TestSolve_MinimumGap(t *testing.T) {
	feb := february2027()

	tests := []struct {
		name   string
		days   []int
		status Status
	}{
		// Sunday 7th and Wednesday 10th are in different ISO weeks but only 3 days apart
		{name: "three days apart", days: []int{7, 10}, status: StatusInfeasible},
		{name: "four days apart", days: []int{7, 11}, status: StatusOptimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProblem(pickDays(feb, tt.days...), staffNamed(t, "Solo"), DefaultMinGapDays)
			require.NoError(t, err)

			sol := Solve(context.Background(), p, SolveOptions{TimeLimit: time.Second})
			assert.Equal(t, tt.status, sol.Status)
		})
	}
}

func TestSolve_OneDutyPerISOWeek(t *testing.T) {
	// Monday 1st and Sunday 7th share an ISO week
	p, err := NewProblem(pickDays(february2027(), 1, 7), staffNamed(t, "Solo"), 0)
	require.NoError(t, err)

	sol := Solve(context.Background(), p, SolveOptions{TimeLimit: time.Second})
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Assignment)

	// Sunday 7th and Monday 8th do not
	p, err = NewProblem(pickDays(february2027(), 7, 8), staffNamed(t, "Solo"), 0)
	require.NoError(t, err)

	sol = Solve(context.Background(), p, SolveOptions{TimeLimit: time.Second})
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, []PersonID{0, 0}, sol.Assignment)
}

func TestSolve_UncoverableDayIsLeftEmpty(t *testing.T) {
	staff := []Person{newTestPerson(t, "Solo", "1", "")}
	p, err := NewProblem(pickDays(february2027(), 1, 8), staff, DefaultMinGapDays)
	require.NoError(t, err)

	sol := Solve(context.Background(), p, SolveOptions{TimeLimit: time.Second})
	require.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, []PersonID{NoPerson, 0}, sol.Assignment)
}

func TestSolve_FourPeopleCannotCoverAWeek(t *testing.T) {
	// One duty per ISO week means four people cover at most four of seven days
	p, err := NewProblem(february2027(), staffNamed(t, "A", "B", "C", "D"), DefaultMinGapDays)
	require.NoError(t, err)

	sol := Solve(context.Background(), p, SolveOptions{TimeLimit: 5 * time.Second})
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.False(t, sol.Stats.TimedOut)

	_, err = Plan(context.Background(), p, SolveOptions{TimeLimit: 5 * time.Second})
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestPlan_FullMonth(t *testing.T) {
	staff := staffNamed(t, "A", "B", "C", "D", "E", "F", "G", "H")
	staff = append(staff, newTestPerson(t, "Iced", "frozen", "7"))

	p, err := NewProblem(february2027(), staff, DefaultMinGapDays)
	require.NoError(t, err)

	roster, err := Plan(context.Background(), p, SolveOptions{TimeLimit: time.Second})
	require.NoError(t, err)
	require.Len(t, roster.Days, 28)
	assert.True(t, roster.Solution.Status.HasSolution())

	assignment := make([]PersonID, len(roster.Days))
	for d, rd := range roster.Days {
		require.NotEqual(t, NoPerson, rd.Assignee, "day %d", d+1)
		assert.NotEqual(t, PersonID(8), rd.Assignee, "frozen person assigned on day %d", d+1)
		assert.NotEqual(t, PersonID(8), rd.Standby, "frozen person on standby on day %d", d+1)
		assignment[d] = rd.Assignee
	}
	assert.Empty(t, Validate(p, assignment))

	// every scored point comes from the calendar
	var assigned calendar.Points
	for _, line := range roster.Scores.Lines {
		assigned += line.AssignedPoints
	}
	assert.Equal(t, p.TotalPoints, assigned)

	iced := roster.Scores.Lines[8]
	assert.True(t, iced.Frozen)
	assert.Equal(t, "ICED (Frozen)", iced.DisplayName)
	assert.True(t, iced.Next.Equal(decimal.NewFromInt(7)))
}

func TestAllocateStandby(t *testing.T) {
	// three Mondays, one week apart
	p, err := NewProblem(pickDays(february2027(), 1, 8, 15), staffNamed(t, "A", "B", "C"), DefaultMinGapDays)
	require.NoError(t, err)

	entries, diags := AllocateStandby(p, []PersonID{0, 1, 2})
	require.Empty(t, diags)

	got := make([]PersonID, len(entries))
	for i, e := range entries {
		got[i] = e.Person
	}
	// day 1: A is on duty, B is free. day 8: A and C have no standby yet, A comes first.
	// day 15: C is on duty, A and B tie and A comes first.
	assert.Equal(t, []PersonID{1, 0, 0}, got)
}

func TestAllocateStandby_NoEligibleStaff(t *testing.T) {
	p, err := NewProblem(pickDays(february2027(), 1, 2, 3), staffNamed(t, "A", "B", "C"), DefaultMinGapDays)
	require.NoError(t, err)

	entries, diags := AllocateStandby(p, []PersonID{0, 1, 2})
	for _, e := range entries {
		assert.Equal(t, NoPerson, e.Person)
	}
	require.Len(t, diags, 3)
	assert.Equal(t, DiagNoEligibleStandby, diags[0].Kind)
	assert.Equal(t, "2027-02-01", diags[0].Subject)

	roster := &Roster{Days: []RosterDay{{Day: p.Days[0], Assignee: 0, Standby: NoPerson}}}
	assert.Equal(t, NoEligibleStaff, roster.StandbyName(p, 0))
	assert.Equal(t, "A", roster.AssigneeName(p, 0))
}

func TestReconcile(t *testing.T) {
	days := pickDays(february2027(), 5, 6)
	staff := []Person{
		newTestPerson(t, "A", "", "1.2"),
		newTestPerson(t, "B", "", ""),
		newTestPerson(t, "C", "frozen", "3.3333"),
	}
	p, err := NewProblem(days, staff, DefaultMinGapDays)
	require.NoError(t, err)

	report := Reconcile(p, []PersonID{0, 1})
	require.Len(t, report.Lines, 3)
	assert.Equal(t, calendar.Points(1750), report.AverageMonthPoints)

	a := report.Lines[0]
	assert.Equal(t, 1, a.Duties)
	assert.Equal(t, calendar.Points(1500), a.AssignedPoints)
	assert.True(t, a.Final.Equal(decimal.RequireFromString("2.7")), a.Final.String())
	assert.True(t, a.Next.Equal(decimal.RequireFromString("0.95")), a.Next.String())

	b := report.Lines[1]
	assert.True(t, b.Final.Equal(decimal.NewFromInt(2)), b.Final.String())
	assert.True(t, b.Next.Equal(decimal.RequireFromString("0.25")), b.Next.String())

	c := report.Lines[2]
	assert.True(t, c.Frozen)
	assert.Zero(t, c.Duties)
	assert.True(t, c.Final.Equal(decimal.RequireFromString("3.333")), c.Final.String())
	assert.True(t, c.Next.Equal(decimal.RequireFromString("3.3333")), "frozen carry is unchanged")

	// carried-forward scores of active staff sum to what they carried in
	sumNext := a.Next.Add(b.Next)
	assert.True(t, sumNext.Equal(decimal.RequireFromString("1.2")), sumNext.String())
}

func TestReconcile_Idempotent(t *testing.T) {
	staff := []Person{
		newTestPerson(t, "A", "", "1.2"),
		newTestPerson(t, "B", "", "-0.5"),
		newTestPerson(t, "C", "frozen", "3.3333"),
		newTestPerson(t, "D", "", ""),
	}
	p, err := NewProblem(pickDays(february2027(), 1, 5, 6, 12), staff, DefaultMinGapDays)
	require.NoError(t, err)

	assignment := []PersonID{0, 1, 3, 0}
	first := Reconcile(p, assignment)
	second := Reconcile(p, assignment)

	require.Len(t, second.Lines, len(first.Lines))
	assert.Equal(t, first.AverageMonthPoints, second.AverageMonthPoints)
	for i := range first.Lines {
		assert.True(t, first.Lines[i].Final.Equal(second.Lines[i].Final), "final score of %s", first.Lines[i].DisplayName)
		assert.True(t, first.Lines[i].Next.Equal(second.Lines[i].Next), "next score of %s", first.Lines[i].DisplayName)
		assert.Equal(t, first.Lines[i].AssignedPoints, second.Lines[i].AssignedPoints)
	}
	assert.Equal(t, []PersonID{0, 1, 3, 0}, assignment, "the assignment is not modified")
	assert.True(t, p.Staff[2].CarriedScore.Equal(decimal.RequireFromString("3.3333")))
}

func TestValidate(t *testing.T) {
	staff := []Person{
		newTestPerson(t, "A", "", ""),
		newTestPerson(t, "B", "2", ""),
		newTestPerson(t, "C", "frozen", ""),
	}
	// Mon 1st, Tue 2nd, Wed 3rd and Sun 7th share an ISO week
	p, err := NewProblem(pickDays(february2027(), 1, 2, 3, 7), staff, DefaultMinGapDays)
	require.NoError(t, err)

	violations := Validate(p, []PersonID{0, 1, 2, 0})

	byConstraint := make(map[string]int)
	for _, v := range violations {
		byConstraint[v.Constraint]++
	}
	// B is blocked on the 2nd, C is frozen and so never eligible
	assert.Equal(t, 2, byConstraint[ConstraintEligibility])
	assert.Equal(t, 1, byConstraint[ConstraintFrozen])
	assert.Equal(t, 1, byConstraint[ConstraintOnePerWeek])
	assert.Zero(t, byConstraint[ConstraintMinGap])
}

func TestValidate_GapAndCoverage(t *testing.T) {
	// Sun 7th, Wed 10th, Sun 14th
	p, err := NewProblem(pickDays(february2027(), 7, 10, 14), staffNamed(t, "A", "B"), DefaultMinGapDays)
	require.NoError(t, err)

	violations := Validate(p, []PersonID{0, 0, NoPerson})
	require.Len(t, violations, 2)
	assert.Equal(t, ConstraintMinGap, violations[0].Constraint)
	assert.Equal(t, "2027-02-10", violations[0].Date)
	assert.Equal(t, ConstraintCoverage, violations[1].Constraint)

	assert.Empty(t, Validate(p, []PersonID{0, 1, 0}))
}

package planner

import (
	"context"
	"time"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// DefaultTimeLimit is the search budget used when none is configured
const DefaultTimeLimit = 10 * time.Second

// Status is the terminal outcome of a solve
type Status int

const (
	// StatusUnknown means the time budget ran out before any feasible roster was found
	StatusUnknown Status = iota
	// StatusInfeasible means the hard constraints were proven unsatisfiable
	StatusInfeasible
	// StatusFeasible means a roster was found but optimality was not proven in time
	StatusFeasible
	// StatusOptimal means the roster is proven to minimise the fairness objective
	StatusOptimal
)

func (s Status) String() string {
	switch s {
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusOptimal:
		return "OPTIMAL"
	default:
		return "UNKNOWN"
	}
}

// HasSolution reports whether the status carries a usable roster
func (s Status) HasSolution() bool {
	return s == StatusFeasible || s == StatusOptimal
}

// SolveOptions tunes the search
type SolveOptions struct {
	// TimeLimit bounds the search; DefaultTimeLimit when zero
	TimeLimit time.Duration
}

// SolveStats describes the work done by the search
type SolveStats struct {
	// Nodes visited by the constructive search
	Nodes int64

	// Moves applied by the local descent
	Moves int

	// Exact is set when the MILP solver produced the result
	Exact bool

	Elapsed  time.Duration
	TimedOut bool
}

// Solution is the result of Solve
type Solution struct {
	Status Status

	// Assignment holds the assignee per DayID (NoPerson when the day has no eligible staff).
	// Nil unless Status.HasSolution().
	Assignment []PersonID

	// Objective is the sum of |total - target| over active persons
	Objective calendar.Points

	Stats SolveStats
}

// Solve looks for a roster that satisfies every hard constraint and minimises the
// fairness deviation. The MILP model is solved with GLPK while a constructive
// search and local descent keep a roster ready; when the time limit runs out
// first, the best roster found so far is returned as Feasible.
func Solve(ctx context.Context, p *Problem, opts SolveOptions) *Solution {
	start := time.Now()

	limit := opts.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	exactCh := make(chan exactResult, 1)
	go func() {
		exactMu.Lock()
		defer exactMu.Unlock()
		if ctx.Err() != nil {
			exactCh <- exactResult{status: StatusUnknown}
			return
		}
		exactCh <- solveExact(p)
	}()

	heuristicCtx, stopHeuristic := context.WithCancel(ctx)
	defer stopHeuristic()
	heuristicCh := make(chan heuristicResult, 1)
	go func() {
		heuristicCh <- runHeuristic(heuristicCtx, p)
	}()

	var (
		exact     *exactResult
		heuristic *heuristicResult
		timedOut  bool
	)

wait:
	for {
		select {
		case r := <-exactCh:
			exact = &r
			if r.status == StatusOptimal || r.status == StatusInfeasible || heuristic != nil {
				break wait
			}
			exactCh = nil
		case r := <-heuristicCh:
			heuristic = &r
			if r.status == StatusOptimal || r.status == StatusInfeasible || exact != nil {
				break wait
			}
			heuristicCh = nil
		case <-ctx.Done():
			timedOut = true
			break wait
		}
	}

	stopHeuristic()
	if heuristic == nil && !isVerdict(exact) {
		r := <-heuristicCh
		heuristic = &r
	}

	sol := &Solution{
		Status: StatusUnknown,
		Stats: SolveStats{
			TimedOut: timedOut,
		},
	}
	if heuristic != nil {
		sol.Stats.Nodes = heuristic.nodes
		sol.Stats.Moves = heuristic.moves
	}

	switch {
	case isVerdict(exact):
		sol.Status = exact.status
		sol.Assignment = exact.assignment
		sol.Stats.Exact = true
	case heuristic != nil && heuristic.status != StatusUnknown:
		sol.Status = heuristic.status
		sol.Assignment = heuristic.assignment
	}

	// A MILP incumbent without proof still competes with the descent
	if exact != nil && exact.status == StatusFeasible {
		if !sol.Status.HasSolution() ||
			sol.Status == StatusFeasible && objective(p, exact.assignment) < objective(p, sol.Assignment) {
			sol.Status = StatusFeasible
			sol.Assignment = exact.assignment
			sol.Stats.Exact = true
		}
	}

	if sol.Status.HasSolution() {
		sol.Objective = objective(p, sol.Assignment)
	} else {
		sol.Assignment = nil
	}
	sol.Stats.Elapsed = time.Since(start)

	return sol
}

// isVerdict reports whether the MILP settled the problem
func isVerdict(r *exactResult) bool {
	return r != nil && (r.status == StatusOptimal || r.status == StatusInfeasible)
}

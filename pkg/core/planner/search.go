package planner

import (
	"context"
	"sort"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// deadline checks happen every checkInterval nodes
const checkInterval = 256

const noDay DayID = -1

// heuristicResult is the outcome of the constructive search plus local descent
type heuristicResult struct {
	status     Status
	assignment []PersonID
	nodes      int64
	moves      int
}

// search builds a first roster depth-first over days in chronological order,
// then descends by single-day reassignments and two-day swaps until no move
// lowers the fairness deviation.
type search struct {
	p     *Problem
	n     int
	weeks []int

	order     []DayID
	cands     [][]PersonID
	remaining []calendar.Points
	suffix    []int32 // suffix[k*n+j]: eligible positions >= k for person j

	assignment []PersonID
	totals     []calendar.Points
	buf        [][]PersonID

	rootBound calendar.Points
	found     bool

	ctx     context.Context
	nodes   int64
	moves   int
	stopped bool
}

func newSearch(ctx context.Context, p *Problem) *search {
	n := len(p.Staff)
	s := &search{
		p:          p,
		n:          n,
		weeks:      weekIndex(p.Days),
		ctx:        ctx,
		assignment: make([]PersonID, len(p.Days)),
		totals:     make([]calendar.Points, n),
	}
	for d := range s.assignment {
		s.assignment[d] = NoPerson
	}
	for _, j := range p.Active {
		s.totals[j] = p.Staff[j].CarriedPoints()
	}

	for d := range p.Days {
		var cands []PersonID
		for _, j := range p.Active {
			if p.Eligibility.Allowed(DayID(d), j) {
				cands = append(cands, j)
			}
		}
		// Days nobody can take stay unassigned and are not part of the search
		if len(cands) == 0 {
			continue
		}
		s.order = append(s.order, DayID(d))
		s.cands = append(s.cands, cands)
	}

	m := len(s.order)
	s.buf = make([][]PersonID, m)
	s.remaining = make([]calendar.Points, m+1)
	s.suffix = make([]int32, (m+1)*n)
	for k := m - 1; k >= 0; k-- {
		s.remaining[k] = s.remaining[k+1] + p.Days[s.order[k]].Points
		copy(s.suffix[k*n:(k+1)*n], s.suffix[(k+1)*n:(k+2)*n])
		for _, j := range s.cands[k] {
			s.suffix[k*n+int(j)]++
		}
	}

	return s
}

// runHeuristic returns Optimal only when the descent reaches the relaxation bound,
// and Infeasible only when the constructive search was exhaustive.
func runHeuristic(ctx context.Context, p *Problem) heuristicResult {
	s := newSearch(ctx, p)

	bound, ok := s.bound(0)
	if !ok {
		return heuristicResult{status: StatusInfeasible}
	}
	s.rootBound = bound

	s.dfs(0)

	res := heuristicResult{nodes: s.nodes}
	switch {
	case !s.found && s.stopped:
		res.status = StatusUnknown
		return res
	case !s.found:
		res.status = StatusInfeasible
		return res
	}

	s.descend()

	res.moves = s.moves
	res.assignment = append([]PersonID(nil), s.assignment...)
	res.status = StatusFeasible
	if objective(p, s.assignment) <= s.rootBound {
		res.status = StatusOptimal
	}
	return res
}

func (s *search) expired() bool {
	return s.ctx.Err() != nil
}

// bound returns a lower bound on the objective of any completion of the first k
// positions, or false when no completion can respect the deviation cap.
//
// With d_j = target - total_j and R the points still to hand out, any completion
// costs at least sum(-d_j for d_j<0) + sum(d_j for d_j>0 that can no longer receive)
// + |sum(d_j for d_j>0 that can receive) - R|.
func (s *search) bound(k int) (calendar.Points, bool) {
	target := s.p.Target
	limit := s.p.DeviationCap

	var over, stuck, open calendar.Points
	for _, j := range s.p.Active {
		d := target - s.totals[j]
		switch {
		case d < 0:
			if -d > limit {
				return 0, false
			}
			over += -d
		case d > 0:
			if s.suffix[k*s.n+int(j)] > 0 {
				open += d
				continue
			}
			if d > limit {
				return 0, false
			}
			stuck += d
		}
	}

	diff := open - s.remaining[k]
	if diff < 0 {
		diff = -diff
	}
	return over + stuck + diff, true
}

// fits reports whether person j can take day d given their other duties, ignoring day skip
func (s *search) fits(j PersonID, d, skip DayID) bool {
	ord := s.p.Days[d].Ordinal()
	for e, owner := range s.assignment {
		if owner != j || DayID(e) == d || DayID(e) == skip {
			continue
		}
		if s.weeks[e] == s.weeks[d] {
			return false
		}
		gap := ord - s.p.Days[e].Ordinal()
		if gap < 0 {
			gap = -gap
		}
		if gap < s.p.MinGapDays {
			return false
		}
	}
	return true
}

// candidates orders the eligible persons of position k by lowest running total first
func (s *search) candidates(k int) []PersonID {
	buf := append(s.buf[k][:0], s.cands[k]...)
	sort.SliceStable(buf, func(a, b int) bool {
		return s.totals[buf[a]] < s.totals[buf[b]]
	})
	s.buf[k] = buf
	return buf
}

func (s *search) dfs(k int) {
	s.nodes++
	if s.nodes%checkInterval == 0 && s.expired() {
		s.stopped = true
		return
	}

	if k == len(s.order) {
		s.found = s.withinCap()
		return
	}

	if _, ok := s.bound(k); !ok {
		return
	}

	d := s.order[k]
	w := s.p.Days[d].Points
	for _, j := range s.candidates(k) {
		if !s.fits(j, d, noDay) {
			continue
		}

		s.assignment[d] = j
		s.totals[j] += w

		s.dfs(k + 1)
		if s.found || s.stopped {
			return
		}

		s.totals[j] -= w
		s.assignment[d] = NoPerson
	}
}

func (s *search) withinCap() bool {
	for _, j := range s.p.Active {
		if absPoints(s.p.Target-s.totals[j]) > s.p.DeviationCap {
			return false
		}
	}
	return true
}

// deviation is |target - total|, or false past the cap
func (s *search) deviation(total calendar.Points) (calendar.Points, bool) {
	d := absPoints(s.p.Target - total)
	return d, d <= s.p.DeviationCap
}

// delta is the change in objective when persons a and b move by da and db points
func (s *search) delta(a PersonID, da calendar.Points, b PersonID, db calendar.Points) (calendar.Points, bool) {
	beforeA, _ := s.deviation(s.totals[a])
	beforeB, _ := s.deviation(s.totals[b])
	afterA, okA := s.deviation(s.totals[a] + da)
	afterB, okB := s.deviation(s.totals[b] + db)
	return afterA + afterB - beforeA - beforeB, okA && okB
}

// descend applies strictly improving moves until none is left or the context ends
func (s *search) descend() {
	for improved := true; improved; {
		improved = false
		for k := range s.order {
			if s.expired() {
				s.stopped = true
				return
			}
			if s.reassign(k) || s.swap(k) {
				improved = true
			}
		}
	}
}

// reassign moves position k's day to another eligible person
func (s *search) reassign(k int) bool {
	d := s.order[k]
	a := s.assignment[d]
	w := s.p.Days[d].Points

	for _, b := range s.cands[k] {
		if b == a {
			continue
		}
		gain, ok := s.delta(a, -w, b, w)
		if !ok || gain >= 0 || !s.fits(b, d, noDay) {
			continue
		}
		s.assignment[d] = b
		s.totals[a] -= w
		s.totals[b] += w
		s.moves++
		return true
	}
	return false
}

// swap exchanges position k's day with a later day held by someone else
func (s *search) swap(k int) bool {
	d := s.order[k]
	a := s.assignment[d]
	wd := s.p.Days[d].Points

	for _, e := range s.order[k+1:] {
		b := s.assignment[e]
		we := s.p.Days[e].Points
		if b == a || we == wd {
			continue
		}
		if !s.p.Eligibility.Allowed(e, a) || !s.p.Eligibility.Allowed(d, b) {
			continue
		}
		gain, ok := s.delta(a, we-wd, b, wd-we)
		if !ok || gain >= 0 {
			continue
		}
		if !s.fits(a, e, d) || !s.fits(b, d, e) {
			continue
		}
		s.assignment[d], s.assignment[e] = b, a
		s.totals[a] += we - wd
		s.totals[b] += wd - we
		s.moves++
		return true
	}
	return false
}

// objective is the sum of |total - target| over active persons
func objective(p *Problem, assignment []PersonID) calendar.Points {
	totals := make([]calendar.Points, len(p.Staff))
	for _, j := range p.Active {
		totals[j] = p.Staff[j].CarriedPoints()
	}
	for d, j := range assignment {
		if j != NoPerson {
			totals[j] += p.Days[d].Points
		}
	}

	var sum calendar.Points
	for _, j := range p.Active {
		sum += absPoints(p.Target - totals[j])
	}
	return sum
}

func absPoints(v calendar.Points) calendar.Points {
	if v < 0 {
		return -v
	}
	return v
}

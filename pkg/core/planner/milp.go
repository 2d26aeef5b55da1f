package planner

import (
	"fmt"
	"sync"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// GLPK keeps per-thread state; one model is solved at a time
var exactMu sync.Mutex

// exactResult is the verdict of the MILP solver
type exactResult struct {
	status     Status
	assignment []PersonID
}

// cell is one (day, person) assignment column
type cell struct {
	day    DayID
	person PersonID
}

// row accumulates a constraint in GLPK's 1-based layout; index 0 is ignored
type row struct {
	ind []int32
	val []float64
}

func newRow() *row {
	return &row{ind: []int32{0}, val: []float64{0}}
}

func (r *row) add(col int, coef float64) {
	r.ind = append(r.ind, int32(col))
	r.val = append(r.val, coef)
}

func (r *row) size() int {
	return len(r.ind) - 1
}

// milp holds the GLPK problem and the column layout of a Problem
type milp struct {
	lp      *glpk.Prob
	p       *Problem
	cells   []cell
	columns map[cell]int
	cols    int
	rows    int
}

func (m *milp) addCol(name string) int {
	m.cols++
	m.lp.AddCols(1)
	m.lp.SetColName(m.cols, name)
	return m.cols
}

func (m *milp) addRow(name string, bounds glpk.BndsType, lower, upper float64, r *row) {
	m.rows++
	m.lp.AddRows(1)
	m.lp.SetRowName(m.rows, name)
	m.lp.SetRowBnds(m.rows, bounds, lower, upper)
	m.lp.SetMatRow(m.rows, r.ind, r.val)
}

// buildMILP lays out the model:
//
//	x[d,j] binary for every eligible cell, dev[j] in [0, DeviationCap] per active person
//	sum_j x[d,j] = 1                         every day with at least one eligible person
//	sum_{d in week} x[d,j] <= 1              per person and ISO week
//	x[d,j] + x[e,j] <= 1                     day pairs closer than MinGapDays in different weeks
//	dev[j] + sum_d w[d] x[d,j] >= target - carried[j]
//	dev[j] - sum_d w[d] x[d,j] >= carried[j] - target
//	minimise sum_j dev[j]
func buildMILP(p *Problem) *milp {
	lp := glpk.New()
	lp.SetProbName("DutyRoster")
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	m := &milp{
		lp:      lp,
		p:       p,
		columns: make(map[cell]int),
	}

	weeks := weekIndex(p.Days)

	for d := range p.Days {
		for _, j := range p.Active {
			if !p.Eligibility.Allowed(DayID(d), j) {
				continue
			}
			c := cell{day: DayID(d), person: j}
			m.cells = append(m.cells, c)
			col := m.addCol(fmt.Sprintf("x_%d_%d", d+1, j))
			lp.SetColKind(col, glpk.VarType(glpk.BV))
			m.columns[c] = col
		}
	}

	for d, day := range p.Days {
		r := newRow()
		for _, j := range p.Active {
			if col, ok := m.columns[cell{day: DayID(d), person: j}]; ok {
				r.add(col, 1)
			}
		}
		// Uncoverable days get no row and stay unassigned
		if r.size() == 0 {
			continue
		}
		m.addRow(fmt.Sprintf("cover_%s", day.Date.Format("0102")), glpk.BndsType(glpk.FX), 1, 1, r)
	}

	for _, j := range p.Active {
		byWeek := make(map[int]*row)
		var order []int
		for d := range p.Days {
			col, ok := m.columns[cell{day: DayID(d), person: j}]
			if !ok {
				continue
			}
			w := weeks[d]
			if byWeek[w] == nil {
				byWeek[w] = newRow()
				order = append(order, w)
			}
			byWeek[w].add(col, 1)
		}
		for _, w := range order {
			if byWeek[w].size() > 1 {
				m.addRow(fmt.Sprintf("week_%d_%d", j, w), glpk.BndsType(glpk.UP), 0, 1, byWeek[w])
			}
		}

		for d := range p.Days {
			first, ok := m.columns[cell{day: DayID(d), person: j}]
			if !ok {
				continue
			}
			for e := d + 1; e < len(p.Days); e++ {
				if p.Days[e].Ordinal()-p.Days[d].Ordinal() >= p.MinGapDays {
					break
				}
				second, ok := m.columns[cell{day: DayID(e), person: j}]
				if !ok || weeks[d] == weeks[e] {
					continue
				}
				r := newRow()
				r.add(first, 1)
				r.add(second, 1)
				m.addRow(fmt.Sprintf("gap_%d_%d_%d", j, d+1, e+1), glpk.BndsType(glpk.UP), 0, 1, r)
			}
		}

		dev := m.addCol(fmt.Sprintf("dev_%d", j))
		lp.SetColBnds(dev, glpk.BndsType(glpk.DB), 0, float64(p.DeviationCap))
		lp.SetObjCoef(dev, 1)

		under, over := newRow(), newRow()
		under.add(dev, 1)
		over.add(dev, 1)
		for d, day := range p.Days {
			if col, ok := m.columns[cell{day: DayID(d), person: j}]; ok {
				under.add(col, float64(day.Points))
				over.add(col, -float64(day.Points))
			}
		}
		gap := float64(p.Target - p.Staff[j].CarriedPoints())
		m.addRow(fmt.Sprintf("under_%d", j), glpk.BndsType(glpk.LO), gap, 0, under)
		m.addRow(fmt.Sprintf("over_%d", j), glpk.BndsType(glpk.LO), -gap, 0, over)
	}

	return m
}

// solveExact runs GLPK's branch and cut to completion. The wrapper exposes no
// time limit, so callers race it against their own deadline.
func solveExact(p *Problem) exactResult {
	m := buildMILP(p)
	defer m.lp.Delete()

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))

	// The MIP status carries the outcome; a presolve failure leaves it undefined
	_ = m.lp.Intopt(iocp)

	switch m.lp.MipStatus() {
	case glpk.OPT:
		return exactResult{status: StatusOptimal, assignment: m.assignment()}
	case glpk.FEAS:
		return exactResult{status: StatusFeasible, assignment: m.assignment()}
	case glpk.NOFEAS:
		return exactResult{status: StatusInfeasible}
	}
	return exactResult{status: StatusUnknown}
}

func (m *milp) assignment() []PersonID {
	out := make([]PersonID, len(m.p.Days))
	for i := range out {
		out[i] = NoPerson
	}
	for _, c := range m.cells {
		if m.lp.MipColVal(m.columns[c]) > 0.5 {
			out[c.day] = c.person
		}
	}
	return out
}

// weekIndex numbers the ISO weeks of days in order of first appearance
func weekIndex(days []calendar.DutyDay) []int {
	index := make(map[[2]int]int)
	out := make([]int, len(days))
	for d, day := range days {
		y, w := day.ISOWeek()
		key := [2]int{y, w}
		idx, ok := index[key]
		if !ok {
			idx = len(index)
			index[key] = idx
		}
		out[d] = idx
	}
	return out
}

package planner

import (
	"sort"
)

// NoEligibleStaff is shown for a day whose standby could not be filled
const NoEligibleStaff = "No eligible staff"

// StandbyEntry is the standby person for one day (NoPerson when nobody qualified)
type StandbyEntry struct {
	Day    DayID
	Person PersonID
}

// AllocateStandby picks a backup person for every day, in date order.
//
// Candidates are the active persons ranked by fewest standbys so far, ties kept in
// input order. The first candidate at least MinGapDays away from each of their own
// primary duties is taken. Gaps are not checked against other standby days and
// earlier days are never revisited.
func AllocateStandby(p *Problem, assignment []PersonID) ([]StandbyEntry, []Diagnostic) {
	duties := make(map[PersonID][]int)
	for d, j := range assignment {
		if j == NoPerson {
			continue
		}
		duties[j] = append(duties[j], p.Days[d].Ordinal())
	}

	counts := make(map[PersonID]int, len(p.Active))
	ranked := make([]PersonID, len(p.Active))

	entries := make([]StandbyEntry, 0, len(p.Days))
	var diags []Diagnostic

	for d, day := range p.Days {
		copy(ranked, p.Active)
		sort.SliceStable(ranked, func(a, b int) bool {
			return counts[ranked[a]] < counts[ranked[b]]
		})

		chosen := NoPerson
		for _, j := range ranked {
			if tooClose(day.Ordinal(), duties[j], p.MinGapDays) {
				continue
			}
			chosen = j
			break
		}

		if chosen == NoPerson {
			diags = append(diags, Diagnostic{
				Kind:    DiagNoEligibleStandby,
				Subject: day.Date.Format("2006-01-02"),
				Message: "no standby outside the duty gap of every candidate",
			})
		} else {
			counts[chosen]++
		}

		entries = append(entries, StandbyEntry{Day: DayID(d), Person: chosen})
	}

	return entries, diags
}

func tooClose(ordinal int, dutyOrdinals []int, gap int) bool {
	for _, o := range dutyOrdinals {
		diff := ordinal - o
		if diff < 0 {
			diff = -diff
		}
		if diff < gap {
			return true
		}
	}
	return false
}

package db

// PlanningRun represents one saved planning run
type PlanningRun struct {
	ID                 string
	Month              string // YYYY-MM
	Status             string
	Objective          int64 // milli-points
	AverageMonthPoints int64 // milli-points
	Holidays           []int32
	LastDayIsEve       bool
	Nodes              int64
	CreatedAt          string // RFC3339, set by the store
}

// RosterEntry represents one duty day of a run
type RosterEntry struct {
	RunID    string
	DutyDate string // 2006-01-02
	Points   int64  // milli-points
	Assignee string // nullable
	Standby  string // nullable, empty when nobody qualified
}

// ScoreEntry represents one person's score line of a run
type ScoreEntry struct {
	RunID    string
	Position int // order in the staff sheet
	Name     string
	Frozen   bool
	Duties   int
	Final    string // decimal
	Next     string // decimal
}

// Package availability decodes the free-text leave/course column of the staff
// sheet into a typed value.
//
// Grammar (case-insensitive, surrounding whitespace ignored):
//
//	field     = "" | "frozen" | item { sep item }
//	item      = day | day "-" day
//	day       = 1*2DIGIT            ; 1..31
//	sep       = 1*( " " | "," | ";" | "/" | "&" | "+" | "|" | TAB )
//
// Items that do not match are skipped and reported as warnings; they never fail
// the decode.
package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FrozenSentinel marks a person excluded from the whole planning cycle
const FrozenSentinel = "frozen"

// MaxDayOfMonth bounds the accepted day numbers
const MaxDayOfMonth = 31

// Availability is either Frozen or Available with a set of blocked days
type Availability struct {
	frozen  bool
	blocked map[int]bool
}

// Frozen returns the frozen variant
func Frozen() Availability {
	return Availability{frozen: true}
}

// Available returns the available variant blocking the given days
func Available(blockedDays ...int) Availability {
	blocked := make(map[int]bool, len(blockedDays))
	for _, d := range blockedDays {
		blocked[d] = true
	}
	return Availability{blocked: blocked}
}

// IsFrozen reports whether the person is frozen for the cycle
func (a Availability) IsFrozen() bool {
	return a.frozen
}

// Blocks reports whether the person cannot take a duty on the given day-of-month.
// Frozen persons are blocked on every day.
func (a Availability) Blocks(day int) bool {
	if a.frozen {
		return true
	}
	return a.blocked[day]
}

// BlockedDays returns the blocked days in ascending order
func (a Availability) BlockedDays() []int {
	days := make([]int, 0, len(a.blocked))
	for d := range a.blocked {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// String renders the value back into the grammar
func (a Availability) String() string {
	if a.frozen {
		return FrozenSentinel
	}
	days := a.BlockedDays()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';', '/', '&', '+', '|':
		return true
	}
	return false
}

// Parse decodes a leave/course field. Warnings describe ignored tokens.
func Parse(text string) (Availability, []string) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == FrozenSentinel {
		return Frozen(), nil
	}

	days, warnings := ParseDays(trimmed)
	return Available(days...), warnings
}

// ParseDays decodes a list of day numbers and ranges, in the order given.
// Duplicates are kept; warnings describe ignored tokens.
func ParseDays(text string) ([]int, []string) {
	var days []int
	var warnings []string

	for _, token := range strings.FieldsFunc(strings.ToLower(text), isSeparator) {
		parsed, err := parseItem(token)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignored %q: %v", token, err))
			continue
		}
		days = append(days, parsed...)
	}

	return days, warnings
}

// parseItem parses "12" or "3-7"
func parseItem(token string) ([]int, error) {
	if lo, hi, ok := strings.Cut(token, "-"); ok {
		from, err := parseDay(lo)
		if err != nil {
			return nil, err
		}
		to, err := parseDay(hi)
		if err != nil {
			return nil, err
		}
		if to < from {
			return nil, fmt.Errorf("range end %d before start %d", to, from)
		}
		days := make([]int, 0, to-from+1)
		for d := from; d <= to; d++ {
			days = append(days, d)
		}
		return days, nil
	}

	d, err := parseDay(token)
	if err != nil {
		return nil, err
	}
	return []int{d}, nil
}

func parseDay(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty day")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a day number")
		}
	}
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a day number")
	}
	if d < 1 || d > MaxDayOfMonth {
		return 0, fmt.Errorf("day %d out of range 1-%d", d, MaxDayOfMonth)
	}
	return d, nil
}

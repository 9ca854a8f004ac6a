package model

import (
	"sort"
	"time"
)

// ScheduleMatrix maps employee id -> day of month -> raw shift token.
// A missing day means no assignment, which is not the same as a rest token.
type ScheduleMatrix map[string]map[int]string

// Employees returns the employee ids in ascending order.
func (m ScheduleMatrix) Employees() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OutOfRangeDays returns the day keys of an employee that fall outside 1..daysInMonth.
func (m ScheduleMatrix) OutOfRangeDays(employeeID string, daysInMonth int) []int {
	var days []int
	for d := range m[employeeID] {
		if d < 1 || d > daysInMonth {
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days
}

const (
	MinDaysInMonth = 28
	MaxDaysInMonth = 31
)

func ValidDaysInMonth(n int) bool {
	return n >= MinDaysInMonth && n <= MaxDaysInMonth
}

// Month identifies a calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (m Month) Valid() bool {
	return m.Year > 0 && m.Month >= time.January && m.Month <= time.December
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

func (m Month) Next() Month {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return m.Date(1).Format("2006-01")
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, false
	}
	return Month{Year: t.Year(), Month: t.Month()}, true
}

// Package streak finds runs of consecutive worked days.
package streak

import (
	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

// RiskThresholds buckets a run length into a risk tier.
type RiskThresholds struct {
	Medium int `toml:"medium" yaml:"medium"`
	High   int `toml:"high" yaml:"high"`
}

func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{Medium: 4, High: 6}
}

func (r RiskThresholds) Level(length int) model.RiskLevel {
	switch {
	case length >= r.High:
		return model.RiskHigh
	case length >= r.Medium:
		return model.RiskMedium
	}
	return model.RiskLow
}

// Compute scans days 1..daysInMonth once. Rest, absent and unrecognized days
// all break a run; a run still open on the last day closes there.
func Compute(matrix model.ScheduleMatrix, employeeID string, daysInMonth int, c *shift.Classifier, risk RiskThresholds) model.StreakRecord {
	row := matrix[employeeID]
	rec := model.StreakRecord{
		EmployeeID: employeeID,
		Runs:       []model.StreakRun{},
		Running:    make([]int, 0, daysInMonth),
	}

	current := 0
	closeRun := func(endDay int) {
		if current == 0 {
			return
		}
		rec.Runs = append(rec.Runs, model.StreakRun{
			StartDay: endDay - current + 1,
			EndDay:   endDay,
			Length:   current,
			Risk:     risk.Level(current),
		})
		if current > rec.MaxLength {
			rec.MaxLength = current
		}
		current = 0
	}

	for day := 1; day <= daysInMonth; day++ {
		if c.Resolve(row, day).Worked() {
			current++
			rec.WorkedDays++
		} else {
			closeRun(day - 1)
		}
		rec.Running = append(rec.Running, current)
	}
	closeRun(daysInMonth)

	if len(rec.Runs) > 0 {
		rec.AverageLength = float64(rec.WorkedDays) / float64(len(rec.Runs))
	}
	return rec
}

// RunningAt returns the length of the streak that is open on day, counting
// day itself. It is 0 when day is not worked.
func RunningAt(row map[int]string, day int, c *shift.Classifier) int {
	current := 0
	for d := 1; d <= day; d++ {
		if c.Resolve(row, d).Worked() {
			current++
		} else {
			current = 0
		}
	}
	return current
}

// Series returns RunningAt for every day 1..daysInMonth in one pass.
func Series(row map[int]string, daysInMonth int, c *shift.Classifier) []int {
	out := make([]int, daysInMonth)
	current := 0
	for d := 1; d <= daysInMonth; d++ {
		if c.Resolve(row, d).Worked() {
			current++
		} else {
			current = 0
		}
		out[d-1] = current
	}
	return out
}

package streak

import (
	"sort"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

// MonthMatrix is one month of a multi-month timeline.
type MonthMatrix struct {
	Month    model.Month
	Schedule model.ScheduleMatrix
}

// CrossMonth joins the months into one timeline, ordered by month, and keeps
// only the runs that cross a month boundary. Months the employee does not
// appear in are skipped entirely, so the days around them are not adjacent.
func CrossMonth(months []MonthMatrix, employeeID string, c *shift.Classifier, risk RiskThresholds) model.CrossMonthStreaks {
	sorted := make([]MonthMatrix, len(months))
	copy(sorted, months)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Month, sorted[j].Month
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	out := model.CrossMonthStreaks{EmployeeID: employeeID, Runs: []model.DatedRun{}}

	var (
		current    int
		start      string
		last       string
		crossed    bool
		prevMonth  model.Month
		haveMonth  bool
		totalInRun int
	)
	closeRun := func() {
		if current > 0 && crossed {
			out.Runs = append(out.Runs, model.DatedRun{
				Start:  start,
				End:    last,
				Length: current,
				Risk:   risk.Level(current),
			})
			if current > out.MaxLength {
				out.MaxLength = current
			}
			totalInRun += current
		}
		current = 0
		crossed = false
	}

	for _, mm := range sorted {
		row, ok := mm.Schedule[employeeID]
		if !ok || !mm.Month.Valid() {
			continue
		}
		if haveMonth && prevMonth.Next() != mm.Month {
			closeRun()
		}
		for day := 1; day <= mm.Month.Days(); day++ {
			if !c.Resolve(row, day).Worked() {
				closeRun()
				continue
			}
			date := mm.Month.Date(day).Format("2006-01-02")
			if current == 0 {
				start = date
			} else if day == 1 {
				crossed = true
			}
			current++
			last = date
		}
		prevMonth = mm.Month
		haveMonth = true
	}
	closeRun()

	if len(out.Runs) > 0 {
		out.AverageLength = float64(totalInRun) / float64(len(out.Runs))
	}
	return out
}

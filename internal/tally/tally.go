// Package tally holds the per-employee counters shown next to the analytics.
package tally

import (
	"sort"
	"time"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

func Counts(matrix model.ScheduleMatrix, employeeID string, daysInMonth int, c *shift.Classifier) model.KindCounts {
	out := model.KindCounts{EmployeeID: employeeID}
	row := matrix[employeeID]
	for day := 1; day <= daysInMonth; day++ {
		a := c.Resolve(row, day)
		switch a.State {
		case model.DayAbsent:
			continue
		case model.DayRest:
			out.Rest++
			continue
		case model.DayUnrecognized:
			out.Unknown++
			continue
		}
		out.Total++
		switch a.Kind {
		case model.KindEarly:
			out.Early++
		case model.KindMid:
			out.Mid++
		case model.KindNight:
			out.Night++
		case model.KindSpecial:
			out.Special++
		}
	}
	return out
}

// Leaderboard ranks employees by how many days they worked the given kind.
func Leaderboard(counts []model.KindCounts, kind model.ShiftKind) []model.LeaderboardEntry {
	out := []model.LeaderboardEntry{}
	for _, kc := range counts {
		var n int
		switch kind {
		case model.KindEarly:
			n = kc.Early
		case model.KindMid:
			n = kc.Mid
		case model.KindNight:
			n = kc.Night
		case model.KindSpecial:
			n = kc.Special
		case model.KindRest:
			n = kc.Rest
		}
		if n > 0 {
			out = append(out, model.LeaderboardEntry{EmployeeID: kc.EmployeeID, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

// Restock counts the Wednesdays each employee works a mid or night shift,
// which is when deliveries are put away.
func Restock(matrix model.ScheduleMatrix, month model.Month, c *shift.Classifier) []model.RestockDuty {
	out := []model.RestockDuty{}
	days := month.Days()
	for _, id := range matrix.Employees() {
		duty := model.RestockDuty{EmployeeID: id, Weeks: []int{}}
		for day := 1; day <= days; day++ {
			if month.Date(day).Weekday() != time.Wednesday {
				continue
			}
			kind := c.Resolve(matrix[id], day)
			if !kind.Worked() || (kind.Kind != model.KindMid && kind.Kind != model.KindNight) {
				continue
			}
			duty.Count++
			week := (day + 6) / 7
			if len(duty.Weeks) == 0 || duty.Weeks[len(duty.Weeks)-1] != week {
				duty.Weeks = append(duty.Weeks, week)
			}
		}
		if duty.Count > 0 {
			out = append(out, duty)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// PickupDemand counts, per day and pickup location, the commuting employees on
// an early shift. Only early shifts use the morning shuttle.
func PickupDemand(matrix model.ScheduleMatrix, locations map[string]string, daysInMonth int, c *shift.Classifier) []model.DayDemand {
	out := make([]model.DayDemand, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		dd := model.DayDemand{Day: day, Locations: map[string]int{}}
		for _, id := range matrix.Employees() {
			loc := locations[id]
			if loc == "" || loc == model.NoCommute {
				continue
			}
			if a := c.Resolve(matrix[id], day); a.Worked() && a.Kind == model.KindEarly {
				dd.Locations[loc]++
			}
		}
		out = append(out, dd)
	}
	return out
}

// Build assembles all tallies. Restock is only computed when month is valid.
func Build(matrix model.ScheduleMatrix, month model.Month, daysInMonth int, locations map[string]string, c *shift.Classifier) *model.Tallies {
	t := &model.Tallies{
		Counts:       make([]model.KindCounts, 0, len(matrix)),
		Leaderboards: make(map[model.ShiftKind][]model.LeaderboardEntry, len(model.WorkingKinds)),
	}
	for _, id := range matrix.Employees() {
		t.Counts = append(t.Counts, Counts(matrix, id, daysInMonth, c))
	}
	for _, kind := range model.WorkingKinds {
		t.Leaderboards[kind] = Leaderboard(t.Counts, kind)
	}
	if month.Valid() {
		t.Restock = Restock(matrix, month, c)
	}
	if len(locations) > 0 {
		t.PickupDemand = PickupDemand(matrix, locations, daysInMonth, c)
	}
	return t
}

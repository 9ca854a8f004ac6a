// Package report renders an analysis as an xlsx workbook.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"rota-engine/internal/model"
)

const (
	SheetOverlap  = "Overlap"
	SheetStreaks  = "Streaks"
	SheetFares    = "Fares"
	SheetTallies  = "Tallies"
	SheetPickup   = "Pickup"
	SheetMessages = "Messages"
)

// Build lays out one sheet per analyzer. The overlap sheet is a symmetric
// employee by employee matrix.
func Build(resp *model.AnalysisResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetOverlap); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	res := resp.AnalysisResult
	w := &writer{f: f, header: header}
	w.overlap(res.Overlap)
	w.streaks(res.Streaks, resp.AnalysisMetadata.DaysInMonth)
	w.fares(res.Fares)
	w.tallies(res.Tallies)
	w.messages(res.Messages)
	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	return f, nil
}

// Write builds the workbook and streams it to out.
func Write(out io.Writer, resp *model.AnalysisResponse) error {
	f, err := Build(resp)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type writer struct {
	f      *excelize.File
	header int
	err    error
}

func (w *writer) sheet(name string) {
	if w.err != nil || name == SheetOverlap {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("new sheet %s: %w", name, err)
	}
}

// row writes values starting at column A of the given 1-based row.
func (w *writer) row(sheet string, r int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, r, err)
	}
}

func (w *writer) headerRow(sheet string, values ...any) {
	w.row(sheet, 1, values...)
	if w.err != nil {
		return
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.header); err != nil {
		w.err = err
	}
}

func (w *writer) overlap(report *model.OverlapReport) {
	if report == nil {
		return
	}
	employees := sortedKeys(report.Rankings)

	counts := make(map[[2]string]int, len(report.Pairs))
	for _, p := range report.Pairs {
		counts[[2]string{p.A, p.B}] = p.Count
		counts[[2]string{p.B, p.A}] = p.Count
	}

	head := make([]any, 0, len(employees)+1)
	head = append(head, "")
	for _, id := range employees {
		head = append(head, id)
	}
	w.headerRow(SheetOverlap, head...)
	for i, a := range employees {
		line := make([]any, 0, len(employees)+1)
		line = append(line, a)
		for _, b := range employees {
			if a == b {
				line = append(line, "-")
				continue
			}
			line = append(line, counts[[2]string{a, b}])
		}
		w.row(SheetOverlap, i+2, line...)
	}

	s := report.Summary
	r := len(employees) + 3
	w.row(SheetOverlap, r, "Total overlaps", s.TotalOverlaps)
	w.row(SheetOverlap, r+1, "Max overlap", s.MaxOverlap)
	w.row(SheetOverlap, r+2, "Pairs", s.TotalPairs)
	w.row(SheetOverlap, r+3, "Average", fmt.Sprintf("%.2f", s.AvgOverlap))
}

func (w *writer) streaks(records []model.StreakRecord, days int) {
	w.sheet(SheetStreaks)
	head := []any{"Employee", "Worked", "Max", "Average", "Runs"}
	for d := 1; d <= days; d++ {
		head = append(head, d)
	}
	w.headerRow(SheetStreaks, head...)
	for i, rec := range records {
		runs := make([]string, 0, len(rec.Runs))
		for _, run := range rec.Runs {
			runs = append(runs, fmt.Sprintf("%d-%d (%s)", run.StartDay, run.EndDay, run.Risk))
		}
		line := []any{rec.EmployeeID, rec.WorkedDays, rec.MaxLength, fmt.Sprintf("%.2f", rec.AverageLength), strings.Join(runs, ", ")}
		for _, n := range rec.Running {
			line = append(line, n)
		}
		w.row(SheetStreaks, i+2, line...)
	}
}

func (w *writer) fares(fares []model.FareComparison) {
	w.sheet(SheetFares)
	w.headerRow(SheetFares, "Employee", "Location", "Rides", "Original", "Cheapest", "Cost", "Break-even", "Recommendation")
	for i, cmp := range fares {
		best := cmp.Options[0]
		cost := best.TotalCost
		if best.MonthlyEquivalentPrice > 0 {
			cost = best.MonthlyEquivalentPrice
		}
		w.row(SheetFares, i+2, cmp.EmployeeID, cmp.Location, cmp.Rides, cmp.OriginalCost,
			best.PlanName, cost, cmp.BreakEvenRideCount, string(cmp.Recommendation))
	}
}

func (w *writer) tallies(t *model.Tallies) {
	if t == nil {
		return
	}
	w.sheet(SheetTallies)
	w.headerRow(SheetTallies, "Employee", "Early", "Mid", "Night", "Special", "Rest", "Unknown", "Worked", "Restock")
	restock := make(map[string]int, len(t.Restock))
	for _, d := range t.Restock {
		restock[d.EmployeeID] = d.Count
	}
	for i, c := range t.Counts {
		w.row(SheetTallies, i+2, c.EmployeeID, c.Early, c.Mid, c.Night, c.Special, c.Rest, c.Unknown, c.Total, restock[c.EmployeeID])
	}

	if len(t.PickupDemand) == 0 {
		return
	}
	w.sheet(SheetPickup)
	locs := map[string]int{}
	for _, dd := range t.PickupDemand {
		for loc, n := range dd.Locations {
			locs[loc] += n
		}
	}
	order := sortedKeys(locs)
	head := []any{"Day"}
	for _, loc := range order {
		head = append(head, loc)
	}
	w.headerRow(SheetPickup, head...)
	for i, dd := range t.PickupDemand {
		line := []any{dd.Day}
		for _, loc := range order {
			line = append(line, dd.Locations[loc])
		}
		w.row(SheetPickup, i+2, line...)
	}
}

func (w *writer) messages(msgs []model.CalculationMessage) {
	if len(msgs) == 0 {
		return
	}
	w.sheet(SheetMessages)
	w.headerRow(SheetMessages, "Level", "Code", "Message")
	for i, m := range msgs {
		w.row(SheetMessages, i+2, m.Level, m.Code, m.Message)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rota-engine/internal/model"
)

func sampleResponse() *model.AnalysisResponse {
	return &model.AnalysisResponse{
		AnalysisMetadata: model.AnalysisMetadata{DaysInMonth: 28, AnalysisOutcome: model.OutcomeSuccess},
		AnalysisResult: model.AnalysisResult{
			Messages: []model.CalculationMessage{{ID: 0, Level: model.LevelWarning, Code: model.CodeUnknownShiftToken, Message: "?"}},
			Overlap: &model.OverlapReport{
				Pairs: []model.PairCount{{A: "A", B: "B", Count: 3}},
				Rankings: map[string][]model.Partner{
					"A": {{EmployeeID: "B", Count: 3}},
					"B": {{EmployeeID: "A", Count: 3}},
					"C": {},
				},
				Summary: model.OverlapSummary{TotalOverlaps: 3, MaxOverlap: 3, TotalPairs: 1, AvgOverlap: 3},
			},
			Streaks: []model.StreakRecord{{
				EmployeeID: "A",
				Runs:       []model.StreakRun{{StartDay: 1, EndDay: 2, Length: 2, Risk: model.RiskLow}},
				MaxLength:  2,
				WorkedDays: 2,
				Running:    make([]int, 28),
			}},
			Fares: []model.FareComparison{{
				EmployeeID:   "A",
				Location:     "A21",
				Rides:        20,
				OriginalCost: 800,
				Options: []model.FareOption{
					{PlanName: "TPASS", Kind: model.StrategyUnlimited, TotalCost: 799, MonthlyEquivalentPrice: 799, IsCheapest: true},
				},
				Recommendation: model.RecommendOutright,
			}},
			Tallies: &model.Tallies{
				Counts:       []model.KindCounts{{EmployeeID: "A", Early: 2, Total: 2}},
				Restock:      []model.RestockDuty{{EmployeeID: "A", Count: 1, Weeks: []int{1}}},
				PickupDemand: []model.DayDemand{{Day: 1, Locations: map[string]int{"A21": 1}}},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	f, err := Build(sampleResponse())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t,
		[]string{SheetOverlap, SheetStreaks, SheetFares, SheetTallies, SheetPickup, SheetMessages},
		f.GetSheetList())

	v, err := f.GetCellValue(SheetOverlap, "C2")
	require.NoError(t, err)
	assert.Equal(t, "3", v, "A-B count")
	v, _ = f.GetCellValue(SheetOverlap, "B3")
	assert.Equal(t, "3", v, "matrix is symmetric")
	v, _ = f.GetCellValue(SheetOverlap, "D4")
	assert.Equal(t, "-", v)

	v, _ = f.GetCellValue(SheetFares, "E2")
	assert.Equal(t, "TPASS", v)
	v, _ = f.GetCellValue(SheetFares, "H2")
	assert.Equal(t, "RECOMMENDED", v)

	v, _ = f.GetCellValue(SheetTallies, "I2")
	assert.Equal(t, "1", v, "restock count")

	v, _ = f.GetCellValue(SheetPickup, "B1")
	assert.Equal(t, "A21", v)
}

func TestBuildFailure(t *testing.T) {
	resp := &model.AnalysisResponse{
		AnalysisMetadata: model.AnalysisMetadata{AnalysisOutcome: model.OutcomeFailure},
		AnalysisResult: model.AnalysisResult{
			Messages: []model.CalculationMessage{{Level: model.LevelCritical, Code: model.CodeInvalidDaysInMonth}},
		},
	}
	f, err := Build(resp)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetOverlap, SheetStreaks, SheetFares, SheetMessages}, f.GetSheetList())
	v, _ := f.GetCellValue(SheetMessages, "B2")
	assert.Equal(t, model.CodeInvalidDaysInMonth, v)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResponse()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(SheetStreaks)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "1-2 (LOW)", rows[1][4])
}

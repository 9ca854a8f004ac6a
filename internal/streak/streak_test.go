package streak

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

func TestComputeEarlyRunThenRest(t *testing.T) {
	matrix := model.ScheduleMatrix{
		"X": {1: "早", 2: "早", 3: "早", 4: "早", 5: "早", 6: "休"},
	}
	rec := Compute(matrix, "X", 30, shift.Default(), DefaultRiskThresholds())

	assert.Equal(t, 5, rec.MaxLength)
	assert.Equal(t, []model.StreakRun{{StartDay: 1, EndDay: 5, Length: 5, Risk: model.RiskMedium}}, rec.Runs)
	assert.Equal(t, 5, rec.WorkedDays)
	assert.InDelta(t, 5.0, rec.AverageLength, 1e-9)
}

func TestComputeRunOpenAtMonthEnd(t *testing.T) {
	matrix := model.ScheduleMatrix{
		"X": {27: "中", 28: "晚", 29: "特", 30: "早"},
	}
	rec := Compute(matrix, "X", 30, shift.Default(), DefaultRiskThresholds())

	require.Len(t, rec.Runs, 1)
	assert.Equal(t, model.StreakRun{StartDay: 27, EndDay: 30, Length: 4, Risk: model.RiskMedium}, rec.Runs[0])
}

func TestComputeBreaksOnAbsentAndUnknown(t *testing.T) {
	matrix := model.ScheduleMatrix{
		"X": {1: "早", 2: "早", 4: "早", 5: "??", 6: "中", 7: "中", 8: "中", 9: "中", 10: "中", 11: "中"},
	}
	rec := Compute(matrix, "X", 30, shift.Default(), DefaultRiskThresholds())

	assert.Equal(t, []model.StreakRun{
		{StartDay: 1, EndDay: 2, Length: 2, Risk: model.RiskLow},
		{StartDay: 4, EndDay: 4, Length: 1, Risk: model.RiskLow},
		{StartDay: 6, EndDay: 11, Length: 6, Risk: model.RiskHigh},
	}, rec.Runs)
	assert.Equal(t, 6, rec.MaxLength)
}

func TestComputeNoRuns(t *testing.T) {
	matrix := model.ScheduleMatrix{"X": {1: "休"}}
	rec := Compute(matrix, "X", 28, shift.Default(), DefaultRiskThresholds())
	assert.Empty(t, rec.Runs)
	assert.Equal(t, 0, rec.MaxLength)
	assert.Len(t, rec.Running, 28)

	missing := Compute(matrix, "nobody", 28, shift.Default(), DefaultRiskThresholds())
	assert.Equal(t, 0, missing.MaxLength)
}

func TestOutOfRangeDaysIgnored(t *testing.T) {
	matrix := model.ScheduleMatrix{"X": {0: "早", 30: "早", 31: "早", 32: "早"}}
	rec := Compute(matrix, "X", 30, shift.Default(), DefaultRiskThresholds())
	assert.Equal(t, []model.StreakRun{{StartDay: 30, EndDay: 30, Length: 1, Risk: model.RiskLow}}, rec.Runs)
}

func TestRiskThresholds(t *testing.T) {
	r := DefaultRiskThresholds()
	assert.Equal(t, model.RiskLow, r.Level(1))
	assert.Equal(t, model.RiskLow, r.Level(3))
	assert.Equal(t, model.RiskMedium, r.Level(4))
	assert.Equal(t, model.RiskMedium, r.Level(5))
	assert.Equal(t, model.RiskHigh, r.Level(6))

	strict := RiskThresholds{Medium: 3, High: 5}
	assert.Equal(t, model.RiskHigh, strict.Level(5))
}

func TestRunningSeriesMatchesPrefixScan(t *testing.T) {
	row := map[int]string{1: "早", 2: "早", 3: "休", 4: "晚", 5: "晚", 6: "晚", 8: "中"}
	c := shift.Default()

	series := Series(row, 10, c)
	assert.Equal(t, []int{1, 2, 0, 1, 2, 3, 0, 1, 0, 0}, series)
	for day := 1; day <= 10; day++ {
		assert.Equal(t, series[day-1], RunningAt(row, day, c), "day %d", day)
	}

	rec := Compute(model.ScheduleMatrix{"X": row}, "X", 10, c, DefaultRiskThresholds())
	assert.Equal(t, series, rec.Running)
}

func TestPartitionProperty(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	tokens := []string{"早", "中", "晚", "休", "特", "??"}
	c := shift.Default()

	for trial := 0; trial < 50; trial++ {
		days := 28 + r.Intn(4)
		row := map[int]string{}
		for d := 1; d <= days; d++ {
			if r.Intn(5) == 0 {
				continue
			}
			row[d] = tokens[r.Intn(len(tokens))]
		}
		matrix := model.ScheduleMatrix{"X": row}
		rec := Compute(matrix, "X", days, c, DefaultRiskThresholds())

		sum, nonWorking := 0, 0
		prevEnd := 0
		for _, run := range rec.Runs {
			if prevEnd > 0 {
				assert.Greater(t, run.StartDay, prevEnd+1, "runs are maximal and disjoint")
			}
			assert.Equal(t, run.EndDay-run.StartDay+1, run.Length)
			sum += run.Length
			prevEnd = run.EndDay
		}
		for d := 1; d <= days; d++ {
			if !c.Resolve(row, d).Worked() {
				nonWorking++
			}
		}
		assert.Equal(t, days, sum+nonWorking, "trial %d", trial)
		assert.Equal(t, rec, Compute(matrix, "X", days, c, DefaultRiskThresholds()))
	}
}

func fullRun(token string, from, to int) map[int]string {
	row := map[int]string{}
	for d := from; d <= to; d++ {
		row[d] = token
	}
	return row
}

func TestCrossMonth(t *testing.T) {
	jan := model.Month{Year: 2026, Month: time.January}
	feb := model.Month{Year: 2026, Month: time.February}
	mar := model.Month{Year: 2026, Month: time.March}

	janRow := fullRun("早", 28, 31)
	janRow[10] = "早"
	febRow := fullRun("晚", 1, 3)
	febRow[27], febRow[28] = "中", "中"
	marRow := fullRun("中", 1, 1)

	months := []MonthMatrix{
		{Month: mar, Schedule: model.ScheduleMatrix{"X": marRow}},
		{Month: jan, Schedule: model.ScheduleMatrix{"X": janRow}},
		{Month: feb, Schedule: model.ScheduleMatrix{"X": febRow}},
	}
	out := CrossMonth(months, "X", shift.Default(), DefaultRiskThresholds())

	assert.Equal(t, []model.DatedRun{
		{Start: "2026-01-28", End: "2026-02-03", Length: 7, Risk: model.RiskHigh},
		{Start: "2026-02-27", End: "2026-03-01", Length: 3, Risk: model.RiskLow},
	}, out.Runs)
	assert.Equal(t, 7, out.MaxLength)
	assert.InDelta(t, 5.0, out.AverageLength, 1e-9)
}

func TestCrossMonthGapMonthBreaksRun(t *testing.T) {
	jan := model.Month{Year: 2026, Month: time.January}
	mar := model.Month{Year: 2026, Month: time.March}
	months := []MonthMatrix{
		{Month: jan, Schedule: model.ScheduleMatrix{"X": fullRun("早", 30, 31)}},
		{Month: mar, Schedule: model.ScheduleMatrix{"X": fullRun("早", 1, 2)}},
	}
	out := CrossMonth(months, "X", shift.Default(), DefaultRiskThresholds())
	assert.Empty(t, out.Runs)
	assert.Equal(t, 0, out.MaxLength)
}

func BenchmarkCompute(b *testing.B) {
	matrix := model.ScheduleMatrix{}
	for e := 0; e < 100; e++ {
		matrix["E"+strconv.Itoa(e)] = fullRun("早", 1, 31)
	}
	c := shift.Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for id := range matrix {
			Compute(matrix, id, 31, c, DefaultRiskThresholds())
		}
	}
}

package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

func TestParseRowsWithNameColumn(t *testing.T) {
	rows := [][]string{
		{"March roster"},
		{"ID", "Name", "1", "2日", "3"},
		{"E01", "Amy", "K", " 休 ", "中班"},
		{"E02", "Ben", "", "??", "YY"},
		{"", "blank id row", "早"},
	}
	res, err := ParseRows(rows, shift.Default())
	require.NoError(t, err)

	assert.Equal(t, model.ScheduleMatrix{
		"E01": {1: "EARLY", 2: "REST", 3: "MID"},
		"E02": {2: "??", 3: "NIGHT"},
	}, res.Schedule)
	assert.Equal(t, map[string]string{"E01": "Amy", "E02": "Ben"}, res.Names)
}

func TestParseRowsWithoutNameColumn(t *testing.T) {
	rows := [][]string{
		{"", "1", "2"},
		{"E01", "早", "晚"},
	}
	res, err := ParseRows(rows, shift.Default())
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleMatrix{"E01": {1: "EARLY", 2: "NIGHT"}}, res.Schedule)
	assert.Empty(t, res.Names)
}

func TestParseRowsErrors(t *testing.T) {
	_, err := ParseRows([][]string{{"a", "b"}}, shift.Default())
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ParseRows([][]string{{"", "1"}}, shift.Default())
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"ID", "Name", 1, 2}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"E01", "Amy", "早", "L"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	res, err := Read(&buf, "march.xlsx", shift.Default())
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleMatrix{"E01": {1: "EARLY", 2: "MID"}}, res.Schedule)
}

func TestReadJSON(t *testing.T) {
	bare := `{"E01": {"1": "早", "2": "  "}, "_lastUpdated": "2026-03-01"}`
	res, err := Read(strings.NewReader(bare), "m.json", shift.Default())
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleMatrix{"E01": {1: "EARLY"}}, res.Schedule)

	wrapped := `{"schedule": {"E02": {"3": "晚"}}, "names": {"E02": "Ben"}}`
	res, err = Read(strings.NewReader(wrapped), "m.json", shift.Default())
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleMatrix{"E02": {3: "NIGHT"}}, res.Schedule)
	assert.Equal(t, "Ben", res.Names["E02"])

	_, err = Read(strings.NewReader("not json"), "m.json", shift.Default())
	assert.Error(t, err)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("garbage"), "m.xlsx", shift.Default())
	assert.Error(t, err)
	_, err = Read(strings.NewReader("garbage"), "m.xls", shift.Default())
	assert.Error(t, err)
}

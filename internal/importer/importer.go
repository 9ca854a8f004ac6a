// Package importer turns exported schedule files into a normalized ScheduleMatrix.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	json "github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

var (
	ErrEmptySheet = errors.New("worksheet is empty")
	ErrNoHeader   = errors.New("no header row with day numbers found")
)

const maxXLSRows = 100000

type Result struct {
	Schedule model.ScheduleMatrix `json:"schedule"`
	Names    map[string]string    `json:"names,omitempty"`
}

func ReadFile(path string, c *shift.Classifier) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path, c)
}

// Read picks the decoder from the filename extension: .xls, .json, or xlsx
// for anything else.
func Read(r io.Reader, filename string, c *shift.Classifier) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return parseJSON(data, c)
	case ".xls":
		rows, err := readXLS(data)
		if err != nil {
			return nil, err
		}
		return ParseRows(rows, c)
	default:
		rows, err := readXLSX(data)
		if err != nil {
			return nil, err
		}
		return ParseRows(rows, c)
	}
}

func readXLS(data []byte) (rows [][]string, err error) {
	// extrame/xls panics on some malformed workbooks
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("open xls: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows = workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

// ParseRows reads a grid whose header row holds day numbers. The first column
// is the employee id; a second column without a day number holds the name.
func ParseRows(rows [][]string, c *shift.Classifier) (*Result, error) {
	headerIdx, dayCols, nameCol := -1, map[int]int{}, -1
	for i, row := range rows {
		cols := map[int]int{}
		for j := 1; j < len(row); j++ {
			if day, ok := parseDay(row[j]); ok {
				cols[j] = day
			}
		}
		if len(cols) > 0 {
			headerIdx, dayCols = i, cols
			if _, isDay := cols[1]; !isDay && len(row) > 1 {
				nameCol = 1
			}
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoHeader
	}

	res := &Result{Schedule: model.ScheduleMatrix{}, Names: map[string]string{}}
	for _, row := range rows[headerIdx+1:] {
		id := cellValue(row, 0)
		if id == "" {
			continue
		}
		if nameCol >= 0 {
			if name := cellValue(row, nameCol); name != "" {
				res.Names[id] = name
			}
		}
		days := res.Schedule[id]
		if days == nil {
			days = map[int]string{}
			res.Schedule[id] = days
		}
		for col, day := range dayCols {
			token := cellValue(row, col)
			if token == "" {
				continue
			}
			days[day] = c.Canonical(token)
		}
	}
	if len(res.Schedule) == 0 {
		return nil, ErrEmptySheet
	}
	return res, nil
}

// parseJSON accepts either a bare matrix or {"schedule": ..., "names": ...}.
// Keys starting with "_" are document-store bookkeeping and are dropped.
func parseJSON(data []byte, c *shift.Classifier) (*Result, error) {
	var wrapped Result
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Schedule) > 0 {
		return normalize(wrapped, c), nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode schedule json: %w", err)
	}
	res := Result{Schedule: model.ScheduleMatrix{}}
	for id, body := range raw {
		if strings.HasPrefix(id, "_") {
			continue
		}
		var row map[int]string
		if err := json.Unmarshal(body, &row); err != nil {
			return nil, fmt.Errorf("decode schedule row %s: %w", id, err)
		}
		res.Schedule[id] = row
	}
	return normalize(res, c), nil
}

func normalize(in Result, c *shift.Classifier) *Result {
	out := &Result{Schedule: make(model.ScheduleMatrix, len(in.Schedule)), Names: in.Names}
	for id, row := range in.Schedule {
		if strings.HasPrefix(id, "_") {
			continue
		}
		days := make(map[int]string, len(row))
		for day, token := range row {
			if strings.TrimSpace(token) == "" {
				continue
			}
			days[day] = c.Canonical(token)
		}
		out.Schedule[id] = days
	}
	return out
}

func parseDay(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSuffix(s, "日")
	s = strings.TrimSuffix(s, "号")
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > model.MaxDaysInMonth {
		return 0, false
	}
	return day, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

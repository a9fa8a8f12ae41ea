package logs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoStation is returned when the CSV log has no station name in its first cell
var ErrNoStation = errors.New("csv log has no station name")

// CSVLogInfo holds the facts the report takes from a CSV test log
type CSVLogInfo struct {
	Station       string
	SerialNumber  string
	DiagsVersion  string
	TotalTestTime string
}

// TestTimeSeconds returns the total test time as a number
func (i CSVLogInfo) TestTimeSeconds() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(i.TotalTestTime), 64)
	if err != nil {
		return 0, fmt.Errorf("total test time %q is not a number", i.TotalTestTime)
	}
	return v, nil
}

// ReadCSV reads every record of a CSV file; records may differ in length
func ReadCSV(path string, hints []string) ([][]string, error) {
	text, err := ReadText(path, hints)
	if err != nil {
		return nil, err
	}
	return ParseCSV(text, path)
}

// ParseCSV parses CSV text; name is only used in error messages
func ParseCSV(text, name string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return records, nil
}

// ParseCSVLog extracts the header facts of a CSV test log
// Row 1 carries the station name (column 1) and serial number (column 3);
// DIAGS_VERSION has its value three cells to the right, and the
// "total test time" label one cell to the right
func ParseCSVLog(records [][]string) (CSVLogInfo, error) {
	var info CSVLogInfo
	if len(records) == 0 || len(records[0]) == 0 || strings.TrimSpace(records[0][0]) == "" {
		return info, ErrNoStation
	}

	info.Station = strings.TrimSpace(records[0][0])
	if len(records[0]) > 2 {
		serial := strings.TrimSpace(records[0][2])
		serial = strings.TrimPrefix(serial, "Serial Number:")
		info.SerialNumber = strings.TrimSpace(serial)
	}

	for r, row := range records {
		for c, col := range row {
			if r == 0 && c < 3 {
				continue
			}
			switch {
			case col == "DIAGS_VERSION" && c+3 < len(row):
				info.DiagsVersion = strings.TrimSpace(row[c+3])
			case strings.Contains(strings.ToLower(col), "total test time") && c+1 < len(row):
				info.TotalTestTime = strings.TrimSpace(row[c+1])
			}
		}
	}

	return info, nil
}

// CellValue converts a CSV field to the value written into the sheet:
// numbers become int or float64, everything else stays text
func CellValue(field string) any {
	if field == "" || strings.EqualFold(field, "nan") {
		return field
	}
	if !strings.Contains(field, ".") {
		if i, err := strconv.Atoi(field); err == nil {
			return i
		}
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return field
	}
	return f
}

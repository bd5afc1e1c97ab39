package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/source"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"20060102",
}

// ParseDate parses a date cell. ok is false when no layout matches.
func ParseDate(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Normalize projects raw rows onto the canonical fields using the resolved mapping.
// Bad dates are kept as invalid markers; non-numeric power or hours values fail.
func Normalize(table source.Table, cols model.ColumnMap) ([]model.Record, error) {
	index := make(map[model.Role]int, len(cols))
	for role, name := range cols {
		index[role] = columnIndex(table.Columns, name)
	}

	records := make([]model.Record, 0, len(table.Rows))
	for i, row := range table.Rows {
		rawDate := cell(row, index[model.RoleDate])
		date, ok := ParseDate(rawDate)
		rec := model.Record{
			Date:      date,
			DateValid: ok,
			RawDate:   rawDate,
			Device:    cell(row, index[model.RoleDevice]),
		}
		var err error
		if rec.PowerWatts, err = parseMetric(row, index, cols, model.RolePower, i); err != nil {
			return nil, err
		}
		if rec.HoursUsed, err = parseMetric(row, index, cols, model.RoleHours, i); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseMetric(row []string, index map[model.Role]int, cols model.ColumnMap, role model.Role, rowIdx int) (float64, error) {
	raw := strings.TrimSpace(cell(row, index[role]))
	if isMissing(raw) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &InvalidMetricInputError{
			Field:  role,
			Column: cols[role],
			Row:    rowIdx + 1,
			Value:  raw,
		}
	}
	return v, nil
}

// missingTokens are the cell values read as a missing metric, as spreadsheet
// and dataframe exports write them.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(raw string) bool {
	_, ok := missingTokens[raw]
	return ok
}

func columnIndex(columns []string, name string) int {
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

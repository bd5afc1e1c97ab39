package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func readCSV(path string, delimiter rune) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open data source: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	if delimiter == 0 {
		delimiter = ','
	}
	records, err := readRecords(file, delimiter)
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	if len(records) == 1 {
		return Table{Columns: records[0]}, nil
	}

	// Every column stays a string and no cell is rewritten as NaN; typing and
	// missing values are handled during normalization.
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return Table{}, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}

	rows := df.Records()
	return Table{Columns: df.Names(), Rows: rows[1:]}, nil
}

// readRecords reads the header and every row. Short rows are padded with empty
// cells; rows longer than the header are an error.
func readRecords(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			if len(rec) > 0 {
				rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			}
			records = append(records, rec)
			continue
		}
		width := len(records[0])
		if len(rec) > width {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, width, len(rec))
		}
		for len(rec) < width {
			rec = append(rec, "")
		}
		records = append(records, rec)
	}
	return records, nil
}

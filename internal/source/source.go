// Package source reads raw usage tables from delimited files and SQL databases.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Supported drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Table is a row-oriented raw dataset: a header plus string cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Options selects and configures the data source.
type Options struct {
	// Driver is one of csv, sqlite or postgres. Empty means csv.
	Driver string
	// Location is a file path for csv and sqlite, or a DSN for postgres.
	Location string
	// Table is required for SQL drivers.
	Table string
	// Delimiter is the csv field separator. Zero means ','.
	Delimiter rune
}

// DataSourceNotFoundError reports a configured input that does not exist.
type DataSourceNotFoundError struct {
	Path string
}

func (e *DataSourceNotFoundError) Error() string {
	return fmt.Sprintf("data source not found: %s", e.Path)
}

// Load reads the whole source into memory.
func Load(ctx context.Context, opts Options, logger *zap.Logger) (Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverCSV
	}
	if opts.Location == "" {
		return Table{}, fmt.Errorf("data source location is empty")
	}
	logger.Debug("loading source", zap.String("driver", driver), zap.String("location", redact(driver, opts.Location)))

	var (
		table Table
		err   error
	)
	switch driver {
	case DriverCSV:
		if err := requireFile(opts.Location); err != nil {
			return Table{}, err
		}
		table, err = readCSV(opts.Location, opts.Delimiter)
	case DriverSQLite:
		if err := requireFile(opts.Location); err != nil {
			return Table{}, err
		}
		table, err = readSQL(ctx, "sqlite", opts.Location, opts.Table)
	case DriverPostgres:
		table, err = readSQL(ctx, "postgres", opts.Location, opts.Table)
	default:
		return Table{}, fmt.Errorf("unsupported driver %q (use csv, sqlite or postgres)", opts.Driver)
	}
	if err != nil {
		return Table{}, err
	}
	logger.Info("source loaded",
		zap.String("driver", driver),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)))
	return table, nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &DataSourceNotFoundError{Path: path}
		}
		return fmt.Errorf("failed to stat data source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

// redact hides credentials in postgres DSNs before they reach the log.
func redact(driver, location string) string {
	if driver != DriverPostgres {
		return location
	}
	if at := strings.LastIndex(location, "@"); at >= 0 {
		if scheme := strings.Index(location, "://"); scheme >= 0 && scheme < at {
			return location[:scheme+3] + "***" + location[at:]
		}
	}
	return "***"
}

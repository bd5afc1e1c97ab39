package source

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"  // PostgreSQL driver.
	_ "modernc.org/sqlite" // SQLite driver.
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func readSQL(ctx context.Context, driverName, dsn, table string) (Table, error) {
	query, err := selectAllQuery(table)
	if err != nil {
		return Table{}, err
	}
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s source: %w", driverName, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return Table{}, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return Table{}, err
	}
	result := Table{Columns: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return Table{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, err
	}
	return result, nil
}

func selectAllQuery(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", fmt.Errorf("a table name is required for SQL sources")
	}
	if !identPattern.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = `"` + part + `"`
	}
	return "SELECT * FROM " + strings.Join(parts, "."), nil
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}

package source

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usageCSV = `Day,Appliance Name,Rated Wattage,Usage Hours
2025-01-01,Heater,1000,2
2025-01-02,Heater,1000,3
2025-01-01,Fridge,500,4
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "usage.csv", usageCSV)

	table, err := Load(context.Background(), Options{Location: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Day", "Appliance Name", "Rated Wattage", "Usage Hours"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"2025-01-01", "Heater", "1000", "2"}, table.Rows[0])
	assert.Equal(t, []string{"2025-01-01", "Fridge", "500", "4"}, table.Rows[2])
}

func TestLoadCSVDelimiter(t *testing.T) {
	path := writeFile(t, "usage.csv", "date;device;power;hours\n2025-01-01;Lamp;60;5\n")

	table, err := Load(context.Background(), Options{Driver: "CSV", Location: path, Delimiter: ';'}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "device", "power", "hours"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Lamp", table.Rows[0][1])
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeFile(t, "usage.csv", "Date,Device,Power_Watts,Hours_Used\n")

	table, err := Load(context.Background(), Options{Location: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Device", "Power_Watts", "Hours_Used"}, table.Columns)
	assert.Empty(t, table.Rows)

	path = writeFile(t, "empty.csv", "")
	table, err = Load(context.Background(), Options{Location: path}, nil)
	require.NoError(t, err)
	assert.Empty(t, table.Columns)
}

func TestLoadCSVPadsShortRows(t *testing.T) {
	path := writeFile(t, "usage.csv", "Date,Device,Power_Watts,Hours_Used\n2025-01-01,Lamp,60\n2025-01-02,Fan\n")

	table, err := Load(context.Background(), Options{Location: path}, nil)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2025-01-01", "Lamp", "60", ""}, table.Rows[0])
	assert.Equal(t, []string{"2025-01-02", "Fan", "", ""}, table.Rows[1])
}

func TestLoadCSVRejectsLongRows(t *testing.T) {
	path := writeFile(t, "usage.csv", "Date,Device\n2025-01-01,Lamp,60\n")

	_, err := Load(context.Background(), Options{Location: path}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 fields, saw 3")
}

func TestLoadCSVKeepsCellText(t *testing.T) {
	path := writeFile(t, "usage.csv", "\ufeffDate,Device,Power_Watts,Hours_Used\n2025-01-01,NA,N/A,2\n2025-01-02,NaN,,1\n")

	table, err := Load(context.Background(), Options{Location: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Date", table.Columns[0])
	assert.Equal(t, []string{"2025-01-01", "NA", "N/A", "2"}, table.Rows[0])
	assert.Equal(t, []string{"2025-01-02", "NaN", "", "1"}, table.Rows[1])
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "electricity_data.csv")

	_, err := Load(context.Background(), Options{Location: path}, nil)
	var notFound *DataSourceNotFoundError
	require.True(t, errors.As(err, &notFound), "expected DataSourceNotFoundError, got %v", err)
	assert.Equal(t, path, notFound.Path)
	assert.Contains(t, err.Error(), "electricity_data.csv")

	_, err = Load(context.Background(), Options{Driver: DriverSQLite, Location: path, Table: "usage"}, nil)
	require.True(t, errors.As(err, &notFound))
}

func TestLoadUnsupportedDriver(t *testing.T) {
	_, err := Load(context.Background(), Options{Driver: "parquet", Location: "x"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE usage_log (day TEXT, device TEXT, watts INTEGER, hours REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO usage_log VALUES ('2025-01-01', 'Heater', 1000, 2.5, NULL), ('2025-01-02', 'Fan', 75, 8, 'x')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	table, err := Load(context.Background(), Options{Driver: DriverSQLite, Location: path, Table: "usage_log"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"day", "device", "watts", "hours", "note"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2025-01-01", "Heater", "1000", "2.5", ""}, table.Rows[0])
	assert.Equal(t, []string{"2025-01-02", "Fan", "75", "8", "x"}, table.Rows[1])
}

func TestSelectAllQuery(t *testing.T) {
	query, err := selectAllQuery("public.usage")
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "public"."usage"`, query)

	_, err = selectAllQuery("usage; DROP TABLE x")
	assert.Error(t, err)
	_, err = selectAllQuery("")
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/energy", redact(DriverPostgres, "postgres://user:secret@db:5432/energy"))
	assert.Equal(t, "***", redact(DriverPostgres, "host=db password=secret"))
	assert.Equal(t, "data.csv", redact(DriverCSV, "data.csv"))
}

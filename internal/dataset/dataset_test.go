package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/source"
)

func sampleTable() source.Table {
	return source.Table{
		Columns: []string{"Day", "Appliance Name", "Rated Wattage", "Usage Hours"},
		Rows: [][]string{
			{"2024-01-01", "A", "1000", "2"},
			{"2024-01-01", "B", "500", "4"},
			{"2024-01-02", "A", "1500", "2"},
		},
	}
}

func TestResolveColumnsHeuristic(t *testing.T) {
	cols, err := ResolveColumns(sampleTable().Columns, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, model.ColumnMap{
		model.RoleDate:   "Day",
		model.RoleDevice: "Appliance Name",
		model.RolePower:  "Rated Wattage",
		model.RoleHours:  "Usage Hours",
	}, cols)
}

func TestResolveColumnsIgnoresExtraColumns(t *testing.T) {
	cols, err := ResolveColumns([]string{"id", "DATE", "Device", "Power (W)", "Hours", "notes"}, ResolveOptions{})
	require.NoError(t, err)
	assert.Len(t, cols, 4)
	assert.Equal(t, "Power (W)", cols[model.RolePower])
}

func TestResolveColumnsMissingRole(t *testing.T) {
	_, err := ResolveColumns([]string{"Date", "Device", "Power"}, ResolveOptions{})
	var schemaErr *SchemaDetectionError
	require.True(t, errors.As(err, &schemaErr), "expected SchemaDetectionError, got %v", err)
	assert.Equal(t, []model.Role{model.RoleHours}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "Hours_Used")
}

func TestResolveColumnsFirstRoleWins(t *testing.T) {
	// "Device Usage" mentions both device and usage; device is checked first.
	role, ok := MatchRole("Device Usage")
	require.True(t, ok)
	assert.Equal(t, model.RoleDevice, role)

	_, ok = MatchRole("Location")
	assert.False(t, ok)
}

func TestResolveColumnsAmbiguity(t *testing.T) {
	columns := []string{"Date", "Device", "Power", "Start Hour", "Usage Hours"}

	_, err := ResolveColumns(columns, ResolveOptions{})
	var ambErr *AmbiguousColumnError
	require.True(t, errors.As(err, &ambErr), "expected AmbiguousColumnError, got %v", err)
	assert.Equal(t, model.RoleHours, ambErr.Role)
	assert.Equal(t, []string{"Start Hour", "Usage Hours"}, ambErr.Columns)

	cols, err := ResolveColumns(columns, ResolveOptions{Ambiguity: AmbiguityLast})
	require.NoError(t, err)
	assert.Equal(t, "Usage Hours", cols[model.RoleHours])
}

func TestResolveColumnsOverrides(t *testing.T) {
	columns := []string{"Date", "Device", "Power", "Start Hour", "Usage Hours"}
	cols, err := ResolveColumns(columns, ResolveOptions{
		Overrides: map[model.Role]string{model.RoleHours: "start hour"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Start Hour", cols[model.RoleHours])

	_, err = ResolveColumns([]string{"Date", "Device", "Power", "Hours"}, ResolveOptions{
		Overrides: map[model.Role]string{model.RoleHours: "Runtime"},
	})
	var schemaErr *SchemaDetectionError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Runtime"}, schemaErr.Unknown)
}

func TestParseAmbiguity(t *testing.T) {
	mode, err := ParseAmbiguity("")
	require.NoError(t, err)
	assert.Equal(t, AmbiguityError, mode)

	mode, err = ParseAmbiguity("Last")
	require.NoError(t, err)
	assert.Equal(t, AmbiguityLast, mode)
	assert.Equal(t, "last", mode.String())

	_, err = ParseAmbiguity("first")
	assert.Error(t, err)
}

func TestBuildDerivesMetrics(t *testing.T) {
	ds, err := Build(sampleTable(), Options{})
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, model.DefaultCostPerKWh, ds.Rate())

	for _, rec := range ds.Records() {
		assert.InDelta(t, rec.PowerWatts*rec.HoursUsed/1000, rec.EnergyKWh, 1e-9)
		assert.InDelta(t, rec.EnergyKWh*0.15, rec.Cost, 1e-9)
	}
	first := ds.Record(0)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 2.0, first.EnergyKWh, 1e-9)
	assert.InDelta(t, 0.30, first.Cost, 1e-9)
}

func TestBuildKeepsInvalidDates(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"not-a-date", "C", "100", "10"})

	ds, err := Build(table, Options{})
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())
	assert.Equal(t, 1, ds.InvalidDates())
	last := ds.Record(3)
	assert.False(t, last.DateValid)
	assert.Equal(t, "not-a-date", last.RawDate)
	assert.InDelta(t, 1.0, last.EnergyKWh, 1e-9)
}

func TestBuildRejectsNonNumericMetric(t *testing.T) {
	table := sampleTable()
	table.Rows[1][2] = "five hundred"

	_, err := Build(table, Options{})
	var metricErr *InvalidMetricInputError
	require.True(t, errors.As(err, &metricErr), "expected InvalidMetricInputError, got %v", err)
	assert.Equal(t, model.RolePower, metricErr.Field)
	assert.Equal(t, "Rated Wattage", metricErr.Column)
	assert.Equal(t, 2, metricErr.Row)
	assert.Equal(t, "five hundred", metricErr.Value)
}

func TestBuildBlankMetricIsNaN(t *testing.T) {
	table := sampleTable()
	table.Rows[0][3] = " "

	ds, err := Build(table, Options{})
	require.NoError(t, err)
	rec := ds.Record(0)
	assert.True(t, math.IsNaN(rec.HoursUsed))
	assert.True(t, math.IsNaN(rec.EnergyKWh))
	assert.True(t, math.IsNaN(rec.Cost))
}

func TestBuildMissingTokensAreNaN(t *testing.T) {
	for _, token := range []string{"N/A", "NA", "null", "#N/A", "nan", "<NA>"} {
		table := sampleTable()
		table.Rows[0][2] = token

		ds, err := Build(table, Options{})
		require.NoError(t, err, token)
		assert.True(t, math.IsNaN(ds.Record(0).PowerWatts), token)
		assert.True(t, math.IsNaN(ds.Record(0).Cost), token)
	}

	table := sampleTable()
	table.Rows[0][2] = "n.a."
	_, err := Build(table, Options{})
	var metricErr *InvalidMetricInputError
	assert.True(t, errors.As(err, &metricErr), "expected InvalidMetricInputError, got %v", err)
}

func TestBuildKeepsNADeviceLabel(t *testing.T) {
	table := sampleTable()
	table.Rows[0][1] = "NA"

	ds, err := Build(table, Options{})
	require.NoError(t, err)
	assert.Equal(t, "NA", ds.Record(0).Device)
	assert.Contains(t, ds.Selections(), "NA")
}

func TestBuildRejectsBadRate(t *testing.T) {
	_, err := Build(sampleTable(), Options{Rate: lo.ToPtr(-1.0)})
	assert.Error(t, err)
	_, err = Build(sampleTable(), Options{Rate: lo.ToPtr(math.NaN())})
	assert.Error(t, err)
}

func TestBuildZeroRateIsFree(t *testing.T) {
	ds, err := Build(sampleTable(), Options{Rate: lo.ToPtr(0.0)})
	require.NoError(t, err)
	assert.Zero(t, ds.Rate())
	assert.Zero(t, ds.Record(0).Cost)
	assert.InDelta(t, 2.0, ds.Record(0).EnergyKWh, 1e-9)

	ds, err = Build(sampleTable(), Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.15, ds.Rate(), 1e-12)

	free, err := ds.WithRate(0)
	require.NoError(t, err)
	assert.Zero(t, free.Record(0).Cost)
}

func TestWithRate(t *testing.T) {
	ds, err := Build(sampleTable(), Options{})
	require.NoError(t, err)
	pricier, err := ds.WithRate(0.30)
	require.NoError(t, err)

	assert.InDelta(t, 0.30, ds.Record(0).Cost, 1e-9)
	assert.InDelta(t, 0.60, pricier.Record(0).Cost, 1e-9)
	assert.Equal(t, ds.Columns(), pricier.Columns())
}

func TestSelect(t *testing.T) {
	ds, err := Build(sampleTable(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ds.Devices())
	assert.Equal(t, []string{"All", "A", "B"}, ds.Selections())

	all := ds.Select(model.AllDevices)
	assert.Equal(t, 3, all.Len())
	assert.Equal(t, "All", all.Selection())

	a := ds.Select("A")
	require.Equal(t, 2, a.Len())
	for _, rec := range a.Records() {
		assert.Equal(t, "A", rec.Device)
	}

	assert.Equal(t, 0, ds.Select("Z").Len())
}

func TestRecordsReturnsCopy(t *testing.T) {
	ds, err := Build(sampleTable(), Options{})
	require.NoError(t, err)
	recs := ds.Records()
	recs[0].Device = "mutated"
	assert.Equal(t, "A", ds.Record(0).Device)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{"2024-03-05", "2024/03/05", "03/05/2024", "3/5/2024", "Mar 5, 2024", "5 Mar 2024"} {
		got, ok := ParseDate(value)
		require.True(t, ok, value)
		assert.Equal(t, want, got, value)
	}
	_, ok := ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("yesterday")
	assert.False(t, ok)
}

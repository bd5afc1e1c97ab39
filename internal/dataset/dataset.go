package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/source"
)

// Options configures Build.
type Options struct {
	Resolve ResolveOptions
	// Rate is the cost per kWh. Nil means model.DefaultCostPerKWh; zero is a valid rate.
	Rate   *float64
	Logger *zap.Logger
}

// Dataset is the loaded, normalized and derived record set. It is never mutated
// after Build; views and reports only read from it.
type Dataset struct {
	records      []model.Record
	columns      model.ColumnMap
	rate         float64
	invalidDates int
}

// Build resolves columns, normalizes every row and derives energy and cost.
func Build(table source.Table, opts Options) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rate := model.DefaultCostPerKWh
	if opts.Rate != nil {
		rate = *opts.Rate
	}
	if err := checkRate(rate); err != nil {
		return nil, err
	}

	cols, err := ResolveColumns(table.Columns, opts.Resolve)
	if err != nil {
		return nil, err
	}
	for _, role := range model.Roles {
		logger.Debug("column resolved", zap.String("role", string(role)), zap.String("column", cols[role]))
	}

	records, err := Normalize(table, cols)
	if err != nil {
		return nil, err
	}
	records = Derive(records, rate)

	invalid := lo.CountBy(records, func(r model.Record) bool { return !r.DateValid })
	if invalid > 0 {
		logger.Warn("rows with unparseable dates", zap.Int("count", invalid))
	}
	logger.Info("dataset built", zap.Int("records", len(records)), zap.Float64("rate", rate))

	return &Dataset{
		records:      records,
		columns:      cols,
		rate:         rate,
		invalidDates: invalid,
	}, nil
}

// FromRecords builds a dataset from already normalized records, deriving metrics at rate.
func FromRecords(records []model.Record, rate float64) (*Dataset, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	derived := Derive(records, rate)
	return &Dataset{
		records:      derived,
		columns:      model.ColumnMap{},
		rate:         rate,
		invalidDates: lo.CountBy(derived, func(r model.Record) bool { return !r.DateValid }),
	}, nil
}

func checkRate(rate float64) error {
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("invalid cost per kWh %v", rate)
	}
	return nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record in source order.
func (d *Dataset) Record(i int) model.Record { return d.records[i] }

// Records returns a copy of all records.
func (d *Dataset) Records() []model.Record {
	out := make([]model.Record, len(d.records))
	copy(out, d.records)
	return out
}

// Columns returns a copy of the resolved column mapping.
func (d *Dataset) Columns() model.ColumnMap {
	out := make(model.ColumnMap, len(d.columns))
	for k, v := range d.columns {
		out[k] = v
	}
	return out
}

// Rate returns the cost per kWh used to derive Cost.
func (d *Dataset) Rate() float64 { return d.rate }

// InvalidDates returns how many records carry an unparseable date.
func (d *Dataset) InvalidDates() int { return d.invalidDates }

// Devices returns the distinct device names in ascending order.
func (d *Dataset) Devices() []string {
	names := lo.Uniq(lo.Map(d.records, func(r model.Record, _ int) string { return r.Device }))
	sort.Strings(names)
	return names
}

// Selections returns the device selector options: "All" followed by Devices.
func (d *Dataset) Selections() []string {
	return append([]string{model.AllDevices}, d.Devices()...)
}

// WithRate returns a new dataset with cost re-derived at rate.
func (d *Dataset) WithRate(rate float64) (*Dataset, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	return &Dataset{
		records:      Derive(d.records, rate),
		columns:      d.Columns(),
		rate:         rate,
		invalidDates: d.invalidDates,
	}, nil
}

// Select returns the view for a device selection. "All" selects every record.
func (d *Dataset) Select(selection string) View {
	if selection == model.AllDevices {
		idx := make([]int, len(d.records))
		for i := range idx {
			idx[i] = i
		}
		return View{ds: d, idx: idx, selection: selection}
	}
	var idx []int
	for i, r := range d.records {
		if r.Device == selection {
			idx = append(idx, i)
		}
	}
	return View{ds: d, idx: idx, selection: selection}
}

// View is a read-only subset of a dataset, stored as record indexes.
type View struct {
	ds        *Dataset
	idx       []int
	selection string
}

// Selection returns the device name or "All".
func (v View) Selection() string { return v.selection }

// Len returns the number of records in the view.
func (v View) Len() int { return len(v.idx) }

// Record returns the i-th record of the view.
func (v View) Record(i int) model.Record { return v.ds.records[v.idx[i]] }

// Records returns copies of the view's records in source order.
func (v View) Records() []model.Record {
	out := make([]model.Record, len(v.idx))
	for i, j := range v.idx {
		out[i] = v.ds.records[j]
	}
	return out
}

// Dataset returns the dataset the view reads from.
func (v View) Dataset() *Dataset { return v.ds }

// Package report aggregates a dataset selection into daily series, device totals and a summary.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/dataset"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

// BlankDevice labels records whose device cell was empty.
const BlankDevice = "(blank)"

// Build computes every output for one selection. An empty selection means "All".
// Device totals always cover the whole dataset.
func Build(ds *dataset.Dataset, selection string) model.Report {
	if selection == "" {
		selection = model.AllDevices
	}
	view := ds.Select(selection)
	summary := Summarize(view)
	return model.Report{
		Selection:    selection,
		Rate:         ds.Rate(),
		DailyEnergy:  DailyEnergy(view),
		DeviceEnergy: DeviceEnergy(ds),
		DailyCost:    DailyCost(view),
		Summary:      summary,
		SummaryText:  FormatSummary(summary),
		InvalidDates: view.Len() - lo.CountBy(view.Records(), func(r model.Record) bool { return r.DateValid }),
	}
}

// DailyEnergy sums EnergyKWh per date, ascending. Records without a valid date are skipped.
func DailyEnergy(view dataset.View) []model.DailyPoint {
	return daily(view, func(r model.Record) float64 { return r.EnergyKWh })
}

// DailyCost sums Cost per date, ascending.
func DailyCost(view dataset.View) []model.DailyPoint {
	return daily(view, func(r model.Record) float64 { return r.Cost })
}

func daily(view dataset.View, value func(model.Record) float64) []model.DailyPoint {
	sums := map[time.Time]float64{}
	for i := 0; i < view.Len(); i++ {
		rec := view.Record(i)
		if !rec.DateValid {
			continue
		}
		key := rec.Date.UTC()
		sums[key] += finite(value(rec))
	}
	points := make([]model.DailyPoint, 0, len(sums))
	for date, sum := range sums {
		points = append(points, model.DailyPoint{Date: date, Value: sum})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// DeviceEnergy sums energy and cost per device over the full dataset, ordered by device name.
func DeviceEnergy(ds *dataset.Dataset) []model.DeviceTotal {
	totals := map[string]*model.DeviceTotal{}
	for i := 0; i < ds.Len(); i++ {
		rec := ds.Record(i)
		t, ok := totals[rec.Device]
		if !ok {
			t = &model.DeviceTotal{Device: rec.Device}
			totals[rec.Device] = t
		}
		t.EnergyKWh += finite(rec.EnergyKWh)
		t.Cost += finite(rec.Cost)
	}
	out := make([]model.DeviceTotal, 0, len(totals))
	for _, name := range lo.Keys(totals) {
		out = append(out, *totals[name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Device < out[j].Device })
	return out
}

// Summarize sums energy and cost over the view, including records with invalid dates.
func Summarize(view dataset.View) model.Summary {
	recs := view.Records()
	return model.Summary{
		Records:   len(recs),
		EnergyKWh: lo.SumBy(recs, func(r model.Record) float64 { return finite(r.EnergyKWh) }),
		Cost:      lo.SumBy(recs, func(r model.Record) float64 { return finite(r.Cost) }),
	}
}

// FormatSummary renders the summary line shown under the charts.
func FormatSummary(s model.Summary) string {
	return fmt.Sprintf("Total Energy Used: %s kWh | Total Cost: %s%s",
		Fixed2(s.EnergyKWh), model.CurrencySymbol, Fixed2(s.Cost))
}

// Fixed2 formats v with two decimals, rounding the exact binary value half to
// even, so 1.005 prints as "1.00".
func Fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Money formats a cost with the currency symbol.
func Money(v float64) string {
	return model.CurrencySymbol + Fixed2(v)
}

// DeviceLabel returns a printable device name.
func DeviceLabel(device string) string {
	if device == "" {
		return BlankDevice
	}
	return device
}

// finite maps missing values to zero so sums skip them.
func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

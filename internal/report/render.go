package report

import (
	"fmt"
	"io"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/plot"
)

// DateLayout is how daily buckets are printed.
const DateLayout = "2006-01-02"

// RenderOptions controls text rendering.
type RenderOptions struct {
	// Plot adds braille charts after each table.
	Plot bool
	// Width is the total terminal width. Zero detects it.
	Width int
	Color bool
}

// Render prints the report as aligned tables, optionally followed by charts.
func Render(w io.Writer, rep model.Report, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "Device: %s (rate %s/kWh)\n", DeviceLabel(rep.Selection), Money(rep.Rate)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, rep.SummaryText); err != nil {
		return err
	}
	if rep.InvalidDates > 0 {
		if _, err := fmt.Fprintf(w, "%d record(s) with unparseable dates are left out of the daily series.\n", rep.InvalidDates); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	plotOpts := plot.Options{Color: opts.Color}
	if opts.Width > 0 {
		plotOpts.Width = plot.PlotWidthFor(opts.Width)
	}

	if err := renderDaily(w, "Daily Energy Consumption", "Energy (kWh)", rep.DailyEnergy, Fixed2); err != nil {
		return err
	}
	if opts.Plot {
		lineOpts := plotOpts
		lineOpts.Unit = "kWh"
		if err := plot.Line(w, "", []plot.Series{DailySeries("Energy", rep.DailyEnergy)}, withDateLabels(lineOpts, rep.DailyEnergy)); err != nil {
			return err
		}
	}

	if err := renderDevices(w, rep.DeviceEnergy); err != nil {
		return err
	}
	if opts.Plot {
		barOpts := plotOpts
		barOpts.Unit = "kWh"
		if opts.Width > 0 {
			barOpts.Width = opts.Width
		}
		if err := plot.Bars(w, "", DeviceBars(rep.DeviceEnergy), barOpts); err != nil {
			return err
		}
	}

	if err := renderDaily(w, "Daily Cost Trend", "Cost", rep.DailyCost, Money); err != nil {
		return err
	}
	if opts.Plot {
		areaOpts := plotOpts
		areaOpts.Fill = true
		areaOpts.Unit = model.CurrencySymbol
		if err := plot.Line(w, "", []plot.Series{DailySeries("Cost", rep.DailyCost)}, withDateLabels(areaOpts, rep.DailyCost)); err != nil {
			return err
		}
	}
	return nil
}

// DailySeries converts daily points to a plot series.
func DailySeries(name string, points []model.DailyPoint) plot.Series {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return plot.Series{Name: name, Values: values}
}

// DeviceBars converts device totals to bar chart input.
func DeviceBars(totals []model.DeviceTotal) []plot.Bar {
	bars := make([]plot.Bar, len(totals))
	for i, t := range totals {
		bars[i] = plot.Bar{Label: DeviceLabel(t.Device), Value: t.EnergyKWh}
	}
	return bars
}

func withDateLabels(opts plot.Options, points []model.DailyPoint) plot.Options {
	if len(points) == 0 {
		return opts
	}
	opts.StartLabel = points[0].Date.Format(DateLayout)
	if len(points) > 1 {
		opts.EndLabel = points[len(points)-1].Date.Format(DateLayout)
	}
	return opts
}

func renderDaily(w io.Writer, title, valueHeader string, points []model.DailyPoint, format func(float64) string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(points) == 0 {
		_, err := fmt.Fprint(w, "No dated records.\n\n")
		return err
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Date.Format(DateLayout), format(p.Value)}
	}
	return writeLines(w, plot.FormatTable([]string{"Date", valueHeader}, rows, map[int]bool{1: true}))
}

func renderDevices(w io.Writer, totals []model.DeviceTotal) error {
	if _, err := fmt.Fprintln(w, "Device-wise Energy Comparison"); err != nil {
		return err
	}
	if len(totals) == 0 {
		_, err := fmt.Fprint(w, "No records.\n\n")
		return err
	}
	rows := make([][]string, len(totals))
	for i, t := range totals {
		rows[i] = []string{DeviceLabel(t.Device), Fixed2(t.EnergyKWh), Money(t.Cost)}
	}
	return writeLines(w, plot.FormatTable([]string{"Device", "Energy (kWh)", "Cost"}, rows, map[int]bool{1: true, 2: true}))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

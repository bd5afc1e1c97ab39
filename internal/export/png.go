package export

import (
	"fmt"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

const (
	chartWidth  = 1024
	chartHeight = 480
)

var (
	energyColor = drawing.ColorFromHex("1f77b4")
	costColor   = drawing.ColorFromHex("ff8800")
	barColors   = []drawing.Color{
		drawing.ColorFromHex("66c2a5"),
		drawing.ColorFromHex("fc8d62"),
		drawing.ColorFromHex("8da0cb"),
		drawing.ColorFromHex("e78ac3"),
		drawing.ColorFromHex("a6d854"),
		drawing.ColorFromHex("ffd92f"),
	}
)

// writePNGs renders the three dashboard charts, one file each.
func writePNGs(dir, name, stamp string, rep model.Report) ([]string, error) {
	charts := []struct {
		suffix string
		render func(*os.File) error
	}{
		{"daily_energy", func(f *os.File) error {
			return dailyChart("Daily Energy Consumption (kWh)", "kWh", rep.DailyEnergy, energyColor, false).Render(chart.PNG, f)
		}},
		{"device_energy", func(f *os.File) error { return deviceChart(rep.DeviceEnergy).Render(chart.PNG, f) }},
		{"daily_cost", func(f *os.File) error {
			return dailyChart("Daily Cost Trend", model.CurrencySymbol, rep.DailyCost, costColor, true).Render(chart.PNG, f)
		}},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path, err := generateFilename(name+"_"+c.suffix, dir, stamp, "png")
		if err != nil {
			return paths, err
		}
		file, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("error creating PNG file: %w", err)
		}
		if err := c.render(file); err != nil {
			_ = file.Close()
			return paths, fmt.Errorf("error rendering %s chart: %w", c.suffix, err)
		}
		if err := file.Close(); err != nil {
			return paths, fmt.Errorf("error closing PNG file: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func dailyChart(title, unit string, points []model.DailyPoint, color drawing.Color, fill bool) chart.Chart {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date
		ys[i] = p.Value
	}
	// go-chart needs at least two x values.
	switch len(xs) {
	case 0:
		day := time.Now().UTC().Truncate(24 * time.Hour)
		xs = []time.Time{day, day.Add(24 * time.Hour)}
		ys = []float64{0, 0}
	case 1:
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	style := chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3}
	if fill {
		style.FillColor = color.WithAlpha(96)
	}
	return chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Date", ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Name: unit, Range: valueRange(ys, fill)},
		Series: []chart.Series{
			chart.TimeSeries{Name: title, XValues: xs, YValues: ys, Style: style},
		},
	}
}

func deviceChart(totals []model.DeviceTotal) chart.BarChart {
	bars := make([]chart.Value, 0, len(totals))
	values := make([]float64, 0, len(totals))
	for i, t := range totals {
		c := barColors[i%len(barColors)]
		bars = append(bars, chart.Value{
			Label: deviceLabel(t.Device),
			Value: t.EnergyKWh,
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
		values = append(values, t.EnergyKWh)
	}
	if len(bars) == 0 {
		bars = append(bars, chart.Value{Label: "No data", Value: 0})
		values = append(values, 0)
	}
	return chart.BarChart{
		Title:      "Total Energy by Device",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   60,
		YAxis:      chart.YAxis{Name: "kWh", Range: valueRange(values, true)},
		Bars:       bars,
	}
}

// valueRange returns a non-empty y range. Zero is included when anchored.
func valueRange(values []float64, anchorZero bool) *chart.ContinuousRange {
	minVal, maxVal := 0.0, 0.0
	for i, v := range values {
		if i == 0 || v < minVal {
			minVal = v
		}
		if i == 0 || v > maxVal {
			maxVal = v
		}
	}
	if anchorZero {
		if minVal > 0 {
			minVal = 0
		}
		if maxVal < 0 {
			maxVal = 0
		}
	}
	if maxVal-minVal < 1e-9 {
		maxVal = minVal + 1
	}
	return &chart.ContinuousRange{Min: minVal, Max: maxVal}
}

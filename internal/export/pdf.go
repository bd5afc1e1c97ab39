package export

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/report"
)

func writePDF(path string, rep model.Report, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Electricity Consumption Report"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	meta := fmt.Sprintf("  Device: %s   Rate: %s/kWh   Records: %s   Generated: %s",
		report.DeviceLabel(rep.Selection), report.Money(rep.Rate),
		humanize.Comma(int64(rep.Summary.Records)), generated.Format("2006-01-02 15:04:05"))
	pdf.CellFormat(0, 8, tr(meta), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(rep.SummaryText), "", 1, "C", false, 0, "")
	if rep.InvalidDates > 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d record(s) with unparseable dates are left out of the daily series.", rep.InvalidDates)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	section := func(title string, headers []string, rows [][]string, widths []float64) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)

		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, tr(h), "B", 0, align(i), false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		if len(rows) == 0 {
			pdf.CellFormat(0, 6, "No data.", "", 1, "L", false, 0, "")
		}
		for _, row := range rows {
			for i, cell := range row {
				pdf.CellFormat(widths[i], 6, tr(cell), "", 0, align(i), false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	daily := make([][]string, len(rep.DailyEnergy))
	for i, p := range rep.DailyEnergy {
		daily[i] = []string{p.Date.Format(dateLayout), report.Fixed2(p.Value)}
	}
	section("Daily Energy Consumption (kWh)", []string{"Date", "Energy (kWh)"}, daily, []float64{60, 50})

	devices := make([][]string, len(rep.DeviceEnergy))
	for i, d := range rep.DeviceEnergy {
		devices[i] = []string{deviceLabel(d.Device), report.Fixed2(d.EnergyKWh), report.Money(d.Cost)}
	}
	section("Total Energy by Device", []string{"Device", "Energy (kWh)", "Cost"}, devices, []float64{90, 50, 50})

	costs := make([][]string, len(rep.DailyCost))
	for i, p := range rep.DailyCost {
		costs[i] = []string{p.Date.Format(dateLayout), report.Money(p.Value)}
	}
	section("Daily Cost Trend", []string{"Date", "Cost"}, costs, []float64{60, 50})

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

func align(col int) string {
	if col == 0 {
		return "L"
	}
	return "R"
}

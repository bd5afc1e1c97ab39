package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

func writeCSV(path string, rep model.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	writer := csv.NewWriter(file)

	rows := [][]string{{"section", "label", "energy_kwh", "cost"}}
	for _, p := range rep.DailyEnergy {
		rows = append(rows, []string{"daily_energy", p.Date.Format(dateLayout), number(p.Value), ""})
	}
	for _, d := range rep.DeviceEnergy {
		rows = append(rows, []string{"device_energy", d.Device, number(d.EnergyKWh), number(d.Cost)})
	}
	for _, p := range rep.DailyCost {
		rows = append(rows, []string{"daily_cost", p.Date.Format(dateLayout), "", number(p.Value)})
	}
	rows = append(rows, []string{"summary", rep.Selection, number(rep.Summary.EnergyKWh), number(rep.Summary.Cost)})

	if err := writer.WriteAll(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("error writing CSV: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing CSV file: %w", err)
	}
	return nil
}

package dataset

import "github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"

// Derive returns copies of records with EnergyKWh and Cost computed for rate.
// NaN inputs propagate to both outputs.
func Derive(records []model.Record, rate float64) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		rec.EnergyKWh = rec.PowerWatts * rec.HoursUsed / 1000
		rec.Cost = rec.EnergyKWh * rate
		out[i] = rec
	}
	return out
}

package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

func writeJSON(path string, rep model.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating JSON file: %w", err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		_ = file.Close()
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing JSON file: %w", err)
	}
	return nil
}

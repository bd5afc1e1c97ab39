package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables layered over the config file.
const (
	EnvSource       = "WATTDASH_SOURCE"
	EnvDriver       = "WATTDASH_DRIVER"
	EnvTable        = "WATTDASH_TABLE"
	EnvCostPerKWh   = "WATTDASH_COST_PER_KWH"
	EnvLogLevel     = "WATTDASH_LOG_LEVEL"
	EnvMQTTBroker   = "WATTDASH_MQTT_BROKER"
	EnvMQTTUser     = "WATTDASH_MQTT_USERNAME"
	EnvMQTTPassword = "WATTDASH_MQTT_PASSWORD"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment values onto cfg. lookup is usually os.LookupEnv.
func ApplyEnv(cfg *FileConfig, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst **string) {
		if v, ok := lookup(key); ok && v != "" {
			val := v
			*dst = &val
		}
	}
	str(EnvSource, &cfg.Data.Source)
	str(EnvDriver, &cfg.Data.Driver)
	str(EnvTable, &cfg.Data.Table)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvMQTTBroker, &cfg.MQTT.Broker)
	str(EnvMQTTUser, &cfg.MQTT.Username)
	str(EnvMQTTPassword, &cfg.MQTT.Password)

	if v, ok := lookup(EnvCostPerKWh); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCostPerKWh, v, err)
		}
		cfg.Data.CostPerKWh = &rate
	}
	return nil
}

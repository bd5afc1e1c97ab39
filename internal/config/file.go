// Package config provides configuration helpers and TOML/YAML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

// FileConfig represents the configuration file. Nil pointers mean "not set".
type FileConfig struct {
	Data    DataConfig    `toml:"data" yaml:"data"`
	Columns ColumnsConfig `toml:"columns" yaml:"columns"`
	Export  ExportConfig  `toml:"export" yaml:"export"`
	MQTT    MQTTConfig    `toml:"mqtt" yaml:"mqtt"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// DataConfig maps input and pricing settings.
type DataConfig struct {
	Source     *string  `toml:"source" yaml:"source"`
	Driver     *string  `toml:"driver" yaml:"driver"`
	Table      *string  `toml:"table" yaml:"table"`
	Delimiter  *string  `toml:"delimiter" yaml:"delimiter"`
	CostPerKWh *float64 `toml:"cost-per-kwh" yaml:"cost-per-kwh"`
}

// ColumnsConfig pins roles to source columns and picks the ambiguity mode.
type ColumnsConfig struct {
	Date      *string `toml:"date" yaml:"date"`
	Device    *string `toml:"device" yaml:"device"`
	Power     *string `toml:"power" yaml:"power"`
	Hours     *string `toml:"hours" yaml:"hours"`
	Ambiguity *string `toml:"ambiguity" yaml:"ambiguity"`
}

// ExportConfig maps export settings.
type ExportConfig struct {
	Dir     *string  `toml:"dir" yaml:"dir"`
	Name    *string  `toml:"name" yaml:"name"`
	Formats []string `toml:"formats" yaml:"formats"`
}

// MQTTConfig maps publisher settings.
type MQTTConfig struct {
	Broker      *string `toml:"broker" yaml:"broker"`
	TopicPrefix *string `toml:"topic-prefix" yaml:"topic-prefix"`
	Username    *string `toml:"username" yaml:"username"`
	Password    *string `toml:"password" yaml:"password"`
	QoS         *int    `toml:"qos" yaml:"qos"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Level  *string `toml:"level" yaml:"level"`
	Format *string `toml:"format" yaml:"format"`
	File   *string `toml:"file" yaml:"file"`
}

// Overrides returns the explicitly configured role columns.
func (c ColumnsConfig) Overrides() map[model.Role]string {
	out := map[model.Role]string{}
	set := func(role model.Role, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			out[role] = *v
		}
	}
	set(model.RoleDate, c.Date)
	set(model.RoleDevice, c.Device)
	set(model.RolePower, c.Power)
	set(model.RoleHours, c.Hours)
	return out
}

// LoadConfig reads a config file from the given path, picking the decoder by extension.
// Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	case ".toml", "":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		return FileConfig{}, fmt.Errorf("unsupported config format %q (use .toml or .yaml)", filepath.Ext(path))
	}
	return cfg, nil
}

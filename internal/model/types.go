// Package model defines shared data structures.
package model

import "time"

// Role is one of the four required semantic fields of a usage record.
type Role string

// Canonical roles, in resolution order.
const (
	RoleDate   Role = "Date"
	RoleDevice Role = "Device"
	RolePower  Role = "Power_Watts"
	RoleHours  Role = "Hours_Used"
)

// Roles lists the required roles in the order they are evaluated.
var Roles = []Role{RoleDate, RoleDevice, RolePower, RoleHours}

// AllDevices is the selection value that disables the device filter.
const AllDevices = "All"

// DefaultCostPerKWh is the built-in energy rate.
const DefaultCostPerKWh = 0.15

// CurrencySymbol prefixes every cost figure.
const CurrencySymbol = "$"

// ColumnMap maps each role to the source column it was resolved to.
type ColumnMap map[Role]string

// Record is a usage row normalized to the canonical fields plus derived metrics.
type Record struct {
	Date       time.Time
	DateValid  bool
	RawDate    string
	Device     string
	PowerWatts float64
	HoursUsed  float64
	EnergyKWh  float64
	Cost       float64
}

// DailyPoint is one date bucket of a daily series.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// DeviceTotal is the summed energy for one device.
type DeviceTotal struct {
	Device    string  `json:"device"`
	EnergyKWh float64 `json:"energy_kwh"`
	Cost      float64 `json:"cost"`
}

// Summary holds the scalar totals of a selection.
type Summary struct {
	Records   int     `json:"records"`
	EnergyKWh float64 `json:"energy_kwh"`
	Cost      float64 `json:"cost"`
}

// Report bundles everything the presentation layer renders for one selection.
type Report struct {
	Selection    string        `json:"selection"`
	Rate         float64       `json:"cost_per_kwh"`
	DailyEnergy  []DailyPoint  `json:"daily_energy"`
	DeviceEnergy []DeviceTotal `json:"device_energy"`
	DailyCost    []DailyPoint  `json:"daily_cost"`
	Summary      Summary       `json:"summary"`
	SummaryText  string        `json:"summary_text"`
	// InvalidDates counts selected records left out of the daily series.
	InvalidDates int `json:"invalid_dates"`
}

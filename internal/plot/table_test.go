package plot

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Device", "Energy (kWh)", "Cost"}
	rows := [][]string{
		{"Heater", "5.00", "$0.75"},
		{"Fan", "12.50", "$1.88"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Device Energy (kWh)  Cost" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Heater         5.00 $0.75" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Fan           12.50 $1.88" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"Device", "kWh"}, [][]string{{"電気", "1.00"}}, map[int]bool{1: true})
	if lines[1] != "電気   1.00" {
		t.Fatalf("unexpected wide rune row: %q", lines[1])
	}
}

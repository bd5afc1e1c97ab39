package plot

import (
	"bytes"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	var buf bytes.Buffer
	err := Line(&buf, "Daily Energy", []Series{
		{Name: "Energy", Values: []float64{4, 3, 5, 2}},
	}, Options{Width: 30, Height: 4, StartLabel: "2025-01-01", EndLabel: "2025-01-04", Unit: "kWh"})
	if err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Daily Energy") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Energy: min=2.00 kWh max=5.00 kWh") {
		t.Fatalf("expected min/max line, got:\n%s", out)
	}
	if !strings.Contains(out, "2025-01-01") || !strings.Contains(out, "2025-01-04") {
		t.Fatalf("expected date labels in output")
	}
	if strings.Contains(out, "Legend:") {
		t.Fatalf("did not expect a legend for a single series")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer writer")
	}
}

func TestLineLegendForSeveralSeries(t *testing.T) {
	var buf bytes.Buffer
	err := Line(&buf, "", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, Options{Width: 10, Height: 4})
	if err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Legend:") {
		t.Fatalf("expected legend in output")
	}
}

func TestLineFillShadesMoreCells(t *testing.T) {
	series := []Series{{Name: "Cost", Values: []float64{1, 3, 2, 4}}}
	var line, area bytes.Buffer
	if err := Line(&line, "", series, Options{Width: 12, Height: 5}); err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	if err := Line(&area, "", series, Options{Width: 12, Height: 5, Fill: true}); err != nil {
		t.Fatalf("Line with fill failed: %v", err)
	}
	if dotCount(area.String()) <= dotCount(line.String()) {
		t.Fatalf("expected the area chart to set more dots than the line chart")
	}
}

func TestLineEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Line(&buf, "Daily Cost", nil, Options{Width: 10}); err != nil {
		t.Fatalf("Line failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No data.") {
		t.Fatalf("expected empty marker, got %q", buf.String())
	}
}

func TestResampleSeries(t *testing.T) {
	up := resampleSeries([]float64{0, 10}, 3)
	if len(up) != 3 || up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected upsample: %v", up)
	}
	down := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(down) != 2 || down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	flat := resampleSeries([]float64{4}, 3)
	if flat[0] != 4 || flat[2] != 4 {
		t.Fatalf("unexpected single point resample: %v", flat)
	}
}

func dotCount(out string) int {
	count := 0
	for _, r := range out {
		if r < 0x2800 || r > 0x28FF {
			continue
		}
		for mask := uint8(r - 0x2800); mask != 0; mask &= mask - 1 {
			count++
		}
	}
	return count
}

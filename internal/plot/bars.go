package plot

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Bar is one labelled value of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
}

// Partial blocks, in eighths of a cell.
var barEighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

const barFull = '█'

// Bars renders a horizontal bar chart scaled to the largest value.
// Negative and missing values draw an empty bar but still print their value.
func Bars(w io.Writer, title string, bars []Bar, opts Options) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(bars) == 0 {
		_, err := fmt.Fprint(w, "No data.\n\n")
		return err
	}

	labelWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		labelWidth = maxInt(labelWidth, runewidth.StringWidth(b.Label))
		if !math.IsNaN(b.Value) && b.Value > maxVal {
			maxVal = b.Value
		}
	}
	width := opts.Width
	if width <= 0 {
		width = autoPlotWidth()
	}
	// Leave room for the label column and the printed value.
	width -= labelWidth + runewidth.StringWidth(axisSeparator) + 12
	if width < minPlotWidth {
		width = minPlotWidth
	}

	useColor := shouldUseColor(w, opts.Color)
	for i, b := range bars {
		bar := barString(b.Value, maxVal, width)
		if useColor && bar != "" {
			bar = colorPalette[i%len(colorPalette)].code + bar + colorReset
		}
		line := runewidth.FillRight(b.Label, labelWidth) + axisSeparator + bar + " " + withUnit(b.Value, opts.Unit)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func barString(value, maxVal float64, width int) string {
	if maxVal <= 0 || math.IsNaN(value) || value <= 0 {
		return ""
	}
	eighths := int(math.Round(value / maxVal * float64(width*8)))
	if eighths > width*8 {
		eighths = width * 8
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(string(barFull), eighths/8))
	if rem := eighths % 8; rem > 0 {
		b.WriteRune(barEighths[rem])
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package reporter

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Style holds the colors and sizes used by the charts. It is passed by value and never mutated.
type Style struct {
	IPS        color.RGBA
	WAF        color.RGBA
	Throughput color.RGBA
	P50        color.RGBA
	P90        color.RGBA
	Background color.RGBA
	Grid       color.RGBA

	// MinWidth is the smallest chart width; charts grow with the number of runs.
	MinWidth vg.Length
	// WidthPerRun is the horizontal room given to each run.
	WidthPerRun vg.Length
	Height      vg.Length
	// CombinedPanelHeight is the height of one panel of the combined figure.
	CombinedPanelHeight vg.Length
}

// DefaultStyle returns the palette of the published reports.
func DefaultStyle() Style {
	return Style{
		IPS:                 color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF},
		WAF:                 color.RGBA{R: 0xA2, G: 0x3B, B: 0x72, A: 0xFF},
		Throughput:          color.RGBA{R: 0xF1, G: 0x8F, B: 0x01, A: 0xFF},
		P50:                 color.RGBA{R: 0xC7, G: 0x3E, B: 0x1D, A: 0xFF},
		P90:                 color.RGBA{R: 0x59, G: 0x2E, B: 0x83, A: 0xFF},
		Background:          color.RGBA{R: 0xF8, G: 0xF9, B: 0xFA, A: 0xFF},
		Grid:                color.RGBA{R: 0xE9, G: 0xEC, B: 0xEF, A: 0xFF},
		MinWidth:            10 * vg.Inch,
		WidthPerRun:         0.8 * vg.Inch,
		Height:              6 * vg.Inch,
		CombinedPanelHeight: 14 * vg.Inch / 3,
	}
}

func (s Style) width(runs int) vg.Length {
	return max(s.MinWidth, vg.Length(runs)*s.WidthPerRun)
}

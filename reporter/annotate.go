package reporter

import (
	"fmt"
	"math"
)

// barLabel is one value annotation drawn above the bar at Index.
type barLabel struct {
	Index int
	Y     float64
	Text  string
}

// annotateBars places a label above every bar of positive height. The vertical offset grows
// with the bar height relative to the tallest bar, and labels that would collide with an
// already placed one over a neighbouring bar are pushed further up.
func annotateBars(heights []float64, unit string) []barLabel {
	var tallest, shortest float64
	shortest = math.Inf(1)
	for _, h := range heights {
		if h > 0 {
			tallest = max(tallest, h)
			shortest = min(shortest, h)
		}
	}
	if tallest == 0 {
		return nil
	}

	base := tallest * 0.03
	spread := tallest - shortest

	var labels []barLabel
	for i, h := range heights {
		if h <= 0 {
			continue
		}
		offset := base
		if spread > 0 {
			offset = base * (1 + (h-shortest)/spread*0.5)
		}
		y := h + offset

		conflicts := 0
		for _, prev := range labels {
			if i-prev.Index <= 1 && math.Abs(y-prev.Y) < tallest*0.05 {
				conflicts++
			}
		}
		y += float64(conflicts) * base * 0.5

		labels = append(labels, barLabel{Index: i, Y: y, Text: formatBarValue(h, unit)})
	}
	return labels
}

// formatBarValue prints large values without decimals and small ones with more precision.
func formatBarValue(v float64, unit string) string {
	switch a := math.Abs(v); {
	case a >= 100:
		return fmt.Sprintf("%.0f%s", v, unit)
	case a >= 1:
		return fmt.Sprintf("%.1f%s", v, unit)
	default:
		return fmt.Sprintf("%.2f%s", v, unit)
	}
}

// annotationFontSize returns a size in points between 7 and 10, smaller for crowded charts.
func annotationFontSize(bars int) float64 {
	if bars <= 0 {
		return 10
	}
	return float64(max(7, min(10, 120/bars)))
}

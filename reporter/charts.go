package reporter

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/neehar-mavuduru/perfreport/collector"
)

// Chart identifiers, in the order they appear in the report.
const (
	ChartCPU        = "cpu"
	ChartThroughput = "throughput"
	ChartLatency    = "latency"
	ChartCombined   = "combined"
)

// Charts lists every chart produced by RenderCharts.
var Charts = []string{ChartCPU, ChartThroughput, ChartLatency, ChartCombined}

var chartFiles = map[string]string{
	ChartCPU:        "cpu_busy.png",
	ChartThroughput: "throughput.png",
	ChartLatency:    "latency_p50_p90.png",
	ChartCombined:   "combined_summary.png",
}

// ChartFile returns the file name of a chart inside the output directory.
func ChartFile(chart string) string {
	return chartFiles[chart]
}

// ChartSet is the outcome of RenderCharts: the path of every chart that was written and the
// error of every chart that was not.
type ChartSet struct {
	Paths    map[string]string
	Failures map[string]error
}

// series is one set of bars drawn in a chart.
type series struct {
	name   string
	values []float64
	color  color.Color
	unit   string
}

type chartDef struct {
	title  string
	yLabel string
	series []series
}

// RenderCharts draws the four comparison charts of records into outDir. A chart that fails is
// recorded in ChartSet.Failures and does not prevent the others from being drawn.
func RenderCharts(records []collector.RunRecord, outDir string, style Style, log *logrus.Entry) ChartSet {
	set := ChartSet{Paths: make(map[string]string), Failures: make(map[string]error)}
	if len(records) == 0 {
		for _, c := range Charts {
			set.Failures[c] = fmt.Errorf("no runs to plot")
		}
		return set
	}

	ordered := Order(records)
	ticks := make([]string, len(ordered))
	for i, rec := range ordered {
		ticks[i] = TickLabel(rec)
	}

	defs := map[string]chartDef{
		ChartCPU:        cpuChart(ordered, style, "Utilisation CPU par composant et scénario"),
		ChartThroughput: throughputChart(ordered, style, "Débit de traitement par scénario"),
		ChartLatency:    latencyChart(ordered, style, "Latences par percentile et scénario"),
	}

	width := style.width(len(ordered))
	for _, c := range []string{ChartCPU, ChartThroughput, ChartLatency} {
		path := filepath.Join(outDir, chartFiles[c])
		err := func() error {
			p, err := buildPlot(defs[c], ticks, style)
			if err != nil {
				return err
			}
			return p.Save(width, style.Height, path)
		}()
		set.record(c, path, err, log)
	}

	path := filepath.Join(outDir, chartFiles[ChartCombined])
	set.record(ChartCombined, path, renderCombined(ordered, ticks, style, path), log)

	return set
}

func (s ChartSet) record(chart, path string, err error, log *logrus.Entry) {
	if err != nil {
		s.Failures[chart] = fmt.Errorf("failed to render %s chart: %w", chart, err)
		if log != nil {
			log.WithError(err).WithField("chart", chart).Error("Chart rendering failed")
		}
		return
	}
	s.Paths[chart] = path
	if log != nil {
		log.WithField("path", path).Info("Chart written")
	}
}

func cpuChart(records []collector.RunRecord, style Style, title string) chartDef {
	ips := make([]float64, len(records))
	waf := make([]float64, len(records))
	for i, rec := range records {
		ips[i] = rec.CPUFor(collector.RoleIPS).BusyPercent.UnwrapOr(0)
		waf[i] = rec.CPUFor(collector.RoleWAF).BusyPercent.UnwrapOr(0)
	}
	return chartDef{
		title:  title,
		yLabel: "CPU busy (%)",
		series: []series{
			{name: "IPS CPU busy (%)", values: ips, color: style.IPS, unit: "%"},
			{name: "WAF CPU busy (%)", values: waf, color: style.WAF, unit: "%"},
		},
	}
}

func throughputChart(records []collector.RunRecord, style Style, title string) chartDef {
	rps := make([]float64, len(records))
	for i, rec := range records {
		rps[i] = rec.LoadTestOrEmpty().RequestsPerSecond.UnwrapOr(0)
	}
	return chartDef{
		title:  title,
		yLabel: "Requêtes par seconde",
		series: []series{{name: "Requests/sec", values: rps, color: style.Throughput, unit: " req/s"}},
	}
}

func latencyChart(records []collector.RunRecord, style Style, title string) chartDef {
	p50 := make([]float64, len(records))
	p90 := make([]float64, len(records))
	for i, rec := range records {
		lt := rec.LoadTestOrEmpty()
		p50[i] = lt.LatencyP50.UnwrapOr(0) * 1000
		p90[i] = lt.LatencyP90.UnwrapOr(0) * 1000
	}
	return chartDef{
		title:  title,
		yLabel: "Latence (millisecondes)",
		series: []series{
			{name: "Latence P50 (ms)", values: p50, color: style.P50, unit: " ms"},
			{name: "Latence P90 (ms)", values: p90, color: style.P90, unit: " ms"},
		},
	}
}

// buildPlot draws the series side by side within each category, with their value labels.
func buildPlot(def chartDef, ticks []string, style Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = def.title
	p.Y.Label.Text = def.yLabel
	p.BackgroundColor = style.Background

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = style.Grid
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	runs := len(ticks)
	slot := style.width(runs) / vg.Length(runs+1)
	barWidth := slot * 0.7 / vg.Length(len(def.series))
	fontSize := annotationFontSize(runs * len(def.series))

	for k, s := range def.series {
		bars, err := plotter.NewBarChart(plotter.Values(s.values), barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build %q bars: %w", s.name, err)
		}
		offset := (vg.Length(k) - vg.Length(len(def.series)-1)/2) * barWidth
		bars.Offset = offset
		bars.Color = s.color
		bars.LineStyle.Color = color.White
		p.Add(bars)
		if len(def.series) > 1 {
			p.Legend.Add(s.name, bars)
		}

		labels, err := valueLabels(s, fontSize)
		if err != nil {
			return nil, err
		}
		if labels != nil {
			labels.Offset = vg.Point{X: offset}
			p.Add(labels)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.NominalX(ticks...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(8)

	return p, nil
}

func valueLabels(s series, size float64) (*plotter.Labels, error) {
	placed := annotateBars(s.values, s.unit)
	if len(placed) == 0 {
		return nil, nil
	}

	xys := make(plotter.XYs, len(placed))
	texts := make([]string, len(placed))
	for i, l := range placed {
		xys[i] = plotter.XY{X: float64(l.Index), Y: l.Y}
		texts[i] = l.Text
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to build %q labels: %w", s.name, err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
		labels.TextStyle[i].Font.Size = vg.Points(size)
	}
	return labels, nil
}

// renderCombined stacks the three charts in one figure. Only the bottom panel carries tick labels.
func renderCombined(records []collector.RunRecord, ticks []string, style Style, path string) error {
	blank := make([]string, len(ticks))
	defs := []chartDef{
		cpuChart(records, style, "A. Utilisation CPU par composant"),
		throughputChart(records, style, "B. Débit de traitement"),
		latencyChart(records, style, "C. Latences par percentile"),
	}

	plots := make([][]*plot.Plot, len(defs))
	for i, def := range defs {
		t := blank
		if i == len(defs)-1 {
			t = ticks
		}
		p, err := buildPlot(def, t, style)
		if err != nil {
			return err
		}
		plots[i] = []*plot.Plot{p}
	}

	width := max(style.width(len(records)), 12*vg.Inch)
	height := style.CombinedPanelHeight * vg.Length(len(plots))
	img := vgimg.New(width, height)
	dc := draw.New(img)

	title := text.Style{
		Font:    font.From(plot.DefaultFont, vg.Points(16)),
		Handler: plot.DefaultTextHandler,
		XAlign:  text.XCenter,
		YAlign:  text.YTop,
	}
	dc.FillText(title, vg.Point{X: width / 2, Y: height - vg.Points(8)}, "Analyse comparative complète des performances")

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(8),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(12),
	}
	canvases := plot.Align(plots, tiles, draw.Crop(dc, 0, 0, 0, -vg.Points(36)))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

package reporter

import (
	"strconv"

	"github.com/majewsky/gg/option"
	"github.com/shopspring/decimal"

	"github.com/neehar-mavuduru/perfreport/collector"
)

// Columns is the column order of every tabular export.
var Columns = []string{
	"scenario", "scenario_desc", "run", "concurrency", "path",
	"avg_busy_ips", "avg_idle_ips", "samples_ips",
	"avg_busy_waf", "avg_idle_waf", "samples_waf",
	"requests_per_sec", "p50", "p75", "p90", "p99",
	"socket_errors", "transfer_per_sec", "wrk_file",
}

// cells flattens rec in Columns order. Absent values are nil, the others are string,
// int or float64.
func cells(rec collector.RunRecord) []any {
	ips := rec.CPUFor(collector.RoleIPS)
	waf := rec.CPUFor(collector.RoleWAF)
	lt := rec.LoadTestOrEmpty()

	row := []any{
		rec.Scenario, rec.ScenarioDescription, rec.Run, cell(rec.Concurrency), rec.SourcePath,
		cell(ips.BusyPercent), cell(ips.IdlePercent), cell(ips.SampleCount),
		cell(waf.BusyPercent), cell(waf.IdlePercent), cell(waf.SampleCount),
		cell(lt.RequestsPerSecond), cell(lt.LatencyP50), cell(lt.LatencyP75), cell(lt.LatencyP90), cell(lt.LatencyP99),
		cell(lt.SocketErrors), cell(lt.TransferPerSecond), nil,
	}
	if rec.LoadTestFile != "" {
		row[len(row)-1] = rec.LoadTestFile
	}
	return row
}

func cell[T any](o option.Option[T]) any {
	if v, ok := o.Unpack(); ok {
		return v
	}
	return nil
}

// exportRow renders rec as text cells, floats in their shortest exact form.
func exportRow(rec collector.RunRecord) []string {
	return formatCells(cells(rec), func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	})
}

// displayRow renders rec for the HTML table, floats rounded to 3 decimals.
func displayRow(rec collector.RunRecord) []string {
	return formatCells(cells(rec), func(f float64) string {
		return decimal.NewFromFloat(f).Round(3).String()
	})
}

func formatCells(row []any, float func(float64) string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		switch v := c.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = v
		case int:
			out[i] = strconv.Itoa(v)
		case float64:
			out[i] = float(v)
		}
	}
	return out
}

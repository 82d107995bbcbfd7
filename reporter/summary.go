package reporter

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/majewsky/gg/option"

	"github.com/neehar-mavuduru/perfreport/collector"
)

// SummaryFile is the Markdown digest written inside the output directory.
const SummaryFile = "SUMMARY.md"

// WriteSummary writes a short Markdown digest of the key findings to path.
func WriteSummary(records []collector.RunRecord, missing *collector.MissingFiles, path string, generated time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := func(format string, args ...interface{}) {
		fmt.Fprintf(file, format, args...)
	}

	w("# Performance Test Summary\n\n")
	w("**Generated:** %s\n\n", generated.UTC().Format(time.RFC3339))
	w("**Total Runs:** %d\n\n", len(records))
	w("**Missing Files:** %d\n\n", missing.Len())
	w("---\n\n")

	w("## Key Findings\n\n")

	throughput := func(r collector.RunRecord) option.Option[float64] {
		return r.LoadTestOrEmpty().RequestsPerSecond
	}
	p50 := func(r collector.RunRecord) option.Option[float64] {
		return r.LoadTestOrEmpty().LatencyP50
	}

	w("**Highest Throughput:**\n")
	if best, ok := findBest(records, throughput).Unpack(); ok {
		w("- Run: %s (%s)\n", Label(best), best.Run)
		w("- Throughput: %s req/s\n", formatOptional(throughput(best), 1, "%.2f"))
		w("- Latency P50: %s ms\n\n", formatOptional(p50(best), 1000, "%.2f"))
	} else {
		w("- No throughput figure was collected\n\n")
	}

	w("**Lowest P50 Latency:**\n")
	lowest := func(r collector.RunRecord) option.Option[float64] {
		if v, ok := p50(r).Unpack(); ok {
			return option.Some(-v)
		}
		return option.None[float64]()
	}
	if best, ok := findBest(records, lowest).Unpack(); ok {
		w("- Run: %s (%s)\n", Label(best), best.Run)
		w("- Latency P50: %s ms\n", formatOptional(p50(best), 1000, "%.2f"))
		w("- Throughput: %s req/s\n\n", formatOptional(throughput(best), 1, "%.2f"))
	} else {
		w("- No latency figure was collected\n\n")
	}

	w("---\n\n")

	w("## Per-Scenario Averages\n\n")
	w("| Scenario | Runs | IPS CPU busy | WAF CPU busy | Throughput |\n")
	w("|----------|------|--------------|--------------|------------|\n")

	groups := groupByScenario(records)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		runs := groups[name]
		w("| %s | %d | %s%% | %s%% | %s req/s |\n",
			name, len(runs),
			formatOptional(average(runs, func(r collector.RunRecord) option.Option[float64] {
				return r.CPUFor(collector.RoleIPS).BusyPercent
			}), 1, "%.2f"),
			formatOptional(average(runs, func(r collector.RunRecord) option.Option[float64] {
				return r.CPUFor(collector.RoleWAF).BusyPercent
			}), 1, "%.2f"),
			formatOptional(average(runs, throughput), 1, "%.2f"))
	}
	w("\n")

	return file.Close()
}

// findBest returns the record with the highest score, ignoring records without one.
func findBest(records []collector.RunRecord, score func(collector.RunRecord) option.Option[float64]) option.Option[collector.RunRecord] {
	var (
		best      collector.RunRecord
		bestScore float64
		found     bool
	)
	for _, r := range records {
		s, ok := score(r).Unpack()
		if !ok {
			continue
		}
		if !found || s > bestScore {
			best, bestScore, found = r, s, true
		}
	}
	if !found {
		return option.None[collector.RunRecord]()
	}
	return option.Some(best)
}

func groupByScenario(records []collector.RunRecord) map[string][]collector.RunRecord {
	groups := make(map[string][]collector.RunRecord)
	for _, r := range records {
		groups[r.Scenario] = append(groups[r.Scenario], r)
	}
	return groups
}

func average(records []collector.RunRecord, value func(collector.RunRecord) option.Option[float64]) option.Option[float64] {
	var sum float64
	var n int
	for _, r := range records {
		if v, ok := value(r).Unpack(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return option.None[float64]()
	}
	return option.Some(sum / float64(n))
}

func formatOptional(o option.Option[float64], scale float64, format string) string {
	v, ok := o.Unpack()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf(format, v*scale)
}

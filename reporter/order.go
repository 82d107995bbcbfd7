// Package reporter turns the collected run table into charts, an HTML report and
// tabular exports.
package reporter

import (
	"fmt"
	"strings"

	"github.com/neehar-mavuduru/perfreport/collector"
	"github.com/neehar-mavuduru/perfreport/scenario"
)

// displayConcurrency lists the concurrency buckets shown right after the control scenario.
var displayConcurrency = []int{300, 500, 1000}

// Order returns the records in display order: the control scenario first, then the runs at
// 300, 500 and 1000 clients, then everything else. Relative order inside each bucket is kept.
func Order(records []collector.RunRecord) []collector.RunRecord {
	buckets := make([][]collector.RunRecord, len(displayConcurrency)+2)
	for _, rec := range records {
		i := bucketOf(rec)
		buckets[i] = append(buckets[i], rec)
	}

	out := make([]collector.RunRecord, 0, len(records))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

func bucketOf(rec collector.RunRecord) int {
	if rec.Scenario == scenario.NoInjection {
		return 0
	}
	if c, ok := rec.Concurrency.Unpack(); ok {
		for i, v := range displayConcurrency {
			if c == v {
				return i + 1
			}
		}
	}
	return len(displayConcurrency) + 1
}

// Label returns "<scenario>(<concurrency>)", with NA when the concurrency is unknown.
func Label(rec collector.RunRecord) string {
	return fmt.Sprintf("%s(%s)", rec.Scenario, concurrencyText(rec))
}

// ShortLabel abbreviates long scenario names for chart axes.
func ShortLabel(name string) string {
	if len(name) <= 15 {
		return name
	}
	short := strings.ReplaceAll(name, "INJ_", "")
	short = strings.ReplaceAll(short, "_WEB", "")
	short = strings.ReplaceAll(short, "_PROXY", "_P")
	if len(short) <= 12 {
		return short
	}

	parts := strings.Split(short, "_")
	for i, p := range parts {
		if len(p) > 3 {
			parts[i] = p[:3]
		}
	}
	return strings.Join(parts, "_")
}

// TickLabel is the two line axis label used on charts: short scenario name, then c<concurrency>.
func TickLabel(rec collector.RunRecord) string {
	if c, ok := rec.Concurrency.Unpack(); ok {
		return fmt.Sprintf("%s\nc%d", ShortLabel(rec.Scenario), c)
	}
	return ShortLabel(rec.Scenario) + "\nNA"
}

func concurrencyText(rec collector.RunRecord) string {
	if c, ok := rec.Concurrency.Unpack(); ok {
		return fmt.Sprint(c)
	}
	return "NA"
}

// Package extractor pulls numeric metrics out of the free-form text produced by
// CPU sampling scripts and by wrk load tests.
//
// Nothing in this package returns an error: a metric that cannot be found is
// reported as option.None, never as a failure.
package extractor

import (
	"regexp"
	"strconv"

	"github.com/majewsky/gg/option"
	"github.com/shopspring/decimal"
)

// CPUMetric holds the averages extracted from one CPU sampling log.
// At least one of BusyPercent and IdlePercent is set.
type CPUMetric struct {
	BusyPercent option.Option[float64]
	IdlePercent option.Option[float64]
	SampleCount option.Option[int]
}

const number = `([0-9]+(?:\.[0-9]+)?)`

// cpuMatcher is one entry of the ordered pattern cascade used by ParseCPULog.
type cpuMatcher struct {
	pattern *regexp.Regexp
	build   func(groups []string) CPUMetric
}

// cpuMatchers are tried in order, most specific first.
var cpuMatchers = []cpuMatcher{
	{
		// AVG busy (all cpus) = 11.75 % (avg idle=88.25%) over 1990 samples
		pattern: regexp.MustCompile(`(?is)AVG busy.*?=\s*` + number + `\s*%.*?avg idle\s*=\s*` + number + `\s*%.*?over\s*([0-9]+)\s*samples`),
		build: func(g []string) CPUMetric {
			return CPUMetric{
				BusyPercent: parseFloat(g[1]),
				IdlePercent: parseFloat(g[2]),
				SampleCount: parseInt(g[3]),
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(?is)AVG busy.*?=\s*` + number + `\s*%.*?over\s*([0-9]+)\s*samples`),
		build: func(g []string) CPUMetric {
			return CPUMetric{
				BusyPercent: parseFloat(g[1]),
				SampleCount: parseInt(g[2]),
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(?is)AVG busy.*?=\s*` + number + `\s*%`),
		build: func(g []string) CPUMetric {
			return CPUMetric{BusyPercent: parseFloat(g[1])}
		},
	},
	{
		// Only the idle figure is present: busy is derived and rounded to 2 decimals.
		pattern: regexp.MustCompile(`(?i)avg idle\s*=\s*` + number + `\s*%`),
		build: func(g []string) CPUMetric {
			idle := parseFloat(g[1])
			busy := option.None[float64]()
			if v, ok := idle.Unpack(); ok {
				busy = option.Some(BusyFromIdle(v))
			}
			return CPUMetric{BusyPercent: busy, IdlePercent: idle}
		},
	},
}

// ParseCPULog returns the first metric matched by the pattern cascade, or None when no
// pattern matches anywhere in text.
func ParseCPULog(text string) option.Option[CPUMetric] {
	for _, m := range cpuMatchers {
		groups := m.pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		metric := m.build(groups)
		if metric.BusyPercent.IsNone() && metric.IdlePercent.IsNone() {
			continue
		}
		return option.Some(metric)
	}
	return option.None[CPUMetric]()
}

// BusyFromIdle returns 100 - idle rounded to two decimals.
func BusyFromIdle(idle float64) float64 {
	busy, _ := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(idle)).Round(2).Float64()
	return busy
}

func parseFloat(s string) option.Option[float64] {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return option.None[float64]()
	}
	return option.Some(v)
}

func parseInt(s string) option.Option[int] {
	v, err := strconv.Atoi(s)
	if err != nil {
		return option.None[int]()
	}
	return option.Some(v)
}

package reporter

import (
	"github.com/majewsky/gg/option"

	"github.com/neehar-mavuduru/perfreport/collector"
	"github.com/neehar-mavuduru/perfreport/extractor"
)

// testRecord builds a run with both CPU roles and a load test. A zero concurrency is absent.
func testRecord(scenarioName, run string, concurrency int, rps float64) collector.RunRecord {
	rec := collector.RunRecord{
		Scenario:            scenarioName,
		ScenarioDescription: "desc of " + scenarioName,
		Run:                 run,
		SourcePath:          "/data/" + scenarioName + "/" + run,
		LoadTestFile:        "/data/" + scenarioName + "/" + run + "/wrk.txt",
		CPU: map[collector.Role]extractor.CPUMetric{
			collector.RoleIPS: {
				BusyPercent: option.Some(11.75),
				IdlePercent: option.Some(88.25),
				SampleCount: option.Some(1990),
			},
			collector.RoleWAF: {
				BusyPercent: option.Some(33.33),
				IdlePercent: option.Some(66.667),
			},
		},
		LoadTest: option.Some(extractor.LoadTestMetric{
			RequestsPerSecond: option.Some(rps),
			LatencyP50:        option.Some(0.06554),
			LatencyP90:        option.Some(0.84063),
			SocketErrors:      option.Some("connect 0, read 12, write 0, timeout 341"),
		}),
	}
	if concurrency > 0 {
		rec.Concurrency = option.Some(concurrency)
	}
	return rec
}

// bareRecord builds a run where nothing could be collected.
func bareRecord(scenarioName, run string) collector.RunRecord {
	return collector.RunRecord{
		Scenario:   scenarioName,
		Run:        run,
		SourcePath: "/data/" + scenarioName + "/" + run,
		CPU:        map[collector.Role]extractor.CPUMetric{},
	}
}

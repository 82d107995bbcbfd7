package collector

import (
	"github.com/majewsky/gg/option"

	"github.com/neehar-mavuduru/perfreport/extractor"
)

// Role identifies the machine a CPU log was sampled on.
type Role string

const (
	RoleIPS Role = "ips"
	RoleWAF Role = "waf"
)

// Roles lists the CPU roles in display order.
var Roles = []Role{RoleIPS, RoleWAF}

// RunRecord is one row of the result table: everything collected for one run of one scenario.
type RunRecord struct {
	Scenario            string
	ScenarioDescription string
	Run                 string
	Concurrency         option.Option[int]
	SourcePath          string
	CPU                 map[Role]extractor.CPUMetric
	LoadTest            option.Option[extractor.LoadTestMetric]
	LoadTestFile        string
}

// CPUFor returns the CPU metric of role, or the zero metric (all fields None).
func (r RunRecord) CPUFor(role Role) extractor.CPUMetric {
	return r.CPU[role]
}

// LoadTestOrEmpty returns the load test metric, or the zero metric (all fields None).
func (r RunRecord) LoadTestOrEmpty() extractor.LoadTestMetric {
	m, _ := r.LoadTest.Unpack()
	return m
}

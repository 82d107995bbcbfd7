package collector

import "slices"

// Config holds the file matching and concurrency detection tunables of a Collector.
type Config struct {
	// LoadTestExtensions lists the extensions accepted for wrk output files, lower case with dot.
	LoadTestExtensions []string

	// CanonicalConcurrency lists the client counts always accepted when found in a file name.
	CanonicalConcurrency []int

	// ConcurrencyThreshold accepts any file name number strictly greater than it.
	ConcurrencyThreshold int
}

// DefaultConfig returns the configuration matching the layout produced by the test bench scripts.
func DefaultConfig() Config {
	return Config{
		LoadTestExtensions:   []string{".txt", ".log", ".out"},
		CanonicalConcurrency: []int{50, 100, 200, 300, 500, 1000, 2000, 4000},
		ConcurrencyThreshold: 100,
	}
}

// Validate fills unset fields with their defaults.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if len(c.LoadTestExtensions) == 0 {
		c.LoadTestExtensions = def.LoadTestExtensions
	}
	if len(c.CanonicalConcurrency) == 0 {
		c.CanonicalConcurrency = def.CanonicalConcurrency
	}
	if c.ConcurrencyThreshold <= 0 {
		c.ConcurrencyThreshold = def.ConcurrencyThreshold
	}
	return nil
}

func (c Config) acceptsConcurrency(n int) bool {
	return slices.Contains(c.CanonicalConcurrency, n) || n > c.ConcurrencyThreshold
}

package publisher

import (
	"fmt"
	"time"
)

// Config holds the configuration for publishing a report to GCS
type Config struct {
	Bucket       string        // GCS bucket name (required)
	ObjectPrefix string        // Object prefix (e.g., "reports/bench1")
	MaxRetries   int           // Max retry attempts per file (default: 3)
	RetryDelay   time.Duration // Delay between retries (default: 5s)
	GRPCPoolSize int           // gRPC connection pool size (default: 4)
}

// DefaultConfig returns a publish configuration with defaults
func DefaultConfig(bucket string) Config {
	return Config{
		Bucket:       bucket,
		ObjectPrefix: "",
		MaxRetries:   3,
		RetryDelay:   5 * time.Second,
		GRPCPoolSize: 4,
	}
}

// Validate checks if the configuration is valid and applies defaults where needed
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket name is required")
	}

	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}

	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}

	if c.GRPCPoolSize <= 0 {
		c.GRPCPoolSize = 4
	}

	return nil
}

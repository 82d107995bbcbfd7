// Package config assembles the run configuration from the environment, optional .env files
// and command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/neehar-mavuduru/perfreport/publisher"
)

// DefaultOutputDirName is the output directory created under the root when none is given.
const DefaultOutputDirName = "analysis_output"

// ErrRootNotFound is returned by Validate when the experiment root does not exist.
var ErrRootNotFound = errors.New("root directory not found")

// GCSOptions configures the optional upload of the output directory.
type GCSOptions struct {
	Bucket     string        `env:"PERFREPORT_GCS_BUCKET"`
	Prefix     string        `env:"PERFREPORT_GCS_PREFIX"`
	Retries    int           `env:"PERFREPORT_GCS_RETRIES" envDefault:"3"`
	RetryDelay time.Duration `env:"PERFREPORT_GCS_RETRY_DELAY" envDefault:"5s"`
	PoolSize   int           `env:"PERFREPORT_GCS_POOL" envDefault:"4"`
}

type Config struct {
	// Root is the experiment tree, laid out as <root>/<scenario>/<run>/*.
	Root string

	OutputDir           string `env:"PERFREPORT_OUTPUT_DIR"`
	CatalogPath         string `env:"PERFREPORT_CATALOG"`
	LogLevel            string `env:"PERFREPORT_LOG_LEVEL" envDefault:"info"`
	LogJSON             bool   `env:"PERFREPORT_LOG_JSON" envDefault:"false"`
	MissingLimit        int    `env:"PERFREPORT_MISSING_LIMIT" envDefault:"50"`
	ConsoleMissingLimit int    `env:"PERFREPORT_CONSOLE_MISSING_LIMIT" envDefault:"30"`
	XLSX                bool   `env:"PERFREPORT_XLSX" envDefault:"true"`
	Metrics             bool   `env:"PERFREPORT_METRICS" envDefault:"true"`

	GCS GCSOptions
}

// DefaultConfig returns the configuration used when nothing is set in the environment.
func DefaultConfig(root string) Config {
	return Config{
		Root:                root,
		LogLevel:            "info",
		MissingLimit:        50,
		ConsoleMissingLimit: 30,
		XLSX:                true,
		Metrics:             true,
		GCS: GCSOptions{
			Retries:    3,
			RetryDelay: 5 * time.Second,
			PoolSize:   4,
		},
	}
}

// Load reads the configuration from the environment. The given .env files are loaded first
// when they exist; variables already set in the environment win over them.
func Load(root string, envFiles ...string) (Config, error) {
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Config{}, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := Config{Root: root}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the root and applies defaults where needed.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root directory is required")
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve root %s: %w", c.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	c.Root = root

	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.Root, DefaultOutputDirName)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if c.MissingLimit <= 0 {
		c.MissingLimit = 50
	}
	if c.ConsoleMissingLimit <= 0 {
		c.ConsoleMissingLimit = 30
	}

	return nil
}

// PublishConfig returns the upload configuration, or false when no bucket is configured.
func (c Config) PublishConfig() (publisher.Config, bool) {
	if c.GCS.Bucket == "" {
		return publisher.Config{}, false
	}
	pc := publisher.DefaultConfig(c.GCS.Bucket)
	pc.ObjectPrefix = c.GCS.Prefix
	pc.MaxRetries = c.GCS.Retries
	pc.RetryDelay = c.GCS.RetryDelay
	pc.GRPCPoolSize = c.GCS.PoolSize
	return pc, true
}

package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/perfreport/config"
	"github.com/neehar-mavuduru/perfreport/logging"
	"github.com/neehar-mavuduru/perfreport/publisher"
	"github.com/neehar-mavuduru/perfreport/reporter"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLogger(t *testing.T) *logrus.Logger {
	t.Helper()
	logger, err := logging.NewWithOutput(io.Discard, "debug", false)
	require.NoError(t, err)
	return logger
}

func testTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	run := filepath.Join(root, "INJ_WAF_WEB", "run1")
	writeFile(t, filepath.Join(run, "AVG_CPU_ips_500.txt"), "AVG busy (all cpus) = 11.75 % (avg idle=88.25%) over 1990 samples\n")
	writeFile(t, filepath.Join(run, "wrk_c500.txt"), "Running 30s test\n     50%   65.54ms\nRequests/sec: 523.40\n")
	return root
}

func validConfig(t *testing.T, root string) config.Config {
	t.Helper()
	cfg := config.DefaultConfig(root)
	require.NoError(t, cfg.Validate())
	return cfg
}

type fakePublisher struct {
	dirs   []string
	err    error
	closed bool
}

func (f *fakePublisher) PublishDir(_ context.Context, dir string) error {
	f.dirs = append(f.dirs, dir)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func stubPublisher(t *testing.T, fake *fakePublisher) {
	t.Helper()
	orig := newPublisher
	newPublisher = func(context.Context, publisher.Config, *logrus.Entry) (dirPublisher, error) {
		return fake, nil
	}
	t.Cleanup(func() { newPublisher = orig })
}

func TestRun(t *testing.T) {
	root := testTree(t)
	cfg := validConfig(t, root)

	res, err := Run(context.Background(), cfg, testLogger(t))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	t.Run("ArtifactsWritten", func(t *testing.T) {
		for _, name := range []string{
			reporter.CSVFile, reporter.XLSXFile, reporter.DocumentFile, reporter.MetricsFile, reporter.SummaryFile,
			"cpu_busy.png", "throughput.png", "latency_p50_p90.png", "combined_summary.png",
		} {
			assert.FileExists(t, filepath.Join(root, config.DefaultOutputDirName, name))
		}
		assert.Len(t, res.Artifacts, 9)
	})

	t.Run("TableRow", func(t *testing.T) {
		f, err := os.Open(filepath.Join(cfg.OutputDir, reporter.CSVFile))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)

		row := make(map[string]string)
		for i, c := range rows[0] {
			row[c] = rows[1][i]
		}
		assert.Equal(t, "INJ_WAF_WEB", row["scenario"])
		assert.Equal(t, "500", row["concurrency"])
		assert.Equal(t, "11.75", row["avg_busy_ips"])
		assert.Equal(t, "88.25", row["avg_idle_ips"])
		assert.Equal(t, "1990", row["samples_ips"])
		assert.Equal(t, "523.4", row["requests_per_sec"])
		assert.Equal(t, "0.06554", row["p50"])
	})

	t.Run("DocumentTable", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, reporter.DocumentFile))
		require.NoError(t, err)
		html := string(raw)
		assert.Contains(t, html, "<td>run1</td>")
		assert.Contains(t, html, "<td>11.75</td>")
		assert.Contains(t, html, "<td>523.4</td>")
		assert.Contains(t, html, "/AVG_CPU_waf_*.txt")
	})

	t.Run("MissingWafLogged", func(t *testing.T) {
		assert.Equal(t, 1, res.Missing.Len())
	})
}

func TestRun_Idempotent(t *testing.T) {
	root := testTree(t)
	cfg := validConfig(t, root)
	logger := testLogger(t)

	_, err := Run(context.Background(), cfg, logger)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(cfg.OutputDir, reporter.CSVFile))
	require.NoError(t, err)

	_, err = Run(context.Background(), cfg, logger)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(cfg.OutputDir, reporter.CSVFile))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_NoData(t *testing.T) {
	cfg := validConfig(t, t.TempDir())
	_, err := Run(context.Background(), cfg, testLogger(t))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_CustomOutputAndSwitches(t *testing.T) {
	root := testTree(t)
	cfg := config.DefaultConfig(root)
	cfg.OutputDir = filepath.Join(t.TempDir(), "custom")
	cfg.XLSX = false
	cfg.Metrics = false
	require.NoError(t, cfg.Validate())

	_, err := Run(context.Background(), cfg, testLogger(t))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, reporter.CSVFile))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, reporter.XLSXFile))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, reporter.MetricsFile))
}

func TestRun_BadCatalog(t *testing.T) {
	cfg := validConfig(t, testTree(t))
	cfg.CatalogPath = filepath.Join(t.TempDir(), "absent.yaml")
	_, err := Run(context.Background(), cfg, testLogger(t))
	assert.Error(t, err)
}

func TestRun_Publish(t *testing.T) {
	t.Run("PublishesOutputDirectory", func(t *testing.T) {
		fake := &fakePublisher{}
		stubPublisher(t, fake)

		cfg := validConfig(t, testTree(t))
		cfg.GCS.Bucket = "bench"
		_, err := Run(context.Background(), cfg, testLogger(t))
		require.NoError(t, err)

		assert.Equal(t, []string{cfg.OutputDir}, fake.dirs)
		assert.True(t, fake.closed)
	})

	t.Run("FailureAfterLocalArtifacts", func(t *testing.T) {
		fake := &fakePublisher{err: errors.New("unavailable")}
		stubPublisher(t, fake)

		cfg := validConfig(t, testTree(t))
		cfg.GCS.Bucket = "bench"
		_, err := Run(context.Background(), cfg, testLogger(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unavailable")
		assert.FileExists(t, filepath.Join(cfg.OutputDir, reporter.DocumentFile))
	})

	t.Run("NotConfigured", func(t *testing.T) {
		fake := &fakePublisher{}
		stubPublisher(t, fake)

		_, err := Run(context.Background(), validConfig(t, testTree(t)), testLogger(t))
		require.NoError(t, err)
		assert.Empty(t, fake.dirs)
	})
}

func TestRun_FixedClock(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	cfg := validConfig(t, testTree(t))
	_, err := Run(context.Background(), cfg, testLogger(t))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, reporter.SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2025-01-02T03:04:05Z")
}

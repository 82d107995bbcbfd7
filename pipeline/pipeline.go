// Package pipeline runs the collector and the reporter over one experiment tree and
// optionally publishes the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neehar-mavuduru/perfreport/collector"
	"github.com/neehar-mavuduru/perfreport/config"
	"github.com/neehar-mavuduru/perfreport/publisher"
	"github.com/neehar-mavuduru/perfreport/reporter"
	"github.com/neehar-mavuduru/perfreport/scenario"
)

// ErrNoData is returned when the walk found no run directory at all.
var ErrNoData = errors.New("no run data collected")

// dirPublisher is the part of publisher.Publisher used by Run.
type dirPublisher interface {
	PublishDir(ctx context.Context, dir string) error
	Close() error
}

var newPublisher = func(ctx context.Context, cfg publisher.Config, log *logrus.Entry) (dirPublisher, error) {
	return publisher.New(ctx, cfg, log)
}

// now is the clock used for report timestamps.
var now = time.Now

// Result describes what a run produced.
type Result struct {
	Records   []collector.RunRecord
	Missing   *collector.MissingFiles
	Charts    reporter.ChartSet
	Artifacts []string
}

// Run collects cfg.Root and writes every report artifact to cfg.OutputDir. cfg must have been
// validated. Chart failures are logged and tolerated; the CSV export failing or an empty tree
// stop the run. Other artifact and publish failures are returned together once everything
// else has been written.
func Run(ctx context.Context, cfg config.Config, logger *logrus.Logger) (Result, error) {
	log := logger.WithField("component", "pipeline")

	catalog := scenario.DefaultCatalog()
	if cfg.CatalogPath != "" {
		c, err := scenario.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return Result{}, err
		}
		catalog = c
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	coll, err := collector.New(collector.DefaultConfig(), catalog, logrus.NewEntry(logger))
	if err != nil {
		return Result{}, err
	}
	records, missing, err := coll.Walk(cfg.Root)
	if err != nil {
		return Result{}, err
	}
	res := Result{Records: records, Missing: missing}
	if len(records) == 0 {
		return res, fmt.Errorf("%w under %s", ErrNoData, cfg.Root)
	}

	out := func(name string) string { return filepath.Join(cfg.OutputDir, name) }
	artifact := func(path string) {
		res.Artifacts = append(res.Artifacts, path)
		log.WithField("path", path).Info("Artifact written")
	}

	if err := reporter.ExportCSV(records, out(reporter.CSVFile)); err != nil {
		return res, err
	}
	artifact(out(reporter.CSVFile))

	res.Charts = reporter.RenderCharts(records, cfg.OutputDir, reporter.DefaultStyle(), logger.WithField("component", "reporter"))
	for _, c := range reporter.Charts {
		if p, ok := res.Charts.Paths[c]; ok {
			res.Artifacts = append(res.Artifacts, p)
		}
	}

	generated := now()
	var errs []error
	step := func(path string, err error) {
		if err != nil {
			log.WithError(err).WithField("path", path).Error("Artifact failed")
			errs = append(errs, err)
			return
		}
		artifact(path)
	}

	step(out(reporter.DocumentFile), reporter.RenderDocument(records, missing, res.Charts, out(reporter.DocumentFile),
		reporter.DocumentOptions{MissingLimit: cfg.MissingLimit, Now: func() time.Time { return generated }}))
	if cfg.XLSX {
		step(out(reporter.XLSXFile), reporter.ExportXLSX(records, out(reporter.XLSXFile)))
	}
	if cfg.Metrics {
		step(out(reporter.MetricsFile), reporter.WriteMetrics(records, missing, out(reporter.MetricsFile)))
	}
	step(out(reporter.SummaryFile), reporter.WriteSummary(records, missing, out(reporter.SummaryFile), generated))

	if pc, ok := cfg.PublishConfig(); ok {
		if err := publish(ctx, pc, cfg.OutputDir, logger); err != nil {
			log.WithError(err).Error("Publish failed")
			errs = append(errs, err)
		}
	}

	return res, errors.Join(errs...)
}

func publish(ctx context.Context, pc publisher.Config, dir string, logger *logrus.Logger) error {
	p, err := newPublisher(ctx, pc, logger.WithField("bucket", pc.Bucket))
	if err != nil {
		return fmt.Errorf("failed to create publisher: %w", err)
	}
	defer p.Close()

	if err := p.PublishDir(ctx, dir); err != nil {
		return fmt.Errorf("failed to publish %s: %w", dir, err)
	}
	return nil
}

// Package publisher uploads a finished report directory to Google Cloud Storage.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// writerFunc opens a writer for one object. Closing the writer commits the object.
type writerFunc func(ctx context.Context, bucket, object string) io.WriteCloser

// Publisher copies the regular files of a directory to a bucket
type Publisher struct {
	config    Config
	client    *storage.Client
	newWriter writerFunc
	log       *logrus.Entry
	stats     Stats
}

// Stats tracks publish statistics
type Stats struct {
	TotalFiles int64
	Successful int64
	Failed     int64
	TotalBytes int64
}

// New creates a Publisher backed by a GCS client
func New(ctx context.Context, config Config, log *logrus.Entry) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create GCS client with gRPC pool
	client, err := storage.NewClient(ctx,
		option.WithGRPCConnectionPool(config.GRPCPoolSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	p := newPublisher(config, func(ctx context.Context, bucket, object string) io.WriteCloser {
		return client.Bucket(bucket).Object(object).NewWriter(ctx)
	}, log)
	p.client = client
	return p, nil
}

func newPublisher(config Config, w writerFunc, log *logrus.Entry) *Publisher {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Publisher{
		config:    config,
		newWriter: w,
		log:       log.WithField("component", "publisher"),
	}
}

// Close releases the storage client
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// GetStats returns the statistics of the uploads done so far
func (p *Publisher) GetStats() Stats {
	return p.stats
}

// PublishDir uploads every regular file of dir to <prefix>/<dir name>/<file>. A file that still
// fails after all retries does not stop the others; the failures are returned together.
func (p *Publisher) PublishDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	dirName := filepath.Base(filepath.Clean(dir))
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		filePath := filepath.Join(dir, e.Name())
		object := ObjectName(p.config.ObjectPrefix, dirName, e.Name())

		p.stats.TotalFiles++
		if err := p.uploadFileWithRetry(ctx, filePath, object); err != nil {
			p.log.WithError(err).WithField("path", filePath).Errorf("Failed to upload after %d retries", p.config.MaxRetries)
			p.stats.Failed++
			errs = append(errs, err)
			continue
		}
		p.stats.Successful++
	}

	p.log.WithFields(logrus.Fields{
		"bucket":     p.config.Bucket,
		"successful": p.stats.Successful,
		"failed":     p.stats.Failed,
	}).Info("Publish completed")

	return errors.Join(errs...)
}

// uploadFileWithRetry uploads a file with retry logic
func (p *Publisher) uploadFileWithRetry(ctx context.Context, filePath, object string) error {
	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Wait before retry
			select {
			case <-ctx.Done():
				return fmt.Errorf("publish of %s cancelled: %w", filePath, ctx.Err())
			case <-time.After(p.config.RetryDelay):
			}
		}

		n, err := p.uploadFile(ctx, filePath, object)
		if err == nil {
			p.stats.TotalBytes += n
			return nil
		}

		lastErr = err
		if attempt < p.config.MaxRetries {
			p.log.WithError(err).WithField("path", filePath).
				Warnf("Upload attempt %d/%d failed, retrying...", attempt+1, p.config.MaxRetries+1)
		}
	}

	return fmt.Errorf("upload of %s failed after %d attempts: %w", filePath, p.config.MaxRetries+1, lastErr)
}

// uploadFile streams one file into its object
func (p *Publisher) uploadFile(ctx context.Context, filePath, object string) (int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	w := p.newWriter(ctx, p.config.Bucket, object)
	n, err := io.Copy(w, file)
	if err != nil {
		w.Close()
		return 0, fmt.Errorf("failed to write object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize object %s: %w", object, err)
	}
	return n, nil
}

// ObjectName joins the object prefix, the report directory name and the file name
func ObjectName(prefix, dirName, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(dirName, fileName)
	}
	return path.Join(prefix, dirName, fileName)
}

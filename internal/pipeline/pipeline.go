package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"event-dataset-processor/internal/analyzer"
	"event-dataset-processor/internal/exporter"
	"event-dataset-processor/internal/features"
	"event-dataset-processor/internal/flatten"
	"event-dataset-processor/internal/loader"
	"event-dataset-processor/internal/metrics"
	"event-dataset-processor/internal/models"
)

// Stage names used in logs and metrics
const (
	StageLoad    = "load"
	StageFlatten = "flatten"
	StageAnalyze = "analyze"
	StageExtract = "extract"
	StageExport  = "export"
)

// Options configures a pipeline run
type Options struct {
	Extractor *features.Extractor

	Export     bool
	ExportPath string // empty selects a timestamped name in ExportDir
	ExportDir  string

	// Metrics may be nil
	Metrics *metrics.Metrics
	// Now defaults to time.Now
	Now func() time.Time
}

// Result is the immutable outcome of one run
type Result struct {
	Source   string
	Document *models.Document
	Rows     []models.Row
	// Analysis is nil for an empty dataset
	Analysis   *models.Analysis
	Summary    models.Summary
	Features   []models.FeatureRow
	ExportPath string
	Duration   time.Duration
	FinishedAt time.Time
}

// Run loads the dataset at path and processes it
func Run(path string, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	start := opts.Now()

	doc, err := timed(opts, StageLoad, func() (*models.Document, error) {
		return loader.Load(path)
	})
	if err != nil {
		opts.fail(StageLoad)
		return nil, err
	}

	res, err := Process(doc, opts)
	if res != nil {
		res.Source = path
		res.Duration = opts.Now().Sub(start)
	}
	return res, err
}

// Process runs every stage after loading. An empty dataset does not stop
// the run: analysis falls back to the guarded summary and export still
// happens. An export failure is returned together with the partial result.
func Process(doc *models.Document, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	if opts.Extractor == nil {
		ext, err := features.NewExtractor(features.DefaultVocabulary())
		if err != nil {
			return nil, err
		}
		opts.Extractor = ext
	}
	start := opts.Now()

	res := &Result{Document: doc}

	res.Rows, _ = timed(opts, StageFlatten, func() ([]models.Row, error) {
		return flatten.Flatten(doc.Entries), nil
	})
	logrus.WithFields(logrus.Fields{
		"entries": len(doc.Entries),
		"rows":    len(res.Rows),
	}).Debug("Dataset flattened")

	res.Summary = analyzer.Summarize(res.Rows)
	analysis, err := timed(opts, StageAnalyze, func() (*models.Analysis, error) {
		return analyzer.Analyze(res.Rows)
	})
	switch {
	case errors.Is(err, analyzer.ErrDivision):
		logrus.Warn("Dataset has no rows, using guarded summary")
	case err != nil:
		opts.fail(StageAnalyze)
		return nil, fmt.Errorf("failed to analyze dataset: %w", err)
	default:
		res.Analysis = analysis
	}

	res.Features, _ = timed(opts, StageExtract, func() ([]models.FeatureRow, error) {
		return opts.Extractor.Extract(res.Rows), nil
	})

	if m := opts.Metrics; m != nil {
		m.EntriesLoaded.Set(float64(len(doc.Entries)))
		m.RowsFlattened.Set(float64(len(res.Rows)))
		m.ApprovalRate.Set(res.Summary.ApprovalRate)
	}

	if opts.Export {
		path := opts.ExportPath
		if path == "" {
			path = exporter.DefaultPath(opts.ExportDir, opts.Now())
		}
		written, err := timed(opts, StageExport, func() (string, error) {
			return exporter.Export(res.Features, path)
		})
		if err != nil {
			opts.fail(StageExport)
			res.Duration = opts.Now().Sub(start)
			return res, err
		}
		res.ExportPath = written
		if opts.Metrics != nil {
			opts.Metrics.RowsExported.Add(float64(len(res.Features)))
		}
	}

	res.FinishedAt = opts.Now()
	res.Duration = res.FinishedAt.Sub(start)
	if m := opts.Metrics; m != nil {
		m.RunCount.Inc()
		m.LastSuccessRun.Set(float64(res.FinishedAt.Unix()))
	}

	logrus.WithFields(logrus.Fields{
		"rows":          res.Summary.Total,
		"approved":      res.Summary.Approved,
		"rejected":      res.Summary.Rejected,
		"approval_rate": res.Summary.ApprovalRate,
		"duration":      res.Duration,
	}).Info("Pipeline completed")

	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func (o Options) fail(stage string) {
	if o.Metrics != nil {
		o.Metrics.RunFailures.WithLabelValues(stage).Inc()
	}
}

// timed runs fn and records its duration under stage
func timed[T any](opts Options, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	if opts.Metrics != nil {
		opts.Metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
	return v, err
}

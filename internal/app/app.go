package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"event-dataset-processor/internal/config"
	"event-dataset-processor/internal/features"
	"event-dataset-processor/internal/handlers"
	"event-dataset-processor/internal/loader"
	"event-dataset-processor/internal/metrics"
	"event-dataset-processor/internal/pipeline"
	"event-dataset-processor/internal/reporter"
	"event-dataset-processor/internal/scheduler"
	"event-dataset-processor/internal/server"
)

// ErrUsage marks command line and configuration mistakes
var ErrUsage = errors.New("usage error")

// ExitCode maps a Run error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

// Run parses args, processes the dataset and prints the report to stdout
func Run(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("dataset-processor", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintln(stdout, "Usage: dataset-processor [flags] <dataset.json>")
		fs.PrintDefaults()
	}
	configFile := fs.StringP("config", "c", "", "Path to a YAML config file")
	fs.BoolP("export", "e", false, "Export features for ML training")
	fs.StringP("output", "o", "", "Training CSV path (default training_data_<timestamp>.csv)")
	fs.IntP("sample", "s", 3, "Number of sample examples to show")
	fs.Bool("serve", false, "Serve the report over HTTP and refresh it on a schedule")
	fs.String("log-level", "info", "Log level")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: expected exactly one dataset file, got %d", ErrUsage, fs.NArg())
	}
	datasetPath := fs.Arg(0)

	cfg, err := config.LoadConfig(*configFile, fs)
	if err != nil {
		return fmt.Errorf("%w: failed to load configuration: %v", ErrUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: configuration validation failed: %v", ErrUsage, err)
	}

	configureLogging(cfg.Log)

	extractor, err := features.NewExtractor(cfg.Vocabulary())
	if err != nil {
		return fmt.Errorf("%w: invalid feature vocabulary: %v", ErrUsage, err)
	}

	m := metrics.NewMetrics()
	opts := pipeline.Options{
		Extractor:  extractor,
		Export:     cfg.Export.Enabled,
		ExportPath: cfg.Export.Output,
		ExportDir:  cfg.Export.Dir,
		Metrics:    m,
	}

	res, runErr := pipeline.Run(datasetPath, opts)
	writeMetrics(cfg.Metrics, m)

	var loadErr *loader.LoadError
	if errors.As(runErr, &loadErr) {
		logrus.WithField("path", loadErr.Path).Errorf("Error loading dataset: %v", loadErr.Err)
		return runErr
	}
	if res == nil {
		logrus.Errorf("Pipeline failed: %v", runErr)
		return runErr
	}

	report(reporter.New(stdout, reporter.Options{
		SubjectWidth: cfg.Sample.SubjectWidth,
		BodyWidth:    cfg.Sample.BodyWidth,
	}), res, cfg)

	if runErr != nil {
		logrus.Errorf("Pipeline failed: %v", runErr)
		return runErr
	}

	if cfg.Server.Enabled {
		// scheduled refreshes only report; exports stay an explicit batch action
		opts.Export = false
		return serve(cfg, datasetPath, opts, m, res)
	}

	return nil
}

func configureLogging(cfg config.LogConfig) {
	if cfg.Format == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func report(r *reporter.Reporter, res *pipeline.Result, cfg *config.Config) {
	r.LoadBanner(res.Document)

	if res.Analysis != nil {
		r.Analysis(res.Analysis)
	} else {
		r.EmptyDataset(res.Summary)
	}

	r.Samples(res.Rows, cfg.Sample.Count)

	if cfg.Export.Enabled {
		r.Features(res.Features)
		if res.ExportPath != "" {
			r.Exported(res.ExportPath)
		}
	}
}

func writeMetrics(cfg config.MetricsConfig, m *metrics.Metrics) {
	if cfg.Textfile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.Textfile); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	}
}

// serve runs the report server until SIGINT or SIGTERM. The batch result
// is the first snapshot; the scheduler only reloads on its cron ticks.
func serve(cfg *config.Config, datasetPath string, opts pipeline.Options, m *metrics.Metrics, initial *pipeline.Result) error {
	sched := scheduler.NewScheduler(cfg.Scheduler.Cron, func() (*pipeline.Result, error) {
		res, err := pipeline.Run(datasetPath, opts)
		writeMetrics(cfg.Metrics, m)
		return res, err
	}, scheduler.WithInitial(initial))
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	h := handlers.NewHandlers(sched, m)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.SetupRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		logrus.Errorf("HTTP server error: %v", serveErr)
	}

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop scheduler: %v", err)
	}
	sched.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return serveErr
}

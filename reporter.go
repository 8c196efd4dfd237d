// Package reporter aggregates test results from a run and generates one
// JUnit-compatible XML report per suite.
package reporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/infra-tools/ci-reporter/collector"
	"github.com/infra-tools/ci-reporter/driver"
	"github.com/infra-tools/ci-reporter/hooks"
	"github.com/infra-tools/ci-reporter/metrics"
	"github.com/infra-tools/ci-reporter/reporting"
	"github.com/infra-tools/ci-reporter/types"
)

// Reporter consumes one test run's event stream and turns it into reports.
type Reporter struct {
	config *Config
	runID  string
	hooks  *hooks.RunHooks

	col collector.ResultCollector
}

// New creates a Reporter for a single run.
func New(config *Config) (*Reporter, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Log == nil {
		config.Log = log.New()
	}

	config.Log.Debug("Creating reporter with config",
		"input", config.Input,
		"outputDir", config.OutputDir,
		"withReports", config.WithReports,
		"summary", config.Summary)

	return &Reporter{
		config: config,
		runID:  uuid.New().String(),
	}, nil
}

// WithHooks installs lifecycle hooks fired around the run.
func (r *Reporter) WithHooks(h *hooks.RunHooks) *Reporter {
	r.hooks = h
	return r
}

// RunID returns this run's identifier.
func (r *Reporter) RunID() string {
	return r.runID
}

// Run consumes the event stream, prints the console summary, generates
// reports when enabled, and returns a TestFailureError if any test failed
// or errored. Runtime problems (unreadable stream, protocol violations,
// report directory failures) come back as RuntimeError.
func (r *Reporter) Run(input io.Reader) error {
	logger := r.config.Log
	logger.Info("Consuming test event stream", "run_id", r.runID)

	drv := driver.New(driver.Config{
		Log:            logger,
		SuiteOverrides: r.config.SuiteOverrides,
		Hooks:          r.hooks,
	})
	if err := drv.Run(input); err != nil {
		logger.Error("Runtime error consuming event stream", "error", err)
		metrics.RecordErrorDetails("driver", err)
		return NewRuntimeError(err)
	}
	r.col = drv.Collector()

	records := r.col.Records()
	stats := types.StatsForRecords(records)
	for _, record := range records {
		metrics.RecordTest(r.runID, record.Identity.ReportSuiteName(), record.Outcome.Status)
	}
	metrics.RecordRun(r.runID, stats.Tests, stats.Failures, stats.Errors, stats.Elapsed)

	r.printResultsTable()

	if r.config.WithReports {
		if err := r.Generate(); err != nil {
			return err
		}
	} else {
		logger.Info("Report generation disabled, skipping")
	}

	logger.Info("Run completed",
		"run_id", r.runID,
		"tests", stats.Tests,
		"failures", stats.Failures,
		"errors", stats.Errors)

	if stats.Failures+stats.Errors > 0 {
		return NewTestFailureError(fmt.Sprintf("%d of %d tests failed or errored",
			stats.Failures+stats.Errors, stats.Tests))
	}
	return nil
}

// Generate writes all suite reports from the collector's final state into
// the configured output directory. Already-written reports survive a later
// suite's failure; only directory creation aborts the whole operation.
func (r *Reporter) Generate() error {
	if r.col == nil {
		return NewRuntimeError(errors.New("no collected results to generate reports from"))
	}
	logger := r.config.Log

	grouped := r.col.RecordsBySuite()
	err := reporting.WriteReports(grouped, r.config.OutputDir, logger)

	written, failed := reportCounts(len(grouped), err)
	for i := 0; i < written; i++ {
		metrics.RecordReportWritten(r.runID)
	}
	for i := 0; i < failed; i++ {
		metrics.RecordReportFailed(r.runID)
	}
	if err != nil {
		metrics.RecordErrorDetails("generate", err)
		return NewRuntimeError(err)
	}

	if r.config.Summary {
		sink := reporting.NewTextSummarySink(r.config.OutputDir, logger)
		for _, record := range r.col.Records() {
			if err := sink.Consume(record); err != nil {
				return NewRuntimeError(err)
			}
		}
		if err := sink.Complete(); err != nil {
			metrics.RecordErrorDetails("summary", err)
			return NewRuntimeError(err)
		}
	}

	logger.Info("Reports generated", "dir", r.config.OutputDir, "suites", len(grouped))
	return nil
}

// reportCounts unpacks the aggregate error from WriteReports into written
// and failed suite counts. A directory-level failure means nothing was
// written; per-suite failures come back joined.
func reportCounts(total int, err error) (written, failed int) {
	if err == nil {
		return total, 0
	}
	var fsErr *reporting.FilesystemError
	if errors.As(err, &fsErr) && fsErr.Suite == "" {
		return 0, total
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		failed = len(joined.Unwrap())
		return total - failed, failed
	}
	return total - 1, 1
}

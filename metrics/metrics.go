package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/infra-tools/ci-reporter/types"
)

const (
	MetricsNamespace = "cireporter"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of collected test records",
	}, []string{
		"run_id",
		"suite",
		"status",
	})

	runTests = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_tests",
		Help:      "Number of tests in a run",
	}, []string{
		"run_id",
	})

	runFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_failures",
		Help:      "Number of failing tests in a run",
	}, []string{
		"run_id",
	})

	runErrors = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_errors",
		Help:      "Number of errored tests in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Total elapsed test time of a run",
	}, []string{
		"run_id",
	})

	reportsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "reports_written_total",
		Help:      "Count of suite report files written",
	}, []string{
		"run_id",
	})

	reportsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "reports_failed_total",
		Help:      "Count of suite report files that failed to write",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordTest counts one collected test record.
func RecordTest(runID string, suite string, status types.TestStatus) {
	if Debug {
		log.Debug("metric inc",
			"m", "tests_total",
			"run_id", runID,
			"suite", suite,
			"status", status)
	}
	testsTotal.WithLabelValues(runID, suite, string(status)).Inc()
}

// RecordRun records a finished run's aggregate stats.
func RecordRun(runID string, tests int, failures int, errs int, elapsed time.Duration) {
	runTests.WithLabelValues(runID).Set(float64(tests))
	runFailures.WithLabelValues(runID).Set(float64(failures))
	runErrors.WithLabelValues(runID).Set(float64(errs))
	runDuration.WithLabelValues(runID).Set(elapsed.Seconds())
}

// RecordReportWritten counts one suite report file successfully written.
func RecordReportWritten(runID string) {
	reportsWritten.WithLabelValues(runID).Inc()
}

// RecordReportFailed counts one suite report file that failed to write.
func RecordReportFailed(runID string) {
	reportsFailed.WithLabelValues(runID).Inc()
}

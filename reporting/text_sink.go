package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/infra-tools/ci-reporter/junitxml"
	"github.com/infra-tools/ci-reporter/types"
)

var _ ResultSink = (*TextSummarySink)(nil)

// TextSummarySink writes a plain-text per-suite summary alongside the XML
// reports, for humans scanning a CI workspace without an XML viewer.
type TextSummarySink struct {
	outputDir string
	logger    log.Logger
	records   []types.TestRecord
}

// NewTextSummarySink creates a new text summary sink.
func NewTextSummarySink(outputDir string, logger log.Logger) *TextSummarySink {
	if logger == nil {
		logger = log.New()
	}
	return &TextSummarySink{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Consume collects a test record for the summary.
func (s *TextSummarySink) Consume(record types.TestRecord) error {
	s.records = append(s.records, record)
	return nil
}

// Complete writes summary.log into the output directory.
func (s *TextSummarySink) Complete() error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return &FilesystemError{Path: s.outputDir, Err: err}
	}

	grouped := make(map[string][]types.TestRecord)
	for _, r := range s.records {
		suite := r.Identity.ReportSuiteName()
		grouped[suite] = append(grouped[suite], r)
	}

	suites := make([]string, 0, len(grouped))
	for name := range grouped {
		suites = append(suites, name)
	}
	sort.Strings(suites)

	var b strings.Builder
	var total types.SuiteStats
	for _, suite := range suites {
		stats := types.StatsForRecords(grouped[suite])
		fmt.Fprintf(&b, "%s: %d tests, %d failures, %d errors in %ss\n",
			suite, stats.Tests, stats.Failures, stats.Errors, junitxml.FormatSeconds(stats.Elapsed))
		for _, r := range grouped[suite] {
			marker := "PASS"
			switch r.Outcome.Status {
			case types.TestStatusFail:
				marker = "FAIL"
			case types.TestStatusError:
				marker = "ERROR"
			}
			fmt.Fprintf(&b, "  [%s] %s (%ss)\n", marker, r.Identity.MethodName, junitxml.FormatSeconds(r.Elapsed))
		}
		total.Tests += stats.Tests
		total.Failures += stats.Failures
		total.Errors += stats.Errors
		total.Elapsed += stats.Elapsed
	}
	fmt.Fprintf(&b, "total: %d tests, %d failures, %d errors in %ss\n",
		total.Tests, total.Failures, total.Errors, junitxml.FormatSeconds(total.Elapsed))

	summaryFile := filepath.Join(s.outputDir, "summary.log")
	if err := os.WriteFile(summaryFile, []byte(b.String()), 0644); err != nil {
		return &FilesystemError{Path: summaryFile, Err: err}
	}

	s.logger.Debug("Wrote text summary", "file", summaryFile, "suites", len(suites))
	return nil
}

package reporting

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/infra-tools/ci-reporter/junitxml"
	"github.com/infra-tools/ci-reporter/types"
)

var _ ResultSink = (*XMLSink)(nil)

// XMLSink writes one JUnit-compatible XML report per suite into the
// configured output directory, named TEST-<suite>.xml.
type XMLSink struct {
	outputDir string
	logger    log.Logger
	records   []types.TestRecord
}

// NewXMLSink creates a new XML report sink.
func NewXMLSink(outputDir string, logger log.Logger) *XMLSink {
	if logger == nil {
		logger = log.New()
	}
	return &XMLSink{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Consume collects a test record for report generation.
func (s *XMLSink) Consume(record types.TestRecord) error {
	s.records = append(s.records, record)
	return nil
}

// Complete groups the collected records by suite and writes all reports.
func (s *XMLSink) Complete() error {
	grouped := make(map[string][]types.TestRecord)
	for _, r := range s.records {
		suite := r.Identity.ReportSuiteName()
		grouped[suite] = append(grouped[suite], r)
	}
	return WriteReports(grouped, s.outputDir, s.logger)
}

// WriteReports writes one TEST-<suite>.xml file per suite into outputDir,
// creating the directory if needed. Directory creation failure is fatal to
// the whole call; a failure writing one suite's report does not prevent the
// remaining suites' reports from being written, and reports already written
// are left intact. The returned error identifies every suite that failed.
func WriteReports(recordsBySuite map[string][]types.TestRecord, outputDir string, logger log.Logger) error {
	if logger == nil {
		logger = log.New()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return &FilesystemError{Path: outputDir, Err: err}
	}

	// Deterministic order so failures aggregate stably.
	suites := make([]string, 0, len(recordsBySuite))
	for name := range recordsBySuite {
		suites = append(suites, name)
	}
	sort.Strings(suites)

	var errs []error
	for _, suite := range suites {
		if err := writeSuiteReport(suite, recordsBySuite[suite], outputDir); err != nil {
			logger.Error("Failed to write suite report", "suite", suite, "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Wrote suite report", "suite", suite, "tests", len(recordsBySuite[suite]))
	}
	return errors.Join(errs...)
}

// writeSuiteReport serializes one suite document and writes it atomically:
// the document goes to a temp file in the same directory which is renamed
// over the target, so a prior report is never left half-overwritten.
func writeSuiteReport(suite string, records []types.TestRecord, outputDir string) error {
	doc := junitxml.NewTestsuite(suite, records)
	content, err := doc.Serialize()
	if err != nil {
		return &FilesystemError{Suite: suite, Path: outputDir, Err: err}
	}

	target := filepath.Join(outputDir, ReportFilename(suite))

	tmp, err := os.CreateTemp(outputDir, "TEST-*.xml.tmp")
	if err != nil {
		return &FilesystemError{Suite: suite, Path: target, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &FilesystemError{Suite: suite, Path: target, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &FilesystemError{Suite: suite, Path: target, Err: err}
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return &FilesystemError{Suite: suite, Path: target, Err: err}
	}
	return nil
}

// ReportFilename returns the output filename for a suite. Path separators
// in the suite name are flattened so a Go-style import path still forms a
// single file inside the output directory; the report's name attribute
// keeps the original suite name.
func ReportFilename(suite string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "\x00", "_").Replace(suite)
	return "TEST-" + safe + ".xml"
}

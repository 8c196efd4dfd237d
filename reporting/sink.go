// Package reporting turns a finished run's records into on-disk reports.
package reporting

import "github.com/infra-tools/ci-reporter/types"

// ResultSink is an interface for different ways of consuming test records.
// A sink accumulates records during Consume calls and materializes its
// output when Complete is called, once, after the run has finished.
type ResultSink interface {
	// Consume processes a single test record.
	Consume(record types.TestRecord) error
	// Complete is called when all records have been consumed.
	Complete() error
}

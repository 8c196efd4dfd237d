package types

import (
	"fmt"
	"time"
)

// TestStatus represents the possible outcomes of a test execution
type TestStatus string

const (
	TestStatusPass  TestStatus = "pass"
	TestStatusFail  TestStatus = "fail"
	TestStatusError TestStatus = "error"
)

// TestIdentity uniquely identifies one executed test within a run.
// SuiteName is derived from the test's owning package; MethodName is the
// test function name. It is comparable and used directly as a map key.
type TestIdentity struct {
	SuiteName  string
	MethodName string
}

// String returns the canonical "suite.method" form, or just the method
// name when the suite was omitted for entry-package tests.
func (id TestIdentity) String() string {
	if id.SuiteName == "" {
		return id.MethodName
	}
	return fmt.Sprintf("%s.%s", id.SuiteName, id.MethodName)
}

// TestOutcome captures how a test finished. Type, Message and Details are
// only populated for fail and error outcomes; Details holds the full
// formatted diagnostic text (trace, captured output).
type TestOutcome struct {
	Status  TestStatus
	Type    string // exception/assertion class name, e.g. "ZeroDivisionError"
	Message string // one-line description
	Details string // full trace text, embedded as CDATA in reports
}

// Success returns a passing outcome.
func Success() TestOutcome {
	return TestOutcome{Status: TestStatusPass}
}

// Failure returns an assertion-style failing outcome.
func Failure(errType, message, details string) TestOutcome {
	return TestOutcome{Status: TestStatusFail, Type: errType, Message: message, Details: details}
}

// Error returns an unexpected-exception outcome.
func Error(errType, message, details string) TestOutcome {
	return TestOutcome{Status: TestStatusError, Type: errType, Message: message, Details: details}
}

// ReportSuiteName returns the grouping key used for report generation:
// the suite name, or the method name alone when the suite was omitted for
// entry-package tests.
func (id TestIdentity) ReportSuiteName() string {
	if id.SuiteName == "" {
		return id.MethodName
	}
	return id.SuiteName
}

// TestRecord is the immutable result of one test execution. Records are
// owned by the collector for the lifetime of a run and never mutated after
// the test finishes.
type TestRecord struct {
	Identity TestIdentity
	Outcome  TestOutcome
	Elapsed  time.Duration
}

// ElapsedSeconds returns the elapsed time as seconds for report formatting.
func (r TestRecord) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// entryPackages are package identifiers that test2json reports for tests
// compiled from the entry module itself; their names carry no grouping
// information, so the suite name is omitted.
var entryPackages = map[string]bool{
	"main":                   true,
	"command-line-arguments": true,
}

// SuiteNameForPackage derives the suite grouping key for a test declared in
// the given package. Entry-module packages collapse to an empty suite name,
// leaving the method name as the full identity.
func SuiteNameForPackage(pkg string) string {
	if entryPackages[pkg] {
		return ""
	}
	return pkg
}

// NewIdentity builds a TestIdentity from a package path and test function
// name, applying the entry-package rule.
func NewIdentity(pkg, method string) TestIdentity {
	return TestIdentity{
		SuiteName:  SuiteNameForPackage(pkg),
		MethodName: method,
	}
}

// SuiteStats aggregates the per-variant counts and total elapsed time for
// one suite's records.
type SuiteStats struct {
	Tests    int
	Failures int
	Errors   int
	Elapsed  time.Duration
}

// StatsForRecords computes SuiteStats over a slice of records.
func StatsForRecords(records []TestRecord) SuiteStats {
	var stats SuiteStats
	for _, r := range records {
		stats.Tests++
		stats.Elapsed += r.Elapsed
		switch r.Outcome.Status {
		case TestStatusFail:
			stats.Failures++
		case TestStatusError:
			stats.Errors++
		}
	}
	return stats
}

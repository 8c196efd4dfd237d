// Package junitxml builds and serializes JUnit-compatible XML test reports.
package junitxml

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/infra-tools/ci-reporter/types"
)

// Testsuite is the root element of one suite report.
type Testsuite struct {
	XMLName  xml.Name `xml:"testsuite"`
	Name     string   `xml:"name,attr"`
	Tests    int      `xml:"tests,attr"`
	Failures int      `xml:"failures,attr"`
	Errors   int      `xml:"errors,attr"`
	Time     string   `xml:"time,attr"`

	Testcases []Testcase `xml:"testcase"`
}

// Testcase is one executed test within a suite. At most one of Failure or
// Error is set; both are nil for passing tests.
type Testcase struct {
	Classname string   `xml:"classname,attr"`
	Name      string   `xml:"name,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *Problem `xml:"failure,omitempty"`
	Error     *Problem `xml:"error,omitempty"`
}

// Problem carries the diagnostic payload of a failure or error element.
// Body holds pre-escaped CDATA and is emitted verbatim.
type Problem struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Body    string `xml:",innerxml"`
}

// FormatSeconds renders a duration as seconds with exactly three decimal
// places, as required by CI tools consuming the time attributes.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// NewTestsuite builds the document model for one suite from its records.
// The suite time attribute is the sum of the raw elapsed values, rounded
// once at format time so per-test rounding error does not compound.
func NewTestsuite(name string, records []types.TestRecord) *Testsuite {
	stats := types.StatsForRecords(records)

	suite := &Testsuite{
		Name:      name,
		Tests:     stats.Tests,
		Failures:  stats.Failures,
		Errors:    stats.Errors,
		Time:      FormatSeconds(stats.Elapsed),
		Testcases: make([]Testcase, 0, len(records)),
	}

	for _, record := range records {
		tc := Testcase{
			Classname: name,
			Name:      record.Identity.MethodName,
			Time:      FormatSeconds(record.Elapsed),
		}

		switch record.Outcome.Status {
		case types.TestStatusFail:
			tc.Failure = newProblem(record.Outcome)
		case types.TestStatusError:
			tc.Error = newProblem(record.Outcome)
		}

		suite.Testcases = append(suite.Testcases, tc)
	}

	return suite
}

func newProblem(outcome types.TestOutcome) *Problem {
	return &Problem{
		Type:    outcome.Type,
		Message: outcome.Message,
		Body:    EscapeCDATA(outcome.Details),
	}
}

// Serialize renders the document as UTF-8 XML with a declaration and
// tab indentation.
func (s *Testsuite) Serialize() ([]byte, error) {
	body, err := xml.MarshalIndent(s, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal testsuite %q: %w", s.Name, err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

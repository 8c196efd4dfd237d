package junitxml

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-tools/ci-reporter/types"
)

// parsed mirrors the report schema for decoding serialized documents.
type parsedSuite struct {
	XMLName   xml.Name     `xml:"testsuite"`
	Name      string       `xml:"name,attr"`
	Tests     int          `xml:"tests,attr"`
	Failures  int          `xml:"failures,attr"`
	Errors    int          `xml:"errors,attr"`
	Time      string       `xml:"time,attr"`
	Testcases []parsedCase `xml:"testcase"`
}

type parsedCase struct {
	Classname string         `xml:"classname,attr"`
	Name      string         `xml:"name,attr"`
	Time      string         `xml:"time,attr"`
	Failure   *parsedProblem `xml:"failure"`
	Error     *parsedProblem `xml:"error"`
}

type parsedProblem struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

func record(suite, method string, outcome types.TestOutcome, elapsed time.Duration) types.TestRecord {
	return types.TestRecord{
		Identity: types.TestIdentity{SuiteName: suite, MethodName: method},
		Outcome:  outcome,
		Elapsed:  elapsed,
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.000"},
		{12 * time.Millisecond, "0.012"},
		{1500 * time.Millisecond, "1.500"},
		{1*time.Second + 2345*time.Microsecond, "1.002"},
		{1234567 * time.Microsecond, "1.235"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.d))
	}
}

func TestNewTestsuiteAttributes(t *testing.T) {
	records := []types.TestRecord{
		record("pkg.MathTests", "test_add", types.Success(), 12*time.Millisecond),
		record("pkg.MathTests", "test_div",
			types.Error("ZeroDivisionError", "division by zero", "Traceback...\n]]>tail"),
			4*time.Millisecond),
	}

	suite := NewTestsuite("pkg.MathTests", records)
	assert.Equal(t, "pkg.MathTests", suite.Name)
	assert.Equal(t, 2, suite.Tests)
	assert.Equal(t, 0, suite.Failures)
	assert.Equal(t, 1, suite.Errors)
	assert.Equal(t, "0.016", suite.Time)
	require.Len(t, suite.Testcases, 2)

	// Success adds no child element.
	assert.Nil(t, suite.Testcases[0].Failure)
	assert.Nil(t, suite.Testcases[0].Error)
	assert.Equal(t, "0.012", suite.Testcases[0].Time)

	require.NotNil(t, suite.Testcases[1].Error)
	assert.Nil(t, suite.Testcases[1].Failure)
	assert.Equal(t, "ZeroDivisionError", suite.Testcases[1].Error.Type)
	assert.Equal(t, "division by zero", suite.Testcases[1].Error.Message)
}

func TestSuiteTimeSumThenRound(t *testing.T) {
	// Three tests at 1.6ms each: per-test rounding would give 0.002*3=0.006,
	// summing first gives 0.005.
	records := []types.TestRecord{
		record("s", "a", types.Success(), 1600*time.Microsecond),
		record("s", "b", types.Success(), 1600*time.Microsecond),
		record("s", "c", types.Success(), 1600*time.Microsecond),
	}

	suite := NewTestsuite("s", records)
	assert.Equal(t, "0.005", suite.Time)
}

func TestSerializeDocumentShape(t *testing.T) {
	records := []types.TestRecord{
		record("pkg.MathTests", "test_add", types.Success(), 12*time.Millisecond),
		record("pkg.MathTests", "test_div",
			types.Error("ZeroDivisionError", "division by zero", "Traceback...\n]]>tail"),
			4*time.Millisecond),
	}

	content, err := NewTestsuite("pkg.MathTests", records).Serialize()
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "<?xml version="), "missing XML declaration")
	assert.Contains(t, text, "\n\t<testcase", "expected tab indentation")
	assert.Contains(t, text, `<error type="ZeroDivisionError" message="division by zero">`)
	assert.NotContains(t, text, "<failure")

	var parsed parsedSuite
	require.NoError(t, xml.Unmarshal(content, &parsed))
	assert.Equal(t, "pkg.MathTests", parsed.Name)
	assert.Equal(t, 2, parsed.Tests)
	assert.Equal(t, "0.016", parsed.Time)
	require.Len(t, parsed.Testcases, 2)

	assert.Nil(t, parsed.Testcases[0].Failure)
	assert.Nil(t, parsed.Testcases[0].Error)

	require.NotNil(t, parsed.Testcases[1].Error)
	// CDATA escaping reassembles the original details exactly, including
	// the embedded terminator sequence.
	assert.Equal(t, "Traceback...\n]]>tail", parsed.Testcases[1].Error.Body)
}

func TestSerializeFailureElement(t *testing.T) {
	records := []types.TestRecord{
		record("pkg.StrTests", "test_split",
			types.Failure("AssertionError", "lists differ", "--- expected\n+++ actual"),
			7*time.Millisecond),
	}

	content, err := NewTestsuite("pkg.StrTests", records).Serialize()
	require.NoError(t, err)

	var parsed parsedSuite
	require.NoError(t, xml.Unmarshal(content, &parsed))
	require.Len(t, parsed.Testcases, 1)
	require.NotNil(t, parsed.Testcases[0].Failure)
	assert.Nil(t, parsed.Testcases[0].Error)
	assert.Equal(t, "AssertionError", parsed.Testcases[0].Failure.Type)
	assert.Equal(t, "lists differ", parsed.Testcases[0].Failure.Message)
	assert.Equal(t, "--- expected\n+++ actual", parsed.Testcases[0].Failure.Body)
	assert.Equal(t, 1, parsed.Failures)
	assert.Equal(t, 0, parsed.Errors)
}

func TestSerializeEscapesAttributes(t *testing.T) {
	records := []types.TestRecord{
		record("pkg", "test_msg",
			types.Failure("AssertionError", `expected "<a>" & got "<b>"`, ""),
			time.Millisecond),
	}

	content, err := NewTestsuite("pkg", records).Serialize()
	require.NoError(t, err)

	var parsed parsedSuite
	require.NoError(t, xml.Unmarshal(content, &parsed))
	require.Len(t, parsed.Testcases, 1)
	require.NotNil(t, parsed.Testcases[0].Failure)
	assert.Equal(t, `expected "<a>" & got "<b>"`, parsed.Testcases[0].Failure.Message)
}

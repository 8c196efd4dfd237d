package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-tools/ci-reporter/types"
)

// fakeClock is advanced manually so elapsed times are deterministic.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func runTest(t *testing.T, col ResultCollector, clock *fakeClock, id types.TestIdentity, d time.Duration, outcome types.TestOutcome) {
	t.Helper()
	col.OnTestStart(id)
	clock.advance(d)
	require.NoError(t, col.OnTestStop(id))
	switch outcome.Status {
	case types.TestStatusPass:
		col.OnTestSuccess(id)
	case types.TestStatusFail:
		col.OnTestFailure(id, outcome)
	case types.TestStatusError:
		col.OnTestError(id, outcome)
	}
}

func TestCollectorRecordsElapsedTime(t *testing.T) {
	clock := newFakeClock()
	col := NewResultCollectorWithClock(nil, clock.now)

	id := types.NewIdentity("github.com/example/pkg", "TestAdd")
	runTest(t, col, clock, id, 12*time.Millisecond, types.Success())

	records := col.Records()
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].Identity)
	assert.Equal(t, 12*time.Millisecond, records[0].Elapsed)
	assert.Equal(t, types.TestStatusPass, records[0].Outcome.Status)
}

func TestCollectorStopWithoutStart(t *testing.T) {
	col := NewResultCollector(nil)

	err := col.OnTestStop(types.NewIdentity("github.com/example/pkg", "TestNeverStarted"))
	require.Error(t, err)
	assert.True(t, IsProtocolViolation(err))
	assert.Contains(t, err.Error(), "TestNeverStarted")
}

func TestCollectorOutcomeWithoutStopDefaultsToZeroElapsed(t *testing.T) {
	col := NewResultCollector(nil)

	id := types.NewIdentity("github.com/example/pkg", "TestNoStop")
	col.OnTestStart(id)
	col.OnTestSuccess(id)

	records := col.Records()
	require.Len(t, records, 1)
	assert.Equal(t, time.Duration(0), records[0].Elapsed)
}

func TestCollectorGroupsBySuitePreservingOrder(t *testing.T) {
	clock := newFakeClock()
	col := NewResultCollectorWithClock(nil, clock.now)

	mathA := types.NewIdentity("pkg/math", "TestAdd")
	strA := types.NewIdentity("pkg/strings", "TestSplit")
	mathB := types.NewIdentity("pkg/math", "TestDiv")
	strB := types.NewIdentity("pkg/strings", "TestJoin")

	runTest(t, col, clock, mathA, time.Millisecond, types.Success())
	runTest(t, col, clock, strA, time.Millisecond, types.Success())
	runTest(t, col, clock, mathB, time.Millisecond, types.Failure("failure", "boom", ""))
	runTest(t, col, clock, strB, time.Millisecond, types.Success())

	grouped := col.RecordsBySuite()
	require.Len(t, grouped, 2)

	mathRecords := grouped["pkg/math"]
	require.Len(t, mathRecords, 2)
	assert.Equal(t, "TestAdd", mathRecords[0].Identity.MethodName)
	assert.Equal(t, "TestDiv", mathRecords[1].Identity.MethodName)

	strRecords := grouped["pkg/strings"]
	require.Len(t, strRecords, 2)
	assert.Equal(t, "TestSplit", strRecords[0].Identity.MethodName)
	assert.Equal(t, "TestJoin", strRecords[1].Identity.MethodName)

	// No record lost or duplicated across the partition.
	assert.Equal(t, 4, len(mathRecords)+len(strRecords))
	assert.Equal(t, []string{"pkg/math", "pkg/strings"}, col.SuiteNames())
}

func TestCollectorRerunAppendsIndependentRecords(t *testing.T) {
	clock := newFakeClock()
	col := NewResultCollectorWithClock(nil, clock.now)

	id := types.NewIdentity("pkg/math", "TestFlaky")
	runTest(t, col, clock, id, 5*time.Millisecond, types.Failure("failure", "first run", ""))
	runTest(t, col, clock, id, 3*time.Millisecond, types.Success())

	records := col.Records()
	require.Len(t, records, 2)
	assert.Equal(t, types.TestStatusFail, records[0].Outcome.Status)
	assert.Equal(t, 5*time.Millisecond, records[0].Elapsed)
	assert.Equal(t, types.TestStatusPass, records[1].Outcome.Status)
	assert.Equal(t, 3*time.Millisecond, records[1].Elapsed)
}

func TestCollectorRestartOverwritesStartTime(t *testing.T) {
	clock := newFakeClock()
	col := NewResultCollectorWithClock(nil, clock.now)

	id := types.NewIdentity("pkg/math", "TestRestarted")
	col.OnTestStart(id)
	clock.advance(time.Hour)
	col.OnTestStart(id)
	clock.advance(2 * time.Millisecond)
	require.NoError(t, col.OnTestStop(id))
	col.OnTestSuccess(id)

	records := col.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 2*time.Millisecond, records[0].Elapsed)
}

func TestCollectorOutcomeStatusNormalized(t *testing.T) {
	col := NewResultCollector(nil)

	id := types.NewIdentity("pkg/math", "TestOutcome")
	col.OnTestStart(id)
	require.NoError(t, col.OnTestStop(id))

	// The variant is fixed by the callback, not the outcome argument.
	col.OnTestFailure(id, types.TestOutcome{Type: "failure", Message: "boom"})
	col.OnTestError(id, types.TestOutcome{Type: "panic", Message: "crash"})

	records := col.Records()
	require.Len(t, records, 2)
	assert.Equal(t, types.TestStatusFail, records[0].Outcome.Status)
	assert.Equal(t, types.TestStatusError, records[1].Outcome.Status)
}

func TestCollectorEntryPackageGroupsByMethod(t *testing.T) {
	col := NewResultCollector(nil)

	id := types.NewIdentity("main", "TestEntry")
	col.OnTestStart(id)
	require.NoError(t, col.OnTestStop(id))
	col.OnTestSuccess(id)

	grouped := col.RecordsBySuite()
	require.Contains(t, grouped, "TestEntry")
}

package collector

import (
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/infra-tools/ci-reporter/types"
)

var _ ResultCollector = (*resultCollector)(nil)

// ResultCollector accumulates the outcome and timing of every test executed
// in one run. The driver invokes the callbacks in order for each test:
// OnTestStart, then OnTestStop, then exactly one outcome callback. The read
// methods must only be called once all tests have finished.
type ResultCollector interface {
	// OnTestStart records a monotonic start timestamp for the test.
	OnTestStart(id types.TestIdentity)

	// OnTestStop records the elapsed time since OnTestStart for the test.
	// Calling it without a prior OnTestStart for the same identity is a
	// protocol violation and returns an error.
	OnTestStop(id types.TestIdentity) error

	// OnTestSuccess appends a passing record for the test.
	OnTestSuccess(id types.TestIdentity)

	// OnTestFailure appends a failing (assertion) record for the test.
	OnTestFailure(id types.TestIdentity, outcome types.TestOutcome)

	// OnTestError appends an error (unexpected exception) record for the test.
	OnTestError(id types.TestIdentity, outcome types.TestOutcome)

	// Records returns all accumulated records in execution order.
	Records() []types.TestRecord

	// RecordsBySuite groups the accumulated records by suite name,
	// preserving execution order within each suite.
	RecordsBySuite() map[string][]types.TestRecord

	// SuiteNames returns the suite names present in the run, sorted.
	SuiteNames() []string
}

// resultCollector implements ResultCollector. The mutex guards mutations so
// a future concurrent driver can share one collector; the grouped reads are
// only valid after all writers have been joined.
type resultCollector struct {
	logger log.Logger
	now    func() time.Time

	mu      sync.Mutex
	starts  map[types.TestIdentity]time.Time
	timing  map[types.TestIdentity]time.Duration
	records []types.TestRecord
}

// NewResultCollector creates a collector for a single run.
func NewResultCollector(logger log.Logger) ResultCollector {
	return NewResultCollectorWithClock(logger, time.Now)
}

// NewResultCollectorWithClock creates a collector that samples the given
// clock instead of the system clock. Drivers replaying a recorded event
// stream supply the stream's own timestamps through this.
func NewResultCollectorWithClock(logger log.Logger, now func() time.Time) ResultCollector {
	if logger == nil {
		logger = log.New()
	}
	if now == nil {
		now = time.Now
	}
	return &resultCollector{
		logger: logger,
		now:    now,
		starts: make(map[types.TestIdentity]time.Time),
		timing: make(map[types.TestIdentity]time.Duration),
	}
}

func (c *resultCollector) OnTestStart(id types.TestIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A second start without an intervening stop overwrites the earlier
	// timestamp; start/stop pairing is caller-disciplined.
	c.starts[id] = c.now()
	c.logger.Debug("Test started", "test", id.String())
}

func (c *resultCollector) OnTestStop(id types.TestIdentity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, ok := c.starts[id]
	if !ok {
		return &ProtocolViolationError{Identity: id, Call: "OnTestStop"}
	}
	elapsed := c.now().Sub(start)
	c.timing[id] = elapsed
	c.logger.Debug("Test stopped", "test", id.String(), "elapsed", elapsed)
	return nil
}

func (c *resultCollector) OnTestSuccess(id types.TestIdentity) {
	c.append(id, types.Success())
}

func (c *resultCollector) OnTestFailure(id types.TestIdentity, outcome types.TestOutcome) {
	outcome.Status = types.TestStatusFail
	c.append(id, outcome)
}

func (c *resultCollector) OnTestError(id types.TestIdentity, outcome types.TestOutcome) {
	outcome.Status = types.TestStatusError
	c.append(id, outcome)
}

// append adds a record for the identity using whatever timing has been
// recorded. A missing stop leaves the elapsed time at zero rather than
// corrupting the record.
func (c *resultCollector) append(id types.TestIdentity, outcome types.TestOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed, ok := c.timing[id]
	if !ok {
		c.logger.Warn("Outcome recorded without timing, elapsed defaults to zero", "test", id.String())
	}
	c.records = append(c.records, types.TestRecord{
		Identity: id,
		Outcome:  outcome,
		Elapsed:  elapsed,
	})
}

func (c *resultCollector) Records() []types.TestRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.TestRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *resultCollector) RecordsBySuite() map[string][]types.TestRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	grouped := make(map[string][]types.TestRecord)
	for _, r := range c.records {
		suite := r.Identity.ReportSuiteName()
		grouped[suite] = append(grouped[suite], r)
	}
	return grouped
}

func (c *resultCollector) SuiteNames() []string {
	grouped := c.RecordsBySuite()
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

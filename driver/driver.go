// Package driver feeds a recorded `go test -json` event stream into a
// result collector, invoking the collector callbacks in the order the test
// framework contract requires: start, stop, then exactly one outcome.
package driver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"github.com/infra-tools/ci-reporter/collector"
	"github.com/infra-tools/ci-reporter/hooks"
	"github.com/infra-tools/ci-reporter/types"
)

// Maximum size of a single test2json line; panic traces can be large.
const maxLineBytes = 1024 * 1024

// Config configures a Driver.
type Config struct {
	Log log.Logger

	// SuiteOverrides maps a package path to the suite name to report it
	// under, replacing the derived one.
	SuiteOverrides map[string]string

	// Hooks are optional lifecycle extension points fired around the run.
	Hooks *hooks.RunHooks
}

// Driver replays a test event stream into a collector.
type Driver struct {
	cfg    Config
	logger log.Logger
	clock  *eventClock
	col    collector.ResultCollector

	// accumulated output per running test, stripped of ANSI escapes
	outputs map[types.TestIdentity]*strings.Builder
}

// eventClock reports the timestamp of the event currently being processed,
// so the collector's start/stop sampling reflects the recorded run rather
// than replay time.
type eventClock struct {
	current time.Time
}

func (c *eventClock) now() time.Time {
	return c.current
}

// New creates a driver and the collector it feeds.
func New(cfg Config) *Driver {
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	clock := &eventClock{current: time.Now()}
	return &Driver{
		cfg:     cfg,
		logger:  cfg.Log,
		clock:   clock,
		col:     collector.NewResultCollectorWithClock(cfg.Log, clock.now),
		outputs: make(map[types.TestIdentity]*strings.Builder),
	}
}

// Collector returns the collector the driver feeds. Read it only after Run
// has returned.
func (d *Driver) Collector() collector.ResultCollector {
	return d.col
}

// Run consumes the event stream until EOF, driving the collector callbacks.
// Lines that are not valid JSON events (package build output, stray prints)
// are skipped. A callback protocol violation aborts the run immediately.
func (d *Driver) Run(r io.Reader) error {
	d.cfg.Hooks.FireBeforeRun()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		event, err := parseTestEvent(line)
		if err != nil {
			continue
		}
		if err := d.dispatch(event); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read test event stream: %w", err)
	}

	d.cfg.Hooks.FireAfterRun()
	return nil
}

func (d *Driver) dispatch(event TestEvent) error {
	if !event.Time.IsZero() {
		d.clock.current = event.Time
	}
	if event.Test == "" {
		// Package-level events carry no per-test identity.
		return nil
	}

	id := d.identityFor(event)

	switch event.Action {
	case ActionRun:
		d.outputs[id] = &strings.Builder{}
		d.cfg.Hooks.FireTestStarted(id)
		d.col.OnTestStart(id)

	case ActionOutput:
		if b, ok := d.outputs[id]; ok {
			b.WriteString(stripansi.Strip(event.Output))
		}

	case ActionPass:
		if err := d.col.OnTestStop(id); err != nil {
			return err
		}
		d.col.OnTestSuccess(id)
		d.finish(id, types.Success(), event)

	case ActionFail:
		if err := d.col.OnTestStop(id); err != nil {
			return err
		}
		outcome := classify(d.detailsFor(id))
		if outcome.Status == types.TestStatusError {
			d.col.OnTestError(id, outcome)
		} else {
			d.col.OnTestFailure(id, outcome)
		}
		d.finish(id, outcome, event)

	case ActionSkip:
		// Skipped tests produce no record.
		delete(d.outputs, id)
		d.logger.Debug("Test skipped", "test", id.String())
	}
	return nil
}

func (d *Driver) identityFor(event TestEvent) types.TestIdentity {
	if suite, ok := d.cfg.SuiteOverrides[event.Package]; ok {
		return types.TestIdentity{SuiteName: suite, MethodName: event.Test}
	}
	return types.NewIdentity(event.Package, event.Test)
}

func (d *Driver) detailsFor(id types.TestIdentity) string {
	if b, ok := d.outputs[id]; ok {
		return b.String()
	}
	return ""
}

func (d *Driver) finish(id types.TestIdentity, outcome types.TestOutcome, event TestEvent) {
	delete(d.outputs, id)
	d.cfg.Hooks.FireTestFinished(types.TestRecord{
		Identity: id,
		Outcome:  outcome,
		Elapsed:  time.Duration(event.Elapsed * float64(time.Second)),
	})
}

// classify maps a failed test's captured output to an outcome variant:
// a panic trace means the test body crashed (error), anything else is an
// assertion-style failure.
func classify(details string) types.TestOutcome {
	for _, line := range strings.Split(details, "\n") {
		trimmed := strings.TrimSpace(line)
		if msg, ok := strings.CutPrefix(trimmed, "panic:"); ok {
			return types.Error("panic", strings.TrimSpace(msg), details)
		}
	}
	return types.Failure("failure", failureMessage(details), details)
}

// failureMessage picks a one-line summary out of the captured output,
// skipping the test framework's own framing lines.
func failureMessage(details string) string {
	for _, line := range strings.Split(details, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "=== ") ||
			strings.HasPrefix(trimmed, "--- ") {
			continue
		}
		return trimmed
	}
	return "test failed"
}

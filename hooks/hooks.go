// Package hooks exposes plain lifecycle extension points a driver invokes
// around a run. There is no dispatch bus; callers set the funcs they need
// and every invocation is nil-safe.
package hooks

import "github.com/infra-tools/ci-reporter/types"

// RunHooks holds optional callbacks fired around run and test lifecycle
// points.
type RunHooks struct {
	BeforeRun    func()
	AfterRun     func()
	TestStarted  func(id types.TestIdentity)
	TestFinished func(record types.TestRecord)
}

// FireBeforeRun invokes the BeforeRun hook if set.
func (h *RunHooks) FireBeforeRun() {
	if h != nil && h.BeforeRun != nil {
		h.BeforeRun()
	}
}

// FireAfterRun invokes the AfterRun hook if set.
func (h *RunHooks) FireAfterRun() {
	if h != nil && h.AfterRun != nil {
		h.AfterRun()
	}
}

// FireTestStarted invokes the TestStarted hook if set.
func (h *RunHooks) FireTestStarted(id types.TestIdentity) {
	if h != nil && h.TestStarted != nil {
		h.TestStarted(id)
	}
}

// FireTestFinished invokes the TestFinished hook if set.
func (h *RunHooks) FireTestFinished(record types.TestRecord) {
	if h != nil && h.TestFinished != nil {
		h.TestFinished(record)
	}
}

package reporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/infra-tools/ci-reporter/types"
)

func TestSuiteStatusString(t *testing.T) {
	assert.Equal(t, "✓ pass", suiteStatusString(types.SuiteStats{Tests: 3}))
	assert.Equal(t, "✗ fail", suiteStatusString(types.SuiteStats{Tests: 3, Failures: 1}))
	assert.Equal(t, "✗ fail", suiteStatusString(types.SuiteStats{Tests: 3, Errors: 1}))
	assert.Equal(t, "✓ pass", suiteStatusString(types.SuiteStats{}))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12ms", formatDuration(12*time.Millisecond))
	assert.Equal(t, "1.235s", formatDuration(1234567*time.Microsecond))
	assert.Equal(t, "0s", formatDuration(400*time.Microsecond))
}

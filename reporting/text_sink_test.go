package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-tools/ci-reporter/types"
)

func TestTextSummarySink(t *testing.T) {
	dir := t.TempDir()
	sink := NewTextSummarySink(dir, nil)

	require.NoError(t, sink.Consume(record("pkg.Math", "test_add", types.Success(), 12*time.Millisecond)))
	require.NoError(t, sink.Consume(record("pkg.Math", "test_div",
		types.Error("ZeroDivisionError", "division by zero", "trace"), 4*time.Millisecond)))
	require.NoError(t, sink.Consume(record("pkg.Str", "test_split",
		types.Failure("failure", "boom", "trace"), 3*time.Millisecond)))
	require.NoError(t, sink.Complete())

	content, err := os.ReadFile(filepath.Join(dir, "summary.log"))
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "pkg.Math: 2 tests, 0 failures, 1 errors in 0.016s")
	assert.Contains(t, text, "pkg.Str: 1 tests, 1 failures, 0 errors in 0.003s")
	assert.Contains(t, text, "[PASS] test_add (0.012s)")
	assert.Contains(t, text, "[ERROR] test_div (0.004s)")
	assert.Contains(t, text, "[FAIL] test_split (0.003s)")
	assert.Contains(t, text, "total: 3 tests, 1 failures, 1 errors in 0.019s")
}

func TestTextSummarySinkEmptyRun(t *testing.T) {
	dir := t.TempDir()
	sink := NewTextSummarySink(dir, nil)
	require.NoError(t, sink.Complete())

	content, err := os.ReadFile(filepath.Join(dir, "summary.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "total: 0 tests, 0 failures, 0 errors")
}

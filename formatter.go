package reporter

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/infra-tools/ci-reporter/types"
)

// printResultsTable prints the per-suite results to the console.
func (r *Reporter) printResultsTable() {
	grouped := r.col.RecordsBySuite()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Test Results (run %s)", r.runID))

	t.AppendHeader(table.Row{
		"Suite", "Tests", "Failures", "Errors", "Time", "Status",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Failures", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Time", Align: text.AlignRight},
	})

	var total types.SuiteStats
	for _, suite := range r.col.SuiteNames() {
		stats := types.StatsForRecords(grouped[suite])
		t.AppendRow(table.Row{
			suite,
			stats.Tests,
			stats.Failures,
			stats.Errors,
			formatDuration(stats.Elapsed),
			suiteStatusString(stats),
		})
		total.Tests += stats.Tests
		total.Failures += stats.Failures
		total.Errors += stats.Errors
		total.Elapsed += stats.Elapsed
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		total.Tests,
		total.Failures,
		total.Errors,
		formatDuration(total.Elapsed),
		suiteStatusString(total),
	})

	t.Render()
}

// suiteStatusString returns a marked string representing a suite's result.
func suiteStatusString(stats types.SuiteStats) string {
	if stats.Failures+stats.Errors > 0 {
		return "✗ fail"
	}
	return "✓ pass"
}

// formatDuration renders a duration rounded for table display.
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

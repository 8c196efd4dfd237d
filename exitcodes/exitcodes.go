// Package exitcodes defines the standard exit codes used by ci-reporter.
package exitcodes

// Exit code constants used by ci-reporter
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when all tests pass and all reports were written
// * TestFailure (1): Used when one or more tests failed or errored
// * RuntimeErr (2): Used for runtime errors such as unreadable input or
//   report directory failures
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors
)

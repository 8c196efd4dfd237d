package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "CI_REPORTER"

func prefixEnvVars(name string) []string {
	return []string{fmt.Sprintf("%s_%s", EnvVarPrefix, name)}
}

var (
	Input = &cli.StringFlag{
		Name:    "input",
		Value:   "-",
		EnvVars: prefixEnvVars("INPUT"),
		Usage:   "Path to the 'go test -json' event stream to consume ('-' for stdin)",
	}
	OutputDir = &cli.StringFlag{
		Name:    "output-dir",
		Value:   "",
		EnvVars: prefixEnvVars("OUTPUT_DIR"),
		Usage:   "Directory to write TEST-<suite>.xml reports into",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to a run config file (eg. 'ci-reporter.yaml')",
	}
	WithReports = &cli.BoolFlag{
		Name:    "with-reports",
		Value:   true,
		EnvVars: prefixEnvVars("WITH_REPORTS"),
		Usage:   "Generate XML reports after the run (disable to only print the summary table)",
	}
	Summary = &cli.BoolFlag{
		Name:    "summary",
		Value:   false,
		EnvVars: prefixEnvVars("SUMMARY"),
		Usage:   "Also write a plain-text summary.log next to the XML reports",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Value:   false,
		EnvVars: prefixEnvVars("VERBOSE"),
		Usage:   "Enable debug logging",
	}
)

var requiredFlags = []cli.Flag{
	Input,
}

var optionalFlags = []cli.Flag{
	OutputDir,
	ConfigFile,
	WithReports,
	Summary,
	Verbose,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

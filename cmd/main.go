package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	reporter "github.com/infra-tools/ci-reporter"
	"github.com/infra-tools/ci-reporter/exitcodes"
	"github.com/infra-tools/ci-reporter/flags"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	// Best-effort .env load for local runs; missing files are fine.
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "ci-reporter"
	app.Usage = "JUnit XML test report generator"
	app.Description = "ci-reporter consumes a 'go test -json' event stream and writes one JUnit-compatible XML report per test suite"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if reporter.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if reporter.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	level := log.LevelInfo
	if ctx.Bool(flags.Verbose.Name) {
		level = log.LevelDebug
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false))
	log.SetDefault(logger)

	cfg, err := reporter.NewConfig(ctx, logger)
	if err != nil {
		return reporter.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	logger.Debug("Config", "input", cfg.Input, "outputDir", cfg.OutputDir,
		"withReports", cfg.WithReports, "summary", cfg.Summary)

	rep, err := reporter.New(cfg)
	if err != nil {
		return reporter.NewRuntimeError(fmt.Errorf("failed to create reporter: %w", err))
	}

	var input io.Reader = os.Stdin
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return reporter.NewRuntimeError(fmt.Errorf("failed to open input %q: %w", cfg.Input, err))
		}
		defer f.Close()
		input = f
	}

	return rep.Run(input)
}

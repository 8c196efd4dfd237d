package reporter

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/infra-tools/ci-reporter/flags"
	"github.com/infra-tools/ci-reporter/registry"
)

// Config holds the application configuration
type Config struct {
	Input       string // Path to the event stream, "-" for stdin
	OutputDir   string // Directory reports are written into
	ConfigFile  string // Optional run config file
	WithReports bool   // Whether XML reports are generated at all
	Summary     bool   // Whether to also write summary.log

	// SuiteOverrides maps package paths to replacement suite names.
	SuiteOverrides map[string]string

	Log log.Logger
}

// NewConfig creates a new Config from cli context, merging in values from
// the run config file where the command line left them unset.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	input := ctx.String(flags.Input.Name)
	if input == "" {
		return nil, errors.New("input is required")
	}

	configFile := ctx.String(flags.ConfigFile.Name)
	reg, err := registry.NewRegistry(registry.Config{
		Log:        logger,
		ConfigFile: configFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}
	runConfig := reg.RunConfig()

	outputDir := ctx.String(flags.OutputDir.Name)
	if outputDir == "" {
		outputDir = runConfig.OutputDir
	}
	if outputDir == "" {
		return nil, errors.New("output directory is required (flag --output-dir or config output_dir)")
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for output directory %q: %w", outputDir, err)
	}

	withReports := ctx.Bool(flags.WithReports.Name)
	if !ctx.IsSet(flags.WithReports.Name) && runConfig.WithReports != nil {
		withReports = *runConfig.WithReports
	}
	summary := ctx.Bool(flags.Summary.Name)
	if !ctx.IsSet(flags.Summary.Name) && runConfig.Summary != nil {
		summary = *runConfig.Summary
	}

	return &Config{
		Input:          input,
		OutputDir:      outputDir,
		ConfigFile:     configFile,
		WithReports:    withReports,
		Summary:        summary,
		SuiteOverrides: runConfig.SuiteOverrides,
		Log:            logger,
	}, nil
}

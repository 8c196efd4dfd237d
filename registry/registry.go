// Package registry loads the reporter's run configuration file.
package registry

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// RunConfig is the YAML run configuration surface. Values set on the
// command line take precedence over values loaded from the file.
type RunConfig struct {
	OutputDir      string            `yaml:"output_dir,omitempty"`
	WithReports    *bool             `yaml:"with_reports,omitempty"`
	Summary        *bool             `yaml:"summary,omitempty"`
	SuiteOverrides map[string]string `yaml:"suite_overrides,omitempty"`
}

// Registry holds a loaded run configuration.
type Registry struct {
	config    Config
	runConfig RunConfig
}

// Config contains registry configuration
type Config struct {
	Log        log.Logger
	ConfigFile string
}

// NewRegistry creates a registry. An empty ConfigFile yields an empty run
// configuration; a named file must exist and parse.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
	}

	r := &Registry{config: cfg}

	if cfg.ConfigFile != "" {
		runConfig, err := loadRunConfig(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		r.runConfig = runConfig
		cfg.Log.Debug("Run config loaded", "file", cfg.ConfigFile,
			"outputDir", runConfig.OutputDir, "overrides", len(runConfig.SuiteOverrides))
	}

	return r, nil
}

// RunConfig returns the loaded run configuration.
func (r *Registry) RunConfig() RunConfig {
	return r.runConfig
}

func loadRunConfig(path string) (RunConfig, error) {
	var runConfig RunConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return runConfig, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &runConfig); err != nil {
		return runConfig, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for pkg, suite := range runConfig.SuiteOverrides {
		if suite == "" {
			return runConfig, fmt.Errorf("suite override for package %q is empty", pkg)
		}
	}

	return runConfig, nil
}

package runner

import (
	"flag"
	"fmt"
	"io"

	"github.com/launchdarkly/regression-test-harness/config"
	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
)

type commandParams struct {
	configFile     string
	envFile        string
	regressionRoot string
	filters        ldtest.RegexFilters
	skipFile       string
	recordFailures string
	debug          bool
	debugAll       bool
	jUnitFile      string
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(programName(args), flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.configFile, "config", "", "read settings from the specified JSON or YAML file")
	fs.StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "read environment variables from the specified file if it exists")
	fs.StringVar(&c.regressionRoot, "root", "", "directory that regression records are stored under")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.skipFile, "skip-from", "", "file with the IDs of tests not to run, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed tests to the specified file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return false
	}
	return true
}

// apply overrides the configuration with the settings given on the command line.
func (c *commandParams) apply(cfg config.Config) (config.Config, ldtest.RegexFilters, error) {
	if c.regressionRoot != "" {
		cfg.RegressionRoot = c.regressionRoot
	}
	if c.jUnitFile != "" {
		cfg.JUnitFile = c.jUnitFile
	}
	cfg.Debug = cfg.Debug || c.debug
	cfg.DebugAll = cfg.DebugAll || c.debugAll

	filters := c.filters
	for _, pattern := range cfg.Run {
		if err := filters.MustMatch.Set(pattern); err != nil {
			return cfg, filters, fmt.Errorf("invalid run pattern %q in config: %w", pattern, err)
		}
	}
	for _, pattern := range cfg.Skip {
		if err := filters.MustNotMatch.Set(pattern); err != nil {
			return cfg, filters, fmt.Errorf("invalid skip pattern %q in config: %w", pattern, err)
		}
	}
	return cfg, filters, nil
}

func programName(args []string) string {
	if len(args) == 0 {
		return "regress"
	}
	return args[0]
}

// Package runner runs a regress.Suite, either as the main function of a test program or from a
// Go test.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/launchdarkly/regression-test-harness/config"
	"github.com/launchdarkly/regression-test-harness/framework"
	"github.com/launchdarkly/regression-test-harness/framework/helpers"
	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	"github.com/launchdarkly/regression-test-harness/regress"
)

// Main runs the suite with the settings from the command line arguments, the config file and the
// environment, and returns the exit status for the program: 0 if every test passed or was an
// expected failure, 1 otherwise, or 2 for invalid arguments.
//
//	func main() {
//		os.Exit(runner.Main(suite, os.Args))
//	}
func Main(suite *regress.Suite, args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return 2
	}
	results, err := run(suite, params, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !results.OK() {
		return 1
	}
	return 0
}

func run(suite *regress.Suite, params commandParams, out io.Writer) (ldtest.Results, error) {
	cfg, err := config.Load(params.configFile, params.envFile)
	if err != nil {
		return ldtest.Results{}, err
	}
	cfg, filters, err := params.apply(cfg)
	if err != nil {
		return ldtest.Results{}, err
	}
	if params.skipFile != "" {
		if err := loadSuppressions(params.skipFile, &filters); err != nil {
			return ldtest.Results{}, err
		}
	}

	results, err := Run(suite, cfg, filters, out)
	if err != nil {
		return results, err
	}

	if params.recordFailures != "" {
		if err := recordFailures(params.recordFailures, results); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Run runs the suite with the given configuration and filters, logging to the console and, if
// the configuration names a JUnit file, to that file.
func Run(suite *regress.Suite, cfg config.Config, filters ldtest.RegexFilters, out io.Writer) (ldtest.Results, error) {
	if err := suite.Err(); err != nil {
		return ldtest.Results{}, fmt.Errorf("suite %q is invalid: %w", suite.Name(), err)
	}
	if cfg.RegressionRoot != "" {
		suite.SetRegressionRoot(cfg.RegressionRoot)
	}

	helpers.MustFprintf(out, "Running regression suite %q (records in %s)\n", suite.Name(), suite.RegressionRoot())
	helpers.MustFprintln(out)
	ldtest.PrintFilterDescription(out, filters)

	debugLogger := framework.NullLogger()
	if cfg.DebugAll {
		debugLogger = framework.LoggerWithPrefix(framework.WriterLogger(out), "["+suite.Name()+"] ")
	}
	for _, c := range suite.Classes() {
		debugLogger.Printf("class %s has tests %v", c.Name(), c.Tests())
	}
	if len(cfg.Capabilities) != 0 {
		debugLogger.Printf("capabilities: %v", helpers.Sorted(cfg.Capabilities))
	}

	var testLogger ldtest.EndingTestLogger = ldtest.ConsoleTestLogger{
		DebugOutputOnFailure: cfg.Debug || cfg.DebugAll,
		DebugOutputOnSuccess: cfg.DebugAll,
	}
	if cfg.JUnitFile != "" {
		testLogger = &ldtest.MultiTestLogger{Loggers: []ldtest.TestLogger{
			testLogger,
			ldtest.NewJUnitTestLogger(cfg.JUnitFile, suite.Name(), filters),
		}}
	}

	results := ldtest.Run(ldtest.TestConfiguration{
		Filter:       filters.Match,
		TestLogger:   testLogger,
		Capabilities: cfg.Capabilities,
	}, suite.Run)

	helpers.MustFprintln(out)
	if err := testLogger.EndLog(results); err != nil {
		return results, fmt.Errorf("error writing log: %w", err)
	}
	return results, nil
}

// RunInTest runs the suite inside a Go test, reporting every failed ldtest scope as an error of t.
// Expected failures are not reported.
func RunInTest(t helpers.TestContext, suite *regress.Suite, capabilities ...string) ldtest.Results {
	if err := suite.Err(); err != nil {
		t.Errorf("suite %q is invalid: %s", suite.Name(), err)
		t.FailNow()
		return ldtest.Results{}
	}
	results := ldtest.Run(ldtest.TestConfiguration{Capabilities: capabilities}, suite.Run)
	for _, failure := range results.Failures {
		for _, err := range failure.Errors {
			t.Errorf("%s", ldtest.TestFailure{ID: failure.TestID, Err: err})
		}
	}
	return results
}

func loadSuppressions(path string, filters *ldtest.RegexFilters) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// each path component becomes its own exact-match pattern
		parts := strings.Split(line, "/")
		for i, part := range parts {
			parts[i] = "^" + regexp.QuoteMeta(part) + "$"
		}
		if err := filters.MustNotMatch.Set(strings.Join(parts, "/")); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}

func recordFailures(path string, results ldtest.Results) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create failure record file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	for _, test := range results.Failures {
		helpers.MustFprintln(f, test.TestID)
	}
	return nil
}

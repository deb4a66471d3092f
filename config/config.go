// Package config holds the settings of a regression test run.
//
// Settings are read, each overriding the previous, from the defaults, an optional JSON or YAML
// config file, an optional .env file, and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/launchdarkly/regression-test-harness/data"
)

// Environment variables that override the config file.
const (
	EnvRegressionRoot = "REGRESS_ROOT"
	EnvJUnitFile      = "REGRESS_JUNIT"
	EnvDebug          = "REGRESS_DEBUG"
	EnvCapabilities   = "REGRESS_CAPABILITIES"
)

// DefaultEnvFile is the .env file that Load reads if it exists.
const DefaultEnvFile = ".env"

// Config is the configuration of a test run.
type Config struct {
	// RegressionRoot is the directory regression records are stored under, for classes that do
	// not set their own. Empty means the default.
	RegressionRoot string `json:"regressionRoot"`

	// JUnitFile, if set, is where a JUnit XML report is written.
	JUnitFile string `json:"junitFile"`

	// Debug shows the debug output of failed tests.
	Debug bool `json:"debug"`

	// DebugAll shows the debug output of all tests.
	DebugAll bool `json:"debugAll"`

	// Capabilities are the capabilities of the environment the tests run in.
	Capabilities []string `json:"capabilities"`

	// Run and Skip are test ID patterns, as for the -run and -skip flags.
	Run  []string `json:"run"`
	Skip []string `json:"skip"`
}

// Load reads the config file, if configFile is not empty, and then applies the variables from
// envFile, if it exists, and from the process environment. Variables set to a non-empty value in
// the process environment take precedence over the .env file.
func Load(configFile, envFile string) (Config, error) {
	var c Config
	if configFile != "" {
		if err := data.ReadJSONOrYAMLFile(configFile, &c); err != nil {
			return c, fmt.Errorf("cannot read config file: %w", err)
		}
	}
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case !errors.Is(err, fs.ErrNotExist):
			return c, fmt.Errorf("cannot read %s: %w", envFile, err)
		}
	}
	return c.WithEnvironment(func(name string) (string, bool) {
		if value := os.Getenv(name); value != "" {
			return value, true
		}
		value, ok := fileVars[name]
		return value, ok
	})
}

// WithEnvironment returns a copy of the configuration with the settings that lookup provides.
// REGRESS_DEBUG may be "all", or any value accepted by strconv.ParseBool.
func (c Config) WithEnvironment(lookup func(string) (string, bool)) (Config, error) {
	if value, ok := lookup(EnvRegressionRoot); ok && value != "" {
		c.RegressionRoot = value
	}
	if value, ok := lookup(EnvJUnitFile); ok && value != "" {
		c.JUnitFile = value
	}
	if value, ok := lookup(EnvDebug); ok && value != "" {
		if strings.EqualFold(value, "all") {
			c.Debug, c.DebugAll = true, true
		} else {
			debug, err := strconv.ParseBool(value)
			if err != nil {
				return c, fmt.Errorf("invalid value for %s: %q", EnvDebug, value)
			}
			c.Debug = debug
		}
	}
	if value, ok := lookup(EnvCapabilities); ok && value != "" {
		c.Capabilities = nil
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Capabilities = append(c.Capabilities, name)
			}
		}
	}
	return c, nil
}

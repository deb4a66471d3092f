// Package cmd implements the regress command, which inspects and deletes the regression records
// that regression tests have stored on disk.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/launchdarkly/regression-test-harness/config"
	"github.com/launchdarkly/regression-test-harness/regress"
)

// options holds the flags shared by all subcommands.
type options struct {
	root       string
	configFile string
	envFile    string
}

// regressionRoot returns the root given with --root, or else the one from the configuration, or
// else regress.DefaultRegressionRoot.
func (o *options) regressionRoot() (string, error) {
	if o.root != "" {
		return o.root, nil
	}
	cfg, err := config.Load(o.configFile, o.envFile)
	if err != nil {
		return "", err
	}
	if cfg.RegressionRoot != "" {
		return cfg.RegressionRoot, nil
	}
	return regress.DefaultRegressionRoot, nil
}

// NewRootCommand creates the regress command with all of its subcommands.
func NewRootCommand(version string) *cobra.Command {
	var opts options
	rootCmd := &cobra.Command{
		Use:   "regress",
		Short: "Manage regression test records",
		Long: `regress inspects and deletes the records that regression tests compare their results with.

A record is created the first time a regression test returns a result, and is authoritative
until it is deleted. Delete a record with "regress rm" to accept a new result.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.root, "root", "r", "", "directory that regression records are stored under")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "read settings from the specified JSON or YAML file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "read environment variables from the specified file if it exists")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newListCommand(&opts),
		newShowCommand(&opts),
		newRmCommand(&opts),
	)
	return rootCmd
}

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/launchdarkly/regression-test-harness/serialize"
)

type showCommand struct {
	opts *options
}

func newShowCommand(opts *options) *cobra.Command {
	sc := &showCommand{opts: opts}
	return &cobra.Command{
		Use:   "show record...",
		Short: "Print regression records",
		Long: `Print the stored value of each record. A record is named by its path relative to the
regression root; the extension may be left out if only one record has that name.

Binary records are printed as a hex dump.`,
		Args: cobra.MinimumNArgs(1),
		RunE: sc.Execute,
	}
}

// Execute runs the command
func (sc *showCommand) Execute(cmd *cobra.Command, args []string) error {
	root, err := sc.opts.regressionRoot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)
	for _, name := range args {
		path, s, err := resolveRecord(root, name)
		if err != nil {
			return err
		}
		value, err := serialize.Load(serialize.OSFileSystem{}, s, path)
		if err != nil {
			return err
		}
		_, _ = heading.Fprintf(out, "%s (%s)\n", path, serialize.Name(s))
		switch v := value.(type) {
		case []byte:
			fmt.Fprint(out, hex.Dump(v))
		case string:
			fmt.Fprint(out, v)
			if !strings.HasSuffix(v, "\n") {
				fmt.Fprintln(out)
			}
		default:
			if err := s.Serialize(v, out); err != nil {
				return fmt.Errorf("cannot print %s: %w", path, err)
			}
		}
	}
	return nil
}

package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/launchdarkly/regression-test-harness/serialize"
)

type listCommand struct {
	opts *options
	long bool
}

func newListCommand(opts *options) *cobra.Command {
	lc := &listCommand{opts: opts}
	listCmd := &cobra.Command{
		Use:   "list [path...]",
		Short: "List regression records",
		Long: `List the regression records under the regression root, grouped by the test that created them.

Each path restricts the listing to records whose path relative to the root starts with it.`,
		RunE: lc.Execute,
	}
	listCmd.Flags().BoolVarP(&lc.long, "long", "l", false, "show the serializer, size and modification time of each record")
	return listCmd
}

// Execute runs the command
func (lc *listCommand) Execute(cmd *cobra.Command, args []string) error {
	root, err := lc.opts.regressionRoot()
	if err != nil {
		return err
	}
	records, err := listRecords(root, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		_, _ = color.New(color.FgYellow).Fprintf(out, "No regression records found under %s\n", root)
		return nil
	}

	heading := color.New(color.FgCyan, color.Bold)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	lastTest := ""
	for _, r := range records {
		if test := r.test(); test != lastTest {
			if err := w.Flush(); err != nil {
				return err
			}
			_, _ = heading.Fprintln(out, test)
			lastTest = test
		}
		if lc.long {
			fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n", r.name(), serialize.Name(r.serializer), r.size,
				r.modTime.Format(time.RFC3339))
		} else {
			fmt.Fprintf(w, "  %s\n", r.name())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d record(s) under %s\n", len(records), root)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/launchdarkly/regression-test-harness/framework/helpers"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

type rmCommand struct {
	opts   *options
	dryRun bool
}

func newRmCommand(opts *options) *cobra.Command {
	rc := &rmCommand{opts: opts}
	rmCmd := &cobra.Command{
		Use:   "rm path...",
		Short: "Delete regression records",
		Long: `Delete regression records so that the next run of their tests stores new ones.

Each path is relative to the regression root. It may name a single record, with or without its
extension, or a directory, in which case every record under it is deleted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: rc.Execute,
	}
	rmCmd.Flags().BoolVarP(&rc.dryRun, "dry-run", "n", false, "print what would be deleted without deleting it")
	return rmCmd
}

// Execute runs the command
func (rc *rmCommand) Execute(cmd *cobra.Command, args []string) error {
	root, err := rc.opts.regressionRoot()
	if err != nil {
		return err
	}
	var paths []string
	for _, name := range args {
		matched, err := rc.match(root, name)
		if err != nil {
			return err
		}
		paths = append(paths, matched...)
	}

	out := cmd.OutOrStdout()
	verb := helpers.IfElse(rc.dryRun, "Would delete", "Deleted")
	for _, path := range paths {
		if !rc.dryRun {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("cannot delete record: %w", err)
			}
		}
		_, _ = color.New(color.FgRed).Fprintf(out, "%s %s\n", verb, path)
	}
	if !rc.dryRun {
		removeEmptyParents(root, paths)
	}
	_, _ = color.New(color.FgGreen).Fprintf(out, "%s %d record(s)\n", verb, len(paths))
	return nil
}

// match returns the record files that a command line argument refers to.
func (rc *rmCommand) match(root, name string) ([]string, error) {
	path, err := serialize.RecordPath(serialize.OSFileSystem{}, root, name)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		records, err := listRecords(path, nil)
		if err != nil {
			return nil, err
		}
		ret := make([]string, 0, len(records))
		for _, r := range records {
			ret = append(ret, filepath.Join(path, filepath.FromSlash(r.path)))
		}
		return ret, nil
	}
	path, _, err = resolveRecord(root, name)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// removeEmptyParents deletes the directories that deleting the records left empty, up to but not
// including root.
func removeEmptyParents(root string, paths []string) {
	root = filepath.Clean(root)
	for _, path := range paths {
		for dir := filepath.Dir(path); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
			if os.Remove(dir) != nil {
				break
			}
		}
	}
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/regression-test-harness/serialize"
)

// record is a regression record file found under a regression root.
type record struct {
	path       string // relative to the root, with forward slashes
	serializer serialize.Serializer
	size       int64
	modTime    time.Time
}

// name returns the result name of the record, which is its file name without the extension.
func (r record) name() string {
	base := filepath.Base(r.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// test returns the directory of the record relative to the root, which names the subject type
// and the regression test that created it.
func (r record) test() string {
	return filepath.ToSlash(filepath.Dir(filepath.FromSlash(r.path)))
}

// listRecords returns the records under root whose relative paths start with one of the
// prefixes, or all records if there are no prefixes. Files that no built-in serializer writes
// are ignored.
func listRecords(root string, prefixes []string) ([]record, error) {
	var ret []record
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		s, ok := serialize.ForExtension(path)
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !hasAnyPrefix(rel, prefixes) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		ret = append(ret, record{path: rel, serializer: s, size: info.Size(), modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list records under %s: %w", root, err)
	}
	return ret, nil
}

func hasAnyPrefix(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		p = strings.Trim(filepath.ToSlash(p), "/")
		if path == p || strings.HasPrefix(path, p+"/") || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

// resolveRecord finds the record file for a path relative to root. The path may omit the
// extension, in which case it must match the record of exactly one built-in serializer.
func resolveRecord(root, name string) (string, serialize.Serializer, error) {
	path, err := serialize.RecordPath(serialize.OSFileSystem{}, root, name)
	if err != nil {
		return "", nil, err
	}
	if s, ok := serialize.ForExtension(path); ok {
		if _, err := os.Stat(path); err == nil {
			return path, s, nil
		}
	}
	var found []string
	var foundSerializer serialize.Serializer
	for _, s := range serialize.Builtin() {
		exists, err := serialize.Exists(serialize.OSFileSystem{}, s, path)
		if err != nil {
			return "", nil, err
		}
		if exists {
			found = append(found, serialize.Extend(s, path))
			foundSerializer = s
		}
	}
	switch len(found) {
	case 0:
		return "", nil, fmt.Errorf("no record %q under %s", name, root)
	case 1:
		return found[0], foundSerializer, nil
	default:
		return "", nil, fmt.Errorf("record %q is ambiguous, specify one of: %s", name, strings.Join(found, ", "))
	}
}

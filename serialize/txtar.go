package serialize

import (
	"io"
	"reflect"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/txtar"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// TxtarSerializer stores a set of named text files (map[string]string) as a single .txtar
// archive, one archive file per map entry in name order. This suits results that are naturally
// several documents, such as generated source files.
type TxtarSerializer struct{}

func (TxtarSerializer) Binary() bool      { return false }
func (TxtarSerializer) Extension() string { return "txtar" }

func (s TxtarSerializer) Serialize(value any, w io.Writer) error {
	files, ok := asFileSet(value)
	if !ok {
		return wrongType(s, value)
	}
	names := maps.Keys(files)
	slices.Sort(names)
	archive := &txtar.Archive{}
	for _, name := range names {
		archive.Files = append(archive.Files, txtar.File{Name: name, Data: []byte(files[name])})
	}
	_, err := w.Write(txtar.Format(archive))
	return err
}

func (TxtarSerializer) Deserialize(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	archive := txtar.Parse(data)
	files := make(map[string]string, len(archive.Files))
	for _, f := range archive.Files {
		files[f.Name] = string(f.Data)
	}
	return files, nil
}

func (s TxtarSerializer) Compare(result, reference any) o.Maybe[string] {
	return compareStructured(s, result, reference)
}

func asFileSet(value any) (map[string]string, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String ||
		v.Type().Elem().Kind() != reflect.String {
		return nil, false
	}
	ret := make(map[string]string, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		ret[iter.Key().String()] = iter.Value().String()
	}
	return ret, true
}

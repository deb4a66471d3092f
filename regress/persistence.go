package regress

import (
	"reflect"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

// HandleRegressionResults compares the results of a regression test with its stored records.
//
// The results must be a map with string keys; otherwise the whole test fails. Each entry is then
// checked in its own child scope, named "regression=<name>", so one failing result does not stop
// the others from being checked. If there is no record for a result yet, the result is saved as
// the record and the check passes. Otherwise the record is loaded and compared with the result by
// the serializer that was chosen for the result's type.
//
// The check for an existing record and the creation of a new one are not atomic, so two
// processes creating the same record at once may both believe they wrote it.
func (c *Case[S]) HandleRegressionResults(results any) {
	t := c.t
	value := reflect.ValueOf(results)
	if !value.IsValid() || value.Kind() != reflect.Map || value.Type().Key().Kind() != reflect.String {
		t.Errorf("regression test %q didn't return a named map of regression results", c.MethodName())
		t.FailNow()
	}

	entries := make(map[string]any, value.Len())
	names := make([]string, 0, value.Len())
	iter := value.MapRange()
	for iter.Next() {
		name := iter.Key().String()
		entries[name] = iter.Value().Interface()
		names = append(names, name)
	}
	slices.Sort(names)

	registry := c.Serializers()
	for _, name := range names {
		result := entries[name]
		t.Run("regression="+name, func(t *ldtest.T) {
			c.checkResult(t, registry, name, result)
		})
	}
}

func (c *Case[S]) checkResult(t *ldtest.T, registry serialize.Registry, name string, result any) {
	s, ok := registry.Resolve(result)
	if !ok {
		t.Errorf("no regression serialiser found for result of type %T", result)
		t.FailNow()
	}

	path, err := serialize.RecordPath(c.env.fsys, c.RegressionPath(), name)
	require.NoError(t, err)

	exists, err := serialize.Exists(c.env.fsys, s, path)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, serialize.Save(c.env.fsys, s, result, path))
		t.Debug("created regression reference %s", serialize.Extend(s, path))
		return
	}

	reference, err := serialize.Load(c.env.fsys, s, path)
	require.NoError(t, err)
	if diagnostic := s.Compare(result, reference); diagnostic.IsDefined() {
		t.Errorf("result did not equal regression reference under serialiser %s\n%s",
			serialize.Name(s), diagnostic.Value())
	}
}

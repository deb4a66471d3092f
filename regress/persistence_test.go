package regress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

func recordDir(root, method string) string {
	return filepath.Join(root, "github.com", "launchdarkly", "regression-test-harness", "regress", "greeter", method)
}

func regressionClass(name string, results func() any, options ...Option) *Class[*greeter] {
	return greeterClass(name).Add(
		RegressionTest("greetings", func(*ldtest.T, *greeter, ...any) any { return results() }, options...),
	).MustBuild()
}

func TestRegressionRecordIsCreatedThenCompared(t *testing.T) {
	root := t.TempDir()
	record := filepath.Join(recordDir(root, "greetings"), "a.txt")
	var current any = Results{"a": "x"}
	c := regressionClass("c", func() any { return current })

	// first run creates the record
	results := runClasses(t, root, c)
	assert.True(t, results.OK())
	data, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	info, err := os.Stat(record)
	require.NoError(t, err)

	// an equal result passes without touching the record
	results = runClasses(t, root, c)
	assert.True(t, results.OK())
	info2, err := os.Stat(record)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), info2.ModTime())

	// a different result fails, showing both values
	current = Results{"a": "y"}
	results = runClasses(t, root, c)
	assert.Equal(t, []string{"c/Testgreetings/regression=a"}, testIDs(results.Failures))
	errs := errorsOf(results, "c/Testgreetings/regression=a")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "result did not equal regression reference under serialiser StringSerializer")
	assert.Contains(t, errs[0], "Result:\ny\n")
	assert.Contains(t, errs[0], "Reference:\nx")

	data, err = os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestRegressionResultsMustBeNamedMap(t *testing.T) {
	for _, value := range []any{nil, "text", []string{"a"}, map[int]string{1: "a"}} {
		c := regressionClass("c", func() any { return value })
		results := runClasses(t, t.TempDir(), c)
		assert.Equal(t, []string{"c/Testgreetings"}, testIDs(results.Failures), "for %v", value)
		assert.Equal(t, []string{`regression test "greetings" didn't return a named map of regression results`},
			errorsOf(results, "c/Testgreetings"))
	}
}

type label string

func TestAnyStringKeyedMapIsAccepted(t *testing.T) {
	root := t.TempDir()
	c := regressionClass("c", func() any { return map[label]string{"b": "2", "a": "1"} })
	results := runClasses(t, root, c)
	assert.True(t, results.OK())

	var ids []string
	for _, r := range results.Tests {
		if len(r.TestID) == 3 {
			ids = append(ids, r.TestID.String())
		}
	}
	assert.Equal(t, []string{"c/Testgreetings/regression=a", "c/Testgreetings/regression=b"}, ids)
}

func TestEachResultIsCheckedInIsolation(t *testing.T) {
	root := t.TempDir()
	c := regressionClass("c", func() any {
		return Results{"bad": 42, "good": "fine", "also good": []byte{1, 2}}
	})
	results := runClasses(t, root, c)

	assert.Equal(t, []string{"c/Testgreetings/regression=bad"}, testIDs(results.Failures))
	assert.Equal(t, []string{"no regression serialiser found for result of type int"},
		errorsOf(results, "c/Testgreetings/regression=bad"))
	assert.FileExists(t, filepath.Join(recordDir(root, "greetings"), "good.txt"))
	assert.FileExists(t, filepath.Join(recordDir(root, "greetings"), "also good.bin"))
}

type baseReport struct {
	Total int `json:"total"`
}

type detailedReport struct {
	baseReport
	Detail string `json:"detail"`
}

func TestSerializerIsResolvedThroughEmbeddedType(t *testing.T) {
	root := t.TempDir()
	c := greeterClass("c").
		CommonSerializers(serialize.For[baseReport](serialize.JSONSerializer{})).
		Add(RegressionTest("report", func(*ldtest.T, *greeter, ...any) any {
			return Results{"r": detailedReport{baseReport{3}, "d"}}
		})).MustBuild()

	require.True(t, runClasses(t, root, c).OK())
	data, err := os.ReadFile(filepath.Join(recordDir(root, "report"), "r.json"))
	require.NoError(t, err)
	m.In(t).Assert(string(data), m.JSONStrEqual(`{"total": 3, "detail": "d"}`))

	require.True(t, runClasses(t, root, c).OK())
}

func TestSerializerPrecedence(t *testing.T) {
	root := t.TempDir()
	body := func(*ldtest.T, *greeter, ...any) any { return Results{"v": "text"} }
	c := greeterClass("c").
		CommonSerializers(serialize.For[string](serialize.YAMLSerializer{})).
		Add(
			RegressionTest("class", body),
			RegressionTest("method", body, WithSerializerFor[string](serialize.JSONSerializer{})),
		).MustBuild()
	plain := NewClass("plain", c).CommonSerializers().MustBuild()

	require.True(t, runClasses(t, root, c).OK())
	assert.FileExists(t, filepath.Join(recordDir(root, "class"), "v.yaml"))
	assert.FileExists(t, filepath.Join(recordDir(root, "method"), "v.json"))

	otherRoot := t.TempDir()
	require.True(t, runClasses(t, otherRoot, plain).OK())
	assert.FileExists(t, filepath.Join(recordDir(otherRoot, "class"), "v.txt"))
	assert.FileExists(t, filepath.Join(recordDir(otherRoot, "method"), "v.json"))
}

func TestWithSerializerMergesRules(t *testing.T) {
	method := Test("t", noop,
		WithSerializerFor[string](serialize.JSONSerializer{}),
		WithSerializerFor[ldvalue.Value](serialize.JSONSerializer{}),
		WithSerializerFor[string](serialize.YAMLSerializer{}),
	)
	rules := method.Metadata().Serializers
	assert.Len(t, rules.Rules(), 2)
	s, ok := rules.Lookup(serialize.TypeOf[string]())
	require.True(t, ok)
	assert.Equal(t, serialize.YAMLSerializer{}, s)
	_, ok = rules.Lookup(serialize.TypeOf[ldvalue.Value]())
	assert.True(t, ok)
}

func TestRegressionRootPrecedence(t *testing.T) {
	suiteRoot := t.TempDir()
	classRoot := t.TempDir()
	body := func(*ldtest.T, *greeter, ...any) any { return Results{"v": "x"} }
	own := greeterClass("own").RegressionRoot(classRoot).Add(RegressionTest("own", body)).MustBuild()
	inherited := NewClass("inherited", own).Add(RegressionTest("inherited", body)).MustBuild()
	suiteWide := greeterClass("suite").Add(RegressionTest("suite", body)).MustBuild()

	require.True(t, runClasses(t, suiteRoot, own, inherited, suiteWide).OK())
	assert.FileExists(t, filepath.Join(recordDir(classRoot, "own"), "v.txt"))
	assert.FileExists(t, filepath.Join(recordDir(classRoot, "inherited"), "v.txt"))
	assert.FileExists(t, filepath.Join(recordDir(suiteRoot, "suite"), "v.txt"))

	assert.Equal(t, DefaultRegressionRoot, NewSuite("s").RegressionRoot())
}

func TestResultNamesCannotEscapeRecordDirectory(t *testing.T) {
	root := t.TempDir()
	c := regressionClass("c", func() any { return Results{"../../escape": "x"} })
	require.True(t, runClasses(t, root, c).OK())

	_, err := os.Stat(filepath.Join(recordDir(root, "greetings"), "..", "..", "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(recordDir(root, "greetings"), "escape.txt"))
}

func TestResultNamesMustNameARecordInsideMethodDirectory(t *testing.T) {
	root := t.TempDir()
	c := regressionClass("c", func() any { return Results{"": "x", ".": "y", "..": "z", "a": "w"} })
	results := runClasses(t, root, c)

	assert.Equal(t, []string{"c/Testgreetings/regression=", "c/Testgreetings/regression=.",
		"c/Testgreetings/regression=.."}, testIDs(results.Failures))
	errs := errorsOf(results, "c/Testgreetings/regression=.")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "does not name a record")

	assert.FileExists(t, filepath.Join(recordDir(root, "greetings"), "a.txt"))
	assert.NoFileExists(t, recordDir(root, "greetings")+".txt")
}

func TestUnreadableRecordFailsTheResult(t *testing.T) {
	root := t.TempDir()
	dir := recordDir(root, "greetings")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte{0xff}, 0o600))

	c := regressionClass("c", func() any { return Results{"a": "x", "b": "y"} })
	results := runClasses(t, root, c)
	assert.Equal(t, []string{"c/Testgreetings/regression=a"}, testIDs(results.Failures))
	errs := errorsOf(results, "c/Testgreetings/regression=a")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not valid UTF-8")
}

func TestExpectedFailureCoversRegressionMismatch(t *testing.T) {
	root := t.TempDir()
	var current any = Results{"a": "x"}
	c := regressionClass("c", func() any { return current }, ExpectedFailure())

	results := runClasses(t, root, c)
	assert.Equal(t, []string{"c/Testgreetings"}, testIDs(results.Failures), "passing is an unexpected success")

	current = Results{"a": "y"}
	results = runClasses(t, root, c)
	assert.True(t, results.OK())
	assert.Equal(t, []string{"c/Testgreetings/regression=a"}, testIDs(results.ExpectedFailures))
}

package regress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
)

// greeter is the subject used by the tests in this package.
type greeter struct {
	greeting string
	args     Args
}

func (g *greeter) Greet(name string) string {
	return g.greeting + ", " + name
}

func newGreeter(args Args) (*greeter, error) {
	g := &greeter{greeting: "hello", args: args}
	if len(args.Positional) != 0 {
		g.greeting, _ = args.Positional[0].(string)
	}
	return g, nil
}

func greeterClass(name string, bases ...*Class[*greeter]) *ClassBuilder[*greeter] {
	return NewClass(name, bases...).SubjectType(newGreeter)
}

func runClasses(t *testing.T, root string, classes ...TestClass) ldtest.Results {
	return runClassesWithCapabilities(t, root, nil, classes...)
}

func runClassesWithCapabilities(t *testing.T, root string, capabilities []string,
	classes ...TestClass) ldtest.Results {
	suite := NewSuite("suite").SetRegressionRoot(root)
	require.NoError(t, suite.Add(classes...))
	return ldtest.Run(ldtest.TestConfiguration{Capabilities: capabilities}, suite.Run)
}

func testIDs(results []ldtest.TestResult) []string {
	ret := make([]string, 0, len(results))
	for _, r := range results {
		ret = append(ret, r.TestID.String())
	}
	return ret
}

func errorsOf(results ldtest.Results, id string) []string {
	var ret []string
	for _, r := range results.Tests {
		if r.TestID.String() == id {
			for _, e := range r.Errors {
				ret = append(ret, e.Error())
			}
		}
	}
	return ret
}

package regress

import (
	"path/filepath"

	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

// DefaultRegressionRoot is where regression records are stored when neither the class nor the
// suite says otherwise.
var DefaultRegressionRoot = filepath.Join(".", "resources", "regression") //nolint:gochecknoglobals

type environment struct {
	regressionRoot string
	fsys           serialize.FileSystem
}

// Case is one invocation of a test method of a class.
type Case[S any] struct {
	t      *ldtest.T
	class  *Class[S]
	method Method[S]
	env    environment
}

func newCase[S any](t *ldtest.T, class *Class[S], method Method[S], env environment) *Case[S] {
	if env.fsys == nil {
		env.fsys = serialize.OSFileSystem{}
	}
	return &Case[S]{t: t, class: class, method: method, env: env}
}

// T returns the test scope of the invocation.
func (c *Case[S]) T() *ldtest.T { return c.t }

// Class returns the class the test is being run for. For an inherited test this is the
// subclass, not the class that declared the method.
func (c *Case[S]) Class() *Class[S] { return c.class }

// MethodName returns the name the method was declared with, without the discovery prefix.
func (c *Case[S]) MethodName() string { return c.method.name }

// SubjectArgs returns the arguments the subject is constructed with.
func (c *Case[S]) SubjectArgs() Args { return subjectArgs(c.class, c.method) }

// Subject constructs a new subject. Every call returns a new one.
func (c *Case[S]) Subject() (S, error) { return newSubject(c.class, c.method) }

// Resources loads the class's common resources, or returns nil if it has none.
func (c *Case[S]) Resources() ([]any, error) {
	load, ok := hook[func() ([]any, error)](c.class, CommonResourcesHook)
	if !ok || load == nil {
		return nil, nil
	}
	return load()
}

// Serializers returns the serializer rules for the method's regression results: the method's
// own rules, then the class's, then serialize.Defaults.
func (c *Case[S]) Serializers() serialize.Registry {
	registry := serialize.Defaults()
	if common, ok := hook[serialize.Registry](c.class, CommonSerializersHook); ok {
		registry = registry.Merge(common)
	}
	return registry.Merge(c.method.meta.Serializers)
}

// RegressionRoot returns the directory that regression records are stored under.
func (c *Case[S]) RegressionRoot() string {
	if root, ok := hook[string](c.class, RegressionRootHook); ok {
		return root
	}
	if c.env.regressionRoot != "" {
		return c.env.regressionRoot
	}
	return DefaultRegressionRoot
}

// RegressionPath returns the directory that the method's regression records are stored in.
func (c *Case[S]) RegressionPath() string {
	return filepath.Join(c.RegressionRoot(), subjectTypePath[S](), c.MethodName())
}

func (c *Case[S]) invoke() {
	t := c.t
	meta := c.method.meta
	if meta.SkipReason.IsDefined() {
		t.SkipWithReason(meta.SkipReason.Value())
	}
	for _, name := range meta.Capabilities {
		t.RequireCapability(name)
	}
	if meta.ExpectedFailure {
		t.ExpectFailure()
	}

	subject, err := c.Subject()
	require.NoError(t, err, "cannot construct subject")
	resources, err := c.Resources()
	require.NoError(t, err, "cannot load common resources")

	c.method.run(c, subject, resources)
}

package regress

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/launchdarkly/regression-test-harness/framework/helpers"
	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	o "github.com/launchdarkly/regression-test-harness/framework/opt"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

// Body is the signature of a test method. The resources are the class's common resources, if
// it has any; a class without common resources passes none.
type Body[S any] func(t *ldtest.T, subject S, resources ...any)

// RegressionBody is the signature of a regression test method. It returns a map from result
// names to results, such as Results.
type RegressionBody[S any] func(t *ldtest.T, subject S, resources ...any) any

// ExceptionBody is the signature of a method for ExceptionTest. It signals the expected error by
// returning it or by panicking with it.
type ExceptionBody[S any] func(t *ldtest.T, subject S, resources ...any) error

// Results is the usual return type of a RegressionBody.
type Results map[string]any

// Metadata is everything that has been declared about a method. It is fixed when the Method is
// created; options produce a new Method rather than changing an existing one.
type Metadata struct {
	// IsTest is true if the method is run as a test.
	IsTest bool

	// SkipReason, if defined, causes the test to be skipped without running it.
	SkipReason o.Maybe[string]

	// SubjectArgs, if defined, are the arguments used to construct the subject for this method,
	// overriding the class's CommonArguments.
	SubjectArgs o.Maybe[Args]

	// Serializers are the method's own serializer rules. They take precedence over the class's
	// CommonSerializers and the defaults.
	Serializers serialize.Registry

	// ExpectedFailure marks the test as expected to fail; see ldtest.T.ExpectFailure.
	ExpectedFailure bool

	// Capabilities must all be present in the test run, or the test is skipped.
	Capabilities []string
}

func (m Metadata) clone() Metadata {
	ret := m
	if m.SubjectArgs.IsDefined() {
		ret.SubjectArgs = o.Some(m.SubjectArgs.Value().clone())
	}
	ret.Capabilities = helpers.CopyOf(m.Capabilities)
	return ret
}

// Method is a named member function of a test class, together with its Metadata.
type Method[S any] struct {
	name string
	meta Metadata
	run  func(c *Case[S], subject S, resources []any)
	err  error
}

// Func returns a method that is not a test. It can be made into one with Mark.
func Func[S any](name string, body Body[S]) Method[S] {
	return Method[S]{
		name: name,
		run: func(c *Case[S], subject S, resources []any) {
			body(c.T(), subject, resources...)
		},
	}
}

// Mark returns m marked as a test. When a test is run, a new subject is constructed for it and
// the class's common resources are loaded, and both are passed to the body. Marking a method that
// is already a test returns it unchanged.
func Mark[S any](m Method[S]) Method[S] {
	if m.meta.IsTest {
		return m
	}
	ret := m
	ret.meta = m.meta.clone()
	ret.meta.IsTest = true
	return ret
}

// Test returns a test method.
func Test[S any](name string, body Body[S], options ...Option) Method[S] {
	return Mark(Func(name, body)).With(options...)
}

// RegressionTest returns a test method whose results are compared against stored regression
// records; see Case.HandleRegressionResults.
func RegressionTest[S any](name string, body RegressionBody[S], options ...Option) Method[S] {
	m := Method[S]{
		name: name,
		run: func(c *Case[S], subject S, resources []any) {
			results := body(c.T(), subject, resources...)
			c.HandleRegressionResults(results)
		},
	}
	return Mark(m).With(options...)
}

// ExceptionTest returns a test method that passes only if the body fails with an error of one of
// the given kinds, either by returning it or by panicking with it.
func ExceptionTest[S any](name string, kinds []ErrorKind, body ExceptionBody[S], options ...Option) Method[S] {
	accepted := ErrorKinds(kinds)
	m := Method[S]{
		name: name,
		run: func(c *Case[S], subject S, resources []any) {
			err := callCatchingError(accepted, func() error { return body(c.T(), subject, resources...) })
			switch {
			case err == nil:
				c.T().Errorf("expected one of %s, none raised", accepted)
				c.T().FailNow()
			case !accepted.Match(err):
				c.T().Errorf("expected one of %s, got: %s", accepted, err)
				c.T().FailNow()
			default:
				c.T().Debug("raised expected error: %s", err)
			}
		},
	}
	for _, k := range kinds {
		if k.err != nil {
			m.err = fmt.Errorf("method %q: %w", name, k.err)
			break
		}
	}
	return Mark(m).With(options...)
}

// callCatchingError returns the error that fn returned or panicked with. Panics with values that
// are not errors, such as the one used by ldtest.T.FailNow, are propagated, and so are runtime
// errors unless one of the accepted kinds matches them.
func callCatchingError(accepted ErrorKinds, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			var runtimeErr runtime.Error
			if errors.As(e, &runtimeErr) && !accepted.Match(e) {
				panic(r)
			}
			err = e
		}
	}()
	return fn()
}

// Name returns the name the method was declared with.
func (m Method[S]) Name() string { return m.name }

// IsTest returns true if the method is a test.
func (m Method[S]) IsTest() bool { return m.meta.IsTest }

// Metadata returns a copy of the method's metadata.
func (m Method[S]) Metadata() Metadata { return m.meta.clone() }

// With returns a copy of the method with the options applied. If an option is invalid, the
// error is reported when the method's class is built.
func (m Method[S]) With(options ...Option) Method[S] {
	if len(options) == 0 {
		return m
	}
	ret := m
	ret.meta = m.meta.clone()
	if err := helpers.ApplyOptions(&ret.meta, options...); err != nil && ret.err == nil {
		ret.err = fmt.Errorf("method %q: %w", m.name, err)
	}
	return ret
}

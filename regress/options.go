package regress

import (
	"errors"

	"github.com/launchdarkly/regression-test-harness/framework/helpers"
	o "github.com/launchdarkly/regression-test-harness/framework/opt"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

// Option is a declaration about a test method, passed to Test, RegressionTest, ExceptionTest or
// Method.With.
type Option = helpers.ConfigOption[Metadata]

type optionFunc func(*Metadata) error

func (f optionFunc) Configure(m *Metadata) error { return f(m) }

// Skip causes the test to be skipped with the given reason if condition is true. The condition
// is evaluated once, when the option is created.
func Skip(reason string, condition bool) Option {
	return optionFunc(func(m *Metadata) error {
		if condition {
			m.SkipReason = o.Some(reason)
		}
		return nil
	})
}

// SubjectArgs sets the arguments that the subject is constructed with for this method.
func SubjectArgs(args Args) Option {
	args = args.clone()
	return optionFunc(func(m *Metadata) error {
		m.SubjectArgs = o.Some(args)
		return nil
	})
}

// WithSerializer adds a serializer rule for the method's regression results. A rule for the same
// tag replaces an earlier one; rules for other tags are kept.
func WithSerializer(tag serialize.TypeTag, s serialize.Serializer) Option {
	return optionFunc(func(m *Metadata) error {
		if tag == nil || s == nil {
			return errors.New("WithSerializer needs a type tag and a serializer")
		}
		m.Serializers = m.Serializers.With(serialize.Rule{Tag: tag, Serializer: s})
		return nil
	})
}

// WithSerializerFor is shorthand for WithSerializer(serialize.TypeOf[T](), s).
func WithSerializerFor[T any](s serialize.Serializer) Option {
	return WithSerializer(serialize.TypeOf[T](), s)
}

// ExpectedFailure marks the test as expected to fail.
func ExpectedFailure() Option {
	return optionFunc(func(m *Metadata) error {
		m.ExpectedFailure = true
		return nil
	})
}

// RequireCapability causes the test to be skipped unless the test run has the named capability.
func RequireCapability(name string) Option {
	return optionFunc(func(m *Metadata) error {
		if name == "" {
			return errors.New("RequireCapability needs a capability name")
		}
		if !helpers.SliceContains(name, m.Capabilities) {
			m.Capabilities = append(m.Capabilities, name)
		}
		return nil
	})
}

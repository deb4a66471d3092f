package regress

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"

	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

func init() { //nolint:gochecknoinits
	ldtest.OmitFromStacktraces(reflect.TypeOf(Suite{}).PkgPath())
}

// Suite is the list of test classes that a test run consists of.
type Suite struct {
	name    string
	classes []TestClass
	errs    *multierror.Error
	env     environment
}

// NewSuite creates an empty suite.
func NewSuite(name string) *Suite {
	return &Suite{name: name, env: environment{fsys: serialize.OSFileSystem{}}}
}

// Name returns the suite name.
func (s *Suite) Name() string { return s.name }

// Add adds classes to the suite. A class that is not runnable, or that has the same name as a
// class already in the suite, is rejected; the returned error describes every rejected class,
// and is also remembered for Err.
func (s *Suite) Add(classes ...TestClass) error {
	var errs *multierror.Error
	for _, c := range classes {
		switch {
		case !c.Runnable():
			errs = multierror.Append(errs, AbstractClassError{Class: c.Name(), Abstract: c.AbstractOperations()})
		case s.has(c.Name()):
			errs = multierror.Append(errs, fmt.Errorf("class %q was already added to suite %q", c.Name(), s.name))
		default:
			s.classes = append(s.classes, c)
		}
	}
	if errs != nil {
		s.errs = multierror.Append(s.errs, errs.Errors...)
	}
	return errs.ErrorOrNil()
}

// Err returns every error that Add has returned so far, or nil.
func (s *Suite) Err() error {
	return s.errs.ErrorOrNil()
}

// Classes returns the classes in the order they were added.
func (s *Suite) Classes() []TestClass {
	return append([]TestClass(nil), s.classes...)
}

// SetRegressionRoot sets the directory that regression records are stored under, for classes that
// do not set their own with ClassBuilder.RegressionRoot.
func (s *Suite) SetRegressionRoot(path string) *Suite {
	s.env.regressionRoot = path
	return s
}

// RegressionRoot returns the directory set with SetRegressionRoot, or DefaultRegressionRoot.
func (s *Suite) RegressionRoot() string {
	if s.env.regressionRoot == "" {
		return DefaultRegressionRoot
	}
	return s.env.regressionRoot
}

// Run runs every test of every class, each class in a scope named after it and each test in a
// child scope named with its discovery name.
func (s *Suite) Run(t *ldtest.T) {
	for _, c := range s.classes {
		class := c
		t.Run(class.Name(), func(t *ldtest.T) {
			for _, name := range class.Tests() {
				test := name
				t.Run(test, func(t *ldtest.T) {
					class.runTest(t, test, s.env)
				})
			}
		})
	}
}

func (s *Suite) has(name string) bool {
	for _, c := range s.classes {
		if c.Name() == name {
			return true
		}
	}
	return false
}

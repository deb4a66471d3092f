// Package regress declares test classes and regression tests on top of the ldtest runner.
//
// A test class is a table of named members built with NewClass. Members are test methods
// (created with Test, RegressionTest or ExceptionTest), plain functions (Func), abstract
// operations (Abstract) and concrete operations (Operation). Every class has a subject factory,
// the SubjectType hook, which is abstract until some class in the hierarchy provides it; a class
// with unresolved abstract operations cannot be added to a Suite.
//
// Each test method is exposed to the runner under the class's discovery prefix ("Test" unless
// the class says otherwise), so a method declared as "parses empty input" is run as
// "Testparses empty input". Every invocation builds a new subject.
//
// A regression test returns a map from result names to values. Each value is compared, in its
// own child scope, against a record stored under
//
//	<root>/<subject package path>/<subject type name>/<method name>/<result name>.<extension>
//
// The record is created if it does not exist yet, and is never overwritten after that; delete
// it to accept a new result.
package regress

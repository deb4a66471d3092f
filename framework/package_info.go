// Package framework contains the low-level test runner infrastructure that the regression
// harness is built on. The base package contains shared types such as Logger and Capabilities;
// the test scope runner itself is in the subpackage ldtest.
//
// The general model is:
//
// 1. There is a general notion of a test scope which is similar to Go's testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Scopes can be skipped, or marked as expected to fail, natively.
//
// 2. The regress package declares test classes as tables of named test methods and runs each
// discovered method in its own scope, with regression results as child scopes.
//
// 3. Test loggers receive status information about each scope and can write it to the console
// or to a JUnit XML file.
package framework

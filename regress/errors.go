package regress

import (
	"fmt"
	"strings"
)

// NameClashError is returned by ClassBuilder.Build when the discovery name generated for a test
// method is already used by another member of the same class.
type NameClashError struct {
	Class   string
	Method  string
	Binding string
}

func (e NameClashError) Error() string {
	return fmt.Sprintf("class %q: test method %q cannot be exposed for discovery because member %q already exists",
		e.Class, e.Method, e.Binding)
}

// AbstractClassError is returned by Suite.Add for a class that still has abstract operations.
type AbstractClassError struct {
	Class    string
	Abstract []string
}

func (e AbstractClassError) Error() string {
	return fmt.Sprintf("class %q cannot be run because it has abstract operations: %s",
		e.Class, strings.Join(e.Abstract, ", "))
}

// MissingSubjectTypeError is reported when a subject is needed but no class in the hierarchy
// provides the SubjectType hook with a factory of the right type.
type MissingSubjectTypeError struct {
	Class string
}

func (e MissingSubjectTypeError) Error() string {
	return fmt.Sprintf("class %q has no subject factory", e.Class)
}

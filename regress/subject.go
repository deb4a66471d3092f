package regress

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/launchdarkly/regression-test-harness/framework/helpers"
)

// Args are the arguments a subject is constructed with.
type Args struct {
	Positional []any
	Named      map[string]any
}

// Positional returns Args with only positional arguments.
func Positional(values ...any) Args {
	return Args{Positional: values}
}

// With returns a copy of the Args with a named argument added.
func (a Args) With(name string, value any) Args {
	ret := a.clone()
	if ret.Named == nil {
		ret.Named = make(map[string]any)
	}
	ret.Named[name] = value
	return ret
}

// Get returns a named argument.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.Named[name]
	return v, ok
}

func (a Args) clone() Args {
	return Args{Positional: helpers.CopyOf(a.Positional), Named: helpers.CopyOfMap(a.Named)}
}

// Factory constructs a subject. It is provided with ClassBuilder.SubjectType.
type Factory[S any] func(args Args) (S, error)

// subjectArgs picks the arguments for the subject of a method: the method's own SubjectArgs,
// else the class's CommonArguments, else none.
func subjectArgs[S any](c *Class[S], m Method[S]) Args {
	if m.meta.SubjectArgs.IsDefined() {
		return m.meta.SubjectArgs.Value().clone()
	}
	if args, ok := hook[Args](c, CommonArgumentsHook); ok {
		return args.clone()
	}
	return Args{}
}

func newSubject[S any](c *Class[S], m Method[S]) (S, error) {
	factory, ok := hook[Factory[S]](c, SubjectTypeHook)
	if !ok || factory == nil {
		var zero S
		return zero, MissingSubjectTypeError{Class: c.name}
	}
	return factory(subjectArgs(c, m))
}

var pathUnsafe = strings.NewReplacer("/", "_", "\\", "_") //nolint:gochecknoglobals

// subjectTypePath turns the fully qualified name of S into a relative path: the package path's
// segments followed by the type name.
func subjectTypePath[S any]() string {
	t := reflect.TypeOf((*S)(nil)).Elem()
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	var segments []string
	if pkg := t.PkgPath(); pkg != "" {
		segments = strings.Split(pkg, "/")
	}
	return filepath.Join(append(segments, pathUnsafe.Replace(name))...)
}

package regress

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/launchdarkly/regression-test-harness/framework/helpers"
	"github.com/launchdarkly/regression-test-harness/framework/ldtest"
	o "github.com/launchdarkly/regression-test-harness/framework/opt"
	"github.com/launchdarkly/regression-test-harness/serialize"
)

// DefaultDiscoveryPrefix is the discovery prefix of a class that neither declares one nor
// inherits one.
const DefaultDiscoveryPrefix = "Test"

// Names of the class hooks. Each is an operation of the class and can be inherited, overridden or
// declared abstract like any other.
const (
	SubjectTypeHook       = "SubjectType"
	CommonResourcesHook   = "CommonResources"
	CommonArgumentsHook   = "CommonArguments"
	CommonSerializersHook = "CommonSerializers"
	RegressionRootHook    = "RegressionRoot"
)

type memberKind int

const (
	methodMember memberKind = iota
	abstractMember
	operationMember
)

type member[S any] struct {
	name   string
	kind   memberKind
	method Method[S]
	impl   any
}

func (m member[S]) isTest() bool {
	return m.kind == methodMember && m.method.meta.IsTest
}

// ClassBuilder declares the members of a test class. Declaring a member with the name of an
// earlier one replaces it.
type ClassBuilder[S any] struct {
	name    string
	bases   []*Class[S]
	prefix  o.Maybe[string]
	members []member[S]
	errs    []error
}

// NewClass starts the declaration of a test class. Members not declared by the class itself are
// looked up in the bases, left to right.
func NewClass[S any](name string, bases ...*Class[S]) *ClassBuilder[S] {
	return &ClassBuilder[S]{name: name, bases: bases}
}

func (b *ClassBuilder[S]) declare(m member[S]) *ClassBuilder[S] {
	for i, existing := range b.members {
		if existing.name == m.name {
			b.members[i] = m
			return b
		}
	}
	b.members = append(b.members, m)
	return b
}

// Add declares methods, which may be tests or plain functions.
func (b *ClassBuilder[S]) Add(methods ...Method[S]) *ClassBuilder[S] {
	for _, m := range methods {
		if m.err != nil {
			b.errs = append(b.errs, m.err)
		}
		b.declare(member[S]{name: m.name, kind: methodMember, method: m})
	}
	return b
}

// Abstract declares operations that subclasses must provide before the class can be run.
func (b *ClassBuilder[S]) Abstract(names ...string) *ClassBuilder[S] {
	for _, name := range names {
		b.declare(member[S]{name: name, kind: abstractMember})
	}
	return b
}

// Operation declares a concrete operation. The class hooks have their own methods and cannot be
// declared with Operation.
func (b *ClassBuilder[S]) Operation(name string, impl any) *ClassBuilder[S] {
	if isHook(name) {
		b.errs = append(b.errs, fmt.Errorf("class %q: %s is a class hook and must be set with its own method",
			b.name, name))
		return b
	}
	return b.declare(member[S]{name: name, kind: operationMember, impl: impl})
}

// SubjectType provides the factory that constructs the subject of every test in the class.
func (b *ClassBuilder[S]) SubjectType(factory Factory[S]) *ClassBuilder[S] {
	return b.declare(member[S]{name: SubjectTypeHook, kind: operationMember, impl: factory})
}

// CommonResources provides a function that loads the resources passed to every test method of
// the class. It is called once per test invocation.
func (b *ClassBuilder[S]) CommonResources(load func() ([]any, error)) *ClassBuilder[S] {
	return b.declare(member[S]{name: CommonResourcesHook, kind: operationMember, impl: load})
}

// CommonArguments sets the arguments subjects are constructed with, unless the test method has
// its own SubjectArgs.
func (b *ClassBuilder[S]) CommonArguments(args Args) *ClassBuilder[S] {
	return b.declare(member[S]{name: CommonArgumentsHook, kind: operationMember, impl: args.clone()})
}

// CommonSerializers adds serializer rules for the regression results of every test method of the
// class. They take precedence over the defaults, and methods can override them with
// WithSerializer. As with serialize.NewRegistry, later rules take precedence.
func (b *ClassBuilder[S]) CommonSerializers(rules ...serialize.Rule) *ClassBuilder[S] {
	return b.declare(member[S]{name: CommonSerializersHook, kind: operationMember,
		impl: serialize.NewRegistry(rules...)})
}

// RegressionRoot sets the directory that the class's regression records are stored under.
func (b *ClassBuilder[S]) RegressionRoot(path string) *ClassBuilder[S] {
	return b.declare(member[S]{name: RegressionRootHook, kind: operationMember, impl: path})
}

// DiscoveryPrefix sets the prefix that test methods are exposed to the runner with. Subclasses
// inherit it.
func (b *ClassBuilder[S]) DiscoveryPrefix(prefix string) *ClassBuilder[S] {
	b.prefix = o.Some(prefix)
	return b
}

// Build finishes the class: it exposes every test method declared by the class under the
// discovery prefix, and works out which abstract operations remain.
func (b *ClassBuilder[S]) Build() (*Class[S], error) {
	if len(b.errs) != 0 {
		return nil, b.errs[0]
	}
	c := &Class[S]{
		name:    b.name,
		bases:   helpers.CopyOf(b.bases),
		members: make(map[string]member[S]),
	}
	c.prefix = c.inheritedPrefix(b.prefix)
	if c.prefix == "" {
		return nil, fmt.Errorf("class %q: discovery prefix must not be empty", b.name)
	}
	for _, m := range b.members {
		c.members[m.name] = m
		c.order = append(c.order, m.name)
	}
	for _, m := range b.members {
		if !m.isTest() || strings.HasPrefix(m.name, c.prefix) {
			continue
		}
		binding := c.prefix + m.name
		if _, exists := c.members[binding]; exists {
			return nil, NameClashError{Class: b.name, Method: m.name, Binding: binding}
		}
		c.bindings = append(c.bindings, binding)
		c.members[binding] = member[S]{name: binding, kind: methodMember, method: m.method}
	}
	c.abstract = c.computeAbstract()
	c.tests = c.computeTests()
	return c, nil
}

// MustBuild is like Build but panics on error. It is meant for package-level class declarations.
func (b *ClassBuilder[S]) MustBuild() *Class[S] {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// Class is a built test class.
type Class[S any] struct {
	name     string
	bases    []*Class[S]
	prefix   string
	members  map[string]member[S]
	order    []string
	bindings []string
	abstract []string
	tests    []string
}

// TestClass is the part of a Class that a Suite uses; it is implemented only by *Class.
type TestClass interface {
	Name() string
	Runnable() bool
	AbstractOperations() []string
	Tests() []string
	runTest(t *ldtest.T, name string, env environment)
}

// Name returns the class name.
func (c *Class[S]) Name() string { return c.name }

// DiscoveryPrefix returns the prefix that the class's tests are exposed with.
func (c *Class[S]) DiscoveryPrefix() string { return c.prefix }

// AbstractOperations returns the names of the operations that are still abstract, sorted.
func (c *Class[S]) AbstractOperations() []string { return helpers.CopyOf(c.abstract) }

// Runnable returns true if the class has no abstract operations.
func (c *Class[S]) Runnable() bool { return len(c.abstract) == 0 }

// Tests returns the discovery names of all tests in the class, including inherited ones:
// inherited tests first, in the order of the bases, then the class's own.
func (c *Class[S]) Tests() []string { return helpers.CopyOf(c.tests) }

// Method returns the method that a name resolves to, looking in the class and then its bases.
// The name can be a declared name or a discovery name.
func (c *Class[S]) Method(name string) (Method[S], bool) {
	m, ok := c.lookup(name)
	if !ok || m.kind != methodMember {
		return Method[S]{}, false
	}
	return m.method, true
}

func (c *Class[S]) inheritedPrefix(own o.Maybe[string]) string {
	if own.IsDefined() {
		return own.Value()
	}
	if len(c.bases) != 0 {
		return c.bases[0].prefix
	}
	return DefaultDiscoveryPrefix
}

func (c *Class[S]) lookup(name string) (member[S], bool) {
	if m, ok := c.members[name]; ok {
		return m, true
	}
	return c.lookupInherited(name)
}

func (c *Class[S]) lookupInherited(name string) (member[S], bool) {
	for _, base := range c.bases {
		if m, ok := base.lookup(name); ok {
			return m, true
		}
	}
	if len(c.bases) == 0 && name == SubjectTypeHook {
		// every hierarchy starts out without a subject factory
		return member[S]{name: name, kind: abstractMember}, true
	}
	return member[S]{}, false
}

func (c *Class[S]) computeAbstract() []string {
	var candidates []string
	if len(c.bases) == 0 {
		candidates = []string{SubjectTypeHook}
	}
	for _, base := range c.bases {
		candidates = append(candidates, base.abstract...)
	}
	set := make(map[string]bool)
	for _, name := range candidates {
		if m, ok := c.lookupInherited(name); ok && m.kind == abstractMember {
			set[name] = true
		}
	}
	for _, name := range c.order {
		if c.members[name].kind == abstractMember {
			set[name] = true
		} else {
			delete(set, name)
		}
	}
	ret := make([]string, 0, len(set))
	for name := range set {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

func (c *Class[S]) computeTests() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, base := range c.bases {
		for _, name := range base.tests {
			add(name)
		}
	}
	for _, name := range c.order {
		if strings.HasPrefix(name, c.prefix) {
			add(name)
		}
	}
	for _, name := range c.bindings {
		add(name)
	}
	ret := names[:0]
	for _, name := range names {
		if m, ok := c.lookup(name); ok && m.isTest() && strings.HasPrefix(name, c.prefix) {
			ret = append(ret, name)
		}
	}
	return ret
}

func (c *Class[S]) runTest(t *ldtest.T, name string, env environment) {
	m, ok := c.lookup(name)
	if !ok || !m.isTest() {
		t.Errorf("class %q has no test %q", c.name, name)
		t.FailNow()
	}
	newCase(t, c, m.method, env).invoke()
}

// hook returns the value of a class hook, if the class or one of its bases provides one of
// type T.
func hook[T, S any](c *Class[S], name string) (T, bool) {
	m, ok := c.lookup(name)
	if ok && m.kind == operationMember {
		if v, ok := m.impl.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func isHook(name string) bool {
	switch name {
	case SubjectTypeHook, CommonResourcesHook, CommonArgumentsHook, CommonSerializersHook, RegressionRootHook:
		return true
	}
	return false
}

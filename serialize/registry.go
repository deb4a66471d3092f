package serialize

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeTag identifies the result types a Rule applies to.
type TypeTag interface {
	// MatchesType returns true if a value of type t (one step of a result's ancestry) is covered.
	MatchesType(t reflect.Type) bool
	String() string
}

type exactType struct {
	t reflect.Type
}

func (e exactType) MatchesType(t reflect.Type) bool { return t == e.t }
func (e exactType) String() string                  { return e.t.String() }

type implementing struct {
	iface reflect.Type
}

func (i implementing) MatchesType(t reflect.Type) bool {
	return t != anyType && t.Implements(i.iface)
}
func (i implementing) String() string { return "implementations of " + i.iface.String() }

// TypeOf returns a TypeTag for exactly the type T. Values of types descending from T (see
// Ancestry) are also covered, unless a rule for a more derived type matches first.
func TypeOf[T any]() TypeTag {
	return exactType{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// Implementing returns a TypeTag for every type that implements the interface I.
func Implementing[I any]() TypeTag {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("serialize.Implementing needs an interface type, got %s", iface))
	}
	return implementing{iface: iface}
}

// Rule associates a TypeTag with the Serializer to use for it.
type Rule struct {
	Tag        TypeTag
	Serializer Serializer
}

// For is shorthand for a Rule with TypeOf[T]().
func For[T any](s Serializer) Rule {
	return Rule{Tag: TypeOf[T](), Serializer: s}
}

// Registry is an ordered list of rules, highest precedence first. The zero value is empty.
type Registry struct {
	rules []Rule
}

// Defaults returns the built-in registry: strings as text records, byte slices as binary records.
func Defaults() Registry {
	return NewRegistry(
		For[string](StringSerializer{}),
		For[[]byte](BytesSerializer{}),
	)
}

// NewRegistry returns a Registry containing rules. As with With, later rules take precedence.
func NewRegistry(rules ...Rule) Registry {
	return Registry{}.With(rules...)
}

// With returns a copy of the registry in which rules take precedence over the existing ones.
// A rule replaces any existing rule with an equal tag; all other existing rules are retained.
// Among rules, later ones take precedence over earlier ones.
func (r Registry) With(rules ...Rule) Registry {
	if len(rules) == 0 {
		return r
	}
	var added []Rule
	for i := len(rules) - 1; i >= 0; i-- {
		if !containsTag(added, rules[i].Tag) {
			added = append(added, rules[i])
		}
	}
	ret := make([]Rule, 0, len(added)+len(r.rules))
	ret = append(ret, added...)
	for _, existing := range r.rules {
		if !containsTag(added, existing.Tag) {
			ret = append(ret, existing)
		}
	}
	return Registry{rules: ret}
}

// Merge returns a registry where the rules of other take precedence over the rules of r.
func (r Registry) Merge(other Registry) Registry {
	reversed := make([]Rule, 0, len(other.rules))
	for i := len(other.rules) - 1; i >= 0; i-- {
		reversed = append(reversed, other.rules[i])
	}
	return r.With(reversed...)
}

// Rules returns the rules in precedence order.
func (r Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Lookup returns the serializer for a tag, if there is a rule for exactly that tag.
func (r Registry) Lookup(tag TypeTag) (Serializer, bool) {
	for _, rule := range r.rules {
		if rule.Tag == tag {
			return rule.Serializer, true
		}
	}
	return nil, false
}

// Resolve finds the serializer for a value. It walks the value's type ancestry from the most
// derived type, and at each step tries the rules in precedence order; the first match wins.
func (r Registry) Resolve(value any) (Serializer, bool) {
	return r.ResolveType(reflect.TypeOf(value))
}

// ResolveType is like Resolve but starts from a type.
func (r Registry) ResolveType(t reflect.Type) (Serializer, bool) {
	if t == nil {
		return nil, false
	}
	for _, ancestor := range Ancestry(t) {
		for _, rule := range r.rules {
			if rule.Tag.MatchesType(ancestor) {
				return rule.Serializer, true
			}
		}
	}
	return nil, false
}

func (r Registry) String() string {
	parts := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		parts = append(parts, fmt.Sprintf("%s => %s", rule.Tag, Name(rule.Serializer)))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func containsTag(rules []Rule, tag TypeTag) bool {
	for _, r := range rules {
		if r.Tag == tag {
			return true
		}
	}
	return false
}

package serialize

import (
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

type baseResult struct{ Value int }

type derivedResult struct {
	baseResult
	Extra string
}

type label string

type stringerResult struct{}

func (stringerResult) String() string { return "stringer" }

// taggedSerializer is a stand-in serializer distinguishable by its extension.
type taggedSerializer struct{ ext string }

func (s taggedSerializer) Binary() bool                         { return false }
func (s taggedSerializer) Extension() string                    { return s.ext }
func (s taggedSerializer) Serialize(any, io.Writer) error       { return nil }
func (s taggedSerializer) Deserialize(io.Reader) (any, error)   { return nil, nil }
func (s taggedSerializer) Compare(a, b any) o.Maybe[string]     { return DefaultCompare(a, b) }

func resolvedExtension(t *testing.T, r Registry, value any) string {
	s, ok := r.Resolve(value)
	require.True(t, ok, "no serializer for %T", value)
	return s.Extension()
}

func TestDefaultsResolveStringsAndBytes(t *testing.T) {
	r := Defaults()
	assert.Equal(t, StringSerializer{}, must(r.Resolve("x")))
	assert.Equal(t, BytesSerializer{}, must(r.Resolve([]byte("x"))))

	_, ok := r.Resolve(42)
	assert.False(t, ok)
	_, ok = r.Resolve(nil)
	assert.False(t, ok)
}

func TestResolveNamedTypeThroughUnderlyingType(t *testing.T) {
	assert.Equal(t, "txt", resolvedExtension(t, Defaults(), label("x")))
}

func TestResolveEmbeddedStructThroughBase(t *testing.T) {
	r := Defaults().With(For[baseResult](taggedSerializer{"base"}))
	assert.Equal(t, "base", resolvedExtension(t, r, derivedResult{}))
	assert.Equal(t, "base", resolvedExtension(t, r, &derivedResult{}))

	r = r.With(For[derivedResult](taggedSerializer{"derived"}))
	assert.Equal(t, "derived", resolvedExtension(t, r, derivedResult{}))
	assert.Equal(t, "base", resolvedExtension(t, r, baseResult{}))
}

func TestMoreDerivedTypeWinsOverPrecedence(t *testing.T) {
	// the lower-precedence rule is for the exact type, so it is found first in the ancestry walk
	r := NewRegistry(
		For[derivedResult](taggedSerializer{"derived"}),
		For[baseResult](taggedSerializer{"base"}),
	)
	assert.Equal(t, "derived", resolvedExtension(t, r, derivedResult{}))
}

func TestLaterRulesTakePrecedence(t *testing.T) {
	r := NewRegistry(
		Rule{Tag: TypeOf[any](), Serializer: taggedSerializer{"first"}},
		Rule{Tag: TypeOf[any](), Serializer: taggedSerializer{"second"}},
	)
	assert.Len(t, r.Rules(), 1)
	assert.Equal(t, "second", resolvedExtension(t, r, 1))
}

func TestWithReplacesRuleForSameTag(t *testing.T) {
	r := Defaults().With(For[string](taggedSerializer{"custom"}))
	assert.Len(t, r.Rules(), 2)
	assert.Equal(t, "custom", resolvedExtension(t, r, "x"))
	assert.Equal(t, "bin", resolvedExtension(t, r, []byte{1}))

	s, ok := r.Lookup(TypeOf[string]())
	require.True(t, ok)
	assert.Equal(t, taggedSerializer{"custom"}, s)
}

func TestMergeGivesOtherRegistryPrecedence(t *testing.T) {
	class := NewRegistry(
		For[int](taggedSerializer{"class-int"}),
		For[string](taggedSerializer{"class-string"}),
	)
	method := NewRegistry(For[int](taggedSerializer{"method-int"}))

	merged := Defaults().Merge(class).Merge(method)
	assert.Equal(t, "method-int", resolvedExtension(t, merged, 1))
	assert.Equal(t, "class-string", resolvedExtension(t, merged, "x"))
	assert.Equal(t, "bin", resolvedExtension(t, merged, []byte{1}))

	// merging keeps the other registry's own ordering
	two := NewRegistry(
		Rule{Tag: TypeOf[any](), Serializer: taggedSerializer{"low"}},
		For[int](taggedSerializer{"int"}),
	)
	assert.Equal(t, two.Rules(), Registry{}.Merge(two).Rules())
}

func TestImplementingTag(t *testing.T) {
	r := NewRegistry(Rule{Tag: Implementing[fmt.Stringer](), Serializer: taggedSerializer{"stringer"}})
	assert.Equal(t, "stringer", resolvedExtension(t, r, stringerResult{}))
	_, ok := r.Resolve(42)
	assert.False(t, ok)

	assert.Panics(t, func() { Implementing[int]() })
}

func TestRegistryStringListsRules(t *testing.T) {
	r := NewRegistry(
		For[string](taggedSerializer{"x"}),
		For[[]byte](BytesSerializer{}),
	)
	s := r.String()
	assert.Contains(t, s, "string => taggedSerializer")
	assert.Contains(t, s, "[]uint8 => BytesSerializer")
}

func TestAncestry(t *testing.T) {
	types := Ancestry(reflect.TypeOf(&derivedResult{}))
	require.Len(t, types, 4)
	assert.Equal(t, reflect.TypeOf(&derivedResult{}), types[0])
	assert.Equal(t, reflect.TypeOf(derivedResult{}), types[1])
	assert.Equal(t, reflect.TypeOf(baseResult{}), types[2])
	assert.Equal(t, anyType, types[3])

	assert.Equal(t, []reflect.Type{reflect.TypeOf(label("")), reflect.TypeOf(""), anyType},
		Ancestry(reflect.TypeOf(label(""))))
	assert.Equal(t, []reflect.Type{anyType}, Ancestry(nil))
}

func must(s Serializer, ok bool) Serializer {
	if !ok {
		return nil
	}
	return s
}

package serialize

import (
	"reflect"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem() //nolint:gochecknoglobals

// Go has no inheritance, so the "supertypes" of a type are approximated as follows: a pointer
// type descends from the type it points to, a struct descends from the types it embeds, and a
// named type descends from its unnamed underlying type. Every type descends from any.

// Ancestry returns t followed by its ancestors, most derived first, without duplicates. The
// last element is always the any interface type.
func Ancestry(t reflect.Type) []reflect.Type {
	if t == nil {
		return []reflect.Type{anyType}
	}
	var ret []reflect.Type
	seen := make(map[reflect.Type]bool)
	queue := []reflect.Type{t}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		ret = append(ret, current)
		queue = append(queue, parents(current)...)
	}
	if !seen[anyType] {
		ret = append(ret, anyType)
	}
	return ret
}

func parents(t reflect.Type) []reflect.Type {
	var ret []reflect.Type
	switch t.Kind() {
	case reflect.Pointer:
		ret = append(ret, t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.Anonymous {
				ret = append(ret, f.Type)
			}
		}
	}
	if u := unnamedUnderlying(t); u != nil && u != t {
		ret = append(ret, u)
	}
	return ret
}

// unnamedUnderlying returns the unnamed type that a named type is defined on, for the kinds
// where reflect can construct it.
func unnamedUnderlying(t reflect.Type) reflect.Type {
	if t.Name() == "" {
		return nil
	}
	switch t.Kind() {
	case reflect.Slice:
		return reflect.SliceOf(t.Elem())
	case reflect.Array:
		return reflect.ArrayOf(t.Len(), t.Elem())
	case reflect.Map:
		return reflect.MapOf(t.Key(), t.Elem())
	case reflect.Pointer:
		return reflect.PointerTo(t.Elem())
	}
	if basic, ok := basicTypes[t.Kind()]; ok {
		return basic
	}
	return nil
}

var basicTypes = map[reflect.Kind]reflect.Type{ //nolint:gochecknoglobals
	reflect.Bool:       reflect.TypeOf(false),
	reflect.Int:        reflect.TypeOf(int(0)),
	reflect.Int8:       reflect.TypeOf(int8(0)),
	reflect.Int16:      reflect.TypeOf(int16(0)),
	reflect.Int32:      reflect.TypeOf(int32(0)),
	reflect.Int64:      reflect.TypeOf(int64(0)),
	reflect.Uint:       reflect.TypeOf(uint(0)),
	reflect.Uint8:      reflect.TypeOf(uint8(0)),
	reflect.Uint16:     reflect.TypeOf(uint16(0)),
	reflect.Uint32:     reflect.TypeOf(uint32(0)),
	reflect.Uint64:     reflect.TypeOf(uint64(0)),
	reflect.Uintptr:    reflect.TypeOf(uintptr(0)),
	reflect.Float32:    reflect.TypeOf(float32(0)),
	reflect.Float64:    reflect.TypeOf(float64(0)),
	reflect.Complex64:  reflect.TypeOf(complex64(0)),
	reflect.Complex128: reflect.TypeOf(complex128(0)),
	reflect.String:     reflect.TypeOf(""),
}

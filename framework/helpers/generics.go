package helpers

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// IfElse returns valueIfTrue or valueIfFalse depending on isTrue.
func IfElse[V any](isTrue bool, valueIfTrue, valueIfFalse V) V {
	if isTrue {
		return valueIfTrue
	}
	return valueIfFalse
}

// SliceContains returns true if and only if the slice has an element that equals the value.
func SliceContains[V comparable](value V, slice []V) bool {
	for _, element := range slice {
		if element == value {
			return true
		}
	}
	return false
}

// CopyOf returns a shallow copy of a slice, or nil if the slice is nil.
func CopyOf[V any](slice []V) []V {
	if slice == nil {
		return nil
	}
	return append(make([]V, 0, len(slice)), slice...)
}

// CopyOfMap returns a shallow copy of a map, or nil if the map is nil.
func CopyOfMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	ret := make(map[K]V, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

// Sorted returns a sorted copy of a slice.
func Sorted[V constraints.Ordered](slice []V) []V {
	ret := CopyOf(slice)
	slices.Sort(ret)
	return ret
}

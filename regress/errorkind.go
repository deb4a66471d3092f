package regress

import (
	"errors"
	"reflect"
	"strings"
)

// ErrorKind describes a class of errors that an ExceptionTest accepts.
type ErrorKind struct {
	name    string
	matches func(error) bool
	err     error
}

// Is returns an ErrorKind matching any error for which errors.Is(err, target) is true. A nil
// target is reported as an error when the method's class is built.
func Is(target error) ErrorKind {
	if target == nil {
		return ErrorKind{name: "<nil>", err: errors.New("Is needs a non-nil error")}
	}
	return ErrorKind{
		name:    target.Error(),
		matches: func(err error) bool { return errors.Is(err, target) },
	}
}

// As returns an ErrorKind matching any error for which errors.As finds an E in its chain.
func As[E error]() ErrorKind {
	return ErrorKind{
		name: reflect.TypeOf((*E)(nil)).Elem().String(),
		matches: func(err error) bool {
			var target E
			return errors.As(err, &target)
		},
	}
}

// Matches returns true if err is of this kind. A nil error matches no kind.
func (k ErrorKind) Matches(err error) bool {
	return err != nil && k.matches != nil && k.matches(err)
}

func (k ErrorKind) String() string { return k.name }

// ErrorKinds is a list of accepted error kinds.
type ErrorKinds []ErrorKind

// Match returns true if err matches any of the kinds.
func (ks ErrorKinds) Match(err error) bool {
	for _, k := range ks {
		if k.Matches(err) {
			return true
		}
	}
	return false
}

func (ks ErrorKinds) String() string {
	names := make([]string, 0, len(ks))
	for _, k := range ks {
		names = append(names, k.name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

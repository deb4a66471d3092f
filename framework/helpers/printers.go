package helpers

import (
	"fmt"
	"io"
)

// MustFprintln is fmt.Fprintln for output where a write failure means the process cannot
// report anything anyway, such as the console. It panics on error.
func MustFprintln(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		panic(err)
	}
}

// MustFprintf is the fmt.Fprintf counterpart of MustFprintln.
func MustFprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		panic(err)
	}
}

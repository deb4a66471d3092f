package serialize

import (
	"fmt"
	"io"
	"reflect"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// StringSerializer stores string results as text in .txt records. Values of any type whose
// underlying type is string are accepted.
type StringSerializer struct{}

func (StringSerializer) Binary() bool      { return false }
func (StringSerializer) Extension() string { return "txt" }

func (s StringSerializer) Serialize(value any, w io.Writer) error {
	str, ok := asString(value)
	if !ok {
		return wrongType(s, value)
	}
	_, err := io.WriteString(w, str)
	return err
}

func (StringSerializer) Deserialize(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Compare reports both values literally when they differ, so the failure message shows exactly
// what was produced and what was expected.
func (StringSerializer) Compare(result, reference any) o.Maybe[string] {
	resultStr, ok1 := asString(result)
	referenceStr, ok2 := asString(reference)
	if ok1 && ok2 && resultStr == referenceStr {
		return o.None[string]()
	}
	return o.Some(fmt.Sprintf("Result:\n%s\nReference:\n%s", describe(result, resultStr, ok1),
		describe(reference, referenceStr, ok2)))
}

func asString(value any) (string, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

func describe(value any, str string, ok bool) string {
	if ok {
		return str
	}
	return fmt.Sprintf("%#v", value)
}

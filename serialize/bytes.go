package serialize

import (
	"bytes"
	"io"
	"reflect"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// BytesSerializer stores byte-slice results unchanged in binary .bin records.
type BytesSerializer struct{}

func (BytesSerializer) Binary() bool      { return true }
func (BytesSerializer) Extension() string { return "bin" }

func (s BytesSerializer) Serialize(value any, w io.Writer) error {
	data, ok := asBytes(value)
	if !ok {
		return wrongType(s, value)
	}
	_, err := w.Write(data)
	return err
}

func (BytesSerializer) Deserialize(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (BytesSerializer) Compare(result, reference any) o.Maybe[string] {
	a, ok1 := asBytes(result)
	b, ok2 := asBytes(reference)
	if ok1 && ok2 && bytes.Equal(a, b) {
		return o.None[string]()
	}
	return o.Some(MismatchMarker)
}

func asBytes(value any) ([]byte, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	return v.Bytes(), true
}

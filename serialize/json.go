package serialize

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/regression-test-harness/framework/helpers"
	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// JSONSerializer stores any JSON-marshalable result as a .json record. Results are converted to
// ldvalue.Value and written with object keys in alphabetical order, so records are stable across
// runs regardless of map iteration order. Deserialized records are ldvalue.Value.
type JSONSerializer struct{}

func (JSONSerializer) Binary() bool      { return false }
func (JSONSerializer) Extension() string { return "json" }

func (JSONSerializer) Serialize(value any, w io.Writer) error {
	v, err := toJSONValue(value)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, helpers.CanonicalizedJSONString(v)+"\n")
	return err
}

func (JSONSerializer) Deserialize(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader := jreader.NewReader(data)
	var v ldvalue.Value
	v.ReadFromJSONReader(&reader)
	if err := reader.Error(); err != nil {
		return nil, fmt.Errorf("malformed JSON record: %w", err)
	}
	if err := reader.RequireEOF(); err != nil {
		return nil, fmt.Errorf("malformed JSON record: %w", err)
	}
	return v, nil
}

func (JSONSerializer) Compare(result, reference any) o.Maybe[string] {
	a, err1 := toJSONValue(result)
	b, err2 := toJSONValue(reference)
	if err1 == nil && err2 == nil && a.Equal(b) {
		return o.None[string]()
	}
	return o.Some(fmt.Sprintf("Result:\n%s\nReference:\n%s",
		helpers.CanonicalizedJSONString(a), helpers.CanonicalizedJSONString(b)))
}

func toJSONValue(value any) (ldvalue.Value, error) {
	switch v := value.(type) {
	case ldvalue.Value:
		return v, nil
	case json.RawMessage:
		return ldvalue.Parse(v), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ldvalue.Null(), fmt.Errorf("cannot convert %T to JSON: %w", value, err)
	}
	return ldvalue.Parse(data), nil
}

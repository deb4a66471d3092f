package serialize

import (
	"errors"
	"io"

	yaml "gopkg.in/yaml.v3"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// YAMLSerializer stores results as .yaml records using gopkg.in/yaml.v3. Deserialized records
// are generic YAML values (map[string]any, []any, scalars), and results are compared in that
// form.
type YAMLSerializer struct{}

func (YAMLSerializer) Binary() bool      { return false }
func (YAMLSerializer) Extension() string { return "yaml" }

func (YAMLSerializer) Serialize(value any, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

func (YAMLSerializer) Deserialize(r io.Reader) (any, error) {
	var value any
	if err := yaml.NewDecoder(r).Decode(&value); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return value, nil
}

func (s YAMLSerializer) Compare(result, reference any) o.Maybe[string] {
	return compareStructured(s, result, reference)
}

package serialize

import (
	"io"

	"github.com/BurntSushi/toml"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// TOMLSerializer stores table-shaped results (structs or maps with string keys) as .toml
// records. Deserialized records are map[string]any.
type TOMLSerializer struct{}

func (TOMLSerializer) Binary() bool      { return false }
func (TOMLSerializer) Extension() string { return "toml" }

func (TOMLSerializer) Serialize(value any, w io.Writer) error {
	return toml.NewEncoder(w).Encode(value)
}

func (TOMLSerializer) Deserialize(r io.Reader) (any, error) {
	value := make(map[string]any)
	if _, err := toml.NewDecoder(r).Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s TOMLSerializer) Compare(result, reference any) o.Maybe[string] {
	return compareStructured(s, result, reference)
}

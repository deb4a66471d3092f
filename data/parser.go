// Package data reads the JSON or YAML documents that configure a test run.
package data

import (
	"encoding/json"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// ParseJSONOrYAML is used in the same way as json.Unmarshal, but also accepts YAML. YAML data is
// converted to JSON first, so the target's json struct tags apply to both formats.
func ParseJSONOrYAML(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return err
	}
	if parsed == nil {
		return nil // empty document
	}
	normalized, err := jsonCompatible(parsed)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

// ReadJSONOrYAMLFile reads a file and parses it with ParseJSONOrYAML.
func ReadJSONOrYAMLFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := ParseJSONOrYAML(data, target); err != nil {
		return fmt.Errorf("error parsing %q: %w", path, err)
	}
	return nil
}

// jsonCompatible rebuilds a parsed YAML structure so that every map has string keys.
func jsonCompatible(value any) (any, error) {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			converted, err := jsonCompatible(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := jsonCompatible(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("YAML data contained a map key of type %T; only string keys are allowed", key)
			}
			converted, err := jsonCompatible(item)
			if err != nil {
				return nil, err
			}
			out[name] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}

// Package yamldec provides a YAML Deserializer for Compiler.UseDeserializer,
// so schema sources may be authored as YAML instead of JSON, backed by
// gopkg.in/yaml.v3.
package yamldec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Deserializer decodes data as YAML and normalizes the result into the
// same map[string]any / []any / json.Number shape the default JSON
// Deserializer produces, so keyword code never has to special-case which
// format a source was authored in.
func Deserializer(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return normalize(doc), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return json.Number(fmt.Sprint(t))
	case int64:
		return json.Number(fmt.Sprint(t))
	case float64:
		return json.Number(fmt.Sprint(t))
	default:
		return v
	}
}

// Package yaml loads YAML documents into the same generic value tree the JSON
// loader produces, so a document decodes identically regardless of the
// serialization it arrived in. Schema Salad documents are YAML-first.
package yaml

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	y "gopkg.in/yaml.v3"
)

// Decode reads a single YAML document from r.
func Decode(r io.Reader) (any, error) {
	var v any
	if err := y.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("yaml source: %w", err)
	}
	return normalize(v)
}

// DecodeBytes reads a single YAML document from b.
func DecodeBytes(b []byte) (any, error) {
	var v any
	if err := y.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("yaml source: %w", err)
	}
	return normalize(v)
}

// normalize aligns yaml.v3's output with the JSON loader: numbers become
// json.Number, map keys must be strings.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("yaml source: non-string mapping key %v", k)
			}
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[ks] = ne
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ne, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	default:
		return v, nil
	}
}

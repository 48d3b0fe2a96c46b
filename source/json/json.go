// Package json loads JSON documents into the generic value tree the salad
// runtime decodes: map[string]any for objects, []any for arrays, json.Number
// for numbers (no float64 precision loss), string, bool and nil for the rest.
package json

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// Decode reads a single JSON document from r.
func Decode(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("json source: %w", err)
	}
	// trailing garbage after the document is an error, not ignored input
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("json source: trailing data after document")
	}
	return v, nil
}

// DecodeBytes reads a single JSON document from b.
func DecodeBytes(b []byte) (any, error) {
	return Decode(bytes.NewReader(b))
}

// Package output provides stable number formatting and JSON encoding for dpcheck reports.
package output

import (
	"bytes"
	"encoding/json"
)

// EncodeJSON encodes v as indented JSON without HTML escaping.
// Object keys of maps are sorted by encoding/json; struct fields keep declaration order.
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

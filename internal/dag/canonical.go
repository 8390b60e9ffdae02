package dag

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// CanonicalJSON produces a deterministic, compact JSON encoding with sorted
// object keys. Commit identity is the hash of this encoding, so two commits
// with equal fields always serialize to the same bytes.
func CanonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// Re-decode into a generic tree so struct field order and map iteration
	// order cannot leak into the output.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := canonicalEncode(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func canonicalEncode(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(val)) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := canonicalEncode(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := canonicalEncode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return writeScalar(buf, val)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

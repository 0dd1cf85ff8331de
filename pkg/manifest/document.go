package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a JSON object that preserves key order. Values are kept as
// raw JSON so untouched entries round-trip byte-for-byte (modulo
// re-indentation); only deliberately replaced values change.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// ParseDocument decodes data, which must be a JSON object.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("root value is %v, not an object", tok)
	}

	doc := &Document{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		doc.Set(key, raw)
	}
	if _, err := dec.Token(); err != nil { // consume closing brace
		return nil, err
	}
	return doc, nil
}

// Keys returns the document's keys in original order.
func (d *Document) Keys() []string {
	return d.keys
}

// Get returns the raw value for key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	raw, ok := d.values[key]
	return raw, ok
}

// Set replaces the value for key, keeping its position; a new key is
// appended.
func (d *Document) Set(key string, raw json.RawMessage) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// MarshalIndent serializes the document with two-space indentation and a
// trailing newline, preserving key order.
func (d *Document) MarshalIndent() ([]byte, error) {
	if len(d.keys) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range d.keys {
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(encodedKey)
		buf.WriteString(": ")
		if err := json.Indent(&buf, d.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if i < len(d.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// marshalCompact serializes the document on a single line. Used to splice
// a rewritten section back into its parent before the final indent pass.
func (d *Document) marshalCompact() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, _ := json.Marshal(key)
		buf.Write(encodedKey)
		buf.WriteByte(':')
		compacted := &bytes.Buffer{}
		if err := json.Compact(compacted, d.values[key]); err == nil {
			buf.Write(compacted.Bytes())
		} else {
			buf.Write(d.values[key])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

package manifest

import (
	"testing"
)

func TestParseDocumentPreservesOrder(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"zebra": 1, "alpha": {"nested": true}, "mango": [1, 2]}`))
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}

	want := []string{"zebra", "alpha", "mango"}
	keys := doc.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestParseDocumentRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[1, 2]`, `"text"`, `42`, `{"a":`} {
		if _, err := ParseDocument([]byte(input)); err == nil {
			t.Errorf("ParseDocument(%q) should fail", input)
		}
	}
}

func TestMarshalIndent(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"name":"demo","dependencies":{"lodash":"^4.17.20"},"private":true}`))
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}

	got, err := doc.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent() error: %v", err)
	}

	want := `{
  "name": "demo",
  "dependencies": {
    "lodash": "^4.17.20"
  },
  "private": true
}
`
	if string(got) != want {
		t.Errorf("MarshalIndent() =\n%s\nwant\n%s", got, want)
	}
}

func TestMarshalIndentEmpty(t *testing.T) {
	doc, _ := ParseDocument([]byte(`{}`))
	got, err := doc.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent() error: %v", err)
	}
	if string(got) != "{}\n" {
		t.Errorf("MarshalIndent() = %q, want %q", got, "{}\n")
	}
}

func TestSetKeepsPosition(t *testing.T) {
	doc, _ := ParseDocument([]byte(`{"a": 1, "b": 2, "c": 3}`))
	doc.Set("b", []byte(`20`))

	keys := doc.Keys()
	if keys[1] != "b" {
		t.Errorf("Set() moved key: Keys() = %v", keys)
	}
	raw, _ := doc.Get("b")
	if string(raw) != "20" {
		t.Errorf("Get(b) = %s, want 20", raw)
	}
}

func TestSetAppendsNewKey(t *testing.T) {
	doc, _ := ParseDocument([]byte(`{"a": 1}`))
	doc.Set("z", []byte(`true`))

	keys := doc.Keys()
	if len(keys) != 2 || keys[1] != "z" {
		t.Errorf("Keys() = %v, want [a z]", keys)
	}
}

func TestRoundTripPreservesValues(t *testing.T) {
	input := `{
  "name": "demo",
  "version": "0.1.0",
  "scripts": {
    "build": "tsc",
    "test": "jest --coverage"
  },
  "dependencies": {
    "lodash": "^4.17.20"
  },
  "workspaces": [
    "packages/*"
  ],
  "count": 1e3
}
`
	doc, err := ParseDocument([]byte(input))
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	got, err := doc.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent() error: %v", err)
	}
	if string(got) != input {
		t.Errorf("round trip changed document:\n%s\nwant\n%s", got, input)
	}
}

// Package manifest reads and rewrites package.json files.
//
// A loaded manifest keeps the whole document as ordered raw JSON so a save
// round-trips every untouched key, value, and position. Only the two
// dependency sections are decoded further, and only deliberately upgraded
// constraint strings differ in the output.
package manifest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/skoenig/depup/pkg/errors"
)

// Section names a dependency grouping within a manifest.
type Section string

const (
	// SectionRuntime holds dependencies required at runtime.
	SectionRuntime Section = "dependencies"
	// SectionDevelopment holds development-only dependencies.
	SectionDevelopment Section = "devDependencies"
)

// Sections lists the recognized dependency sections in extraction order.
var Sections = []Section{SectionRuntime, SectionDevelopment}

// localPrefixes mark constraints referencing the local filesystem rather
// than a registry version. Such entries are never resolved or rewritten.
var localPrefixes = []string{"file:", "link:", "portal:", "workspace:"}

// Dependency is one declared entry from a manifest's dependency sections.
type Dependency struct {
	Section    Section
	Name       string
	Constraint string
}

// Manifest is a loaded package.json plus its parsed dependency sections.
type Manifest struct {
	path     string
	doc      *Document
	sections map[Section]*Document
}

// Load reads and parses the manifest at path. A file that is not a JSON
// object, or whose dependency sections are not objects, is an
// INVALID_MANIFEST error; callers skip such manifests.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	m := &Manifest{path: path, doc: doc, sections: make(map[Section]*Document)}
	for _, section := range Sections {
		raw, ok := doc.Get(string(section))
		if !ok {
			continue
		}
		sec, err := ParseDocument(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s section of %s", section, path)
		}
		m.sections[section] = sec
	}
	return m, nil
}

// Path returns the file path the manifest was loaded from.
func (m *Manifest) Path() string { return m.path }

// Name returns the manifest's package name, if present.
func (m *Manifest) Name() string {
	raw, ok := m.doc.Get("name")
	if !ok {
		return ""
	}
	var name string
	if json.Unmarshal(raw, &name) != nil {
		return ""
	}
	return name
}

// Dependencies returns the registry-addressable entries of both sections in
// document order. Local filesystem references and non-string constraints
// are excluded.
func (m *Manifest) Dependencies() []Dependency {
	var deps []Dependency
	for _, section := range Sections {
		sec, ok := m.sections[section]
		if !ok {
			continue
		}
		for _, name := range sec.Keys() {
			raw, _ := sec.Get(name)
			var constraint string
			if json.Unmarshal(raw, &constraint) != nil {
				continue
			}
			if isLocalReference(constraint) {
				continue
			}
			deps = append(deps, Dependency{Section: section, Name: name, Constraint: constraint})
		}
	}
	return deps
}

// SetConstraint replaces the constraint recorded for name in section. The
// in-memory document is mutated; nothing touches disk until Save.
func (m *Manifest) SetConstraint(section Section, name, constraint string) {
	sec, ok := m.sections[section]
	if !ok {
		return
	}
	if _, exists := sec.Get(name); !exists {
		return
	}
	encoded, _ := json.Marshal(constraint)
	sec.Set(name, encoded)
}

// Save serializes the whole document back to its original path with
// two-space indentation and a trailing newline. Key order and untouched
// values are preserved.
func (m *Manifest) Save() error {
	for _, section := range Sections {
		if sec, ok := m.sections[section]; ok {
			m.doc.Set(string(section), sec.marshalCompact())
		}
	}
	data, err := m.doc.MarshalIndent()
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

func isLocalReference(constraint string) bool {
	for _, prefix := range localPrefixes {
		if strings.HasPrefix(constraint, prefix) {
			return true
		}
	}
	return false
}

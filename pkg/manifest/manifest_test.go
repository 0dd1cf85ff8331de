package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skoenig/depup/pkg/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExtractsBothSections(t *testing.T) {
	path := writeManifest(t, `{
  "name": "demo",
  "dependencies": {
    "lodash": "^4.17.20",
    "express": "~4.18.0"
  },
  "devDependencies": {
    "jest": "^29.0.0"
  }
}`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.Name() != "demo" {
		t.Errorf("Name() = %q, want %q", m.Name(), "demo")
	}

	deps := m.Dependencies()
	want := []Dependency{
		{SectionRuntime, "lodash", "^4.17.20"},
		{SectionRuntime, "express", "~4.18.0"},
		{SectionDevelopment, "jest", "^29.0.0"},
	}
	if len(deps) != len(want) {
		t.Fatalf("Dependencies() = %v, want %v", deps, want)
	}
	for i := range want {
		if deps[i] != want[i] {
			t.Errorf("Dependencies()[%d] = %v, want %v", i, deps[i], want[i])
		}
	}
}

func TestDependenciesExcludesLocalReferences(t *testing.T) {
	path := writeManifest(t, `{
  "dependencies": {
    "shared": "file:../shared",
    "linked": "link:../linked",
    "ws": "workspace:*",
    "lodash": "^4.17.20"
  }
}`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	deps := m.Dependencies()
	if len(deps) != 1 || deps[0].Name != "lodash" {
		t.Errorf("Dependencies() = %v, want only lodash", deps)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeManifest(t, `{"name": "broken",`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail on malformed JSON")
	}
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("error code = %v, want INVALID_MANIFEST", errors.GetCode(err))
	}
}

func TestLoadInvalidSection(t *testing.T) {
	path := writeManifest(t, `{"dependencies": ["not", "an", "object"]}`)

	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("Load() error = %v, want INVALID_MANIFEST", err)
	}
}

func TestSetConstraintAndSave(t *testing.T) {
	path := writeManifest(t, `{
  "name": "demo",
  "version": "1.0.0",
  "scripts": {
    "test": "jest"
  },
  "dependencies": {
    "lodash": "^4.17.20",
    "express": "^4.18.0"
  }
}`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	m.SetConstraint(SectionRuntime, "lodash", "^4.17.21")
	if err := m.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "name": "demo",
  "version": "1.0.0",
  "scripts": {
    "test": "jest"
  },
  "dependencies": {
    "lodash": "^4.17.21",
    "express": "^4.18.0"
  }
}
`
	if string(got) != want {
		t.Errorf("Save() wrote:\n%s\nwant:\n%s", got, want)
	}
}

func TestSetConstraintUnknownEntryIsNoop(t *testing.T) {
	path := writeManifest(t, `{"dependencies": {"lodash": "^4.17.20"}}`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	m.SetConstraint(SectionRuntime, "unknown", "^1.0.0")
	m.SetConstraint(SectionDevelopment, "lodash", "^9.9.9")

	deps := m.Dependencies()
	if len(deps) != 1 || deps[0].Constraint != "^4.17.20" {
		t.Errorf("Dependencies() = %v, unknown entries should not be added", deps)
	}
}

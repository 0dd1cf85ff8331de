package update

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeInstaller struct {
	installs []string
	audits   []string
}

func (f *fakeInstaller) Install(_ context.Context, dir string) error {
	f.installs = append(f.installs, dir)
	return nil
}

func (f *fakeInstaller) AuditFix(_ context.Context, dir string) error {
	f.audits = append(f.audits, dir)
	return nil
}

const sampleManifest = `{
  "name": "sample",
  "version": "1.0.0",
  "dependencies": {
    "lodash": "^4.17.20",
    "left-pad": "^1.3.0"
  },
  "devDependencies": {
    "jest": "^29.0.0"
  }
}
`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestUpdaterRun(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, sampleManifest)

	resolver := &fakeResolver{versions: map[string]string{
		"lodash":   "4.17.21",
		"left-pad": "1.3.0",
		"jest":     "29.7.0",
	}}

	u := New(resolver, Options{Root: root})
	sum, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Manifests != 1 || sum.Written != 1 || sum.Upgraded != 2 {
		t.Fatalf("summary = %+v, want 1 manifest, 1 written, 2 upgraded", sum)
	}

	want := `{
  "name": "sample",
  "version": "1.0.0",
  "dependencies": {
    "lodash": "^4.17.21",
    "left-pad": "^1.3.0"
  },
  "devDependencies": {
    "jest": "^29.7.0"
  }
}
`
	if got := readFile(t, path); got != want {
		t.Errorf("manifest after run:\n%s\nwant:\n%s", got, want)
	}
}

func TestUpdaterIdempotent(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, sampleManifest)

	resolver := &fakeResolver{versions: map[string]string{
		"lodash":   "4.17.21",
		"left-pad": "1.3.0",
		"jest":     "29.7.0",
	}}

	u := New(resolver, Options{Root: root})
	if _, err := u.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, path)

	sum, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Written != 0 || sum.Upgraded != 0 {
		t.Errorf("second run summary = %+v, want nothing written", sum)
	}
	if got := readFile(t, path); got != first {
		t.Error("second run changed the manifest")
	}
}

func TestUpdaterDryRun(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, sampleManifest)

	resolver := &fakeResolver{versions: map[string]string{
		"lodash":   "4.17.21",
		"left-pad": "2.0.0",
		"jest":     "29.7.0",
	}}
	installer := &fakeInstaller{}

	u := New(resolver, Options{Root: root, DryRun: true, Install: true, Installer: installer})
	sum, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Written != 0 || sum.Upgraded != 0 {
		t.Errorf("dry run summary = %+v, want nothing written", sum)
	}
	if got := readFile(t, path); got != sampleManifest {
		t.Error("dry run modified the manifest")
	}
	if len(installer.installs) != 0 {
		t.Error("dry run must not invoke the install step")
	}
}

func TestUpdaterInstallStep(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, sampleManifest)

	resolver := &fakeResolver{versions: map[string]string{
		"lodash":   "4.17.21",
		"left-pad": "1.3.0",
		"jest":     "29.7.0",
	}}
	installer := &fakeInstaller{}

	u := New(resolver, Options{Root: root, Install: true, Audit: true, Installer: installer})
	if _, err := u.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(installer.installs) != 1 || installer.installs[0] != root {
		t.Errorf("installs = %v, want one install in %s", installer.installs, root)
	}
	if len(installer.audits) != 1 {
		t.Errorf("audits = %v, want one audit fix", installer.audits)
	}

	// A second run has nothing to write, so no install step either.
	installer.installs = nil
	installer.audits = nil
	if _, err := u.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(installer.installs) != 0 {
		t.Error("install step ran without a written manifest")
	}
}

func TestUpdaterLookupFailureIsolation(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, sampleManifest)

	// left-pad and jest never resolve; lodash still upgrades.
	resolver := &fakeResolver{versions: map[string]string{
		"lodash": "4.17.21",
	}}

	u := New(resolver, Options{Root: root})
	sum, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 2 {
		t.Errorf("Failed = %d, want 2", sum.Failed)
	}
	if sum.Upgraded != 1 {
		t.Errorf("Upgraded = %d, want 1", sum.Upgraded)
	}

	got := readFile(t, path)
	if want := `"lodash": "^4.17.21"`; !strings.Contains(got, want) {
		t.Errorf("manifest missing %s:\n%s", want, got)
	}
	if want := `"left-pad": "^1.3.0"`; !strings.Contains(got, want) {
		t.Errorf("failed lookup must leave the entry untouched:\n%s", got)
	}
}

func TestUpdaterConfirmFilter(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, sampleManifest)

	resolver := &fakeResolver{versions: map[string]string{
		"lodash":   "4.17.21",
		"left-pad": "1.3.0",
		"jest":     "29.7.0",
	}}

	confirm := func(plans []Plan) ([]Plan, error) {
		var kept []Plan
		for _, p := range plans {
			if p.Name == "jest" {
				kept = append(kept, p)
			}
		}
		return kept, nil
	}

	u := New(resolver, Options{Root: root, Confirm: confirm})
	sum, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Upgraded != 1 {
		t.Errorf("Upgraded = %d, want 1", sum.Upgraded)
	}

	got := readFile(t, path)
	if !strings.Contains(got, `"jest": "^29.7.0"`) {
		t.Errorf("confirmed upgrade missing:\n%s", got)
	}
	if !strings.Contains(got, `"lodash": "^4.17.20"`) {
		t.Errorf("filtered upgrade was applied:\n%s", got)
	}
}

func TestUpdaterSkipsInvalidManifest(t *testing.T) {
	root := t.TempDir()

	bad := filepath.Join(root, "broken")
	if err := os.MkdirAll(bad, 0o755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, bad, "{not json")

	good := filepath.Join(root, "app")
	if err := os.MkdirAll(good, 0o755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, good, sampleManifest)

	resolver := &fakeResolver{versions: map[string]string{
		"lodash":   "4.17.21",
		"left-pad": "1.3.0",
		"jest":     "29.7.0",
	}}

	u := New(resolver, Options{Root: root})
	sum, err := u.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Manifests != 2 {
		t.Errorf("Manifests = %d, want 2", sum.Manifests)
	}
	if sum.Written != 1 {
		t.Errorf("Written = %d, want 1", sum.Written)
	}
}


// Package discover walks a working tree for package.json manifests,
// honoring ignore globs.
package discover

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ManifestName is the fixed manifest file name this tool operates on.
const ManifestName = "package.json"

// DefaultIgnores are always excluded from discovery, regardless of
// configuration. Caller-supplied globs extend this set.
var DefaultIgnores = []string{
	"**/node_modules/**",
	"**/bower_components/**",
	"**/.git/**",
}

// Find returns the manifests under root in walk (lexical) order, excluding
// any path matching the built-in or supplied ignore globs. Globs use
// doublestar semantics and match root-relative slash paths. An empty result
// is not an error.
func Find(root string, ignore []string) ([]string, error) {
	patterns := append(slices.Clone(DefaultIgnores), ignore...)

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && skipDir(patterns, rel) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != ManifestName || ignored(patterns, rel) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func ignored(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// skipDir prunes directories whose entire subtree is ignored. Only patterns
// of the form "<base>/**" can prune: the base matching the directory means
// everything below it matches the full pattern.
func skipDir(patterns []string, rel string) bool {
	for _, p := range patterns {
		base, ok := strings.CutSuffix(p, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(base, rel); matched {
			return true
		}
	}
	return false
}

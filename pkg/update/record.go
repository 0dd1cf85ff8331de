// Package update drives the manifest upgrade pipeline: resolve the latest
// published version of every declared dependency, decide per entry whether
// the recorded constraint may move forward, rewrite the manifest, and
// optionally run the install step.
package update

import "github.com/skoenig/depup/pkg/manifest"

// Record is one dependency flowing through the pipeline. Latest stays empty
// when the registry lookup failed; such records are never written back.
type Record struct {
	manifest.Dependency

	// Latest is the resolved latest published version, if any.
	Latest string
}

// Logger is the logging surface the pipeline needs. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

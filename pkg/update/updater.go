package update

import (
	"context"
	"path/filepath"

	"github.com/skoenig/depup/pkg/discover"
	"github.com/skoenig/depup/pkg/manifest"
)

// Options configures a pipeline run.
type Options struct {
	// Root is the subtree to scan for manifests.
	Root string

	// DryRun reports intended changes without writing manifests or
	// invoking any post-update action.
	DryRun bool

	// Install runs the install step for each manifest actually written.
	Install bool

	// Audit additionally runs the audit-fix step after a successful install.
	Audit bool

	// Refresh bypasses the registry response cache.
	Refresh bool

	// Concurrency bounds concurrent lookups within one manifest.
	Concurrency int

	// Caps maps package names to major-version ceilings.
	Caps map[string]uint64

	// Ignore lists extra discovery exclusion globs (the built-ins always
	// apply).
	Ignore []string

	// Logger receives per-manifest and per-dependency progress. Defaults
	// to a no-op logger.
	Logger Logger

	// Confirm, when set, filters planned upgrades before they are applied
	// (e.g. an interactive picker). Returning an empty slice skips the
	// manifest. Not consulted on dry runs.
	Confirm func(plans []Plan) ([]Plan, error)

	// Installer runs the post-update steps. Defaults to NpmInstaller.
	Installer Installer
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Manifests int // manifests processed
	Written   int // manifests rewritten
	Upgraded  int // dependency entries upgraded
	Skipped   int // policy skips (stability, downgrade, cap, unparseable)
	Failed    int // lookups that did not resolve
}

// Updater runs the four-stage pipeline over a working tree.
type Updater struct {
	resolver Resolver
	opts     Options
}

// New creates an Updater. The resolver is consulted once per dependency.
func New(resolver Resolver, opts Options) *Updater {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Installer == nil {
		opts.Installer = NpmInstaller{}
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	return &Updater{resolver: resolver, opts: opts}
}

// Run discovers manifests under the root and processes them sequentially.
// Per-manifest and per-dependency failures are logged and absorbed; only a
// discovery failure is returned as an error.
func (u *Updater) Run(ctx context.Context) (Summary, error) {
	logger := u.opts.Logger

	paths, err := discover.Find(u.opts.Root, u.opts.Ignore)
	if err != nil {
		return Summary{}, err
	}
	if len(paths) == 0 {
		logger.Infof("No %s manifests found under %s", discover.ManifestName, u.opts.Root)
		return Summary{}, nil
	}
	logger.Debugf("Discovered %d manifest(s)", len(paths))

	var sum Summary
	for _, path := range paths {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		sum.Manifests++
		u.processManifest(ctx, path, &sum)
	}
	return sum, nil
}

func (u *Updater) processManifest(ctx context.Context, path string, sum *Summary) {
	logger := u.opts.Logger
	rel := u.relPath(path)

	m, err := manifest.Load(path)
	if err != nil {
		logger.Warnf("skipping %s: %v", rel, err)
		return
	}

	deps := m.Dependencies()
	if len(deps) == 0 {
		logger.Debugf("%s: no registry dependencies", rel)
		return
	}
	logger.Debugf("%s: resolving %d dependencies", rel, len(deps))

	records := resolveAll(ctx, u.resolver, deps, u.opts.Concurrency, u.opts.Refresh, logger)

	var upgrades []Plan
	for _, rec := range records {
		if rec.Latest == "" {
			sum.Failed++
			continue
		}
		plan := PlanRecord(rec, u.opts.Caps)
		switch plan.Decision {
		case DecisionUpgrade:
			upgrades = append(upgrades, plan)
		case DecisionCurrent:
			logger.Debugf("%s: %s %s is up to date", rel, rec.Name, rec.Constraint)
		default:
			logger.Warnf("%s: skipping %s: %s", rel, rec.Name, plan.Reason)
			sum.Skipped++
		}
	}

	if len(upgrades) > 0 && u.opts.Confirm != nil && !u.opts.DryRun {
		upgrades, err = u.opts.Confirm(upgrades)
		if err != nil {
			logger.Errorf("%s: %v", rel, err)
			return
		}
	}

	if len(upgrades) == 0 {
		logger.Infof("%s: no changes needed", rel)
		return
	}

	for _, plan := range upgrades {
		verb := "upgrade"
		if u.opts.DryRun {
			verb = "would upgrade"
		}
		if plan.MajorBump {
			logger.Warnf("%s: %s %s: %s → %s (major bump)", rel, verb, plan.Name, plan.Constraint, plan.NewConstraint)
		} else {
			logger.Infof("%s: %s %s: %s → %s", rel, verb, plan.Name, plan.Constraint, plan.NewConstraint)
		}
		if !u.opts.DryRun {
			m.SetConstraint(plan.Section, plan.Name, plan.NewConstraint)
		}
	}

	if u.opts.DryRun {
		logger.Infof("%s: %d upgrade(s) available (dry run, nothing written)", rel, len(upgrades))
		return
	}

	if err := m.Save(); err != nil {
		logger.Errorf("%s: write failed: %v", rel, err)
		return
	}
	sum.Written++
	sum.Upgraded += len(upgrades)
	logger.Infof("%s: wrote %d upgrade(s)", rel, len(upgrades))

	if u.opts.Install {
		u.runInstall(ctx, filepath.Dir(path), rel)
	}
}

// runInstall executes the install (and optional audit-fix) step. Failures
// are logged per manifest and never abort the run.
func (u *Updater) runInstall(ctx context.Context, dir, rel string) {
	logger := u.opts.Logger

	if err := u.opts.Installer.Install(ctx, dir); err != nil {
		logger.Errorf("%s: install failed: %v", rel, err)
		return
	}
	if u.opts.Audit {
		if err := u.opts.Installer.AuditFix(ctx, dir); err != nil {
			logger.Errorf("%s: audit fix failed: %v", rel, err)
		}
	}
}

func (u *Updater) relPath(path string) string {
	if rel, err := filepath.Rel(u.opts.Root, path); err == nil {
		return rel
	}
	return path
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

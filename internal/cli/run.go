package cli

import (
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skoenig/depup/pkg/cache"
	"github.com/skoenig/depup/pkg/config"
	"github.com/skoenig/depup/pkg/registry"
	"github.com/skoenig/depup/pkg/registry/npm"
	"github.com/skoenig/depup/pkg/update"
)

// cacheTTL bounds how long registry responses are reused.
const cacheTTL = 15 * time.Minute

// runUpdate executes the root command: load configuration, merge flag
// overrides, and run the update pipeline over the tree rooted at root.
func runUpdate(cmd *cobra.Command, root string, flags rootFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := config.Load(root)
	if cmd.Flags().Changed("registry") {
		cfg.Registry = flags.registry
	}
	if cmd.Flags().Changed("install") {
		cfg.Install = flags.install
	}
	if cmd.Flags().Changed("audit") {
		cfg.Audit = flags.audit
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = flags.concurrency
	}
	cfg.Ignore = append(cfg.Ignore, flags.ignore...)
	for _, s := range flags.caps {
		name, major, err := config.ParseCap(s)
		if err != nil {
			return err
		}
		cfg.Caps[name] = major
	}

	store := newCache(logger)
	defer store.Close()

	resolver := npm.NewClient(cfg.Registry, registry.NewClient(store, cacheTTL))

	opts := update.Options{
		Root:        root,
		DryRun:      flags.dryRun,
		Install:     cfg.Install,
		Audit:       cfg.Audit,
		Refresh:     flags.refresh,
		Concurrency: cfg.Concurrency,
		Caps:        cfg.Caps,
		Ignore:      cfg.Ignore,
		Logger:      logger,
	}
	if flags.interactive && !flags.dryRun {
		opts.Confirm = confirmUpgrades
	}

	prog := newProgress(logger)
	sum, err := update.New(resolver, opts).Run(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d manifest(s)", sum.Manifests))

	printSummary(sum, flags.dryRun)
	return nil
}

// printSummary renders the run outcome to stdout.
func printSummary(sum update.Summary, dryRun bool) {
	switch {
	case dryRun:
		printInfo("Dry run, nothing written")
	case sum.Written > 0:
		printSuccess("Upgraded %d dependencies in %d manifest(s)", sum.Upgraded, sum.Written)
	default:
		printInfo("Everything up to date")
	}
	if sum.Skipped > 0 {
		printDetail("%d upgrade(s) held back by policy", sum.Skipped)
	}
	if sum.Failed > 0 {
		printWarning("%d lookup(s) failed", sum.Failed)
	}
}

// newCache returns the registry response cache. When the file cache cannot
// be set up the run proceeds uncached rather than failing.
func newCache(logger *charmlog.Logger) cache.Cache {
	dir, err := cache.DefaultDir()
	if err != nil {
		logger.Debugf("cache disabled: %v", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debugf("cache disabled: %v", err)
		return cache.NewNullCache()
	}
	return fc
}

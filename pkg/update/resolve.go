package update

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/skoenig/depup/pkg/manifest"
)

// Resolver looks up the latest published version of a package.
type Resolver interface {
	Latest(ctx context.Context, name string, refresh bool) (string, error)
}

// resolveAll fans out one lookup per dependency, bounded by concurrency,
// and waits for every lookup to settle before returning. Each goroutine
// writes only its own record; a failed lookup logs a warning and leaves
// that record's Latest empty. Failures never abort sibling lookups.
func resolveAll(ctx context.Context, resolver Resolver, deps []manifest.Dependency, concurrency int, refresh bool, logger Logger) []Record {
	records := make([]Record, len(deps))

	g := new(errgroup.Group)
	g.SetLimit(max(concurrency, 1))
	for i, dep := range deps {
		i, dep := i, dep
		records[i].Dependency = dep
		g.Go(func() error {
			latest, err := resolver.Latest(ctx, dep.Name, refresh)
			if err != nil {
				logger.Warnf("lookup failed: %s: %v", dep.Name, err)
				return nil
			}
			records[i].Latest = latest
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; Wait is the join barrier

	return records
}

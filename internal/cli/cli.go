// Package cli implements the depup command-line interface.
//
// The root command scans a directory tree for package.json manifests,
// resolves the latest published version of each dependency, and rewrites
// outdated constraints in place. A cache subcommand manages the registry
// response cache. All commands support --verbose (-v) for debug-level
// logging; loggers are passed through context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skoenig/depup/pkg/buildinfo"
)

// rootFlags holds the root command's flag values.
type rootFlags struct {
	registry    string
	caps        []string
	ignore      []string
	dryRun      bool
	install     bool
	audit       bool
	interactive bool
	refresh     bool
	concurrency int
}

// Execute runs the depup CLI. The context carries cancellation from the
// caller (typically signal handling in main); a logger is attached to it
// before any command runs.
func Execute(ctx context.Context) error {
	var (
		verbose bool
		flags   rootFlags
	)

	root := &cobra.Command{
		Use:          "depup [path]",
		Short:        "depup upgrades package.json dependencies to their latest versions",
		Long:         `depup scans a directory tree for package.json manifests, looks up the latest published version of every dependency, and rewrites outdated version constraints in place while preserving key order and formatting.`,
		Args:         cobra.MaximumNArgs(1),
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runUpdate(cmd, path, flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.Flags().StringVar(&flags.registry, "registry", "", "npm registry base URL")
	root.Flags().StringArrayVar(&flags.caps, "cap", nil, "major-version ceiling as name=major (repeatable)")
	root.Flags().StringArrayVar(&flags.ignore, "ignore", nil, "extra discovery exclusion glob (repeatable)")
	root.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report upgrades without writing anything")
	root.Flags().BoolVar(&flags.install, "install", false, "run npm install for each rewritten manifest")
	root.Flags().BoolVar(&flags.audit, "audit", false, "run npm audit fix after a successful install")
	root.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "pick upgrades interactively before applying")
	root.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass the registry response cache")
	root.Flags().IntVar(&flags.concurrency, "concurrency", 0, "concurrent registry lookups per manifest")

	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

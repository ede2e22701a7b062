package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/bucket"
)

func newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Force re-validate and rewrite every persisted state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runRepair(a, cmd.OutOrStdout())
		},
	}
	return cmd
}

// runRepair forces a reload-then-rewrite of every persisted JSON document,
// on demand rather than only on the next operation that happens to touch
// one, per §2C's standalone repair command. Each loader already recovers
// silently from a parse failure (§4.8); rewriting immediately afterward
// normalizes a file that parses but was hand-edited into a stale shape, and
// re-commits the empty default for one that didn't parse at all.
func runRepair(a *app, stdout io.Writer) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	if err := a.saveRegistry(reg); err != nil {
		return fmt.Errorf("rewrite installed registry: %w", err)
	}
	fmt.Fprintf(stdout, "repaired %s: %d record(s)\n", a.paths.InstalledJSON(), len(reg.Packages))

	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	if err := a.saveBucketConfig(cfg); err != nil {
		return fmt.Errorf("rewrite bucket config: %w", err)
	}
	fmt.Fprintf(stdout, "repaired %s: %d bucket(s)\n", a.paths.BucketsJSON(), len(cfg.Buckets))

	cache, err := bucket.LoadCache(a.paths.ManifestCacheJSON())
	if err != nil {
		return err
	}
	if err := bucket.SaveCache(a.paths.ManifestCacheJSON(), cache); err != nil {
		return fmt.Errorf("rewrite manifest cache: %w", err)
	}
	fmt.Fprintf(stdout, "repaired %s: %d package(s), %d script(s)\n", a.paths.ManifestCacheJSON(), len(cache.Packages), len(cache.Scripts))

	prefs, err := a.loadPreferences()
	if err != nil {
		return err
	}
	if err := a.savePreferences(prefs); err != nil {
		return fmt.Errorf("rewrite preferences: %w", err)
	}
	fmt.Fprintf(stdout, "repaired %s\n", a.paths.PreferencesJSON())

	return nil
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/bucket"
)

func newBucketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Manage configured manifest buckets",
	}
	cmd.AddCommand(newBucketAddCmd())
	cmd.AddCommand(newBucketDelCmd())
	cmd.AddCommand(newBucketListCmd())
	cmd.AddCommand(newBucketRefreshCmd())
	return cmd
}

func newBucketAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add and enable a bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runBucketAdd(a, cmd.OutOrStdout(), args[0], args[1])
		},
	}
	return cmd
}

// runBucketAdd validates the candidate bucket before it is ever persisted,
// per §4.3's "fetch the manifest with a 10-second timeout, parse, store the
// bucket record, invalidate the cache" — a bucket that doesn't even parse
// never makes it into buckets.json.
func runBucketAdd(a *app, stdout io.Writer, name, url string) error {
	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}

	if _, err := bucket.NewHTTPFetcher().Fetch(url); err != nil {
		return fmt.Errorf("fetch manifest from %s: %w", url, err)
	}

	if !cfg.Add(bucket.Bucket{Name: name, URL: url, Enabled: true, Priority: bucket.DefaultPriority()}) {
		return fmt.Errorf("bucket %q already exists", name)
	}
	if err := a.saveBucketConfig(cfg); err != nil {
		return err
	}

	cache := bucket.BuildCache(cfg, bucket.NewHTTPFetcher())
	if err := bucket.SaveCache(a.paths.ManifestCacheJSON(), cache); err != nil {
		return fmt.Errorf("save manifest cache: %w", err)
	}

	fmt.Fprintf(stdout, "added bucket %q: %d packages, %d scripts\n", name, len(cache.Packages), len(cache.Scripts))
	return nil
}

func newBucketDelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "del <name>",
		Short: "Remove a bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runBucketDel(a, cmd.OutOrStdout(), args[0])
		},
	}
	return cmd
}

func runBucketDel(a *app, stdout io.Writer, name string) error {
	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	if !cfg.Remove(name) {
		return fmt.Errorf("bucket %q not found", name)
	}
	if err := a.saveBucketConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "removed bucket %q\n", name)
	return nil
}

func newBucketListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runBucketList(a, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runBucketList(a *app, stdout io.Writer) error {
	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	if len(cfg.Buckets) == 0 {
		fmt.Fprintln(stdout, "no buckets configured")
		return nil
	}
	for _, b := range cfg.Buckets {
		state := "disabled"
		if b.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(stdout, "%s [%s] %s (priority %d)\n", b.Name, state, b.URL, b.Priority)
	}
	return nil
}

func newBucketRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Force-rebuild the manifest cache from every enabled bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runBucketRefresh(a, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runBucketRefresh(a *app, stdout io.Writer) error {
	cfg, err := a.loadBucketConfig()
	if err != nil {
		return err
	}
	cache := bucket.BuildCache(cfg, bucket.NewHTTPFetcher())
	if err := bucket.SaveCache(a.paths.ManifestCacheJSON(), cache); err != nil {
		return fmt.Errorf("save manifest cache: %w", err)
	}
	fmt.Fprintf(stdout, "refreshed cache: %d packages, %d scripts, from %d source(s)\n", len(cache.Packages), len(cache.Scripts), len(cache.Sources))
	return nil
}

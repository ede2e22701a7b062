package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/bucket"
	"github.com/superyngo/wenget/internal/install"
	"github.com/superyngo/wenget/internal/paths"
	"github.com/superyngo/wenget/internal/privilege"
	"github.com/superyngo/wenget/internal/wgerr"
)

const defaultBucketName = "main"
const defaultBucketURL = "https://raw.githubusercontent.com/superyngo/wenget-bucket/main/manifest.json"

func newInitCmd() *cobra.Command {
	var noPath, noDefaultBucket bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the wenget prefix and hook it into PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := scopeFlag()
			if scope == paths.ScopeSystem && !privilege.IsElevated() {
				return &ExitError{Code: exitPrerequisite, Err: wgerr.New(wgerr.Privilege, "system-scope init requires elevation")}
			}
			return runInit(cmd.OutOrStdout(), scope, noPath, noDefaultBucket)
		},
	}

	cmd.Flags().BoolVar(&noPath, "no-path", false, "skip PATH integration")
	cmd.Flags().BoolVar(&noDefaultBucket, "no-default-bucket", false, "skip adding the default bucket")
	return cmd
}

func runInit(stdout io.Writer, scope paths.Scope, noPath, noDefaultBucket bool) error {
	p, err := paths.New(scope, homeOverride())
	if err != nil {
		return &ExitError{Code: exitPrerequisite, Err: err}
	}
	if err := p.InitDirs(); err != nil {
		return &ExitError{Code: exitPrerequisite, Err: err}
	}
	fmt.Fprintf(stdout, "initialized wenget prefix at %s\n", p.Root())

	if !noPath {
		if err := ensurePathFor(p); err != nil {
			log.Warn("PATH integration failed; add this directory to PATH manually", "dir", p.BinDir(), "error", err)
		} else {
			fmt.Fprintf(stdout, "added %s to PATH\n", p.BinDir())
		}
	}

	if !noDefaultBucket {
		cfg, err := bucket.Load(p.BucketsJSON())
		if err != nil {
			return fmt.Errorf("load bucket config: %w", err)
		}
		if cfg.Add(bucket.Bucket{Name: defaultBucketName, URL: defaultBucketURL, Enabled: true, Priority: bucket.DefaultPriority()}) {
			if err := bucket.Save(p.BucketsJSON(), cfg); err != nil {
				return fmt.Errorf("save bucket config: %w", err)
			}
			fmt.Fprintf(stdout, "added default bucket %q\n", defaultBucketName)
		}
	}

	return nil
}

func ensurePathFor(p *paths.Paths) error {
	if p.Scope() == paths.ScopeSystem {
		return install.EnsureSystemPathIntegration(p.BinDir())
	}
	return install.EnsurePathIntegration(p.BinDir())
}

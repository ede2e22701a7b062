package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/install"
	"github.com/superyngo/wenget/internal/model"
	"github.com/superyngo/wenget/internal/paths"
	"github.com/superyngo/wenget/internal/privilege"
	"github.com/superyngo/wenget/internal/registry"
	"github.com/superyngo/wenget/internal/selfupdate"
	"github.com/superyngo/wenget/internal/wgerr"
)

func newDelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "del <name>...",
		Aliases: []string{"remove", "uninstall"},
		Short:   "Remove one or more installed packages",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runDel(a, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}
	return cmd
}

func runDel(a *app, stdout, stderr io.Writer, names []string) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	failures := 0
	for _, name := range names {
		if name == "self" {
			if err := delSelf(a); err != nil {
				fmt.Fprintf(stderr, "del self: %v\n", err)
				failures++
				continue
			}
			fmt.Fprintln(stdout, "del self: wenget will remove itself once this process exits")
			continue
		}
		if err := delOne(a.paths, &reg, name); err != nil {
			fmt.Fprintf(stderr, "del %s: %v\n", name, err)
			failures++
			continue
		}
		fmt.Fprintf(stdout, "del %s: removed\n", name)
	}

	if err := a.saveRegistry(reg); err != nil {
		return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("persist installed registry: %w", err)}
	}
	if failures > 0 {
		return &ExitError{Code: exitPartialFailure, Err: fmt.Errorf("%d of %d names failed", failures, len(names))}
	}
	return nil
}

// delOne removes name and, per §4.5, every sibling variant that shares its
// repo_name — installing "uv" and deleting it also removes the "uvx" record.
func delOne(p *paths.Paths, reg *registry.Registry, name string) error {
	records := reg.ByRepoName(name)
	if len(records) == 0 {
		return wgerr.New(wgerr.NotFound, name)
	}

	for _, rec := range records {
		if err := install.Rollback(p, []model.InstalledRecord{rec}); err != nil {
			return err
		}
		reg.Remove(rec.RegistryKey())
	}
	return nil
}

func delSelf(a *app) error {
	if a.scope == paths.ScopeSystem && !privilege.IsElevated() {
		return wgerr.New(wgerr.Privilege, "removing the system-scope install requires elevation")
	}
	return selfupdate.SelfDelete("")
}

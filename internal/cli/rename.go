package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/install"
	"github.com/superyngo/wenget/internal/wgerr"
)

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <name> <new-command-name>",
		Short: "Relink an installed package's command name without reinstalling",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			return runRename(a, cmd.OutOrStdout(), args[0], args[1])
		},
	}
	return cmd
}

// runRename relinks name's launcher to newCommandName and updates its
// installed record in place, per §2C's rename addition: the same
// conflict-resolution rule install uses (§4.4 step 7) applies, so a name
// already claimed by another record is rejected outright rather than
// silently suffixed.
func runRename(a *app, stdout io.Writer, name, newCommandName string) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	records := reg.ByRepoName(name)
	if len(records) == 0 {
		return wgerr.New(wgerr.NotFound, name)
	}
	if len(records) > 1 {
		return fmt.Errorf("%s has %d sibling variants; rename isn't supported for multi-executable packages", name, len(records))
	}
	rec := records[0]

	if rec.CommandName == newCommandName {
		fmt.Fprintf(stdout, "%s is already named %q\n", name, newCommandName)
		return nil
	}

	claimed := reg.CommandNames()
	delete(claimed, rec.CommandName)
	if claimed[newCommandName] {
		return wgerr.New(wgerr.ConflictingCommand, newCommandName)
	}

	execPath := filepath.Join(rec.InstallPath, filepath.Base(rec.Files[0]))
	newLauncher := a.paths.BinShimPath(newCommandName)
	if err := install.CreateLauncher(execPath, newLauncher, rec.InstallPath); err != nil {
		return fmt.Errorf("create launcher %s: %w", newLauncher, err)
	}

	oldLauncher := a.paths.BinShimPath(rec.CommandName)
	if err := os.Remove(oldLauncher); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old launcher %s: %w", oldLauncher, err)
	}

	rec.CommandName = newCommandName
	reg.Upsert(rec)
	if err := a.saveRegistry(reg); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "renamed %s: command name is now %q\n", name, newCommandName)
	return nil
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superyngo/wenget/internal/preferences"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set persisted preferences",
	}
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Print a preference value, or every known key and its value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			var key string
			if len(args) == 1 {
				key = args[0]
			}
			return runConfigGet(a, cmd.OutOrStdout(), key)
		},
	}
	return cmd
}

func runConfigGet(a *app, stdout io.Writer, key string) error {
	prefs, err := a.loadPreferences()
	if err != nil {
		return err
	}
	if key != "" {
		value, err := preferences.Get(prefs, key)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, value)
		return nil
	}
	for _, k := range preferences.Keys() {
		value, _ := preferences.Get(prefs, k)
		fmt.Fprintf(stdout, "%s=%s\n", k, value)
	}
	return nil
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key>=<value>",
		Short: "Set a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(scopeFlag(), yesFlag())
			if err != nil {
				return err
			}
			key, value, ok := strings.Cut(args[0], "=")
			if !ok {
				return &ExitError{Code: exitUsage, Err: fmt.Errorf("expected key=value, got %q", args[0])}
			}
			return runConfigSet(a, cmd.OutOrStdout(), key, value)
		},
	}
	return cmd
}

func runConfigSet(a *app, stdout io.Writer, key, value string) error {
	prefs, err := a.loadPreferences()
	if err != nil {
		return err
	}
	if err := preferences.Set(&prefs, key, value); err != nil {
		return &ExitError{Code: exitUsage, Err: err}
	}
	if err := a.savePreferences(prefs); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s=%s\n", key, value)
	return nil
}

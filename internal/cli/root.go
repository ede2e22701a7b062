package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/superyngo/wenget/internal/paths"
)

func init() {
	bindEnv()

	Handler = func(args []string, stdout, stderr io.Writer) int {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		if err := cmd.Execute(); err != nil {
			return exitCodeFor(err)
		}
		return exitOK
	}
}

// systemScope and autoYes back the --system/--yes persistent flags; every
// subcommand reads them through scopeFlag/yesFlag rather than threading
// them as parameters, mirroring the teacher's package-level-flag-variable
// convention. homeFlag backs --home, bound through viper alongside it.
var (
	systemScope bool
	autoYes     bool
	verbose     bool
	homeFlag    string
)

// bindEnv wires viper's lookup order (explicit flag > bound env var >
// default) for the settings SPEC_FULL.md's ambient stack names: the prefix
// root and the release-provider bearer token. WENGET_GITHUB_TOKEN keeps
// priority over the ambient GITHUB_TOKEN by being bound first, matching
// github.TokenFromEnv's own convention.
func bindEnv() {
	viper.SetEnvPrefix("WENGET")
	viper.AutomaticEnv()
	viper.BindEnv("home", "WENGET_HOME")
	viper.BindEnv("github_token", "WENGET_GITHUB_TOKEN", "GITHUB_TOKEN")
}

func scopeFlag() paths.Scope {
	if systemScope {
		return paths.ScopeSystem
	}
	return paths.ScopeUser
}

func yesFlag() bool { return autoYes }

// homeOverride returns the prefix root override via viper's resolved "home"
// key: --home if set, else WENGET_HOME, else "" for paths.New's own per-OS
// default. The --home flag is bound to this key with BindPFlag, so viper
// already applies that precedence.
func homeOverride() string {
	return viper.GetString("home")
}

// githubToken returns the bearer token: viper's resolved "github_token" key
// (WENGET_GITHUB_TOKEN, then GITHUB_TOKEN), empty when neither is set.
func githubToken() string {
	return viper.GetString("github_token")
}

// newRootCmd builds the full "wenget" command tree.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wenget",
		Short:         "A cross-platform, portable-binary package manager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&systemScope, "system", false, "operate on the system-scope prefix instead of the user one")
	cmd.PersistentFlags().BoolVarP(&autoYes, "yes", "y", false, "answer every confirmation affirmatively")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&homeFlag, "home", "", "override the prefix root (defaults to WENGET_HOME, then the per-OS default)")
	viper.BindPFlag("home", cmd.PersistentFlags().Lookup("home"))

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newDelCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newBucketCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newRenameCmd())
	cmd.AddCommand(newRepairCmd())

	return cmd
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/logger"
	"github.com/ksyq12/wpvhost/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	dryRun     bool
	version    = "dev"
)

// rootCmd runs the interactive provisioning session
var rootCmd = &cobra.Command{
	Use:   "wpvhost",
	Short: "Provision an nginx virtual host for WordPress",
	Long: `wpvhost provisions an nginx virtual host interactively.

It asks for a domain and a PHP-FPM version, writes and enables the nginx
configuration, maps the domain in the hosts file, creates the database and
optionally installs WordPress in a standard or custom directory layout.

Examples:
  sudo wpvhost
  wpvhost --dry-run
  wpvhost render example.com 8.3`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: initSettings,
	RunE:              runProvision,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.DebugFields("command failed", map[string]interface{}{"code": string(errors.CodeOf(err))})
		output.Error("%v", err)
		os.Exit(errors.ExitCode(err))
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.config/wpvhost/config.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the plan without changing the system")

	for _, name := range []string{"config", "json", "verbose", "dry-run"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("WPVHOST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// initSettings applies flags and WPVHOST_* environment variables
func initSettings(cmd *cobra.Command, args []string) error {
	configPath = viper.GetString("config")
	jsonOutput = viper.GetBool("json")
	verbose = viper.GetBool("verbose")
	dryRun = viper.GetBool("dry-run")

	logger.Init(verbose)
	logger.Debug("wpvhost %s, config %q, dry-run %v", version, configPath, dryRun)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

package cli

import (
	"fmt"
	"os"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/output"
	"github.com/spf13/cobra"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration used by provisioning: the config file merged
over the defaults detected for this host.

Examples:
  wpvhost config show
  wpvhost config show --json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the detected defaults to the configuration file",
	Long: `Write the defaults detected for this host to the configuration file
so they can be edited.

Examples:
  wpvhost config init
  wpvhost config init --config /etc/wpvhost.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if jsonOutput {
		return output.JSON(cfg)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := deps.ConfigLoader.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputResult(map[string]interface{}{
		"success": true,
		"path":    path,
	}, "Config written to %s", path)
}

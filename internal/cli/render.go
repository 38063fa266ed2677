package cli

import (
	"fmt"

	"github.com/ksyq12/wpvhost/internal/provision"
	"github.com/ksyq12/wpvhost/internal/site"
	"github.com/ksyq12/wpvhost/internal/template"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <domain> <php-version>",
	Short: "Print the nginx configuration for a domain",
	Long: `Validate a domain and PHP version and print the nginx configuration
that provisioning would write. Nothing on the system is changed.

Examples:
  wpvhost render example.com 8.3
  wpvhost render example.com php --json`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

// renderDetail is the JSON form of a rendered configuration
type renderDetail struct {
	Domain     string `json:"domain"`
	PHPVersion string `json:"php_version"`
	SocketPath string `json:"socket_path"`
	ConfigPath string `json:"config_path"`
	WebRoot    string `json:"web_root"`
	Config     string `json:"config"`
}

func runRender(cmd *cobra.Command, args []string) error {
	d, err := site.ParseDomain(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	php, err := site.ParsePHPTarget(args[1], cfg.PHPSocketDir)
	if err != nil {
		return err
	}

	services, err := deps.ServiceFactory.Create(cfg)
	if err != nil {
		return err
	}
	prov := provision.New(cfg, services)

	vh := prov.VirtualHost(provision.Request{Domain: d, PHP: php})
	content, err := template.RenderVirtualHost(vh)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	layout := prov.Layout(d)
	if jsonOutput {
		return outputResult(renderDetail{
			Domain:     d.String(),
			PHPVersion: php.Version,
			SocketPath: php.SocketPath,
			ConfigPath: services.Driver.ConfigPath(layout.ConfigName),
			WebRoot:    layout.WebRoot,
			Config:     content,
		}, "")
	}

	fmt.Print(content)
	return nil
}

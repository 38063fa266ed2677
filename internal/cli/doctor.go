package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/driver"
	"github.com/ksyq12/wpvhost/internal/executor"
	"github.com/ksyq12/wpvhost/internal/hosts"
	"github.com/ksyq12/wpvhost/internal/output"
	"github.com/ksyq12/wpvhost/internal/site"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [domain]",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system before or after provisioning.

Checks:
  - nginx installation and configuration syntax
  - PHP-FPM sockets
  - Database socket
  - TLS snippets referenced by the generated configuration
  - Write access to the hosts file
  - With a domain: web root, enabled config and hosts entry

Examples:
  wpvhost doctor
  wpvhost doctor example.com --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// Check statuses
const (
	checkSuccess = "success"
	checkWarning = "warning"
	checkError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	Site               []CheckResult `json:"site,omitempty"`
}

var nginxVersionPattern = regexp.MustCompile(`nginx/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	services, err := deps.ServiceFactory.Create(cfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements(ctx, deps.Executor, cfg)
	report.Configuration = checkConfiguration(ctx, services.Driver, cfg)

	if len(args) == 1 {
		d, err := site.ParseDomain(args[0])
		if err != nil {
			return err
		}
		report.Site = checkSite(services.Driver, cfg, d)
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkSystemRequirements(ctx context.Context, exec executor.CommandExecutor, cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	if _, err := exec.LookPath("nginx"); err == nil {
		version := "unknown"
		if out, err := exec.Execute(ctx, "nginx", "-v"); err == nil {
			if m := nginxVersionPattern.FindStringSubmatch(string(out)); len(m) >= 2 {
				version = m[1]
			}
		}
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Nginx installed (%s)", version),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkError,
			Message: "Nginx not installed",
		})
	}

	sockets := phpSockets(cfg.PHPSocketDir)
	if len(sockets) > 0 {
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("PHP-FPM sockets: %s", strings.Join(sockets, ", ")),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkWarning,
			Message: fmt.Sprintf("No PHP-FPM socket in %s", cfg.PHPSocketDir),
		})
	}

	switch cfg.Database.Net {
	case "unix":
		if _, err := os.Stat(cfg.Database.Address); err == nil {
			results = append(results, CheckResult{
				Status:  checkSuccess,
				Message: fmt.Sprintf("Database socket found (%s)", cfg.Database.Address),
			})
		} else {
			results = append(results, CheckResult{
				Status:  checkError,
				Message: fmt.Sprintf("Database socket missing (%s)", cfg.Database.Address),
			})
		}
	default:
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Database at %s://%s (not probed)", cfg.Database.Net, cfg.Database.Address),
		})
	}

	return results
}

// phpSockets lists the php*-fpm.sock files in dir
func phpSockets(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "php*-fpm.sock"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names
}

func checkConfiguration(ctx context.Context, drv driver.Driver, cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	path := configPath
	if path == "" {
		path, _ = config.ConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		displayPath := strings.Replace(path, os.Getenv("HOME"), "~", 1)
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Config file exists (%s)", displayPath),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkWarning,
			Message: "Config file not found, using defaults",
		})
	}

	paths := drv.Paths()
	for _, dir := range []string{paths.Available, paths.Enabled} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			results = append(results, CheckResult{
				Status:  checkError,
				Message: fmt.Sprintf("Directory missing: %s", dir),
			})
		}
	}

	for _, snippet := range []string{cfg.TLS.CertificateSnippet, cfg.TLS.ParamsSnippet} {
		full := snippetPath(cfg, snippet)
		if _, err := os.Stat(full); err == nil {
			results = append(results, CheckResult{
				Status:  checkSuccess,
				Message: fmt.Sprintf("TLS snippet exists (%s)", full),
			})
		} else {
			results = append(results, CheckResult{
				Status:  checkError,
				Message: fmt.Sprintf("TLS snippet missing (%s)", full),
			})
		}
	}

	if f, err := os.OpenFile(cfg.HostsFile, os.O_WRONLY|os.O_APPEND, 0); err == nil {
		_ = f.Close()
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Hosts file writable (%s)", cfg.HostsFile),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkWarning,
			Message: fmt.Sprintf("Hosts file not writable (%s)", cfg.HostsFile),
		})
	}

	if err := drv.Test(ctx); err == nil {
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("%s config syntax OK", capitalize(drv.Name())),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkError,
			Message: fmt.Sprintf("%s config syntax error", capitalize(drv.Name())),
		})
	}

	return results
}

// snippetPath resolves an include path the way nginx does, relative to its prefix
func snippetPath(cfg *config.Config, snippet string) string {
	if filepath.IsAbs(snippet) {
		return snippet
	}
	return filepath.Join(filepath.Dir(cfg.Nginx.Available), snippet)
}

func checkSite(drv driver.Driver, cfg *config.Config, d site.Domain) []CheckResult {
	results := []CheckResult{}
	layout := site.NewLayout(cfg.WebRootBase, cfg.PublicDir, cfg.LogsDir, d)

	if _, err := os.Stat(layout.WebRoot); err == nil {
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Web root exists (%s)", layout.WebRoot),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkError,
			Message: fmt.Sprintf("Web root missing (%s)", layout.WebRoot),
		})
	}

	if enabled, err := drv.IsEnabled(layout.ConfigName); err == nil && enabled {
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("%s enabled", d),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkError,
			Message: fmt.Sprintf("%s not enabled", d),
		})
	}

	if found, err := hosts.New(cfg.HostsFile).Contains(d); err == nil && found {
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Hosts file maps %s", d),
		})
	} else {
		results = append(results, CheckResult{
			Status:  checkWarning,
			Message: fmt.Sprintf("Hosts file has no entry for %s", d),
		})
	}

	return results
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.SystemRequirements {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}

	if len(report.Site) > 0 {
		output.Print("")
		output.Print("Checking site...")
		for _, check := range report.Site {
			displayCheck(check)
		}
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case checkSuccess:
		output.Success("%s", check.Message)
	case checkWarning:
		output.Warn("%s", check.Message)
	case checkError:
		output.Error("%s", check.Message)
	}
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

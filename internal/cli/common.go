package cli

import (
	"fmt"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/output"
	"github.com/ksyq12/wpvhost/internal/provision"
)

// loadConfig loads the config named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// requireRoot checks root privileges via the injected checker
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// printReport renders a step report as JSON or as a table
func printReport(report *provision.Report) error {
	if jsonOutput {
		return output.JSON(report)
	}

	rows := make([][]string, 0, len(report.Steps))
	for _, s := range report.Steps {
		detail := s.Description
		if s.Error != "" {
			detail = s.Error
		}
		duration := ""
		if s.Status == provision.StatusOK || s.Status == provision.StatusFailed {
			duration = fmt.Sprintf("%dms", s.DurationMS)
		}
		rows = append(rows, []string{s.Name, s.Status, duration, detail})
	}
	output.Table([]string{"STEP", "STATUS", "TIME", "DETAIL"}, rows)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

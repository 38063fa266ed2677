package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/database"
	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/input"
	"github.com/ksyq12/wpvhost/internal/logger"
	"github.com/ksyq12/wpvhost/internal/output"
	"github.com/ksyq12/wpvhost/internal/provision"
	"github.com/ksyq12/wpvhost/internal/site"
	"github.com/ksyq12/wpvhost/internal/validate"
	"github.com/ksyq12/wpvhost/internal/wordpress"
	"github.com/spf13/cobra"
)

// Prompts, in the order they are asked
const (
	promptDomain    = "Domain name:"
	promptOverwrite = "Overwrite? (y/n):"
	promptDBUser    = "Database user:"
	promptDBPass    = "Database password:"
	promptWordPress = "Install WordPress? (y/n):"
	promptLayout    = "Structure, standard or custom? (s/c):"
)

func runProvision(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !dryRun {
		if err := requireRoot(); err != nil {
			return err
		}
	}

	p := input.NewPrompter(deps.StdinReader, deps.PasswordReader)
	req, proceed, err := collectRequest(p, cfg)
	if err != nil {
		return err
	}
	if !proceed {
		if !jsonOutput {
			output.Info("Nothing changed")
		}
		return nil
	}

	services, err := deps.ServiceFactory.Create(cfg)
	if err != nil {
		return err
	}
	prov := provision.New(cfg, services)

	if !jsonOutput {
		printPlanSummary(prov, req)
	}

	if dryRun {
		report, err := prov.Plan(req)
		if err != nil {
			return err
		}
		return printReport(report)
	}

	report, err := prov.Run(commandContext(cmd), req)
	if report != nil {
		if perr := printReport(report); perr != nil {
			logger.LogError(perr, "failed to print report")
		}
	}
	if err != nil {
		return err
	}

	if !jsonOutput {
		output.Success("https://%s is ready", req.Domain)
	}
	return nil
}

// collectRequest asks every question before anything is changed.
// proceed is false when the user declines to overwrite an existing site.
func collectRequest(p *input.Prompter, cfg *config.Config) (provision.Request, bool, error) {
	var req provision.Request

	name, err := p.AskUntil(promptDomain, validate.Domain,
		"Invalid domain name. Use lowercase letters, digits and hyphens, e.g. example.com")
	if err != nil {
		return req, false, err
	}
	if req.Domain, err = site.ParseDomain(name); err != nil {
		return req, false, err
	}

	versions := validate.SupportedPHPVersions()
	token, err := p.AskUntil(fmt.Sprintf("PHP version (%s):", strings.Join(versions, ", ")), validate.PHPVersion,
		"Unsupported PHP version. Choose one of: "+strings.Join(versions, ", "))
	if err != nil {
		return req, false, err
	}
	if req.PHP, err = site.ParsePHPTarget(token, cfg.PHPSocketDir); err != nil {
		return req, false, err
	}

	layout := site.NewLayout(cfg.WebRootBase, cfg.PublicDir, cfg.LogsDir, req.Domain)
	if conflict := siteConflict(layout.WebRoot); errors.Is(conflict, errors.ErrSiteExists) {
		proceed, err := confirmOverwrite(p, conflict)
		if err != nil || !proceed {
			return req, false, err
		}
	}

	user, err := p.AskUntil(promptDBUser, func(s string) bool { return s != "" }, "Database user cannot be empty")
	if err != nil {
		return req, false, err
	}
	password, err := p.AskPassword(promptDBPass)
	if err != nil {
		return req, false, err
	}
	req.Credentials = database.Credentials{User: user, Password: password}

	if req.InstallWordPress, err = p.Confirm(promptWordPress); err != nil {
		return req, false, err
	}
	if req.InstallWordPress {
		answer, err := p.Choose(promptLayout, "s", "c")
		if err != nil {
			return req, false, err
		}
		if req.WordPressLayout, err = wordpress.ParseLayout(answer); err != nil {
			return req, false, err
		}
	}

	return req, true, nil
}

// siteConflict returns a conflict error when webRoot is already present.
// A site directory holding only logs is not a conflict.
func siteConflict(webRoot string) error {
	if _, err := os.Stat(webRoot); err != nil {
		return nil
	}
	return errors.SiteExists(webRoot)
}

// confirmOverwrite asks before reusing an existing web root.
// Any answer other than y leaves the system untouched.
func confirmOverwrite(p *input.Prompter, conflict error) (bool, error) {
	output.Warn("%v", conflict)
	ok, err := p.Confirm(promptOverwrite)
	if errors.Is(err, errors.ErrInvalidAnswer) {
		output.Warn("%v", err)
		return false, nil
	}
	return ok, err
}

func printPlanSummary(prov *provision.Provisioner, req provision.Request) {
	layout := prov.Layout(req.Domain)
	rows := [][2]string{
		{"Domain", strings.Join(req.Domain.Hostnames(), ", ")},
		{"PHP-FPM", req.PHP.SocketPath},
		{"Web root", layout.WebRoot},
		{"Logs", layout.LogDir},
		{"Database", req.Domain.DatabaseName()},
		{"DB user", req.Credentials.User},
		{"WordPress", yesNo(req.InstallWordPress)},
	}
	if req.InstallWordPress {
		rows = append(rows, [2]string{"Layout", req.WordPressLayout.String()})
	}

	title := "Provisioning"
	if dryRun {
		title = "Provisioning plan (dry run)"
	}
	output.Summary(title, rows)
}

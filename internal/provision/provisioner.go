package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/database"
	"github.com/ksyq12/wpvhost/internal/driver"
	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/logger"
	"github.com/ksyq12/wpvhost/internal/site"
	"github.com/ksyq12/wpvhost/internal/template"
	"github.com/ksyq12/wpvhost/internal/wordpress"
)

// Step names, in run order.
const (
	StepCreateDirectories = "create_directories"
	StepWriteConfig       = "write_config"
	StepEnableSite        = "enable_site"
	StepTestConfig        = "test_config"
	StepReloadServer      = "reload_server"
	StepHostsEntry        = "hosts_entry"
	StepCreateDatabase    = "create_database"
	StepDownloadWordPress = "download_wordpress"
	StepExtractWordPress  = "extract_wordpress"
	StepLayoutWordPress   = "layout_wordpress"
	StepWriteWPConfig     = "write_wp_config"
	StepSetOwnership      = "set_ownership"
)

// HostsEditor adds the loopback entry for a domain.
type HostsEditor interface {
	EnsureEntry(d site.Domain) (bool, error)
}

// DatabaseCreator creates the site database.
type DatabaseCreator interface {
	CreateDatabase(ctx context.Context, creds database.Credentials, name string) error
}

// Downloader fetches the WordPress archive into dir and returns its path.
type Downloader interface {
	Download(ctx context.Context, dir string) (string, error)
}

// Services are the collaborators a Provisioner drives.
type Services struct {
	Driver   driver.Driver
	Hosts    HostsEditor
	Database DatabaseCreator
	Download Downloader
	Owner    Owner
}

// Request is everything collected from the user for one site.
type Request struct {
	Domain           site.Domain
	PHP              site.PHPTarget
	Credentials      database.Credentials
	InstallWordPress bool
	WordPressLayout  wordpress.Layout
}

// Provisioner turns a Request into steps.
type Provisioner struct {
	cfg *config.Config
	svc Services
}

// New creates a Provisioner.
func New(cfg *config.Config, svc Services) *Provisioner {
	return &Provisioner{cfg: cfg, svc: svc}
}

// Layout returns the site paths for d.
func (p *Provisioner) Layout(d site.Domain) site.Layout {
	return site.NewLayout(p.cfg.WebRootBase, p.cfg.PublicDir, p.cfg.LogsDir, d)
}

// VirtualHost returns the template input for req.
func (p *Provisioner) VirtualHost(req Request) template.VirtualHost {
	layout := p.Layout(req.Domain)
	return template.VirtualHost{
		Domain:             req.Domain.String(),
		SocketPath:         req.PHP.SocketPath,
		WebRoot:            layout.WebRoot,
		LogDir:             layout.LogDir,
		CertificateSnippet: p.cfg.TLS.CertificateSnippet,
		ParamsSnippet:      p.cfg.TLS.ParamsSnippet,
		MaxBodySize:        p.cfg.MaxBodySize,
	}
}

// Steps renders the configuration and returns the ordered steps for req.
func (p *Provisioner) Steps(req Request) ([]Step, error) {
	if req.Domain.IsZero() {
		return nil, fmt.Errorf("request has no domain")
	}
	if _, err := database.Statement(req.Domain.DatabaseName(), p.cfg.Database.Charset, p.cfg.Database.Collation); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "invalid domain", err)
	}

	content, err := template.RenderVirtualHost(p.VirtualHost(req))
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}

	layout := p.Layout(req.Domain)
	drv := p.svc.Driver

	steps := []Step{
		{
			Name:        StepCreateDirectories,
			Description: fmt.Sprintf("create %s and %s", layout.WebRoot, layout.LogDir),
			Run: func(ctx context.Context) error {
				for _, dir := range []string{layout.WebRoot, layout.LogDir, layout.UploadsDir} {
					if err := os.MkdirAll(dir, 0755); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Name:        StepWriteConfig,
			Description: "write " + drv.ConfigPath(layout.ConfigName),
			Run: func(ctx context.Context) error {
				return drv.Write(layout.ConfigName, content)
			},
		},
		{
			Name:        StepEnableSite,
			Description: "enable " + layout.ConfigName + " in " + drv.Paths().Enabled,
			Run: func(ctx context.Context) error {
				return drv.Enable(layout.ConfigName)
			},
		},
		{
			Name:        StepTestConfig,
			Description: "test " + drv.Name() + " configuration",
			Run:         drv.Test,
		},
		{
			Name:        StepReloadServer,
			Description: "reload " + p.cfg.Nginx.Service,
			Run:         drv.Reload,
		},
		{
			Name:        StepHostsEntry,
			Description: fmt.Sprintf("map %s in %s", req.Domain, p.cfg.HostsFile),
			Run: func(ctx context.Context) error {
				added, err := p.svc.Hosts.EnsureEntry(req.Domain)
				if err != nil {
					return err
				}
				if !added {
					logger.Info("hosts file already maps %s", req.Domain)
				}
				return nil
			},
		},
		{
			Name:        StepCreateDatabase,
			Description: "create database " + req.Domain.DatabaseName(),
			Run: func(ctx context.Context) error {
				return p.svc.Database.CreateDatabase(ctx, req.Credentials, req.Domain.DatabaseName())
			},
		},
	}

	if req.InstallWordPress {
		steps = append(steps, p.wordpressSteps(req, layout)...)
	}

	steps = append(steps, Step{
		Name:        StepSetOwnership,
		Description: fmt.Sprintf("chown %s:%s %s", p.cfg.ServiceUser, p.cfg.ServiceGroup, layout.SiteDir),
		Run: func(ctx context.Context) error {
			for _, dir := range []string{layout.WebRoot, layout.LogDir} {
				if err := p.svc.Owner.Chown(ctx, dir, p.cfg.ServiceUser, p.cfg.ServiceGroup); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return steps, nil
}

func (p *Provisioner) wordpressSteps(req Request, layout site.Layout) []Step {
	archive := filepath.Join(layout.WebRoot, wordpress.ArchiveName)

	return []Step{
		{
			Name:        StepDownloadWordPress,
			Description: "download WordPress to " + archive,
			Run: func(ctx context.Context) error {
				path, err := p.svc.Download.Download(ctx, layout.WebRoot)
				if err != nil {
					return err
				}
				archive = path
				return nil
			},
		},
		{
			Name:        StepExtractWordPress,
			Description: "extract " + wordpress.ArchiveName,
			Run: func(ctx context.Context) error {
				return wordpress.Extract(archive, layout.WebRoot)
			},
		},
		{
			Name:        StepLayoutWordPress,
			Description: req.WordPressLayout.String() + " layout",
			Run: func(ctx context.Context) error {
				return wordpress.ApplyLayout(layout.WebRoot, req.WordPressLayout)
			},
		},
		{
			Name:        StepWriteWPConfig,
			Description: "write " + wordpress.ConfigFile,
			Run: func(ctx context.Context) error {
				return wordpress.WriteConfig(layout.WebRoot, req.WordPressLayout, wordpress.Settings{
					Domain:     req.Domain.String(),
					DBName:     req.Domain.DatabaseName(),
					DBUser:     req.Credentials.User,
					DBPassword: req.Credentials.Password,
					DBHost:     p.cfg.WordPress.DBHost,
				})
			},
		},
	}
}

// Run provisions req.
func (p *Provisioner) Run(ctx context.Context, req Request) (*Report, error) {
	steps, err := p.Steps(req)
	if err != nil {
		return nil, err
	}
	return Run(ctx, req.Domain.String(), steps)
}

// Plan describes what Run would do for req.
func (p *Provisioner) Plan(req Request) (*Report, error) {
	steps, err := p.Steps(req)
	if err != nil {
		return nil, err
	}
	return Plan(req.Domain.String(), steps), nil
}

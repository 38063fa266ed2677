package cli

import (
	"os"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/database"
	"github.com/ksyq12/wpvhost/internal/driver"
	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/executor"
	"github.com/ksyq12/wpvhost/internal/hosts"
	"github.com/ksyq12/wpvhost/internal/input"
	"github.com/ksyq12/wpvhost/internal/provision"
	"github.com/ksyq12/wpvhost/internal/wordpress"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader   ConfigLoader
	ServiceFactory ServiceFactory
	RootChecker    RootChecker
	StdinReader    input.Reader
	PasswordReader input.PasswordReader
	Executor       executor.CommandExecutor
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
	Save(cfg *config.Config, path string) error
}

// ServiceFactory creates the collaborators driven by provisioning
type ServiceFactory interface {
	Create(cfg *config.Config) (provision.Services, error)
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

var (
	stdin      = input.NewStdinReader()
	systemExec = executor.NewLoggingExecutor(executor.NewSystemExecutor())
)

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:   &realConfigLoader{},
	ServiceFactory: &realServiceFactory{exec: systemExec},
	RootChecker:    &realRootChecker{},
	StdinReader:    stdin,
	PasswordReader: input.NewTerminalPasswordReader(stdin),
	Executor:       systemExec,
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

func (r *realConfigLoader) Save(cfg *config.Config, path string) error {
	return cfg.Save(path)
}

type realServiceFactory struct {
	exec executor.CommandExecutor
}

func (r *realServiceFactory) Create(cfg *config.Config) (provision.Services, error) {
	return newServices(cfg, r.exec), nil
}

// newServices wires the system implementations for cfg
func newServices(cfg *config.Config, exec executor.CommandExecutor) provision.Services {
	paths := driver.Paths{Available: cfg.Nginx.Available, Enabled: cfg.Nginx.Enabled}
	return provision.Services{
		Driver: driver.NewNginx(paths, cfg.Nginx.Service, exec),
		Hosts:  hosts.New(cfg.HostsFile),
		Database: database.NewCreator(database.Options{
			Net:       cfg.Database.Net,
			Address:   cfg.Database.Address,
			Charset:   cfg.Database.Charset,
			Collation: cfg.Database.Collation,
		}),
		Download: wordpress.NewInstaller(cfg.WordPress.DownloadURL, nil),
		Owner:    provision.NewSystemOwner(),
	}
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.ErrRootRequired
	}
	return nil
}

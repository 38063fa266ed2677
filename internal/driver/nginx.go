package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/wpvhost/internal/executor"
	"github.com/ksyq12/wpvhost/internal/logger"
)

// NginxDriver implements the Driver interface for Nginx
type NginxDriver struct {
	paths   Paths
	service string
	exec    executor.CommandExecutor
}

// NewNginx creates a new Nginx driver.
// service is the systemd unit reloaded after a change.
func NewNginx(paths Paths, service string, exec executor.CommandExecutor) *NginxDriver {
	if service == "" {
		service = "nginx"
	}
	return &NginxDriver{
		paths:   paths,
		service: service,
		exec:    exec,
	}
}

// Name returns the driver name
func (n *NginxDriver) Name() string {
	return "nginx"
}

// Paths returns the config paths
func (n *NginxDriver) Paths() Paths {
	return n.paths
}

// ConfigPath returns the file for name in the available directory.
// Single-directory layouts only include *.conf, so the suffix is added there.
func (n *NginxDriver) ConfigPath(name string) string {
	return filepath.Join(n.paths.Available, n.fileName(name))
}

func (n *NginxDriver) fileName(name string) string {
	if n.paths.Split() || strings.HasSuffix(name, ".conf") {
		return name
	}
	return name + ".conf"
}

// Write creates the available directory if needed and writes the config
func (n *NginxDriver) Write(name, content string) error {
	if err := os.MkdirAll(n.paths.Available, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", n.paths.Available, err)
	}

	path := n.ConfigPath(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	logger.Debug("Wrote nginx config %s (%d bytes)", path, len(content))
	return nil
}

// Enable links the config into the enabled directory.
// An existing symlink is replaced; a regular file in its place is left alone.
func (n *NginxDriver) Enable(name string) error {
	source := n.ConfigPath(name)
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("config %s not found: %w", source, err)
	}

	if !n.paths.Split() {
		return nil
	}

	if err := os.MkdirAll(n.paths.Enabled, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", n.paths.Enabled, err)
	}

	target := filepath.Join(n.paths.Enabled, n.fileName(name))
	info, err := os.Lstat(target)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		return fmt.Errorf("%s exists and is not a symlink, refusing to replace it", target)
	case err == nil:
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("failed to remove old link: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to check %s: %w", target, err)
	}

	if err := os.Symlink(source, target); err != nil {
		return fmt.Errorf("failed to enable site: %w", err)
	}
	return nil
}

// IsEnabled checks if the config is active
func (n *NginxDriver) IsEnabled(name string) (bool, error) {
	target := filepath.Join(n.paths.Enabled, n.fileName(name))
	_, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check site status: %w", err)
	}
	return true, nil
}

// Test validates the nginx config syntax
func (n *NginxDriver) Test(ctx context.Context) error {
	output, err := n.exec.Execute(ctx, "nginx", "-t")
	if err != nil {
		return fmt.Errorf("nginx config test failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Reload reloads nginx through systemd, falling back to nginx -s reload
func (n *NginxDriver) Reload(ctx context.Context) error {
	_, err := n.exec.Execute(ctx, "systemctl", "reload", n.service)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	logger.Warn("systemctl reload %s failed, trying nginx -s reload: %v", n.service, err)
	output, err := n.exec.Execute(ctx, "nginx", "-s", "reload")
	if err != nil {
		return fmt.Errorf("failed to reload nginx: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

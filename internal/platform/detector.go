// Package platform provides platform-specific default paths for nginx, PHP-FPM and the web root.
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Paths contains the detected locations for one platform.
type Paths struct {
	SitesAvailable string
	SitesEnabled   string
	WebRootBase    string
	PHPSocketDir   string
	HostsFile      string
}

// DebianPaths are the defaults for Debian and Ubuntu hosts.
var DebianPaths = Paths{
	SitesAvailable: "/etc/nginx/sites-available",
	SitesEnabled:   "/etc/nginx/sites-enabled",
	WebRootBase:    "/var/www",
	PHPSocketDir:   "/run/php",
	HostsFile:      "/etc/hosts",
}

// root prefixes every probed path; tests point it at a temp directory.
var root = ""

// DetectPaths returns platform-specific default paths.
// It checks for common installation locations based on the OS.
func DetectPaths() (*Paths, error) {
	switch runtime.GOOS {
	case "darwin":
		return detectDarwinPaths()
	case "linux":
		return detectLinuxPaths()
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectDarwinPaths detects paths for macOS (Homebrew installations).
func detectDarwinPaths() (*Paths, error) {
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if !pathExists(prefix + "/etc/nginx") {
			continue
		}
		return &Paths{
			SitesAvailable: prefix + "/etc/nginx/servers",
			SitesEnabled:   prefix + "/etc/nginx/servers",
			WebRootBase:    prefix + "/var/www",
			PHPSocketDir:   prefix + "/var/run/php",
			HostsFile:      "/etc/hosts",
		}, nil
	}

	return nil, fmt.Errorf("homebrew nginx not found (checked /opt/homebrew and /usr/local)")
}

// detectLinuxPaths detects paths for Linux distributions.
func detectLinuxPaths() (*Paths, error) {
	// Debian/Ubuntu first (most common)
	if pathExists("/etc/nginx/sites-available") {
		p := DebianPaths
		return &p, nil
	}

	// RHEL/Fedora keep everything in conf.d and run php-fpm from /run/php-fpm
	if pathExists("/etc/nginx/conf.d") {
		return &Paths{
			SitesAvailable: "/etc/nginx/conf.d",
			SitesEnabled:   "/etc/nginx/conf.d",
			WebRootBase:    "/var/www",
			PHPSocketDir:   "/run/php-fpm",
			HostsFile:      "/etc/hosts",
		}, nil
	}

	return nil, fmt.Errorf("nginx configuration paths not found (checked /etc/nginx/sites-available, /etc/nginx/conf.d)")
}

// SplitLayout reports whether available and enabled configs live in different directories.
func (p *Paths) SplitLayout() bool {
	return p.SitesAvailable != p.SitesEnabled
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(root + path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

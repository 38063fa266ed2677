// Package site holds the values collected for one provisioning run: the
// validated domain, the PHP-FPM target and the filesystem layout derived
// from them.
package site

import (
	"path/filepath"
	"strings"

	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/template"
	"github.com/ksyq12/wpvhost/internal/validate"
)

// Domain is a domain name that passed validate.Domain.
type Domain struct {
	name string
}

// ParseDomain validates name and returns it as a Domain.
func ParseDomain(name string) (Domain, error) {
	if !validate.Domain(name) {
		return Domain{}, errors.InvalidDomain(name)
	}
	return Domain{name: name}, nil
}

// String returns the bare domain name.
func (d Domain) String() string { return d.name }

// WWW returns the www alias.
func (d Domain) WWW() string { return "www." + d.name }

// Uploads returns the uploads subdomain.
func (d Domain) Uploads() string { return "uploads." + d.name }

// Hostnames returns the domain, its www alias and its uploads subdomain.
func (d Domain) Hostnames() []string {
	return []string{d.name, d.WWW(), d.Uploads()}
}

// DatabaseName derives the database name by replacing dots with underscores.
func (d Domain) DatabaseName() string {
	return strings.ReplaceAll(d.name, ".", "_")
}

// IsZero reports whether d was never parsed.
func (d Domain) IsZero() bool { return d.name == "" }

// PHPTarget is a PHP version token together with its PHP-FPM socket.
type PHPTarget struct {
	Version    string
	SocketPath string
}

// ParsePHPTarget validates token and resolves its socket under socketDir.
func ParsePHPTarget(token, socketDir string) (PHPTarget, error) {
	if !validate.PHPVersion(token) {
		return PHPTarget{}, errors.InvalidPHPVersion(token)
	}
	return PHPTarget{
		Version:    token,
		SocketPath: template.ResolveSocketPathIn(socketDir, token),
	}, nil
}

// Layout is the set of paths derived from a domain.
type Layout struct {
	SiteDir    string
	WebRoot    string
	LogDir     string
	UploadsDir string
	ConfigName string
}

// NewLayout derives the site paths under base. publicDir and logsDir are the
// directory names used inside the site directory.
func NewLayout(base, publicDir, logsDir string, d Domain) Layout {
	siteDir := filepath.Join(base, d.String())
	webRoot := filepath.Join(siteDir, publicDir)
	return Layout{
		SiteDir:    siteDir,
		WebRoot:    webRoot,
		LogDir:     filepath.Join(siteDir, logsDir),
		UploadsDir: filepath.Join(webRoot, "uploads"),
		ConfigName: d.String(),
	}
}

package template

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/ksyq12/wpvhost/internal/validate"
)

//go:embed nginx/vhost.tmpl
var nginxTemplates embed.FS

// Defaults used when a VirtualHost leaves a field empty.
const (
	DefaultSocketDir          = "/run/php"
	DefaultSocketName         = "php-fpm.sock"
	DefaultCertificateSnippet = "snippets/self-signed.conf"
	DefaultParamsSnippet      = "snippets/ssl-params.conf"
	DefaultMaxBodySize        = "64M"

	// HSTSMaxAge is two years, in seconds.
	HSTSMaxAge = 63072000
)

var vhostTemplate = template.Must(template.ParseFS(nginxTemplates, "nginx/vhost.tmpl"))

// VirtualHost contains everything the nginx template needs.
type VirtualHost struct {
	Domain             string
	SocketPath         string
	WebRoot            string
	LogDir             string
	CertificateSnippet string
	ParamsSnippet      string
	MaxBodySize        string
}

type serverBlock struct {
	ServerNames string
	Root        string
	AccessLog   string
	ErrorLog    string
}

type renderData struct {
	VirtualHost
	HSTSMaxAge int
	Secure     []serverBlock
	Redirect   []string
}

// ResolveSocketPath maps a PHP version token to its PHP-FPM socket under DefaultSocketDir.
func ResolveSocketPath(token string) string {
	return ResolveSocketPathIn(DefaultSocketDir, token)
}

// ResolveSocketPathIn maps a PHP version token to its PHP-FPM socket under dir.
// The mapping never checks that the socket exists.
func ResolveSocketPathIn(dir, token string) string {
	if dir == "" {
		dir = DefaultSocketDir
	}
	if token == validate.DefaultPHPToken {
		return path.Join(dir, DefaultSocketName)
	}
	return path.Join(dir, "php"+token+"-fpm.sock")
}

// Render produces the configuration for domain using the default TLS snippets and body size.
func Render(domain, socketPath, webRoot string) (string, error) {
	return RenderVirtualHost(VirtualHost{
		Domain:     domain,
		SocketPath: socketPath,
		WebRoot:    webRoot,
	})
}

// RenderVirtualHost renders the four server blocks for vh: HTTPS for the domain
// and its www alias, HTTPS for the uploads subdomain, and an HTTP redirect for each.
func RenderVirtualHost(vh VirtualHost) (string, error) {
	if vh.Domain == "" {
		return "", fmt.Errorf("domain is required")
	}
	if vh.SocketPath == "" {
		return "", fmt.Errorf("socket path is required")
	}
	if vh.WebRoot == "" {
		return "", fmt.Errorf("web root is required")
	}
	vh = withDefaults(vh)

	primaryNames := vh.Domain + " www." + vh.Domain
	uploadsName := "uploads." + vh.Domain

	data := renderData{
		VirtualHost: vh,
		HSTSMaxAge:  HSTSMaxAge,
		Secure: []serverBlock{
			newServerBlock(primaryNames, vh.WebRoot, vh.LogDir, ""),
			newServerBlock(uploadsName, path.Join(vh.WebRoot, "uploads"), vh.LogDir, "uploads-"),
		},
		Redirect: []string{primaryNames, uploadsName},
	}

	var buf bytes.Buffer
	if err := vhostTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func newServerBlock(names, root, logDir, logPrefix string) serverBlock {
	block := serverBlock{ServerNames: names, Root: root}
	if logDir != "" {
		block.AccessLog = path.Join(logDir, logPrefix+"access.log")
		block.ErrorLog = path.Join(logDir, logPrefix+"error.log")
	}
	return block
}

func withDefaults(vh VirtualHost) VirtualHost {
	if strings.TrimSpace(vh.CertificateSnippet) == "" {
		vh.CertificateSnippet = DefaultCertificateSnippet
	}
	if strings.TrimSpace(vh.ParamsSnippet) == "" {
		vh.ParamsSnippet = DefaultParamsSnippet
	}
	if strings.TrimSpace(vh.MaxBodySize) == "" {
		vh.MaxBodySize = DefaultMaxBodySize
	}
	return vh
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/platform"
	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration
type Config struct {
	WebRootBase  string          `yaml:"web_root_base" json:"web_root_base"`
	PublicDir    string          `yaml:"public_dir" json:"public_dir"`
	LogsDir      string          `yaml:"logs_dir" json:"logs_dir"`
	Nginx        NginxConfig     `yaml:"nginx" json:"nginx"`
	PHPSocketDir string          `yaml:"php_socket_dir" json:"php_socket_dir"`
	TLS          TLSConfig       `yaml:"tls" json:"tls"`
	MaxBodySize  string          `yaml:"max_body_size" json:"max_body_size"`
	HostsFile    string          `yaml:"hosts_file" json:"hosts_file"`
	ServiceUser  string          `yaml:"service_user" json:"service_user"`
	ServiceGroup string          `yaml:"service_group" json:"service_group"`
	Database     DatabaseConfig  `yaml:"database" json:"database"`
	WordPress    WordPressConfig `yaml:"wordpress" json:"wordpress"`
}

// NginxConfig locates the nginx configuration directories and service unit
type NginxConfig struct {
	Available string `yaml:"available" json:"available"`
	Enabled   string `yaml:"enabled" json:"enabled"`
	Service   string `yaml:"service" json:"service"`
}

// TLSConfig names the snippets included by both HTTPS server blocks
type TLSConfig struct {
	CertificateSnippet string `yaml:"certificate_snippet" json:"certificate_snippet"`
	ParamsSnippet      string `yaml:"params_snippet" json:"params_snippet"`
}

// DatabaseConfig describes how to reach the MySQL/MariaDB server
type DatabaseConfig struct {
	Net       string `yaml:"net" json:"net"` // unix or tcp
	Address   string `yaml:"address" json:"address"`
	Charset   string `yaml:"charset" json:"charset"`
	Collation string `yaml:"collation" json:"collation"`
}

// WordPressConfig controls the optional WordPress installation
type WordPressConfig struct {
	DownloadURL string `yaml:"download_url" json:"download_url"`
	DBHost      string `yaml:"db_host" json:"db_host"`
}

// configDir is the default config directory
const configDir = ".config/wpvhost"
const configFile = "config.yaml"

var sqlNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// New creates a new Config with Debian defaults
func New() *Config {
	return fromPaths(platform.DebianPaths)
}

// Default creates a Config using the paths detected on this host, falling back to New.
func Default() *Config {
	paths, err := platform.DetectPaths()
	if err != nil {
		return New()
	}
	return fromPaths(*paths)
}

func fromPaths(p platform.Paths) *Config {
	return &Config{
		WebRootBase: p.WebRootBase,
		PublicDir:   "public_html",
		LogsDir:     "logs",
		Nginx: NginxConfig{
			Available: p.SitesAvailable,
			Enabled:   p.SitesEnabled,
			Service:   "nginx",
		},
		PHPSocketDir: p.PHPSocketDir,
		TLS: TLSConfig{
			CertificateSnippet: "snippets/self-signed.conf",
			ParamsSnippet:      "snippets/ssl-params.conf",
		},
		MaxBodySize:  "64M",
		HostsFile:    p.HostsFile,
		ServiceUser:  "www-data",
		ServiceGroup: "www-data",
		Database: DatabaseConfig{
			Net:       "unix",
			Address:   "/run/mysqld/mysqld.sock",
			Charset:   "utf8mb4",
			Collation: "utf8mb4_unicode_ci",
		},
		WordPress: WordPressConfig{
			DownloadURL: "https://wordpress.org/latest.zip",
			DBHost:      "localhost",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from path, or from ConfigPath when path is empty.
// A missing file yields the detected defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to path, or to ConfigPath when path is empty
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Marshal returns the YAML encoding of the config
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks that every path is absolute and every required key is set
func (c *Config) Validate() error {
	absolute := map[string]string{
		"web_root_base":   c.WebRootBase,
		"nginx.available": c.Nginx.Available,
		"nginx.enabled":   c.Nginx.Enabled,
		"php_socket_dir":  c.PHPSocketDir,
		"hosts_file":      c.HostsFile,
	}
	for _, key := range []string{"web_root_base", "nginx.available", "nginx.enabled", "php_socket_dir", "hosts_file"} {
		if !filepath.IsAbs(absolute[key]) {
			return invalid("%s must be an absolute path, got %q", key, absolute[key])
		}
	}

	for key, name := range map[string]string{"public_dir": c.PublicDir, "logs_dir": c.LogsDir} {
		if name == "" || strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
			return invalid("%s must be a single directory name, got %q", key, name)
		}
	}

	required := map[string]string{
		"nginx.service":           c.Nginx.Service,
		"tls.certificate_snippet": c.TLS.CertificateSnippet,
		"tls.params_snippet":      c.TLS.ParamsSnippet,
		"max_body_size":           c.MaxBodySize,
		"service_user":            c.ServiceUser,
		"service_group":           c.ServiceGroup,
		"database.address":        c.Database.Address,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return invalid("%s is required", key)
		}
	}

	if c.Database.Net != "unix" && c.Database.Net != "tcp" {
		return invalid("database.net must be unix or tcp, got %q", c.Database.Net)
	}
	if !sqlNamePattern.MatchString(c.Database.Charset) {
		return invalid("database.charset %q is not a valid character set name", c.Database.Charset)
	}
	if !sqlNamePattern.MatchString(c.Database.Collation) {
		return invalid("database.collation %q is not a valid collation name", c.Database.Collation)
	}

	u, err := url.Parse(c.WordPress.DownloadURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("wordpress.download_url must be an http(s) URL, got %q", c.WordPress.DownloadURL)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrap(errors.ErrCodeConfig, "invalid configuration", fmt.Errorf(format, args...))
}

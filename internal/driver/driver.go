package driver

import "context"

// Driver manages the configuration files and process of one web server
type Driver interface {
	// Name returns the driver name
	Name() string

	// Paths returns the driver's config paths
	Paths() Paths

	// ConfigPath returns where the config for name is written
	ConfigPath(name string) string

	// Write stores content as the config for name
	Write(name, content string) error

	// Enable activates the config for name, replacing a previous activation
	Enable(name string) error

	// IsEnabled checks if the config for name is active
	IsEnabled(name string) (bool, error)

	// Test validates the web server config syntax
	Test(ctx context.Context) error

	// Reload reloads the web server
	Reload(ctx context.Context) error
}

// Paths contains the web server config directory paths
type Paths struct {
	Available string // config available directory
	Enabled   string // config enabled directory
}

// Split reports whether configs are activated by linking between two directories.
// A single directory (conf.d, Homebrew servers/) activates every file it holds.
func (p Paths) Split() bool {
	return p.Available != p.Enabled
}

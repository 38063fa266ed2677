package cli

import (
	"io"
	"strings"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/driver"
	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/executor"
	"github.com/ksyq12/wpvhost/internal/provision"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	LoadPaths []string
	SavePaths []string
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.LoadPaths = append(m.LoadPaths, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config, path string) error {
	m.SavePaths = append(m.SavePaths, path)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockServiceFactory is a test double for ServiceFactory
type MockServiceFactory struct {
	Driver   *driver.MockDriver
	Hosts    *provision.MockHosts
	Database *provision.MockDatabase
	Download *provision.MockDownloader
	Owner    *provision.MockOwner
	Err      error
}

// NewMockServiceFactory creates a factory whose services are all no-op mocks
func NewMockServiceFactory(availableDir, enabledDir string) *MockServiceFactory {
	return &MockServiceFactory{
		Driver:   driver.NewMockDriver("nginx", availableDir, enabledDir),
		Hosts:    &provision.MockHosts{},
		Database: &provision.MockDatabase{},
		Download: &provision.MockDownloader{},
		Owner:    &provision.MockOwner{},
	}
}

func (m *MockServiceFactory) Create(cfg *config.Config) (provision.Services, error) {
	if m.Err != nil {
		return provision.Services{}, m.Err
	}
	return provision.Services{
		Driver:   m.Driver,
		Hosts:    m.Hosts,
		Database: m.Database,
		Download: m.Download,
		Owner:    m.Owner,
	}, nil
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return errors.ErrRootRequired
	}
	return nil
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", io.EOF
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, io.EOF
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockPasswordReader reads secrets from the same input as the other prompts
type MockPasswordReader struct {
	In    *MockStdinReader
	Calls int
}

func (m *MockPasswordReader) ReadPassword() (string, error) {
	m.Calls++
	line, err := m.In.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	stdin := &MockStdinReader{}
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:   &MockConfigLoader{Cfg: config.New()},
			ServiceFactory: NewMockServiceFactory("/etc/nginx/sites-available", "/etc/nginx/sites-enabled"),
			RootChecker:    &MockRootChecker{IsRoot: true},
			StdinReader:    stdin,
			PasswordReader: &MockPasswordReader{In: stdin},
			Executor:       &executor.MockExecutor{},
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithServices sets the service factory
func (b *MockDependenciesBuilder) WithServices(factory ServiceFactory) *MockDependenciesBuilder {
	b.deps.ServiceFactory = factory
	return b
}

// WithExecutor sets the command executor
func (b *MockDependenciesBuilder) WithExecutor(exec executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = exec
	return b
}

// WithRootAccess sets whether root access is available
func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
	return b
}

// WithStdinInput sets the input answering every prompt, passwords included
func (b *MockDependenciesBuilder) WithStdinInput(input string) *MockDependenciesBuilder {
	stdin := &MockStdinReader{Input: input}
	b.deps.StdinReader = stdin
	b.deps.PasswordReader = &MockPasswordReader{In: stdin}
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// TestHelper provides utilities for CLI tests
type TestHelper struct {
	T interface {
		Helper()
		Cleanup(func())
	}
	OldDeps    *Dependencies
	Services   *MockServiceFactory
	MockConfig *MockConfigLoader
}

// NewTestHelper installs mock dependencies whose config keeps every path under dir
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}, dir string) *TestHelper {
	t.Helper()

	cfg := config.New()
	cfg.WebRootBase = dir + "/www"
	cfg.Nginx.Available = dir + "/sites-available"
	cfg.Nginx.Enabled = dir + "/sites-enabled"
	cfg.HostsFile = dir + "/hosts"
	cfg.PHPSocketDir = dir + "/php"

	services := NewMockServiceFactory(cfg.Nginx.Available, cfg.Nginx.Enabled)
	mockConfig := &MockConfigLoader{Cfg: cfg}

	helper := &TestHelper{
		T:          t,
		OldDeps:    deps,
		Services:   services,
		MockConfig: mockConfig,
	}

	deps = NewMockDeps().
		WithServices(services).
		WithConfigLoader(mockConfig).
		Build()

	oldJSON, oldDryRun, oldConfigPath := jsonOutput, dryRun, configPath
	jsonOutput, dryRun, configPath = false, false, ""

	// Cleanup function to restore original deps
	t.Cleanup(func() {
		deps = helper.OldDeps
		jsonOutput, dryRun, configPath = oldJSON, oldDryRun, oldConfigPath
	})

	return helper
}

// SetRootAccess sets whether root access is available
func (h *TestHelper) SetRootAccess(isRoot bool) {
	deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
}

// SetStdinInput sets the input answering every prompt
func (h *TestHelper) SetStdinInput(input string) {
	stdin := &MockStdinReader{Input: input}
	deps.StdinReader = stdin
	deps.PasswordReader = &MockPasswordReader{In: stdin}
}

// GetConfig returns the current mock config
func (h *TestHelper) GetConfig() *config.Config {
	return h.MockConfig.Cfg
}

package driver

import (
	"context"
	"path/filepath"
)

// MockDriver is a test double for Driver interface
type MockDriver struct {
	name  string
	paths Paths

	// Function mocks - set these to customize behavior
	WriteFunc     func(name, content string) error
	EnableFunc    func(name string) error
	IsEnabledFunc func(name string) (bool, error)
	TestFunc      func() error
	ReloadFunc    func() error

	// Call tracking - check these to verify interactions
	WriteCalls     []WriteCall
	EnableCalls    []string
	IsEnabledCalls []string
	TestCalls      int
	ReloadCalls    int
}

// WriteCall records arguments passed to Write
type WriteCall struct {
	Name    string
	Content string
}

// NewMockDriver creates a new MockDriver with default no-op implementations
func NewMockDriver(name, availableDir, enabledDir string) *MockDriver {
	return &MockDriver{
		name: name,
		paths: Paths{
			Available: availableDir,
			Enabled:   enabledDir,
		},
	}
}

// Name returns the driver name
func (m *MockDriver) Name() string {
	return m.name
}

// Paths returns the configured paths
func (m *MockDriver) Paths() Paths {
	return m.paths
}

// ConfigPath returns name joined to the available directory
func (m *MockDriver) ConfigPath(name string) string {
	return filepath.Join(m.paths.Available, name)
}

// Write records the call and invokes the mock function if set
func (m *MockDriver) Write(name, content string) error {
	m.WriteCalls = append(m.WriteCalls, WriteCall{Name: name, Content: content})
	if m.WriteFunc != nil {
		return m.WriteFunc(name, content)
	}
	return nil
}

// Enable records the call and invokes the mock function if set
func (m *MockDriver) Enable(name string) error {
	m.EnableCalls = append(m.EnableCalls, name)
	if m.EnableFunc != nil {
		return m.EnableFunc(name)
	}
	return nil
}

// IsEnabled records the call and invokes the mock function if set
func (m *MockDriver) IsEnabled(name string) (bool, error) {
	m.IsEnabledCalls = append(m.IsEnabledCalls, name)
	if m.IsEnabledFunc != nil {
		return m.IsEnabledFunc(name)
	}
	return len(m.EnableCalls) > 0, nil
}

// Test records the call and invokes the mock function if set
func (m *MockDriver) Test(ctx context.Context) error {
	m.TestCalls++
	if m.TestFunc != nil {
		return m.TestFunc()
	}
	return nil
}

// Reload records the call and invokes the mock function if set
func (m *MockDriver) Reload(ctx context.Context) error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}

// Reset clears all call tracking
func (m *MockDriver) Reset() {
	m.WriteCalls = nil
	m.EnableCalls = nil
	m.IsEnabledCalls = nil
	m.TestCalls = 0
	m.ReloadCalls = 0
}

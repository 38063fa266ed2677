package provision

import (
	"context"

	"github.com/ksyq12/wpvhost/internal/database"
	"github.com/ksyq12/wpvhost/internal/site"
)

// MockHosts is a test double for HostsEditor
type MockHosts struct {
	EnsureEntryFunc  func(d site.Domain) (bool, error)
	EnsureEntryCalls []string
}

// EnsureEntry records the call and invokes the mock function if set
func (m *MockHosts) EnsureEntry(d site.Domain) (bool, error) {
	m.EnsureEntryCalls = append(m.EnsureEntryCalls, d.String())
	if m.EnsureEntryFunc != nil {
		return m.EnsureEntryFunc(d)
	}
	return true, nil
}

// DatabaseCall records arguments passed to CreateDatabase
type DatabaseCall struct {
	Credentials database.Credentials
	Name        string
}

// MockDatabase is a test double for DatabaseCreator
type MockDatabase struct {
	CreateDatabaseFunc  func(ctx context.Context, creds database.Credentials, name string) error
	CreateDatabaseCalls []DatabaseCall
}

// CreateDatabase records the call and invokes the mock function if set
func (m *MockDatabase) CreateDatabase(ctx context.Context, creds database.Credentials, name string) error {
	m.CreateDatabaseCalls = append(m.CreateDatabaseCalls, DatabaseCall{Credentials: creds, Name: name})
	if m.CreateDatabaseFunc != nil {
		return m.CreateDatabaseFunc(ctx, creds, name)
	}
	return nil
}

// MockDownloader is a test double for Downloader
type MockDownloader struct {
	DownloadFunc  func(ctx context.Context, dir string) (string, error)
	DownloadCalls []string
}

// Download records the call and invokes the mock function if set
func (m *MockDownloader) Download(ctx context.Context, dir string) (string, error) {
	m.DownloadCalls = append(m.DownloadCalls, dir)
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, dir)
	}
	return "", nil
}

// ChownCall records arguments passed to Chown
type ChownCall struct {
	Root  string
	User  string
	Group string
}

// MockOwner is a test double for Owner
type MockOwner struct {
	ChownFunc  func(root, username, group string) error
	ChownCalls []ChownCall
}

// Chown records the call and invokes the mock function if set
func (m *MockOwner) Chown(ctx context.Context, root, username, group string) error {
	m.ChownCalls = append(m.ChownCalls, ChownCall{Root: root, User: username, Group: group})
	if m.ChownFunc != nil {
		return m.ChownFunc(root, username, group)
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksyq12/wpvhost/internal/database"
	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/output"
	"github.com/ksyq12/wpvhost/internal/provision"
)

func TestRunProvision(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		existing    bool
		dryRun      bool
		notRoot     bool
		setup       func(*MockServiceFactory)
		wantErr     error
		errContains string
		validate    func(*testing.T, *TestHelper)
	}{
		{
			name:  "site without WordPress",
			input: "example.com\n8.3\nadmin\ns3cret\nn\n",
			validate: func(t *testing.T, h *TestHelper) {
				drv := h.Services.Driver
				if len(drv.WriteCalls) != 1 {
					t.Fatalf("expected 1 Write call, got %d", len(drv.WriteCalls))
				}
				socket := filepath.Join(h.GetConfig().PHPSocketDir, "php8.3-fpm.sock")
				if !strings.Contains(drv.WriteCalls[0].Content, "fastcgi_pass unix:"+socket+";") {
					t.Error("config does not use the php8.3 socket")
				}
				if len(drv.EnableCalls) != 1 || drv.TestCalls != 1 || drv.ReloadCalls != 1 {
					t.Errorf("unexpected driver calls: enable=%d test=%d reload=%d",
						len(drv.EnableCalls), drv.TestCalls, drv.ReloadCalls)
				}

				calls := h.Services.Database.CreateDatabaseCalls
				want := provision.DatabaseCall{
					Credentials: database.Credentials{User: "admin", Password: "s3cret"},
					Name:        "example_com",
				}
				if len(calls) != 1 || calls[0] != want {
					t.Errorf("database calls = %+v, want %+v", calls, want)
				}
				if len(h.Services.Download.DownloadCalls) != 0 {
					t.Error("WordPress should not be downloaded")
				}
				if len(h.Services.Owner.ChownCalls) != 2 {
					t.Errorf("expected 2 Chown calls, got %d", len(h.Services.Owner.ChownCalls))
				}
			},
		},
		{
			name:  "invalid answers are asked again",
			input: "Example.com\n-bad.com\nexample.com\n8.5\nphp8.3\nphp\n\nadmin\ns3cret\nN\n",
			validate: func(t *testing.T, h *TestHelper) {
				drv := h.Services.Driver
				if len(drv.WriteCalls) != 1 {
					t.Fatalf("expected 1 Write call, got %d", len(drv.WriteCalls))
				}
				socket := filepath.Join(h.GetConfig().PHPSocketDir, "php-fpm.sock")
				if !strings.Contains(drv.WriteCalls[0].Content, socket) {
					t.Error("config does not use the default socket")
				}
			},
		},
		{
			name:  "WordPress requested",
			input: "example.com\n8.2\nadmin\ns3cret\ny\nc\n",
			setup: func(s *MockServiceFactory) {
				s.Download.DownloadFunc = func(ctx context.Context, dir string) (string, error) {
					return "", fmt.Errorf("unexpected status 404 Not Found")
				}
			},
			wantErr: errors.ErrStepFailed,
			validate: func(t *testing.T, h *TestHelper) {
				if len(h.Services.Database.CreateDatabaseCalls) != 1 {
					t.Error("database should be created before the download")
				}
				if len(h.Services.Download.DownloadCalls) != 1 {
					t.Errorf("expected 1 Download call, got %d", len(h.Services.Download.DownloadCalls))
				}
				if len(h.Services.Owner.ChownCalls) != 0 {
					t.Error("ownership should not change after a failed step")
				}
			},
		},
		{
			name:        "failed config test stops the run",
			input:       "example.com\n8.3\nadmin\ns3cret\nn\n",
			setup:       func(s *MockServiceFactory) { s.Driver.TestFunc = func() error { return fmt.Errorf("emerg") } },
			wantErr:     errors.ErrStepFailed,
			errContains: "test_config",
			validate: func(t *testing.T, h *TestHelper) {
				if h.Services.Driver.ReloadCalls != 0 {
					t.Error("reload should not run")
				}
				if len(h.Services.Hosts.EnsureEntryCalls) != 0 {
					t.Error("hosts file should not be touched")
				}
			},
		},
		{
			name:     "existing site declined",
			input:    "example.com\n8.3\nn\n",
			existing: true,
			validate: func(t *testing.T, h *TestHelper) {
				if len(h.Services.Driver.WriteCalls) != 0 {
					t.Error("nothing should be written")
				}
			},
		},
		{
			name:     "existing site with unknown answer",
			input:    "example.com\n8.3\nmaybe\n",
			existing: true,
			validate: func(t *testing.T, h *TestHelper) {
				if len(h.Services.Driver.WriteCalls) != 0 {
					t.Error("nothing should be written")
				}
			},
		},
		{
			name:     "existing site overwritten",
			input:    "example.com\n8.3\ny\nadmin\ns3cret\nn\n",
			existing: true,
			validate: func(t *testing.T, h *TestHelper) {
				if len(h.Services.Driver.WriteCalls) != 1 {
					t.Error("config should be written")
				}
			},
		},
		{
			name:    "invalid WordPress answer",
			input:   "example.com\n8.3\nadmin\ns3cret\nmaybe\n",
			wantErr: errors.ErrInvalidAnswer,
			validate: func(t *testing.T, h *TestHelper) {
				if len(h.Services.Driver.WriteCalls) != 0 {
					t.Error("nothing should be written")
				}
			},
		},
		{
			name:    "invalid structure answer",
			input:   "example.com\n8.3\nadmin\ns3cret\ny\nx\n",
			wantErr: errors.ErrInvalidAnswer,
		},
		{
			name:    "database name too long",
			input:   strings.Repeat("a", 60) + ".example.com\n8.3\nadmin\ns3cret\nn\n",
			wantErr: errors.ErrInvalidDomain,
			validate: func(t *testing.T, h *TestHelper) {
				s := h.Services
				if len(s.Driver.WriteCalls) != 0 || len(s.Hosts.EnsureEntryCalls) != 0 {
					t.Error("nothing should be changed")
				}
			},
		},
		{
			name:    "input closed",
			input:   "example.com\n",
			wantErr: errors.ErrInputClosed,
		},
		{
			name:    "root required",
			input:   "example.com\n8.3\nadmin\ns3cret\nn\n",
			notRoot: true,
			wantErr: errors.ErrRootRequired,
			validate: func(t *testing.T, h *TestHelper) {
				if deps.StdinReader.(*MockStdinReader).pos != 0 {
					t.Error("no prompt should be read without root")
				}
			},
		},
		{
			name:    "dry run",
			input:   "example.com\n8.3\nadmin\ns3cret\ny\ns\n",
			dryRun:  true,
			notRoot: true,
			validate: func(t *testing.T, h *TestHelper) {
				if deps.RootChecker.(*MockRootChecker).Calls != 0 {
					t.Error("dry run should not require root")
				}
				s := h.Services
				if len(s.Driver.WriteCalls) != 0 || len(s.Database.CreateDatabaseCalls) != 0 || len(s.Download.DownloadCalls) != 0 {
					t.Error("dry run should have no side effects")
				}
				if _, err := os.Stat(h.GetConfig().WebRootBase); !os.IsNotExist(err) {
					t.Error("dry run should not create directories")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHelper(t, t.TempDir())
			h.SetStdinInput(tt.input)
			h.SetRootAccess(!tt.notRoot)
			dryRun = tt.dryRun
			if tt.setup != nil {
				tt.setup(h.Services)
			}
			if tt.existing {
				cfg := h.GetConfig()
				if err := os.MkdirAll(filepath.Join(cfg.WebRootBase, "example.com", cfg.PublicDir), 0755); err != nil {
					t.Fatal(err)
				}
			}

			err := runProvision(nil, nil)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err, tt.errContains)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, h)
			}
		})
	}
}

func TestRunProvisionConfigError(t *testing.T) {
	h := NewTestHelper(t, t.TempDir())
	h.MockConfig.LoadErr = errors.Config("invalid configuration", fmt.Errorf("web_root_base must be an absolute path"))

	err := runProvision(nil, nil)
	if !errors.Is(err, errors.ErrConfigInvalid) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRunProvisionServiceError(t *testing.T) {
	h := NewTestHelper(t, t.TempDir())
	h.SetStdinInput("example.com\n8.3\nadmin\ns3cret\nn\n")
	h.Services.Err = fmt.Errorf("no executor")

	if err := runProvision(nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunProvisionPassesConfigPath(t *testing.T) {
	h := NewTestHelper(t, t.TempDir())
	h.SetStdinInput("")
	configPath = "/etc/wpvhost.yaml"

	_ = runProvision(nil, nil)

	if len(h.MockConfig.LoadPaths) != 1 || h.MockConfig.LoadPaths[0] != "/etc/wpvhost.yaml" {
		t.Errorf("unexpected load paths %v", h.MockConfig.LoadPaths)
	}
}

func TestRunProvisionLeftoverLogs(t *testing.T) {
	h := NewTestHelper(t, t.TempDir())
	cfg := h.GetConfig()
	if err := os.MkdirAll(filepath.Join(cfg.WebRootBase, "example.com", cfg.LogsDir), 0755); err != nil {
		t.Fatal(err)
	}
	// no overwrite answer: a logs-only site directory is not a conflict
	h.SetStdinInput("example.com\n8.3\nadmin\ns3cret\nn\n")

	if err := runProvision(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Services.Driver.WriteCalls) != 1 {
		t.Error("config should be written")
	}
}

func TestSiteConflict(t *testing.T) {
	dir := t.TempDir()

	if err := siteConflict(filepath.Join(dir, "missing")); err != nil {
		t.Errorf("expected no conflict, got %v", err)
	}
	if err := siteConflict(dir); !errors.Is(err, errors.ErrSiteExists) {
		t.Errorf("expected site exists, got %v", err)
	}
}

func TestRunProvisionJSONKeepsPromptsOffStdout(t *testing.T) {
	h := NewTestHelper(t, t.TempDir())
	h.SetStdinInput("example.com\n8.3\nadmin\ns3cret\nn\n")
	h.SetRootAccess(false)
	jsonOutput = true
	dryRun = true

	var prompts bytes.Buffer
	oldInteractive := output.Interactive
	output.Interactive = &prompts
	t.Cleanup(func() { output.Interactive = oldInteractive })

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	runErr := runProvision(nil, nil)
	w.Close()
	os.Stdout = oldStdout

	var stdout bytes.Buffer
	_, _ = io.Copy(&stdout, r)

	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}

	var report provision.Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout.String())
	}
	if report.Domain != "example.com" || !report.DryRun {
		t.Errorf("unexpected report %+v", report)
	}
	if !strings.Contains(prompts.String(), promptDomain) {
		t.Errorf("prompts should go to the interactive writer, got %q", prompts.String())
	}
}

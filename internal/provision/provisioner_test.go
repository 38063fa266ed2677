package provision

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksyq12/wpvhost/internal/config"
	"github.com/ksyq12/wpvhost/internal/database"
	"github.com/ksyq12/wpvhost/internal/driver"
	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/site"
	"github.com/ksyq12/wpvhost/internal/wordpress"
)

type testProvisioner struct {
	*Provisioner
	cfg      *config.Config
	driver   *driver.MockDriver
	hosts    *MockHosts
	database *MockDatabase
	download *MockDownloader
	owner    *MockOwner
}

func newTestProvisioner(t *testing.T) *testProvisioner {
	t.Helper()
	tmp := t.TempDir()

	cfg := config.New()
	cfg.WebRootBase = filepath.Join(tmp, "www")
	cfg.Nginx.Available = filepath.Join(tmp, "sites-available")
	cfg.Nginx.Enabled = filepath.Join(tmp, "sites-enabled")
	cfg.HostsFile = filepath.Join(tmp, "hosts")

	tp := &testProvisioner{
		cfg:      cfg,
		driver:   driver.NewMockDriver("nginx", cfg.Nginx.Available, cfg.Nginx.Enabled),
		hosts:    &MockHosts{},
		database: &MockDatabase{},
		download: &MockDownloader{},
		owner:    &MockOwner{},
	}
	tp.Provisioner = New(cfg, Services{
		Driver:   tp.driver,
		Hosts:    tp.hosts,
		Database: tp.database,
		Download: tp.download,
		Owner:    tp.owner,
	})
	return tp
}

func testRequest(t *testing.T) Request {
	t.Helper()
	d, err := site.ParseDomain("example.com")
	if err != nil {
		t.Fatal(err)
	}
	php, err := site.ParsePHPTarget("8.3", "/run/php")
	if err != nil {
		t.Fatal(err)
	}
	return Request{
		Domain:      d,
		PHP:         php,
		Credentials: database.Credentials{User: "admin", Password: "s3cret"},
	}
}

func stepNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func TestSteps(t *testing.T) {
	tests := []struct {
		name      string
		wordpress bool
		want      []string
	}{
		{
			name: "without wordpress",
			want: []string{
				StepCreateDirectories, StepWriteConfig, StepEnableSite, StepTestConfig,
				StepReloadServer, StepHostsEntry, StepCreateDatabase, StepSetOwnership,
			},
		},
		{
			name:      "with wordpress",
			wordpress: true,
			want: []string{
				StepCreateDirectories, StepWriteConfig, StepEnableSite, StepTestConfig,
				StepReloadServer, StepHostsEntry, StepCreateDatabase, StepDownloadWordPress,
				StepExtractWordPress, StepLayoutWordPress, StepWriteWPConfig, StepSetOwnership,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := newTestProvisioner(t)
			req := testRequest(t)
			req.InstallWordPress = tt.wordpress

			steps, err := tp.Steps(req)
			if err != nil {
				t.Fatalf("Steps failed: %v", err)
			}
			if got := stepNames(steps); fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("steps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStepsRequireDomain(t *testing.T) {
	tp := newTestProvisioner(t)
	if _, err := tp.Steps(Request{}); err == nil {
		t.Error("expected error for empty request")
	}
}

func TestStepsRejectLongDatabaseName(t *testing.T) {
	tp := newTestProvisioner(t)
	req := testRequest(t)
	d, err := site.ParseDomain(strings.Repeat("a", 60) + ".example.com")
	if err != nil {
		t.Fatalf("ParseDomain failed: %v", err)
	}
	req.Domain = d

	report, err := tp.Run(context.Background(), req)
	if !errors.Is(err, errors.ErrInvalidDomain) {
		t.Fatalf("expected invalid domain error, got %v", err)
	}
	if report != nil {
		t.Errorf("expected no report, got %+v", report)
	}
	if _, err := os.Stat(tp.cfg.WebRootBase); !os.IsNotExist(err) {
		t.Errorf("web root base should not be created, got %v", err)
	}
	if len(tp.driver.WriteCalls) != 0 {
		t.Errorf("expected no config writes, got %v", tp.driver.WriteCalls)
	}
}

func TestProvisionerRun(t *testing.T) {
	tp := newTestProvisioner(t)
	req := testRequest(t)

	report, err := tp.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Status != StatusOK {
		t.Errorf("expected ok report, got %s", report.Status)
	}

	layout := tp.Layout(req.Domain)
	for _, dir := range []string{layout.WebRoot, layout.LogDir, layout.UploadsDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}

	if len(tp.driver.WriteCalls) != 1 {
		t.Fatalf("expected 1 write, got %d", len(tp.driver.WriteCalls))
	}
	call := tp.driver.WriteCalls[0]
	if call.Name != "example.com" {
		t.Errorf("expected config name example.com, got %s", call.Name)
	}
	for _, want := range []string{
		"server_name example.com www.example.com;",
		"server_name uploads.example.com;",
		"fastcgi_pass unix:/run/php/php8.3-fpm.sock;",
		"root " + layout.WebRoot + ";",
	} {
		if !strings.Contains(call.Content, want) {
			t.Errorf("config missing %q", want)
		}
	}

	if len(tp.driver.EnableCalls) != 1 || tp.driver.TestCalls != 1 || tp.driver.ReloadCalls != 1 {
		t.Errorf("unexpected driver calls: enable=%v test=%d reload=%d",
			tp.driver.EnableCalls, tp.driver.TestCalls, tp.driver.ReloadCalls)
	}

	if len(tp.hosts.EnsureEntryCalls) != 1 || tp.hosts.EnsureEntryCalls[0] != "example.com" {
		t.Errorf("unexpected hosts calls %v", tp.hosts.EnsureEntryCalls)
	}

	if len(tp.database.CreateDatabaseCalls) != 1 {
		t.Fatalf("expected 1 database call, got %d", len(tp.database.CreateDatabaseCalls))
	}
	db := tp.database.CreateDatabaseCalls[0]
	if db.Name != "example_com" || db.Credentials.User != "admin" || db.Credentials.Password != "s3cret" {
		t.Errorf("unexpected database call %+v", db)
	}

	if len(tp.download.DownloadCalls) != 0 {
		t.Error("download should not run without WordPress")
	}

	want := []ChownCall{
		{Root: layout.WebRoot, User: "www-data", Group: "www-data"},
		{Root: layout.LogDir, User: "www-data", Group: "www-data"},
	}
	if fmt.Sprint(tp.owner.ChownCalls) != fmt.Sprint(want) {
		t.Errorf("chown calls = %v, want %v", tp.owner.ChownCalls, want)
	}
}

func TestProvisionerRunStopsOnFailedTest(t *testing.T) {
	tp := newTestProvisioner(t)
	tp.driver.TestFunc = func() error {
		return fmt.Errorf("nginx: [emerg] unexpected end of file")
	}

	report, err := tp.Run(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}

	var perr *errors.ProvisionError
	if !errors.As(err, &perr) || perr.Step != StepTestConfig {
		t.Errorf("expected failure in %s, got %v", StepTestConfig, err)
	}
	if tp.driver.ReloadCalls != 0 {
		t.Error("reload should not run after a failed test")
	}
	if len(tp.hosts.EnsureEntryCalls) != 0 || len(tp.database.CreateDatabaseCalls) != 0 {
		t.Error("later steps should not run")
	}
	if failed, _ := report.Failed(); failed.Name != StepTestConfig {
		t.Errorf("report names %s as failed", failed.Name)
	}
}

func TestProvisionerPlan(t *testing.T) {
	tp := newTestProvisioner(t)
	req := testRequest(t)
	req.InstallWordPress = true

	report, err := tp.Plan(req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(report.Steps) != 12 {
		t.Errorf("expected 12 planned steps, got %d", len(report.Steps))
	}
	if len(tp.driver.WriteCalls) != 0 || len(tp.database.CreateDatabaseCalls) != 0 {
		t.Error("Plan should have no side effects")
	}
	if _, err := os.Stat(tp.cfg.WebRootBase); !os.IsNotExist(err) {
		t.Error("Plan should not create directories")
	}
}

func writeRelease(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, wordpress.ArchiveName)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	files := map[string]string{
		"wordpress/index.php": "<?php\nrequire __DIR__ . '/wp-blog-header.php';\n",
		"wordpress/wp-config-sample.php": "<?php\n" +
			"define( 'DB_NAME', 'database_name_here' );\n" +
			"define( 'DB_USER', 'username_here' );\n" +
			"define( 'DB_PASSWORD', 'password_here' );\n" +
			"define( 'DB_HOST', 'localhost' );\n" +
			"/* That's all, stop editing! Happy publishing. */\n" +
			"require_once ABSPATH . 'wp-settings.php';\n",
		"wordpress/wp-content/index.php": "<?php // Silence is golden.",
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProvisionerRunWithWordPress(t *testing.T) {
	tp := newTestProvisioner(t)
	tp.download.DownloadFunc = func(ctx context.Context, dir string) (string, error) {
		return writeRelease(t, dir), nil
	}

	req := testRequest(t)
	req.InstallWordPress = true
	req.WordPressLayout = wordpress.Standard

	if _, err := tp.Run(context.Background(), req); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	webRoot := tp.Layout(req.Domain).WebRoot
	if len(tp.download.DownloadCalls) != 1 || tp.download.DownloadCalls[0] != webRoot {
		t.Errorf("unexpected download calls %v", tp.download.DownloadCalls)
	}

	data, err := os.ReadFile(filepath.Join(webRoot, wordpress.ConfigFile))
	if err != nil {
		t.Fatalf("wp-config.php not written: %v", err)
	}
	for _, want := range []string{"'example_com'", "'admin'", "'s3cret'"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("wp-config.php missing %s", want)
		}
	}

	for _, gone := range []string{wordpress.ArchiveName, wordpress.ExtractedDir} {
		if _, err := os.Stat(filepath.Join(webRoot, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", gone)
		}
	}
}

func TestProvisionerRunDownloadFailure(t *testing.T) {
	tp := newTestProvisioner(t)
	tp.download.DownloadFunc = func(ctx context.Context, dir string) (string, error) {
		return "", fmt.Errorf("unexpected status 503 Service Unavailable")
	}

	req := testRequest(t)
	req.InstallWordPress = true

	_, err := tp.Run(context.Background(), req)
	var perr *errors.ProvisionError
	if !errors.As(err, &perr) || perr.Step != StepDownloadWordPress {
		t.Fatalf("expected failure in %s, got %v", StepDownloadWordPress, err)
	}
	if len(tp.owner.ChownCalls) != 0 {
		t.Error("ownership should not change after a failed download")
	}
}

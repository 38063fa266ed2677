package wordpress

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `<?php
define( 'DB_NAME', 'database_name_here' );
define( 'DB_USER', 'username_here' );
define( 'DB_PASSWORD', 'password_here' );
define( 'DB_HOST', 'localhost' );
define( 'DB_CHARSET', 'utf8' );

define( 'AUTH_KEY',         'put your unique phrase here' );
define( 'SECURE_AUTH_KEY',  'put your unique phrase here' );
define( 'LOGGED_IN_KEY',    'put your unique phrase here' );
define( 'NONCE_KEY',        'put your unique phrase here' );

$table_prefix = 'wp_';

/* Add any custom values between this line and the "stop editing" line. */

/* That's all, stop editing! Happy publishing. */

if ( ! defined( 'ABSPATH' ) ) {
	define( 'ABSPATH', __DIR__ . '/' );
}

require_once ABSPATH . 'wp-settings.php';
`

const frontController = `<?php
/**
 * Front to the WordPress application.
 */
define( 'WP_USE_THEMES', true );

/** Loads the WordPress Environment and Template */
require __DIR__ . '/wp-blog-header.php';
`

// releaseFiles mirrors the parts of the release archive the installer touches.
var releaseFiles = map[string]string{
	"wordpress/index.php":                              frontController,
	"wordpress/wp-config-sample.php":                   sampleConfig,
	"wordpress/wp-blog-header.php":                     "<?php // header",
	"wordpress/wp-includes/version.php":                "<?php $wp_version = '6.6';",
	"wordpress/wp-admin/index.php":                     "<?php // admin",
	"wordpress/wp-content/index.php":                   "<?php // Silence is golden.",
	"wordpress/wp-content/plugins/index.php":           "<?php // Silence is golden.",
	"wordpress/wp-content/plugins/akismet/akismet.php": "<?php // akismet",
	"wordpress/wp-content/themes/index.php":            "<?php // Silence is golden.",
	"wordpress/wp-content/themes/twentyfour/style.css": "/* Theme Name: Twenty Twenty-Four */",
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// extractRelease unpacks the fake release into a new web root.
func extractRelease(t *testing.T) string {
	t.Helper()
	webRoot := t.TempDir()
	archive := filepath.Join(webRoot, ArchiveName)
	if err := os.WriteFile(archive, buildZip(t, releaseFiles), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	if err := Extract(archive, webRoot); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return webRoot
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent, got %v", path, err)
	}
}

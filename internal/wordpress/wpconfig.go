package wordpress

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SampleConfig is the template shipped with every release.
const SampleConfig = "wp-config-sample.php"

// ConfigFile is the name WordPress looks for.
const ConfigFile = "wp-config.php"

const saltPlaceholder = "put your unique phrase here"

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_[]{}<>~+=,.;:/?|"

// Settings fill wp-config.php.
type Settings struct {
	Domain     string
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
}

// randomSalt is replaced in tests.
var randomSalt = func() (string, error) {
	b := make([]byte, 64)
	max := big.NewInt(int64(len(saltAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = saltAlphabet[n.Int64()]
	}
	return string(b), nil
}

// ConfigPaths returns the sample read and the config written for l.
func ConfigPaths(webRoot string, l Layout) (sample, config string) {
	if l == Custom {
		return filepath.Join(webRoot, CoreDir, SampleConfig), filepath.Join(webRoot, ConfigDir, ConfigFile)
	}
	return filepath.Join(webRoot, SampleConfig), filepath.Join(webRoot, ConfigFile)
}

// WriteConfig creates wp-config.php from the release sample.
// The custom layout keeps the real file in config/ and leaves a loader in the web root.
func WriteConfig(webRoot string, l Layout, s Settings) error {
	samplePath, configPath := ConfigPaths(webRoot, l)

	sample, err := os.ReadFile(samplePath)
	if err != nil {
		return errors.Wrap(err, "read sample config")
	}

	rendered, err := RenderConfig(sample, l, s)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	if err := os.WriteFile(configPath, rendered, 0640); err != nil {
		return errors.Wrapf(err, "write %s", configPath)
	}

	if l == Custom {
		loader := fmt.Sprintf("<?php\nrequire_once __DIR__ . '/%s/%s';\n", ConfigDir, ConfigFile)
		if err := os.WriteFile(filepath.Join(webRoot, ConfigFile), []byte(loader), 0644); err != nil {
			return errors.Wrap(err, "write config loader")
		}
	}
	return nil
}

// RenderConfig fills the database settings and salts of sample and, for the
// custom layout, adds the directory constants before the "stop editing" line.
func RenderConfig(sample []byte, l Layout, s Settings) ([]byte, error) {
	host := s.DBHost
	if host == "" {
		host = "localhost"
	}

	// salts first so that a password containing the placeholder stays intact
	out := sample
	for bytes.Contains(out, []byte(saltPlaceholder)) {
		salt, err := randomSalt()
		if err != nil {
			return nil, errors.Wrap(err, "generate salt")
		}
		out = bytes.Replace(out, []byte(saltPlaceholder), []byte(escapePHP(salt)), 1)
	}

	for _, r := range []struct{ placeholder, value string }{
		{"database_name_here", s.DBName},
		{"username_here", s.DBUser},
		{"password_here", s.DBPassword},
	} {
		if !bytes.Contains(out, []byte("'"+r.placeholder+"'")) {
			return nil, errors.Errorf("sample config has no %s placeholder", r.placeholder)
		}
		out = bytes.Replace(out, []byte("'"+r.placeholder+"'"), []byte(phpString(r.value)), 1)
	}
	out = bytes.Replace(out, []byte("'DB_HOST', 'localhost'"), []byte("'DB_HOST', "+phpString(host)), 1)

	return insertDefines(out, defines(l, s.Domain))
}

func defines(l Layout, domain string) []string {
	d := []string{
		"define( 'FS_METHOD', 'direct' );",
	}
	if l != Custom {
		return d
	}

	site := "https://" + domain
	return append(d,
		"define( 'WP_HOME', "+phpString(site)+" );",
		"define( 'WP_SITEURL', "+phpString(site+"/"+CoreDir)+" );",
		"define( 'WP_CONTENT_DIR', dirname( __DIR__ ) . '/"+PublicDir+"' );",
		"define( 'WP_CONTENT_URL', "+phpString(site+"/"+PublicDir)+" );",
		"define( 'WP_PLUGIN_DIR', dirname( __DIR__ ) . '/"+PluginsDir+"' );",
		"define( 'WP_PLUGIN_URL', "+phpString(site+"/"+PluginsDir)+" );",
		"define( 'WP_LANG_DIR', dirname( __DIR__ ) . '/"+LanguagesDir+"' );",
		"define( 'UPLOADS', '../"+UploadsDir+"' );",
		"if ( ! defined( 'ABSPATH' ) ) {\n\tdefine( 'ABSPATH', dirname( __DIR__ ) . '/"+CoreDir+"/' );\n}",
	)
}

var insertMarkers = [][]byte{
	[]byte("/* That's all, stop editing!"),
	[]byte("require_once ABSPATH . 'wp-settings.php';"),
}

func insertDefines(src []byte, lines []string) ([]byte, error) {
	block := []byte(strings.Join(lines, "\n") + "\n\n")
	for _, marker := range insertMarkers {
		i := bytes.Index(src, marker)
		if i < 0 {
			continue
		}
		out := make([]byte, 0, len(src)+len(block))
		out = append(out, src[:i]...)
		out = append(out, block...)
		return append(out, src[i:]...), nil
	}
	return nil, errors.New("sample config has no stop-editing marker")
}

func escapePHP(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func phpString(s string) string {
	return "'" + escapePHP(s) + "'"
}

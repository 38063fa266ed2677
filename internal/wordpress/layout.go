package wordpress

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/termie/go-shutil"

	"github.com/ksyq12/wpvhost/internal/logger"
)

// Layout selects how the extracted release is arranged in the web root.
type Layout int

const (
	// Standard moves the release into the web root unchanged.
	Standard Layout = iota
	// Custom separates core, content, plugins, themes and configuration.
	Custom
)

// Directories of the custom layout, relative to the web root.
const (
	CoreDir      = "core"
	PublicDir    = "public"
	PluginsDir   = "plugins"
	TemplateDir  = "template"
	LanguagesDir = "languages"
	UploadsDir   = "uploads"
	ConfigDir    = "config"
)

// CustomDirs lists every directory the custom layout creates.
var CustomDirs = []string{ConfigDir, CoreDir, PluginsDir, PublicDir, TemplateDir, UploadsDir, LanguagesDir}

// ThemeDirPlugin is the must-use plugin registering template/ as a theme directory.
const ThemeDirPlugin = "wpvhost-theme-directory.php"

const themeDirPluginSource = `<?php
/*
 * Plugin Name: wpvhost theme directory
 * Description: Loads themes from the template directory next to core.
 */
register_theme_directory( dirname( ABSPATH ) . '/` + TemplateDir + `' );
`

// blogHeaderRequire matches the front controller's require of wp-blog-header.php
// in both the current and the pre-5.0 spelling.
var blogHeaderRequire = regexp.MustCompile(`((?:require|require_once)\s*\(?\s*(?:__DIR__|dirname\(\s*__FILE__\s*\))\s*\.\s*)(['"])/wp-blog-header\.php(['"])`)

// ParseLayout maps the s/c answer to a Layout.
func ParseLayout(answer string) (Layout, error) {
	switch answer {
	case "s", "S":
		return Standard, nil
	case "c", "C":
		return Custom, nil
	default:
		return Standard, errors.Errorf("unknown layout %q", answer)
	}
}

// String returns the layout name.
func (l Layout) String() string {
	if l == Custom {
		return "custom"
	}
	return "standard"
}

// MarshalText implements encoding.TextMarshaler.
func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ApplyLayout arranges webRoot/wordpress according to l and removes it.
func ApplyLayout(webRoot string, l Layout) error {
	src := filepath.Join(webRoot, ExtractedDir)
	if _, err := os.Stat(src); err != nil {
		return errors.Wrap(err, "extracted release not found")
	}

	if l == Custom {
		return applyCustom(webRoot, src)
	}
	return applyStandard(webRoot, src)
}

func applyStandard(webRoot, src string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "read %s", src)
	}
	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(webRoot, e.Name())
		if err := move(from, to); err != nil {
			return err
		}
	}
	return errors.Wrapf(os.Remove(src), "remove %s", src)
}

func applyCustom(webRoot, src string) error {
	content := filepath.Join(src, "wp-content")
	core := filepath.Join(webRoot, CoreDir)

	// CopyTree refuses an existing destination; core/ holds nothing but release files
	if err := os.RemoveAll(core); err != nil {
		return errors.Wrap(err, "remove previous core")
	}

	logger.Debug("Copying WordPress core into %s", core)
	err := shutil.CopyTree(src, core, &shutil.CopyTreeOptions{
		Symlinks:     true,
		CopyFunction: shutil.Copy,
		Ignore: func(dir string, _ []os.FileInfo) []string {
			if filepath.Clean(dir) == filepath.Clean(src) {
				return []string{"wp-content"}
			}
			return nil
		},
	})
	if err != nil {
		return errors.Wrap(err, "copy core")
	}

	moves := []struct{ from, to string }{
		{filepath.Join(content, "plugins"), filepath.Join(webRoot, PluginsDir)},
		{filepath.Join(content, "themes"), filepath.Join(webRoot, TemplateDir)},
		{filepath.Join(content, "languages"), filepath.Join(webRoot, LanguagesDir)},
	}
	for _, m := range moves {
		if _, err := os.Stat(m.from); os.IsNotExist(err) {
			continue
		}
		if err := move(m.from, m.to); err != nil {
			return err
		}
	}
	if err := move(content, filepath.Join(webRoot, PublicDir)); err != nil {
		return err
	}

	for _, dir := range CustomDirs {
		if err := os.MkdirAll(filepath.Join(webRoot, dir), 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}

	muPlugins := filepath.Join(webRoot, PublicDir, "mu-plugins")
	if err := os.MkdirAll(muPlugins, 0755); err != nil {
		return errors.Wrap(err, "create mu-plugins")
	}
	if err := os.WriteFile(filepath.Join(muPlugins, ThemeDirPlugin), []byte(themeDirPluginSource), 0644); err != nil {
		return errors.Wrap(err, "write theme directory plugin")
	}

	if err := writeFrontController(webRoot); err != nil {
		return err
	}

	return errors.Wrapf(os.RemoveAll(src), "remove %s", src)
}

// writeFrontController copies core/index.php to the web root and points its
// require at core/wp-blog-header.php.
func writeFrontController(webRoot string) error {
	coreIndex := filepath.Join(webRoot, CoreDir, "index.php")
	index := filepath.Join(webRoot, "index.php")

	if err := shutil.CopyFile(coreIndex, index, false); err != nil {
		return errors.Wrap(err, "copy index.php")
	}

	data, err := os.ReadFile(index)
	if err != nil {
		return errors.Wrap(err, "read index.php")
	}
	patched, err := PatchFrontController(data)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(index, patched, 0644), "write index.php")
}

// PatchFrontController rewrites the wp-blog-header.php require to load it from core/.
// It fails when index.php has no such require.
func PatchFrontController(src []byte) ([]byte, error) {
	if !blogHeaderRequire.Match(src) {
		return nil, errors.New("index.php does not require wp-blog-header.php")
	}
	return blogHeaderRequire.ReplaceAll(src, []byte("${1}${2}/"+CoreDir+"/wp-blog-header.php${3}")), nil
}

// move renames from to to, replacing an existing empty directory at to.
func move(from, to string) error {
	if info, err := os.Stat(to); err == nil && info.IsDir() {
		if err := os.Remove(to); err != nil {
			return errors.Wrapf(err, "%s already exists", to)
		}
	}
	return errors.Wrapf(os.Rename(from, to), "move %s", filepath.Base(from))
}

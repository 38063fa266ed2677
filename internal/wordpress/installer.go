// Package wordpress downloads WordPress into a site's web root, arranges it
// into the standard or custom layout and writes wp-config.php.
package wordpress

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ksyq12/wpvhost/internal/logger"
)

// ArchiveName is the file the release archive is saved as inside the web root.
const ArchiveName = "latest.zip"

// ExtractedDir is the top-level directory of the release archive.
const ExtractedDir = "wordpress"

const (
	maxExtractedBytes     int64 = 1 << 30
	maxExtractedFileBytes int64 = 256 << 20
)

// Installer fetches the release archive.
type Installer struct {
	url    string
	client *http.Client
}

// NewInstaller creates an Installer for url. A nil client gets a five minute timeout.
func NewInstaller(url string, client *http.Client) *Installer {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Installer{url: url, client: client}
}

// Download saves the release archive as dir/latest.zip and returns its path.
func (i *Installer) Download(ctx context.Context, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return "", errors.Wrap(err, "build download request")
	}
	req.Header.Set("User-Agent", "wpvhost")

	startedAt := time.Now()
	resp, err := i.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "download %s", i.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("download %s: unexpected status %s", i.url, resp.Status)
	}

	path := filepath.Join(dir, ArchiveName)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Wrap(err, "create archive file")
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = out.Close()
		return "", errors.Wrapf(err, "write %s", path)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", path)
	}

	logger.DebugFields("Downloaded archive", map[string]interface{}{
		"url":      i.url,
		"bytes":    n,
		"duration": time.Since(startedAt).Round(time.Millisecond),
	})
	return path, nil
}

// Extract unpacks archive into dir and removes the archive.
// Entries that would land outside dir are rejected.
func Extract(archive, dir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return errors.Wrapf(err, "open %s", archive)
	}
	defer r.Close()

	cleanDir := filepath.Clean(dir)
	var extracted int64
	for _, f := range r.File {
		target := filepath.Join(cleanDir, f.Name)
		if target != cleanDir && !strings.HasPrefix(target, cleanDir+string(os.PathSeparator)) {
			return errors.Errorf("archive path traversal detected: %s", f.Name)
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, "create %s", target)
			}
		case mode.IsRegular():
			size := int64(f.UncompressedSize64)
			if size > maxExtractedFileBytes {
				return errors.Errorf("archive entry too large: %s", f.Name)
			}
			if extracted+size > maxExtractedBytes {
				return errors.New("archive total extracted size exceeds limit")
			}
			if err := extractFile(f, target); err != nil {
				return err
			}
			extracted += size
		default:
			return errors.Errorf("unsupported archive entry %s (%s)", f.Name, mode.Type())
		}
	}

	if err := r.Close(); err != nil {
		return errors.Wrapf(err, "close %s", archive)
	}
	if err := os.Remove(archive); err != nil {
		return errors.Wrapf(err, "remove %s", archive)
	}
	logger.Debug("Extracted %d bytes from %s into %s", extracted, archive, dir)
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(target))
	}

	src, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "open entry %s", f.Name)
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "create %s", target)
	}
	if _, err := io.Copy(out, io.LimitReader(src, maxExtractedFileBytes+1)); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "extract %s", f.Name)
	}
	return errors.Wrapf(out.Close(), "close %s", target)
}

// Package hosts maintains the loopback entry for a provisioned site in the
// system hosts file.
package hosts

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ksyq12/wpvhost/internal/logger"
	"github.com/ksyq12/wpvhost/internal/site"
)

// Loopback is the address every provisioned site resolves to.
const Loopback = "127.0.0.1"

// File is a hosts(5) file.
type File struct {
	Path string
}

// New returns the hosts file at path.
func New(path string) *File {
	return &File{Path: path}
}

// Entry returns the line added for d.
func Entry(d site.Domain) string {
	return Loopback + " " + strings.Join(d.Hostnames(), " ")
}

// Contains reports whether a non-comment line already maps any of d's hostnames.
// Hostnames are compared field by field, so "myexample.com" does not match "example.com".
func (f *File) Contains(d site.Domain) (bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return contains(data, d), nil
}

func contains(data []byte, d site.Domain) bool {
	wanted := make(map[string]bool)
	for _, h := range d.Hostnames() {
		wanted[h] = true
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, name := range fields[1:] {
			if wanted[strings.ToLower(name)] {
				return true
			}
		}
	}
	return false
}

// EnsureEntry appends the loopback line for d unless one is already present.
// It reports whether the file was changed.
func (f *File) EnsureEntry(d site.Domain) (bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}

	if contains(data, d) {
		logger.Debug("%s already maps %s, leaving it unchanged", f.Path, d)
		return false, nil
	}

	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer file.Close()

	var line strings.Builder
	if len(data) > 0 && data[len(data)-1] != '\n' {
		line.WriteByte('\n')
	}
	line.WriteString(Entry(d))
	line.WriteByte('\n')

	if _, err := file.WriteString(line.String()); err != nil {
		return false, fmt.Errorf("failed to append to %s: %w", f.Path, err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", f.Path, err)
	}
	return true, nil
}

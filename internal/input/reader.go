// Package input reads answers to interactive prompts from stdin.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Reader is an interface for reading user input
type Reader interface {
	ReadString(delim byte) (string, error)
}

// PasswordReader reads a secret without echoing it
type PasswordReader interface {
	ReadPassword() (string, error)
}

// StdinReader wraps bufio.Reader for os.Stdin
type StdinReader struct {
	reader *bufio.Reader
}

// NewStdinReader creates a new StdinReader
func NewStdinReader() *StdinReader {
	return &StdinReader{
		reader: bufio.NewReader(os.Stdin),
	}
}

// ReadString reads until delimiter
func (r *StdinReader) ReadString(delim byte) (string, error) {
	return r.reader.ReadString(delim)
}

// TerminalPasswordReader disables echo when stdin is a terminal.
// Otherwise it reads one line from Fallback, which must share the
// buffer used for the other prompts.
type TerminalPasswordReader struct {
	Fd       int
	Fallback Reader
	Out      io.Writer
}

// NewTerminalPasswordReader reads passwords from os.Stdin
func NewTerminalPasswordReader(fallback Reader) *TerminalPasswordReader {
	return &TerminalPasswordReader{
		Fd:       int(os.Stdin.Fd()),
		Fallback: fallback,
		Out:      os.Stderr,
	}
}

// ReadPassword reads one secret line
func (r *TerminalPasswordReader) ReadPassword() (string, error) {
	if !term.IsTerminal(r.Fd) {
		return readLine(r.Fallback)
	}

	b, err := term.ReadPassword(r.Fd)
	// the newline typed by the user was not echoed
	_, _ = fmt.Fprintln(r.Out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StringReader is a simple reader for testing.
// Each input string should already include the delimiter that will be used
// in ReadString calls (e.g., "yes\n" for newline delimiter).
type StringReader struct {
	inputs []string
	index  int
}

// NewStringReader creates a reader from strings.
// Each input string should include the expected delimiter.
func NewStringReader(inputs ...string) *StringReader {
	return &StringReader{inputs: inputs}
}

// ReadString returns the next pre-configured string.
// Returns io.EOF when all inputs have been consumed.
// Note: The delim parameter is ignored; inputs should already include delimiters.
func (r *StringReader) ReadString(delim byte) (string, error) {
	if r.index >= len(r.inputs) {
		return "", io.EOF
	}
	result := r.inputs[r.index]
	r.index++
	return result, nil
}

// ReadPassword returns the next pre-configured string without its newline
func (r *StringReader) ReadPassword() (string, error) {
	return readLine(r)
}

// readLine reads one line and strips the line ending.
// A final line without newline is returned without error.
func readLine(r Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

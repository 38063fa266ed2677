package input

import (
	"strings"

	"github.com/ksyq12/wpvhost/internal/errors"
	"github.com/ksyq12/wpvhost/internal/output"
)

// Prompter asks questions on stdout and reads answers from a Reader.
// A closed input always ends with an INPUT error so that retry loops terminate.
type Prompter struct {
	in       Reader
	password PasswordReader
	prompt   func(format string, args ...interface{})
	warn     func(format string, args ...interface{})
}

// NewPrompter creates a Prompter printing through the output package
func NewPrompter(in Reader, password PasswordReader) *Prompter {
	return &Prompter{
		in:       in,
		password: password,
		prompt:   output.Prompt,
		warn:     output.Warn,
	}
}

// Ask prints question and returns the trimmed answer
func (p *Prompter) Ask(question string) (string, error) {
	p.prompt("%s", question)
	line, err := readLine(p.in)
	if err != nil {
		return "", errors.InputClosed(err)
	}
	return strings.TrimSpace(line), nil
}

// AskUntil repeats question until accept returns true, printing retry after each rejection
func (p *Prompter) AskUntil(question string, accept func(string) bool, retry string) (string, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if accept(answer) {
			return answer, nil
		}
		p.warn("%s", retry)
	}
}

// AskPassword prints question and reads an answer without echo.
// The answer is not trimmed.
func (p *Prompter) AskPassword(question string) (string, error) {
	p.prompt("%s", question)
	secret, err := p.password.ReadPassword()
	if err != nil {
		return "", errors.InputClosed(err)
	}
	return secret, nil
}

// Choose returns the answer if it is one of choices.
// Any other answer is an INPUT error; there is no second attempt.
func (p *Prompter) Choose(question string, choices ...string) (string, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if strings.EqualFold(answer, c) {
			return c, nil
		}
	}
	return "", errors.InvalidAnswer(question, answer)
}

// Confirm asks a y/n question
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Choose(question, "y", "n")
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

package ux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks line-based questions. It is the fallback when stdin is not
// a terminal and the interactive forms cannot run.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok {
		p.fd = int(f.Fd())
	}
	return p
}

// IsTerminal reports whether the prompter reads from an interactive terminal.
func (p *Prompter) IsTerminal() bool {
	return p.fd >= 0 && term.IsTerminal(p.fd)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm prompts the user for yes/no confirmation
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	prompt := message
	if defaultYes {
		prompt += " (Y/n): "
	} else {
		prompt += " (y/N): "
	}

	fmt.Fprint(p.out, prompt)
	response, err := p.readLine()
	if err != nil {
		return defaultYes
	}

	response = strings.ToLower(response)
	if response == "" {
		return defaultYes
	}

	return response == "y" || response == "yes"
}

// String prompts the user for a string value
func (p *Prompter) String(message string, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", message, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", message)
	}

	response, err := p.readLine()
	if err != nil || response == "" {
		return defaultValue
	}
	return response
}

// Password prompts for a secret. Input is not echoed on a terminal.
func (p *Prompter) Password(message string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", message)
	if p.IsTerminal() {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	response, err := p.readLine()
	if err != nil && err != io.EOF {
		return "", err
	}
	return response, nil
}

// Select prompts the user to select from a list of options
func (p *Prompter) Select(message string, options []string, defaultIdx int) (string, int) {
	fmt.Fprintln(p.out, message)
	for i, opt := range options {
		marker := " "
		if i == defaultIdx {
			marker = ">"
		}
		fmt.Fprintf(p.out, " %s %d. %s\n", marker, i+1, opt)
	}

	fmt.Fprintf(p.out, "Enter selection [%d]: ", defaultIdx+1)
	response, err := p.readLine()
	if err != nil || response == "" {
		return options[defaultIdx], defaultIdx
	}

	var selection int
	_, err = fmt.Sscanf(response, "%d", &selection)
	if err != nil || selection < 1 || selection > len(options) {
		return options[defaultIdx], defaultIdx
	}

	return options[selection-1], selection - 1
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/tui"
	"github.com/felixgeelhaar/markup/internal/ux"
)

// Input is gathered from flags first. Anything missing is asked for with
// the interactive forms on a terminal, or read line by line from stdin
// otherwise. Prompts go to stderr so stdout stays machine readable.

func (l *local) prompter() *ux.Prompter {
	if l.prompt == nil {
		l.prompt = ux.NewPrompter(l.stdin, l.stderr)
	}
	return l.prompt
}

func (l *local) askString(title, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	if tui.ShouldPrompt() {
		v, err := tui.PromptForString(tui.Prompt{Message: title, Required: true})
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(v), nil
	}
	v := strings.TrimSpace(l.prompter().String(title, ""))
	if v == "" {
		return "", missing(title)
	}
	return v, nil
}

func (l *local) askSecret(title, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if tui.ShouldPrompt() {
		return tui.PromptForString(tui.Prompt{Message: title, Required: true, Secret: true})
	}
	v, err := l.prompter().Password(title)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "could not read "+strings.ToLower(title), err)
	}
	if v == "" {
		return "", missing(title)
	}
	return v, nil
}

func (l *local) askSelect(title string, options []string, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if len(options) == 0 {
		return "", errors.New(errors.ErrCodeServerRejected,
			fmt.Sprintf("no %s options available", strings.ToLower(title)))
	}
	if tui.ShouldPrompt() {
		return tui.PromptForSelect(title, options)
	}
	v, _ := l.prompter().Select(title, options, 0)
	return v, nil
}

// askText reads a long text. Without a terminal the whole of stdin is used.
func (l *local) askText(title, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	if tui.ShouldPrompt() {
		return tui.PromptForText(title)
	}
	b, err := io.ReadAll(l.stdin)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "could not read stdin", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", missing(title)
	}
	return string(b), nil
}

func missing(title string) error {
	return errors.NewValidationError(strings.ToLower(title) + " is required").
		WithSuggestion("Pass it as a flag or run the command in a terminal to be prompted")
}

package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formStep drives an embedded huh form and reports completion once.
type formStep struct {
	form      *huh.Form
	submitted bool
}

func newFormStep(groups ...*huh.Group) *formStep {
	return &formStep{form: huh.NewForm(groups...).WithShowHelp(true)}
}

func (f *formStep) Init() tea.Cmd {
	return f.form.Init()
}

// update forwards msg to the form. completed is true exactly once, on the
// message that finished the form.
func (f *formStep) update(msg tea.Msg) (completed bool, cmd tea.Cmd) {
	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}
	if !f.submitted && f.form.State == huh.StateCompleted {
		f.submitted = true
		return true, cmd
	}
	return false, cmd
}

func (f *formStep) View() string {
	return f.form.View()
}

func stringOptions(values []string) []huh.Option[string] {
	return huh.NewOptions(values...)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// optionalRange accepts an empty value or an integer in [lo, hi].
func optionalRange(lo, hi int) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("enter a number from %d to %d", lo, hi)
		}
		return nil
	}
}

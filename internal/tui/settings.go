package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/education"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/guard"
)

// settingsField is the step the settings screen is on.
type settingsField int

const (
	fieldCountry settingsField = iota
	fieldLevel
	fieldBoard
	fieldLanguage
)

func (f settingsField) title() string {
	switch f {
	case fieldCountry:
		return "Country"
	case fieldLevel:
		return "Education level"
	case fieldBoard:
		return "Exam board"
	default:
		return "Language"
	}
}

type lookupMsg struct {
	field  settingsField
	values []string
	err    error
}

type settingsSavedMsg struct {
	profile *api.Profile
	err     error
}

// settingsScreen walks through country, level, board and language, loading
// each list from the backend once the previous choice is known.
type settingsScreen struct {
	env  *env
	form *education.Form

	field   settingsField
	choice  string
	step    *formStep
	loading bool
	saving  bool
	failed  error
}

func newSettings(e *env) *settingsScreen {
	return &settingsScreen{env: e, form: education.NewForm(e.profile())}
}

func (m *settingsScreen) Init() tea.Cmd {
	return m.load(fieldCountry)
}

func (m *settingsScreen) load(field settingsField) tea.Cmd {
	m.field = field
	m.loading = true
	m.failed = nil

	if field == fieldLanguage {
		return func() tea.Msg {
			return lookupMsg{field: fieldLanguage, values: education.LanguageCodes()}
		}
	}

	ctx, svc := m.env.ctx, m.env.deps.Education
	country, level := m.form.Country, m.form.EducationLevel
	return func() tea.Msg {
		var values []string
		var err error
		switch field {
		case fieldCountry:
			values, err = svc.Countries(ctx)
		case fieldLevel:
			values, err = svc.Levels(ctx, country)
		case fieldBoard:
			values, err = svc.Boards(ctx, country, level)
		}
		return lookupMsg{field: field, values: values, err: err}
	}
}

func (m *settingsScreen) current() string {
	switch m.field {
	case fieldCountry:
		return m.form.Country
	case fieldLevel:
		return m.form.EducationLevel
	case fieldBoard:
		return m.form.ExamBoard
	default:
		return m.form.Language
	}
}

func (m *settingsScreen) pick(values []string) tea.Cmd {
	m.loading = false
	m.choice = ""
	for _, v := range values {
		if v == m.current() {
			m.choice = v
		}
	}

	var options []huh.Option[string]
	if m.field == fieldLanguage {
		for _, code := range values {
			options = append(options, huh.NewOption(education.Languages[code], code))
		}
	} else {
		options = stringOptions(values)
	}

	m.step = newFormStep(huh.NewGroup(
		huh.NewSelect[string]().
			Title(m.field.title()).
			Options(options...).
			Value(&m.choice),
	))
	return m.step.Init()
}

func (m *settingsScreen) apply() tea.Cmd {
	switch m.field {
	case fieldCountry:
		m.form.SetCountry(m.choice)
		return m.load(fieldLevel)
	case fieldLevel:
		m.form.SetLevel(m.choice)
		return m.load(fieldBoard)
	case fieldBoard:
		m.form.SetBoard(m.choice)
		return m.load(fieldLanguage)
	default:
		m.form.SetLanguage(m.choice)
		return m.save()
	}
}

func (m *settingsScreen) save() tea.Cmd {
	m.saving = true
	ctx, svc, form := m.env.ctx, m.env.deps.Education, m.form
	return func() tea.Msg {
		p, err := svc.Save(ctx, form)
		return settingsSavedMsg{profile: p, err: err}
	}
}

func (m *settingsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupMsg:
		if msg.field != m.field {
			return m, nil
		}
		if msg.err != nil {
			m.loading = false
			m.failed = msg.err
			return m, notifyErr(msg.err)
		}
		if len(msg.values) == 0 {
			m.loading = false
			m.failed = errors.New(errors.ErrCodeServerRejected,
				fmt.Sprintf("no %s options available", strings.ToLower(m.field.title())))
			return m, notifyErr(m.failed)
		}
		return m, m.pick(msg.values)

	case settingsSavedMsg:
		m.saving = false
		if msg.err != nil {
			return m, tea.Batch(notifyErr(msg.err), m.load(fieldLanguage))
		}
		return m, tea.Batch(notify("Settings saved"), navigate(guard.ExamAnswer))

	case tea.KeyMsg:
		if m.failed != nil && key.Matches(msg, keys.Reset) {
			return m, m.load(m.field)
		}
	}

	if m.loading || m.saving || m.step == nil {
		return m, nil
	}
	done, cmd := m.step.update(msg)
	if done {
		return m, tea.Batch(cmd, m.apply())
	}
	return m, cmd
}

func (m *settingsScreen) View() string {
	s := m.env.styles
	var b strings.Builder

	b.WriteString(s.Subtitle.Render("Education settings"))
	b.WriteString("\n")
	rows := []struct {
		field settingsField
		value string
	}{
		{fieldCountry, m.form.Country},
		{fieldLevel, m.form.EducationLevel},
		{fieldBoard, m.form.ExamBoard},
		{fieldLanguage, m.form.LanguageName()},
	}
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = "-"
		}
		b.WriteString(s.Muted.Render(fmt.Sprintf("%-16s", r.field.title()+":")) + value + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(m.env.spinner() + " Saving...")
	case m.failed != nil:
		b.WriteString(s.Error.Render(errors.Message(m.failed)) + "\n")
		b.WriteString(s.Muted.Render("Press r to retry."))
	case m.loading:
		b.WriteString(m.env.spinner() + " Loading " + strings.ToLower(m.field.title()) + " options...")
	case m.step != nil:
		b.WriteString(m.step.View())
	}
	return b.String()
}

func (m *settingsScreen) Help() []key.Binding {
	if m.failed != nil {
		return []key.Binding{keys.Reset}
	}
	return nil
}

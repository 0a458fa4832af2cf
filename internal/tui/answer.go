package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/examanswer"
)

type answerMsg struct {
	answer *api.ExamAnswer
	err    error
}

// answerScreen collects an exam question and shows the model answer.
type answerScreen struct {
	env  *env
	step *formStep
	busy bool

	subject  string
	question string
	taskType string
	marks    string
	insight  bool

	result   *api.ExamAnswer
	viewport viewport.Model
}

func newAnswer(e *env) *answerScreen {
	m := &answerScreen{env: e, taskType: examanswer.DefaultTaskType}
	m.build()
	return m
}

func (m *answerScreen) build() {
	taskTypes := make([]huh.Option[string], len(examanswer.TaskTypes))
	for i, t := range examanswer.TaskTypes {
		taskTypes[i] = huh.NewOption(t.Label, t.Value)
	}

	insightTitle := "Include examiner insight?"
	if !access.CanUseInsightFeature(m.env.profile()) {
		insightTitle += " (Study+ and Pro only, ignored on your plan)"
	}

	m.step = newFormStep(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Subject").
				Options(stringOptions(examanswer.Subjects)...).
				Value(&m.subject),
			huh.NewText().
				Title("Question").
				Lines(5).
				Value(&m.question).
				Validate(required("question")),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Task type").
				Options(taskTypes...).
				Value(&m.taskType),
			huh.NewInput().
				Title("Marks").
				Description("Optional, 1 to 100").
				Value(&m.marks).
				Validate(optionalRange(1, 100)),
			huh.NewConfirm().
				Title(insightTitle).
				Value(&m.insight),
		),
	)
}

func (m *answerScreen) Init() tea.Cmd {
	if err := access.RequireEducationSetup(m.env.profile()); err != nil {
		return notifyErr(err)
	}
	return m.step.Init()
}

func (m *answerScreen) request() examanswer.Request {
	req := examanswer.Request{
		Subject:        m.subject,
		Question:       m.question,
		TaskType:       m.taskType,
		IncludeInsight: m.insight,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.marks)); err == nil {
		req.Marks = &n
	}
	return req
}

func (m *answerScreen) submit() tea.Cmd {
	m.busy = true
	ctx, svc, req := m.env.ctx, m.env.deps.Answers, m.request()
	return func() tea.Msg {
		answer, err := svc.Generate(ctx, req)
		return answerMsg{answer: answer, err: err}
	}
}

func (m *answerScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.build()
			return m, tea.Batch(notifyErr(msg.err), m.step.Init())
		}
		m.result = msg.answer
		m.viewport = viewport.New(m.width(), m.viewHeight())
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case tea.WindowSizeMsg:
		if m.result != nil {
			m.viewport.Width = m.width()
			m.viewport.Height = m.viewHeight()
		}

	case tea.KeyMsg:
		if m.result != nil && key.Matches(msg, keys.Reset) {
			m.result = nil
			m.question = ""
			m.build()
			return m, m.step.Init()
		}
	}

	if m.busy {
		return m, nil
	}
	if m.result != nil {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if !access.HasEducationSetup(m.env.profile()) {
		return m, nil
	}

	done, cmd := m.step.update(msg)
	if done {
		return m, tea.Batch(cmd, m.submit())
	}
	return m, cmd
}

func (m *answerScreen) width() int {
	if m.env.width > 0 {
		return m.env.width
	}
	return 80
}

func (m *answerScreen) viewHeight() int {
	if m.env.height > 10 {
		return m.env.height - 8
	}
	return 20
}

func (m *answerScreen) renderAnswer() string {
	s := m.env.styles
	a := m.result
	var b strings.Builder

	header := a.Subject + " • " + examanswer.TaskTypeLabel(a.TaskType)
	if a.Marks != nil {
		header += " • " + strconv.Itoa(*a.Marks) + " marks"
	}
	b.WriteString(s.Status.Render(header))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(a.Question))
	b.WriteString("\n\n")
	b.WriteString(a.Answer)
	if a.Insight != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Warning.Render("Examiner insight"))
		b.WriteString("\n")
		b.WriteString(a.Insight)
	}
	return b.String()
}

func (m *answerScreen) View() string {
	s := m.env.styles
	switch {
	case m.busy:
		return m.env.spinner() + " Writing your answer..."
	case m.result != nil:
		return m.viewport.View()
	case !access.HasEducationSetup(m.env.profile()):
		return s.Warning.Render("Complete your education setup first.") + "\n" +
			s.Muted.Render("Missing: "+strings.Join(access.MissingEducationFields(m.env.profile()), ", "))
	}
	return s.Subtitle.Render("Exam Answer") + "\n" + m.step.View()
}

func (m *answerScreen) Help() []key.Binding {
	if m.result != nil {
		return []key.Binding{keys.Up, keys.Down, keys.Reset}
	}
	return nil
}

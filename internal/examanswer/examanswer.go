// Package examanswer generates model exam answers.
package examanswer

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/validate"
)

// TaskType is the kind of answer requested.
type TaskType struct {
	Value string
	Label string
}

// TaskTypes lists the supported task types; the first is the default.
var TaskTypes = []TaskType{
	{Value: "essay", Label: "Essay"},
	{Value: "short_response", Label: "Short Response"},
	{Value: "evaluation", Label: "Evaluation"},
	{Value: "explanation", Label: "Explanation"},
	{Value: "custom", Label: "Custom"},
}

// DefaultTaskType is used when none is given.
const DefaultTaskType = "essay"

// Subjects lists the subjects offered in the picker.
var Subjects = []string{
	"English Literature", "English Language", "Mathematics", "Physics",
	"Chemistry", "Biology", "History", "Geography", "Psychology",
	"Economics", "Business Studies", "Computer Science", "Art & Design",
	"Music", "Religious Studies", "Philosophy", "Politics", "Sociology",
	"Languages", "Physical Education", "Other",
}

// TaskTypeLabel returns the display label for value, or value itself.
func TaskTypeLabel(value string) string {
	for _, t := range TaskTypes {
		if t.Value == value {
			return t.Label
		}
	}
	return value
}

// Request is what the user asks for.
type Request struct {
	Subject  string
	Question string
	TaskType string
	// Marks is optional; nil means unspecified.
	Marks *int
	// IncludeInsight asks for examiner insight. It is dropped silently when
	// the user's tier does not include it.
	IncludeInsight bool
}

// Client is the subset of the backend API used here.
type Client interface {
	GenerateExamAnswer(ctx context.Context, token string, req api.ExamAnswerRequest) (*api.ExamAnswer, error)
}

// Sessions is the subset of the session store used here.
type Sessions interface {
	Snapshot() session.Session
}

// Service generates answers.
type Service struct {
	client   Client
	sessions Sessions
}

// NewService creates a Service.
func NewService(client Client, sessions Sessions) *Service {
	return &Service{client: client, sessions: sessions}
}

// Generate validates req, checks access and requests a model answer.
func (s *Service) Generate(ctx context.Context, req Request) (*api.ExamAnswer, error) {
	snap := s.sessions.Snapshot()
	if err := access.Require(snap.User, access.ExamAnswer); err != nil {
		return nil, err
	}
	if err := access.RequireEducationSetup(snap.User); err != nil {
		return nil, err
	}

	payload := BuildPayload(req, snap.User)
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}

	answer, err := s.client.GenerateExamAnswer(ctx, snap.Token, payload)
	if err != nil {
		return nil, err
	}
	if answer.Subject == "" {
		answer.Subject = payload.Subject
	}
	if answer.TaskType == "" {
		answer.TaskType = payload.TaskType
	}
	if answer.Marks == nil {
		answer.Marks = payload.Marks
	}
	return answer, nil
}

// BuildPayload converts req into the wire payload for profile p.
func BuildPayload(req Request, p *api.Profile) api.ExamAnswerRequest {
	taskType := strings.TrimSpace(req.TaskType)
	if taskType == "" {
		taskType = DefaultTaskType
	}
	return api.ExamAnswerRequest{
		Subject:        strings.TrimSpace(req.Subject),
		Question:       req.Question,
		TaskType:       taskType,
		Marks:          req.Marks,
		IncludeInsight: req.IncludeInsight && access.CanUseInsightFeature(p),
	}
}

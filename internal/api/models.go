package api

import (
	"github.com/felixgeelhaar/markup/internal/tier"
)

// Profile is the authenticated user's record as returned by the backend.
type Profile struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Email          string    `json:"email" yaml:"email"`
	Tier           tier.Tier `json:"tier" yaml:"tier"`
	Country        string    `json:"country,omitempty" yaml:"country,omitempty"`
	EducationLevel string    `json:"education_level,omitempty" yaml:"education_level,omitempty"`
	ExamBoard      string    `json:"exam_board,omitempty" yaml:"exam_board,omitempty"`
	Language       string    `json:"language,omitempty" yaml:"language,omitempty"`
	CreatedAt      string    `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Clone returns a copy of p, or nil when p is nil.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"notblank"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// UpgradeRequest asks the backend to move the account to a tier.
type UpgradeRequest struct {
	Tier tier.Tier `json:"tier" validate:"required,tier"`
}

// UpgradeResponse carries the tier the backend applied.
type UpgradeResponse struct {
	Tier    tier.Tier `json:"tier"`
	Message string    `json:"message,omitempty"`
}

// EducationSetup is the payload of POST /education/setup.
type EducationSetup struct {
	Country        string `json:"country" validate:"notblank"`
	EducationLevel string `json:"education_level" validate:"notblank"`
	ExamBoard      string `json:"exam_board" validate:"notblank"`
	Language       string `json:"language,omitempty" validate:"omitempty,language"`
}

// ExamAnswerRequest is the payload of POST /exam-answer.
type ExamAnswerRequest struct {
	Subject        string `json:"subject" validate:"notblank"`
	Question       string `json:"question" validate:"notblank"`
	TaskType       string `json:"task_type" validate:"required,oneof=essay short_response evaluation explanation custom"`
	Marks          *int   `json:"marks" validate:"omitempty,min=1,max=100"`
	IncludeInsight bool   `json:"include_insight"`
}

// ExamAnswer is a generated model answer.
type ExamAnswer struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Subject  string `json:"subject" yaml:"subject"`
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	TaskType string `json:"task_type" yaml:"task_type"`
	Marks    *int   `json:"marks,omitempty" yaml:"marks,omitempty"`
	Answer   string `json:"answer" yaml:"answer"`
	Insight  string `json:"insight,omitempty" yaml:"insight,omitempty"`
}

// FlashcardsRequest is the payload of POST /study-tools/flashcards.
type FlashcardsRequest struct {
	Topic   string `json:"topic" validate:"notblank"`
	Subject string `json:"subject" validate:"notblank"`
	Count   int    `json:"count" validate:"min=1,max=100"`
}

// Flashcard is one question/answer pair.
type Flashcard struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// FlashcardsResponse wraps the generated cards.
type FlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// NotesRequest is the payload of POST /study-tools/youtube-notes.
type NotesRequest struct {
	Transcript string `json:"transcript" validate:"notblank"`
}

// NotesResponse carries the generated notes.
type NotesResponse struct {
	Notes string `json:"notes"`
}

// MarkerRequest is the payload of POST /the-marker.
type MarkerRequest struct {
	Question string `json:"question" validate:"notblank"`
}

// MarkerResponse carries the tutor's reply.
type MarkerResponse struct {
	Response string `json:"response"`
}

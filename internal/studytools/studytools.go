// Package studytools generates flashcards and transcript notes.
package studytools

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tier"
	"github.com/felixgeelhaar/markup/internal/validate"
)

// DefaultFlashcardCount is used when no count is given.
const DefaultFlashcardCount = 5

// Tool is one entry in the study tools catalog.
type Tool struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Feature     access.Feature `json:"feature" yaml:"feature"`
	Tier        tier.Tier      `json:"tier" yaml:"tier"`
	Price       string         `json:"price" yaml:"price"`
	Locked      bool           `json:"locked" yaml:"locked"`
}

var catalog = []Tool{
	{
		ID:          "transcript",
		Title:       "YouTube Transcript → Notes",
		Description: "Convert video transcripts into structured study notes",
		Feature:     access.TranscriptNotes,
	},
	{
		ID:          "flashcards",
		Title:       "Flashcard Generator",
		Description: "Generate question and answer cards for any topic",
		Feature:     access.Flashcards,
	},
	{
		ID:          "marker",
		Title:       "The Marker",
		Description: "AI tutor that explains what examiners reward",
		Feature:     access.TheMarker,
	},
}

// Tools returns the catalog with the lock state for p.
func Tools(p *api.Profile) []Tool {
	out := make([]Tool, len(catalog))
	for i, t := range catalog {
		t.Tier = t.Feature.RequiredTier()
		if plan, ok := tier.PlanFor(t.Tier); ok {
			t.Price = plan.Price
		}
		t.Locked = !access.CanUse(p, t.Feature)
		out[i] = t
	}
	return out
}

// Client is the subset of the backend API used here.
type Client interface {
	GenerateFlashcards(ctx context.Context, token string, req api.FlashcardsRequest) ([]api.Flashcard, error)
	GenerateNotes(ctx context.Context, token, transcript string) (string, error)
}

// Sessions is the subset of the session store used here.
type Sessions interface {
	Snapshot() session.Session
}

// Service runs study tools for the signed-in user.
type Service struct {
	client   Client
	sessions Sessions
}

// NewService creates a Service.
func NewService(client Client, sessions Sessions) *Service {
	return &Service{client: client, sessions: sessions}
}

// Flashcards generates count cards for a topic. A zero count means the default.
func (s *Service) Flashcards(ctx context.Context, topic, subject string, count int) ([]api.Flashcard, error) {
	snap := s.sessions.Snapshot()
	if err := access.Require(snap.User, access.Flashcards); err != nil {
		return nil, err
	}

	if count == 0 {
		count = DefaultFlashcardCount
	}
	req := api.FlashcardsRequest{
		Topic:   strings.TrimSpace(topic),
		Subject: strings.TrimSpace(subject),
		Count:   count,
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	return s.client.GenerateFlashcards(ctx, snap.Token, req)
}

// Notes turns a transcript into study notes.
func (s *Service) Notes(ctx context.Context, transcript string) (string, error) {
	snap := s.sessions.Snapshot()
	if err := access.Require(snap.User, access.TranscriptNotes); err != nil {
		return "", err
	}
	if err := validate.Struct(api.NotesRequest{Transcript: transcript}); err != nil {
		return "", err
	}

	return s.client.GenerateNotes(ctx, snap.Token, transcript)
}

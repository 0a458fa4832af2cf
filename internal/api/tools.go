package api

import (
	"context"
	"net/http"
)

// GenerateExamAnswer requests a model answer.
func (c *Client) GenerateExamAnswer(ctx context.Context, token string, req ExamAnswerRequest) (*ExamAnswer, error) {
	var out ExamAnswer
	if err := c.call(ctx, http.MethodPost, "/exam-answer", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateFlashcards requests a deck of flashcards for a topic.
func (c *Client) GenerateFlashcards(ctx context.Context, token string, req FlashcardsRequest) ([]Flashcard, error) {
	var out FlashcardsResponse
	if err := c.call(ctx, http.MethodPost, "/study-tools/flashcards", token, req, &out); err != nil {
		return nil, err
	}
	return out.Flashcards, nil
}

// GenerateNotes converts a video transcript into study notes.
func (c *Client) GenerateNotes(ctx context.Context, token, transcript string) (string, error) {
	var out NotesResponse
	if err := c.call(ctx, http.MethodPost, "/study-tools/youtube-notes", token, NotesRequest{Transcript: transcript}, &out); err != nil {
		return "", err
	}
	return out.Notes, nil
}

// AskMarker sends a question to The Marker and returns its reply.
func (c *Client) AskMarker(ctx context.Context, token, question string) (string, error) {
	var out MarkerResponse
	if err := c.call(ctx, http.MethodPost, "/the-marker", token, MarkerRequest{Question: question}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

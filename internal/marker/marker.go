// Package marker runs conversations with The Marker, the AI tutor.
package marker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/markup/internal/access"
	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/validate"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	ID      string    `json:"id" yaml:"id"`
	Role    Role      `json:"role" yaml:"role"`
	Content string    `json:"content" yaml:"content"`
	SentAt  time.Time `json:"sent_at" yaml:"sent_at"`
}

// Client is the subset of the backend API used here.
type Client interface {
	AskMarker(ctx context.Context, token, question string) (string, error)
}

// Sessions is the subset of the session store used here.
type Sessions interface {
	Snapshot() session.Session
}

// Conversation is an in-memory chat with The Marker. It is not persisted.
type Conversation struct {
	client   Client
	sessions Sessions
	now      func() time.Time

	mu       sync.Mutex
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation(client Client, sessions Sessions) *Conversation {
	return &Conversation{client: client, sessions: sessions, now: time.Now}
}

// CheckAccess reports why the current user cannot chat, if they cannot.
func (c *Conversation) CheckAccess() error {
	p := c.sessions.Snapshot().User
	if err := access.Require(p, access.TheMarker); err != nil {
		return err
	}
	return access.RequireEducationSetup(p)
}

// Ask appends the question, asks The Marker and appends its reply.
// On failure the question is removed again and the error returned.
func (c *Conversation) Ask(ctx context.Context, question string) (Message, error) {
	if err := c.CheckAccess(); err != nil {
		return Message{}, err
	}
	if err := validate.Struct(api.MarkerRequest{Question: question}); err != nil {
		return Message{}, err
	}

	sent := c.append(RoleUser, question)

	reply, err := c.client.AskMarker(ctx, c.sessions.Snapshot().Token, question)
	if err != nil {
		c.remove(sent.ID)
		return Message{}, err
	}
	if strings.TrimSpace(reply) == "" {
		c.remove(sent.ID)
		return Message{}, errors.New(errors.ErrCodeServerDecode, "The Marker returned an empty response")
	}

	return c.append(RoleAssistant, reply), nil
}

// Messages returns a copy of the transcript, oldest first.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Reset clears the transcript.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

func (c *Conversation) append(role Role, content string) Message {
	m := Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		SentAt:  c.now(),
	}
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
	return m
}

// remove drops the message with id, leaving any later messages in place.
func (c *Conversation) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, m := range c.messages {
		if m.ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return
		}
	}
}

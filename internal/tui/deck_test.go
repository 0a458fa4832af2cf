package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/markup/internal/api"
)

func TestDeckModel(t *testing.T) {
	m := newDeckModel([]api.Flashcard{
		{Question: "What is osmosis?", Answer: "Diffusion of water"},
		{Question: "What is a cell?", Answer: "Unit of life"},
	}, true)

	if !strings.Contains(m.View(), "What is osmosis?") || !strings.Contains(m.View(), "Card 1 of 2") {
		t.Fatalf("unexpected first view:\n%s", m.View())
	}

	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"flip", keyPress("f"), "Diffusion of water"},
		{"next", keyPress("right"), "What is a cell?"},
		{"previous card stays flipped", keyPress("h"), "Diffusion of water"},
	}
	for _, tt := range tests {
		m.Update(tt.key)
		if !strings.Contains(m.View(), tt.want) {
			t.Errorf("%s: view missing %q:\n%s", tt.name, tt.want, m.View())
		}
	}

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestDeckModelEmpty(t *testing.T) {
	m := newDeckModel(nil, true)
	m.Update(keyPress("space"))
	if !strings.Contains(m.View(), "No flashcards were generated.") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

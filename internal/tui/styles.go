package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/markup/internal/tier"
)

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Border      lipgloss.Style
	Highlighted lipgloss.Style
	Selected    lipgloss.Style
	Item        lipgloss.Style
	Help        lipgloss.Style
	Badge       lipgloss.Style
	Card        lipgloss.Style
	ActiveCard  lipgloss.Style
	UserBubble  lipgloss.Style
	ReplyBubble lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginBottom(1),
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(1, 2),
		Highlighted: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).  // Purple
			Foreground(lipgloss.Color("230")). // Light yellow
			Bold(true).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2),
		Item: lipgloss.NewStyle().
			PaddingLeft(4),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginTop(1),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("205")).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			Width(30),
		ActiveCard: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(30),
		UserBubble: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			PaddingLeft(2),
		ReplyBubble: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2),
	}
}

// PlainStyles returns styles without colors, for --no-color.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	bordered := plain.Border(lipgloss.NormalBorder()).Padding(0, 1)
	return Styles{
		Title:       plain.Bold(true).MarginBottom(1),
		Subtitle:    plain.MarginBottom(1),
		Status:      plain,
		Error:       plain,
		Success:     plain,
		Warning:     plain,
		Muted:       plain,
		Border:      bordered,
		Highlighted: plain.Reverse(true),
		Selected:    plain.PaddingLeft(2),
		Item:        plain.PaddingLeft(4),
		Help:        plain.MarginTop(1),
		Badge:       plain,
		Card:        bordered.Width(30),
		ActiveCard:  plain.Border(lipgloss.DoubleBorder()).Padding(0, 1).Width(30),
		UserBubble:  plain.PaddingLeft(2),
		ReplyBubble: plain.PaddingLeft(2),
	}
}

// tierBadge renders a short tier label.
func (s Styles) tierBadge(t tier.Tier) string {
	return s.Badge.Render(strings.ToUpper(t.OrFree().DisplayName()))
}

package studytools

import (
	"github.com/felixgeelhaar/markup/internal/api"
)

// Deck is the study mode over a set of flashcards. Each card remembers
// whether it was flipped.
type Deck struct {
	cards   []api.Flashcard
	index   int
	flipped map[int]bool
}

// NewDeck creates a deck positioned at the first card.
func NewDeck(cards []api.Flashcard) *Deck {
	return &Deck{cards: cards, flipped: map[int]bool{}}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Index returns the zero-based position.
func (d *Deck) Index() int { return d.index }

// Current returns the card at the current position.
func (d *Deck) Current() (api.Flashcard, bool) {
	if len(d.cards) == 0 {
		return api.Flashcard{}, false
	}
	return d.cards[d.index], true
}

// Flipped reports whether the current card shows its answer.
func (d *Deck) Flipped() bool {
	return d.flipped[d.index]
}

// Flip toggles the current card.
func (d *Deck) Flip() {
	if len(d.cards) == 0 {
		return
	}
	d.flipped[d.index] = !d.flipped[d.index]
}

// Next moves forward; it stops at the last card.
func (d *Deck) Next() bool {
	if d.index >= len(d.cards)-1 {
		return false
	}
	d.index++
	return true
}

// Prev moves back; it stops at the first card.
func (d *Deck) Prev() bool {
	if d.index == 0 {
		return false
	}
	d.index--
	return true
}

// Reset unflips every card and returns to the first.
func (d *Deck) Reset() {
	d.index = 0
	d.flipped = map[int]bool{}
}

// Progress returns how far through the deck the user is, in (0, 1].
func (d *Deck) Progress() float64 {
	if len(d.cards) == 0 {
		return 0
	}
	return float64(d.index+1) / float64(len(d.cards))
}

package entities

import (
	"math/rand"

	"github.com/fadedpez/carddeck/internal/types"
)

// Deck is an ordered stack of cards that can be drawn from and reset back
// to the composition it was built with. A Deck is not safe for concurrent use.
type Deck struct {
	initial []*Card
	cards   []*Card
}

// PickOptions control a single pick from the deck
type PickOptions struct {
	// Position is the ordinal of the card to take; 0 is the top of the deck
	Position int
	// ResetIfEmpty refills an exhausted deck before picking
	ResetIfEmpty bool
}

// DefaultPickOptions takes the top card, resetting an exhausted deck
func DefaultPickOptions() PickOptions {
	return PickOptions{Position: 0, ResetIfEmpty: true}
}

// NewDeck creates a deck from the given cards. The slice is copied; nil
// entries are dropped.
func NewDeck(cards []*Card) *Deck {
	initial := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if c != nil {
			initial = append(initial, c)
		}
	}

	d := &Deck{initial: initial}
	d.Reset()
	return d
}

// Reset puts every card of the initial composition back, in original order
func (d *Deck) Reset() {
	d.cards = make([]*Card, len(d.initial))
	copy(d.cards, d.initial)
}

// Size returns the number of cards left to draw
func (d *Deck) Size() int {
	return len(d.cards)
}

// IsEmpty reports whether every card has been drawn
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the cards left to draw, top first
func (d *Deck) Cards() []*Card {
	out := make([]*Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Initial returns a copy of the composition the deck was built with
func (d *Deck) Initial() []*Card {
	out := make([]*Card, len(d.initial))
	copy(out, d.initial)
	return out
}

// Pick draws the top card, resetting the deck first if it is exhausted
func (d *Deck) Pick() (*Card, error) {
	return d.PickWith(DefaultPickOptions())
}

// PickWith removes and returns the card at opts.Position. On error the deck
// is left unchanged.
func (d *Deck) PickWith(opts PickOptions) (*Card, error) {
	cards := d.cards
	if len(cards) == 0 {
		if !opts.ResetIfEmpty {
			return nil, types.NewCardError(types.ErrDeckEmpty, "no cards in deck")
		}
		if len(d.initial) == 0 {
			return nil, types.NewCardError(types.ErrDeckEmpty, "deck was built without cards")
		}
		cards = d.Initial()
	}

	if opts.Position < 0 || opts.Position >= len(cards) {
		return nil, types.Errorf(types.ErrIndexOutOfRange, "position %d out of range for %d cards", opts.Position, len(cards))
	}

	card := cards[opts.Position]
	d.cards = append(cards[:opts.Position:opts.Position], cards[opts.Position+1:]...)
	return card, nil
}

// At returns the card at position without removing it
func (d *Deck) At(position int) (*Card, error) {
	if err := d.checkPosition(position); err != nil {
		return nil, err
	}
	return d.cards[position], nil
}

// Set replaces the card at position
func (d *Deck) Set(position int, card *Card) error {
	if card == nil {
		return types.NewCardError(types.ErrInvalidArgument, "card is nil")
	}
	if err := d.checkPosition(position); err != nil {
		return err
	}
	d.cards[position] = card
	return nil
}

// Contains reports whether a card equal to card is still in the deck
func (d *Deck) Contains(card *Card) bool {
	return d.IndexOf(card) >= 0
}

// IndexOf returns the position of the first card equal to card, or -1
func (d *Deck) IndexOf(card *Card) int {
	for i, c := range d.cards {
		if c.Equal(card) {
			return i
		}
	}
	return -1
}

// Shuffle reorders the cards left to draw. The initial composition is not
// touched, so a later reset restores the original order.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) checkPosition(position int) error {
	if position < 0 || position >= len(d.cards) {
		return types.Errorf(types.ErrIndexOutOfRange, "position %d out of range for %d cards", position, len(d.cards))
	}
	return nil
}

// StandardDeckOptions control which extra cards a standard deck carries
type StandardDeckOptions struct {
	IncludeBlank bool
	IncludeJoker bool
	// Ordering overrides the rank and suit orders for house rules
	Ordering *OrderingConfig
}

// DefaultStandardDeckOptions includes both the blank and the joker
func DefaultStandardDeckOptions() StandardDeckOptions {
	return StandardDeckOptions{IncludeBlank: true, IncludeJoker: true}
}

// StandardDeck returns a 54 card deck: 52 suited cards, a blank and a joker
func StandardDeck() *Deck {
	deck, _ := NewStandardDeck(DefaultStandardDeckOptions())
	return deck
}

// NewStandardDeck builds every rank/suit combination, suit-major, then
// appends the blank and the joker if asked for.
func NewStandardDeck(opts StandardDeckOptions) (*Deck, error) {
	ordering := opts.Ordering
	if ordering == nil {
		ordering = DefaultOrdering()
	}
	cardOpts := &CardOptions{Ordering: ordering}

	// A throwaway card resolves the defaults and normalization for us
	probe, err := NewBlankCard(cardOpts)
	if err != nil {
		return nil, err
	}

	var cards []*Card
	for _, suit := range probe.suitOrder {
		if suit == Wildcard {
			continue
		}
		for _, rank := range probe.rankOrder {
			if rank == Wildcard {
				continue
			}
			c, err := NewCard(rank, suit, cardOpts)
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}

	if opts.IncludeBlank {
		cards = append(cards, probe)
	}
	if opts.IncludeJoker {
		joker, err := NewCard(Wildcard, Wildcard, cardOpts)
		if err != nil {
			return nil, err
		}
		cards = append(cards, joker)
	}

	return NewDeck(cards), nil
}

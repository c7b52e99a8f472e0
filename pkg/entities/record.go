package entities

import (
	"time"

	"github.com/fadedpez/carddeck/internal/types"
)

// CardRecord is the storable form of a Card
type CardRecord struct {
	Kind      string     `json:"kind"`
	Rank      string     `json:"rank,omitempty"`
	Suit      string     `json:"suit,omitempty"`
	RankOrder []string   `json:"rank_order,omitempty"`
	SuitOrder []string   `json:"suit_order,omitempty"`
	Rotation  int        `json:"rotation"`
	FaceDown  bool       `json:"face_down,omitempty"`
	Signature *Signature `json:"signature,omitempty"`
}

// Record captures everything needed to rebuild the card
func (c *Card) Record() CardRecord {
	rec := CardRecord{
		Kind:     c.kind.String(),
		Rank:     c.rank,
		Suit:     c.suit,
		Rotation: c.rotation,
		FaceDown: c.orientation == FaceDown,
	}
	if !sameOrder(c.rankOrder, DefaultRankOrder) {
		rec.RankOrder = c.RankOrder()
	}
	if !sameOrder(c.suitOrder, DefaultSuitOrder) {
		rec.SuitOrder = c.SuitOrder()
	}
	if c.signature != nil {
		sig := *c.signature
		rec.Signature = &sig
	}
	return rec
}

// CardFromRecord rebuilds a card, validating it the same way NewCard does
func CardFromRecord(rec CardRecord) (*Card, error) {
	kind, ok := ParseKind(rec.Kind)
	if !ok {
		return nil, types.Errorf(types.ErrInvalidArgument, "unknown card kind %q", rec.Kind)
	}

	opts := &CardOptions{
		Ordering: &OrderingConfig{RankOrder: rec.RankOrder, SuitOrder: rec.SuitOrder},
		IsJoker:  kind == KindWildcard,
		Rotation: rec.Rotation,
	}
	if rec.FaceDown {
		opts.Orientation = FaceDown
	}

	var (
		card *Card
		err  error
	)
	if kind == KindBlank {
		card, err = NewBlankCard(opts)
	} else {
		card, err = NewCard(rec.Rank, rec.Suit, opts)
	}
	if err != nil {
		return nil, err
	}

	if rec.Signature != nil {
		sig := *rec.Signature
		card.signature = &sig
	}
	return card, nil
}

// DeckRecord is the storable form of a Deck bound to a table
type DeckRecord struct {
	ID        string       `json:"id"`
	TableID   string       `json:"table_id"`
	Initial   []CardRecord `json:"initial"`
	Current   []CardRecord `json:"current"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Record snapshots the deck's initial composition and remaining cards
func (d *Deck) Record() (initial, current []CardRecord) {
	initial = make([]CardRecord, len(d.initial))
	for i, c := range d.initial {
		initial[i] = c.Record()
	}
	current = make([]CardRecord, len(d.cards))
	for i, c := range d.cards {
		current[i] = c.Record()
	}
	return initial, current
}

// DeckFromRecord rebuilds a deck. Remaining cards that match a card of the
// initial composition reuse that card, so signatures made on drawn cards
// survive a reset.
func DeckFromRecord(rec *DeckRecord) (*Deck, error) {
	initial := make([]*Card, 0, len(rec.Initial))
	for _, r := range rec.Initial {
		c, err := CardFromRecord(r)
		if err != nil {
			return nil, err
		}
		initial = append(initial, c)
	}

	used := make([]bool, len(initial))
	current := make([]*Card, 0, len(rec.Current))
	for _, r := range rec.Current {
		c, err := CardFromRecord(r)
		if err != nil {
			return nil, err
		}
		for i, orig := range initial {
			if !used[i] && orig.Equal(c) {
				used[i] = true
				c = orig
				break
			}
		}
		current = append(current, c)
	}

	return &Deck{initial: initial, cards: current}, nil
}

// DrawRecord is one card drawn from a table's deck
type DrawRecord struct {
	ID         string    `json:"id"`
	DeckID     string    `json:"deck_id"`
	TableID    string    `json:"table_id"`
	Card       string    `json:"card"`
	CardKind   string    `json:"card_kind"`
	CardValue  int       `json:"card_value"`
	Position   int       `json:"position"`
	Reshuffled bool      `json:"reshuffled"`
	Remaining  int       `json:"remaining"`
	DrawnAt    time.Time `json:"drawn_at"`
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package deck

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
	deckRepo "github.com/fadedpez/carddeck/pkg/repositories/deck"
	historyRepo "github.com/fadedpez/carddeck/pkg/repositories/history"
	"github.com/google/uuid"
)

// Publisher receives every successful draw
type Publisher interface {
	Publish(draw *entities.DrawRecord)
}

// Options configures the optional collaborators of a Service
type Options struct {
	History   historyRepo.Repository
	Publisher Publisher
	Logger    *logging.Logger
	Rand      *rand.Rand
	Now       func() time.Time
}

// DrawOptions control a single draw
type DrawOptions struct {
	// Position is the ordinal of the card to take; 0 is the top
	Position int
	// NoReset fails on an exhausted deck instead of refilling it
	NoReset bool
}

// DrawResult is the card drawn and the record logged for it
type DrawResult struct {
	Card *entities.Card
	Draw *entities.DrawRecord
}

// Service manages the deck in play at each table
type Service struct {
	repo      deckRepo.Repository
	history   historyRepo.Repository
	publisher Publisher
	logger    *logging.Logger
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new deck service
func NewService(repo deckRepo.Repository, opts *Options) *Service {
	if opts == nil {
		opts = &Options{}
	}

	s := &Service{
		repo:      repo,
		history:   opts.History,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		rng:       opts.Rand,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = logging.Default
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create deals a fresh standard deck to a table, replacing any deck already there
func (s *Service) Create(ctx context.Context, tableID string, opts entities.StandardDeckOptions) (*entities.DeckRecord, error) {
	if tableID == "" {
		return nil, types.NewCardError(types.ErrInvalidArgument, "table ID is required")
	}

	deck, err := entities.NewStandardDeck(opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	initial, current := deck.Record()
	rec := &entities.DeckRecord{
		ID:      uuid.NewString(),
		TableID: tableID,
		Initial: initial,
		Current: current,
	}
	if err := s.repo.SaveDeck(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Created deck %s for table %s with %d cards", rec.ID, tableID, len(rec.Initial))
	return rec, nil
}

// Draw takes a card from the table's deck and logs it
func (s *Service) Draw(ctx context.Context, tableID string, opts DrawOptions) (*DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, deck, err := s.load(ctx, tableID)
	if err != nil {
		return nil, err
	}

	reshuffled := deck.IsEmpty() && !opts.NoReset
	card, err := deck.PickWith(entities.PickOptions{Position: opts.Position, ResetIfEmpty: !opts.NoReset})
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, rec, deck); err != nil {
		return nil, err
	}

	value, err := card.Value()
	if err != nil {
		value = -1
	}
	draw := &entities.DrawRecord{
		ID:         uuid.NewString(),
		DeckID:     rec.ID,
		TableID:    tableID,
		Card:       card.String(),
		CardKind:   card.Kind().String(),
		CardValue:  value,
		Position:   opts.Position,
		Reshuffled: reshuffled,
		Remaining:  deck.Size(),
		DrawnAt:    s.now(),
	}

	if s.history != nil {
		if err := s.history.RecordDraw(ctx, draw); err != nil {
			// Log the error but keep the draw
			s.logger.Warn("Failed to record draw %s for table %s: %v", draw.ID, tableID, err)
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(draw)
	}

	s.logger.Debug("Table %s drew %q at %d, %d left", tableID, draw.Card, opts.Position, draw.Remaining)
	return &DrawResult{Card: card, Draw: draw}, nil
}

// Reset puts every card back into the table's deck and returns its size
func (s *Service) Reset(ctx context.Context, tableID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, deck, err := s.load(ctx, tableID)
	if err != nil {
		return 0, err
	}
	deck.Reset()
	if err := s.save(ctx, rec, deck); err != nil {
		return 0, err
	}
	return deck.Size(), nil
}

// Shuffle reorders the cards left in the table's deck
func (s *Service) Shuffle(ctx context.Context, tableID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, deck, err := s.load(ctx, tableID)
	if err != nil {
		return 0, err
	}
	deck.Shuffle(s.rng)
	if err := s.save(ctx, rec, deck); err != nil {
		return 0, err
	}
	return deck.Size(), nil
}

// Remaining returns how many cards are left to draw
func (s *Service) Remaining(ctx context.Context, tableID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, deck, err := s.load(ctx, tableID)
	if err != nil {
		return 0, err
	}
	return deck.Size(), nil
}

// Peek returns up to n cards from the top without drawing them
func (s *Service) Peek(ctx context.Context, tableID string, n int) ([]*entities.Card, error) {
	if n < 0 {
		return nil, types.Errorf(types.ErrInvalidArgument, "cannot peek at %d cards", n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, deck, err := s.load(ctx, tableID)
	if err != nil {
		return nil, err
	}
	cards := deck.Cards()
	if n < len(cards) {
		cards = cards[:n]
	}
	return cards, nil
}

// RecentDraws returns the table's latest draws, newest first
func (s *Service) RecentDraws(ctx context.Context, tableID string, limit int) ([]*entities.DrawRecord, error) {
	if s.history == nil {
		return []*entities.DrawRecord{}, nil
	}
	return s.history.RecentDraws(ctx, tableID, limit)
}

// PruneHistory deletes draws older than maxAge
func (s *Service) PruneHistory(ctx context.Context, maxAge time.Duration) (int, error) {
	if s.history == nil {
		return 0, nil
	}
	removed, err := s.history.PruneBefore(ctx, s.now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Pruned %d draws older than %s", removed, maxAge)
	}
	return removed, nil
}

// Delete removes the table's deck
func (s *Service) Delete(ctx context.Context, tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.DeleteDeck(ctx, tableID)
}

func (s *Service) load(ctx context.Context, tableID string) (*entities.DeckRecord, *entities.Deck, error) {
	rec, err := s.repo.GetDeck(ctx, tableID)
	if err != nil {
		return nil, nil, err
	}
	deck, err := entities.DeckFromRecord(rec)
	if err != nil {
		return nil, nil, types.WrapError(types.ErrDatabase, "stored deck is invalid", err)
	}
	return rec, deck, nil
}

func (s *Service) save(ctx context.Context, rec *entities.DeckRecord, deck *entities.Deck) error {
	rec.Initial, rec.Current = deck.Record()
	return s.repo.SaveDeck(ctx, rec)
}

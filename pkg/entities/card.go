package entities

import (
	"strconv"
	"strings"

	"github.com/fadedpez/carddeck/internal/types"
)

// Wildcard is the rank/suit marker that turns a card into a joker
const Wildcard = "*"

// Kind tags which variant of card a Card is
type Kind int

const (
	KindStandard Kind = iota
	KindWildcard
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindWildcard:
		return "wildcard"
	case KindBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "standard":
		return KindStandard, true
	case "wildcard":
		return KindWildcard, true
	case "blank":
		return KindBlank, true
	}
	return 0, false
}

// Orientation is which face of the card is showing
type Orientation int

const (
	FaceUp Orientation = iota
	FaceDown
)

func (o Orientation) String() string {
	if o == FaceDown {
		return "face_down"
	}
	return "face_up"
}

// Common rotations, measured clockwise as the card lies on the table
const (
	Rotation0   = 0
	Rotation90  = 90
	Rotation180 = 180
	Rotation270 = 270
)

// DefaultRankOrder is the standard low-to-high rank order
var DefaultRankOrder = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// DefaultSuitOrder is the standard low-to-high suit order
var DefaultSuitOrder = []string{"C", "D", "H", "S"}

// OrderingConfig holds the rank and suit orders a card is valued against.
// Empty slices fall back to the defaults.
type OrderingConfig struct {
	RankOrder []string
	SuitOrder []string
}

// DefaultOrdering returns a copy of the standard ordering
func DefaultOrdering() *OrderingConfig {
	return &OrderingConfig{
		RankOrder: append([]string(nil), DefaultRankOrder...),
		SuitOrder: append([]string(nil), DefaultSuitOrder...),
	}
}

// CardOptions are the optional construction parameters for a Card
type CardOptions struct {
	Ordering    *OrderingConfig
	IsJoker     bool
	Rotation    int
	Orientation Orientation
}

// Card represents a playing card. Only rotation, orientation and the
// one-shot signature change after construction.
type Card struct {
	rank string
	suit string
	kind Kind

	rankOrder  []string
	suitOrder  []string
	valueOrder []string

	rotation    int
	orientation Orientation
	signature   *Signature
}

// NewCard creates a card from rank and suit codes. Codes are trimmed and
// upper-cased; a Wildcard in either field makes the card a joker.
func NewCard(rank, suit string, opts *CardOptions) (*Card, error) {
	if opts == nil {
		opts = &CardOptions{}
	}

	c := &Card{
		rank:        normalizeCode(rank),
		suit:        normalizeCode(suit),
		orientation: opts.Orientation,
	}
	c.applyOrdering(opts.Ordering)

	if err := validRotation(opts.Rotation); err != nil {
		return nil, err
	}
	c.rotation = opts.Rotation

	switch {
	case opts.IsJoker || c.rank == Wildcard || c.suit == Wildcard:
		c.kind = KindWildcard
	case c.rank == "" && c.suit == "":
		return nil, types.NewCardError(types.ErrMissingValue, "card needs a rank and a suit")
	case c.rank == "":
		return nil, types.Errorf(types.ErrMissingValue, "card with suit %q has no rank", c.suit)
	case c.suit == "":
		return nil, types.Errorf(types.ErrMissingValue, "card with rank %q has no suit", c.rank)
	default:
		if indexOf(c.rankOrder, c.rank) < 0 {
			return nil, types.Errorf(types.ErrInvalidRank, "rank %q not in rank order", c.rank)
		}
		if indexOf(c.suitOrder, c.suit) < 0 {
			return nil, types.Errorf(types.ErrInvalidSuit, "suit %q not in suit order", c.suit)
		}
		c.kind = KindStandard
	}

	return c, nil
}

// NewNumberedCard creates a card with a numeric rank
func NewNumberedCard(rank int, suit string, opts *CardOptions) (*Card, error) {
	return NewCard(strconv.Itoa(rank), suit, opts)
}

// NewJoker creates a wildcard card. rank and suit are optional tokens that
// tell jokers apart, e.g. "R" and "B" for red and black jokers.
func NewJoker(rank, suit string, opts *CardOptions) (*Card, error) {
	o := CardOptions{}
	if opts != nil {
		o = *opts
	}
	o.IsJoker = true
	return NewCard(rank, suit, &o)
}

// NewBlankCard creates the blank (cut/marker) card
func NewBlankCard(opts *CardOptions) (*Card, error) {
	if opts == nil {
		opts = &CardOptions{}
	}
	if err := validRotation(opts.Rotation); err != nil {
		return nil, err
	}

	c := &Card{
		kind:        KindBlank,
		rotation:    opts.Rotation,
		orientation: opts.Orientation,
	}
	c.applyOrdering(opts.Ordering)
	return c, nil
}

func (c *Card) applyOrdering(cfg *OrderingConfig) {
	ranks, suits := DefaultRankOrder, DefaultSuitOrder
	if cfg != nil && len(cfg.RankOrder) > 0 {
		ranks = cfg.RankOrder
	}
	if cfg != nil && len(cfg.SuitOrder) > 0 {
		suits = cfg.SuitOrder
	}
	c.rankOrder = normalizeOrder(ranks)
	c.suitOrder = normalizeOrder(suits)
	c.valueOrder = buildValueOrder(c.rankOrder, c.suitOrder)
}

// buildValueOrder lays out the integer encoding: the blank slot first, every
// rank/suit pair suit-major, and the wildcard last.
func buildValueOrder(ranks, suits []string) []string {
	values := make([]string, 0, len(ranks)*len(suits)+2)
	seen := make(map[string]bool, cap(values))

	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}

	add("")
	for _, suit := range suits {
		if suit == Wildcard {
			continue
		}
		for _, rank := range ranks {
			if rank == Wildcard {
				continue
			}
			add(rank + suit)
		}
	}
	add(Wildcard)

	return values
}

// Rank returns the normalized rank code, "" when unset
func (c *Card) Rank() string {
	return c.rank
}

// Suit returns the normalized suit code, "" when unset
func (c *Card) Suit() string {
	return c.suit
}

func (c *Card) Kind() Kind {
	return c.kind
}

func (c *Card) IsJoker() bool {
	return c.kind == KindWildcard
}

func (c *Card) IsBlank() bool {
	return c.kind == KindBlank
}

// RankOrder returns a copy of the card's rank order
func (c *Card) RankOrder() []string {
	return append([]string(nil), c.rankOrder...)
}

// SuitOrder returns a copy of the card's suit order
func (c *Card) SuitOrder() []string {
	return append([]string(nil), c.suitOrder...)
}

// ValueOrder returns a copy of the card's value order
func (c *Card) ValueOrder() []string {
	return append([]string(nil), c.valueOrder...)
}

// Ordering returns a copy of the ordering the card was built with
func (c *Card) Ordering() *OrderingConfig {
	return &OrderingConfig{RankOrder: c.RankOrder(), SuitOrder: c.SuitOrder()}
}

// RankValue returns the position of the card's rank in its rank order.
// A bare joker sits one past the last rank; a joker carrying a rank token
// is valued by the character sum of that token. Blank cards return -1.
func (c *Card) RankValue() int {
	switch c.kind {
	case KindWildcard:
		if c.bareJoker() {
			return len(c.rankOrder)
		}
		return charSum(c.rank)
	case KindBlank:
		return -1
	default:
		return indexOf(c.rankOrder, c.rank)
	}
}

// SuitValue is RankValue for the suit axis
func (c *Card) SuitValue() int {
	switch c.kind {
	case KindWildcard:
		if c.bareJoker() {
			return len(c.suitOrder)
		}
		return charSum(c.suit)
	case KindBlank:
		return -1
	default:
		return indexOf(c.suitOrder, c.suit)
	}
}

func (c *Card) bareJoker() bool {
	return (c.rank == "" || c.rank == Wildcard) && (c.suit == "" || c.suit == Wildcard)
}

// Value returns the card's canonical integer: its position in the value
// order. Jokers missing from the table fall back to the character sum of
// their string form.
func (c *Card) Value() (int, error) {
	s := c.String()
	if i := indexOf(c.valueOrder, s); i >= 0 {
		return i, nil
	}

	switch c.kind {
	case KindWildcard:
		if s == Wildcard {
			return len(c.valueOrder) - 1, nil
		}
		return charSum(s), nil
	default:
		return 0, types.Errorf(types.ErrUnknownValue, "card %q has no value", s)
	}
}

// ordinal is Value with unknown values sorting first
func (c *Card) ordinal() int {
	v, err := c.Value()
	if err != nil {
		return -1
	}
	return v
}

// Compare returns -1, 0 or 1 as c's value is below, equal to, or above other's
func (c *Card) Compare(other *Card) int {
	a, b := c.ordinal(), other.ordinal()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c *Card) Less(other *Card) bool {
	return c.Compare(other) < 0
}

func (c *Card) Greater(other *Card) bool {
	return c.Compare(other) > 0
}

// Equal reports whether both cards carry the same rank and suit. A blank
// card never equals a joker, even one with no tokens.
func (c *Card) Equal(other *Card) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.rank == other.rank && c.suit == other.suit && c.IsBlank() == other.IsBlank()
}

// Hash is consistent with Equal
func (c *Card) Hash() int {
	return charSum(c.suit)*1024 + charSum(c.rank)
}

// String returns the canonical form: "AD", "10S", "*", "*R", "*5P".
// Blank cards render as "".
func (c *Card) String() string {
	switch c.kind {
	case KindWildcard:
		var sb strings.Builder
		sb.WriteString(Wildcard)
		if c.rank != "" && c.rank != Wildcard {
			sb.WriteString(c.rank)
		}
		if c.suit != "" && c.suit != Wildcard {
			sb.WriteString(c.suit)
		}
		return sb.String()
	case KindBlank:
		return ""
	default:
		return c.rank + c.suit
	}
}

// Rotation returns the card's rotation in degrees, 0-359
func (c *Card) Rotation() int {
	return c.rotation
}

// SetRotation sets the rotation; values outside 0-359 are rejected
func (c *Card) SetRotation(degrees int) error {
	if err := validRotation(degrees); err != nil {
		return err
	}
	c.rotation = degrees
	return nil
}

// RotateBy spins the card; positive is clockwise. Returns the new rotation.
func (c *Card) RotateBy(degrees int) int {
	c.rotation = ((c.rotation+degrees)%360 + 360) % 360
	return c.rotation
}

func (c *Card) Orientation() Orientation {
	return c.orientation
}

func (c *Card) SetOrientation(o Orientation) {
	c.orientation = o
}

func (c *Card) IsFaceUp() bool {
	return c.orientation == FaceUp
}

// TurnOver flips the card between face up and face down
func (c *Card) TurnOver() {
	if c.orientation == FaceUp {
		c.orientation = FaceDown
	} else {
		c.orientation = FaceUp
	}
}

func validRotation(degrees int) error {
	if degrees < 0 || degrees > 359 {
		return types.Errorf(types.ErrInvalidRotation, "rotation %d outside 0-359", degrees)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// normalizeOrder upper-cases an order list and drops blanks and repeats
func normalizeOrder(order []string) []string {
	out := make([]string, 0, len(order))
	for _, code := range order {
		code = normalizeCode(code)
		if code == "" || indexOf(out, code) >= 0 {
			continue
		}
		out = append(out, code)
	}
	return out
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// charSum adds up the code points of s
func charSum(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum
}

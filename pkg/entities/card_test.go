package entities

import (
	"testing"

	"github.com/fadedpez/carddeck/internal/types"
	"github.com/stretchr/testify/suite"
)

type CardTestSuite struct {
	suite.Suite
}

func TestCardSuite(t *testing.T) {
	suite.Run(t, new(CardTestSuite))
}

func (s *CardTestSuite) mustCard(rank, suit string) *Card {
	c, err := NewCard(rank, suit, nil)
	s.Require().NoError(err)
	return c
}

func (s *CardTestSuite) mustJoker(rank, suit string) *Card {
	c, err := NewJoker(rank, suit, nil)
	s.Require().NoError(err)
	return c
}

func (s *CardTestSuite) value(c *Card) int {
	v, err := c.Value()
	s.Require().NoError(err)
	return v
}

func (s *CardTestSuite) TestNewCardRoundTripsCodes() {
	for _, suit := range DefaultSuitOrder {
		for _, rank := range DefaultRankOrder {
			c := s.mustCard(rank, suit)
			s.Equal(rank, c.Rank(), "Rank should read back unchanged")
			s.Equal(suit, c.Suit(), "Suit should read back unchanged")
			s.Equal(KindStandard, c.Kind())
			s.False(c.IsJoker())
		}
	}
}

func (s *CardTestSuite) TestNewCardNormalizes() {
	testCases := []struct {
		name         string
		rank         string
		suit         string
		expectedRank string
		expectedSuit string
	}{
		{name: "lower case face", rank: "q", suit: "h", expectedRank: "Q", expectedSuit: "H"},
		{name: "padded", rank: " 10 ", suit: " s", expectedRank: "10", expectedSuit: "S"},
		{name: "ten keeps full token", rank: "10", suit: "D", expectedRank: "10", expectedSuit: "D"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Execute
			c, err := NewCard(tc.rank, tc.suit, nil)

			// Assert
			s.Require().NoError(err)
			s.Equal(tc.expectedRank, c.Rank())
			s.Equal(tc.expectedSuit, c.Suit())
		})
	}
}

func (s *CardTestSuite) TestNewNumberedCard() {
	c, err := NewNumberedCard(7, "d", nil)
	s.Require().NoError(err)
	s.Equal("7", c.Rank())
	s.Equal("D", c.Suit())
	s.Equal(5, c.RankValue(), "7 is the sixth entry of the default rank order")
}

func (s *CardTestSuite) TestNewCardErrors() {
	testCases := []struct {
		name     string
		rank     string
		suit     string
		opts     *CardOptions
		expected types.ErrorCode
	}{
		{name: "rank not in order", rank: "1", suit: "C", expected: types.ErrInvalidRank},
		{name: "suit not in order", rank: "2", suit: "X", expected: types.ErrInvalidSuit},
		{name: "nothing set", rank: "", suit: "", expected: types.ErrMissingValue},
		{name: "rank only", rank: "Q", suit: "", expected: types.ErrMissingValue},
		{name: "suit only", rank: "", suit: "H", expected: types.ErrMissingValue},
		{name: "rotation too large", rank: "Q", suit: "H", opts: &CardOptions{Rotation: 360}, expected: types.ErrInvalidRotation},
		{name: "rotation negative", rank: "Q", suit: "H", opts: &CardOptions{Rotation: -1}, expected: types.ErrInvalidRotation},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Execute
			c, err := NewCard(tc.rank, tc.suit, tc.opts)

			// Assert
			s.Nil(c)
			s.True(types.IsCardError(err, tc.expected), "expected %s, got %v", tc.expected, err)
		})
	}
}

func (s *CardTestSuite) TestJokers() {
	// Setup
	bare := s.mustCard("*", "")
	red := s.mustCard("*", "R")
	black := s.mustCard("*", "B")
	forced, err := NewCard("P", "P", &CardOptions{IsJoker: true})
	s.Require().NoError(err)

	// Assert
	for _, c := range []*Card{bare, red, black, forced} {
		s.True(c.IsJoker(), "%s should be a joker", c)
		s.Equal(KindWildcard, c.Kind())
	}
	s.Equal("*", bare.Rank())
	s.Equal("", bare.Suit())

	s.False(red.Equal(black))
	s.False(forced.Equal(black))
	s.False(forced.Equal(red))
	s.NotEqual(s.value(red), s.value(black), "Distinct joker tokens should have distinct values")
}

func (s *CardTestSuite) TestWildcardSuitForcesJoker() {
	c := s.mustCard("2", "*")
	s.True(c.IsJoker())
	s.Equal("*2", c.String())
}

func (s *CardTestSuite) TestRankValue() {
	s.Equal(5, s.mustCard("7", "D").RankValue())
	s.Equal(9, s.mustCard("J", "D").RankValue())
	s.Equal(12, s.mustCard("A", "D").RankValue())
	s.Equal(13, s.mustCard("*", "").RankValue(), "Bare joker sits one past the last rank")
	s.Equal(42, s.mustCard("*", "R").RankValue(), "Joker with tokens uses the character sum of its rank")
	s.Equal(int('5'), s.mustJoker("5", "P").RankValue())
}

func (s *CardTestSuite) TestSuitValue() {
	s.Equal(0, s.mustCard("7", "C").SuitValue())
	s.Equal(1, s.mustCard("7", "D").SuitValue())
	s.Equal(2, s.mustCard("7", "H").SuitValue())
	s.Equal(3, s.mustCard("7", "S").SuitValue())
	s.Equal(4, s.mustCard("*", "").SuitValue())
	s.Equal(int('R'), s.mustCard("*", "R").SuitValue())
}

func (s *CardTestSuite) TestBlankCard() {
	// Execute
	blank, err := NewBlankCard(nil)

	// Assert
	s.Require().NoError(err)
	s.True(blank.IsBlank())
	s.False(blank.IsJoker())
	s.Equal("", blank.String())
	s.Equal(-1, blank.RankValue())
	s.Equal(-1, blank.SuitValue())
	s.Equal(0, s.value(blank), "Blank takes the first slot of the value order")
	s.Equal(0, blank.Hash())
	s.False(blank.Equal(s.mustJoker("", "")), "Blank and an empty joker are different cards")
}

func (s *CardTestSuite) TestValue() {
	testCases := []struct {
		name     string
		card     *Card
		expected int
	}{
		{name: "2C", card: s.mustCard("2", "C"), expected: 1},
		{name: "AC", card: s.mustCard("A", "C"), expected: 13},
		{name: "2D", card: s.mustCard("2", "D"), expected: 14},
		{name: "AD", card: s.mustCard("A", "D"), expected: 26},
		{name: "2H", card: s.mustCard("2", "H"), expected: 27},
		{name: "AH", card: s.mustCard("A", "H"), expected: 39},
		{name: "2S", card: s.mustCard("2", "S"), expected: 40},
		{name: "AS", card: s.mustCard("A", "S"), expected: 52},
		{name: "bare joker", card: s.mustCard("*", ""), expected: 53},
		{name: "joker with tokens", card: s.mustJoker("2", "F"), expected: 162},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, s.value(tc.card))
		})
	}
}

func (s *CardTestSuite) TestValueIsInjective() {
	// Setup
	seen := make(map[int]string)
	cards := StandardDeck().Cards()

	// Execute and assert
	for _, c := range cards {
		v := s.value(c)
		prev, dup := seen[v]
		s.False(dup, "%q and %q share value %d", prev, c.String(), v)
		seen[v] = c.String()
	}
	s.Len(seen, 54)
}

func (s *CardTestSuite) TestOrderingMatchesValue() {
	// Setup
	cards := StandardDeck().Cards()
	cards = append(cards, s.mustCard("*", "R"), s.mustJoker("5", "P"))

	// Assert
	for _, a := range cards {
		s.False(a.Less(a), "Less must be irreflexive")
		for _, b := range cards {
			va, vb := s.value(a), s.value(b)
			s.Equal(va < vb, a.Less(b), "%s < %s", a, b)
			s.Equal(va > vb, a.Greater(b), "%s > %s", a, b)
			if a.Less(b) {
				s.False(b.Less(a), "Less must be antisymmetric")
			}
		}
	}
}

func (s *CardTestSuite) TestComparisons() {
	s.True(s.mustCard("A", "S").Greater(s.mustCard("2", "S")))
	s.True(s.mustCard("A", "S").Greater(s.mustCard("A", "D")))
	s.True(s.mustCard("*", "").Greater(s.mustCard("A", "S")))
	s.True(s.mustCard("2", "S").Less(s.mustCard("3", "S")))
	s.True(s.mustCard("A", "D").Less(s.mustCard("A", "S")))
	s.Equal(0, s.mustCard("Q", "H").Compare(s.mustCard("Q", "H")))
}

func (s *CardTestSuite) TestEquality() {
	one := s.mustCard("3", "C")
	two := s.mustCard("3", "C")

	s.True(one.Equal(two))
	s.Equal(one.Hash(), two.Hash())
	s.False(one.Equal(s.mustCard("3", "S")))
	s.False(one.Equal(s.mustCard("7", "C")))
	s.True(s.mustCard("*", "").Equal(s.mustCard("*", "")))
	s.False(one.Equal(nil))
}

func (s *CardTestSuite) TestString() {
	s.Equal("AD", s.mustCard("A", "D").String())
	s.Equal("5S", s.mustCard("5", "S").String())
	s.Equal("10H", s.mustCard("10", "H").String())
	s.Equal("*", s.mustCard("*", "").String())
	s.Equal("*", s.mustCard("*", "*").String())
	s.Equal("*R", s.mustCard("*", "R").String())
	s.Equal("*2", s.mustCard("2", "*").String())
	s.Equal("*5P", s.mustJoker("5", "P").String())
}

func (s *CardTestSuite) TestHash() {
	s.Equal(69697, s.mustCard("A", "D").Hash())
	s.Equal(85045, s.mustCard("5", "S").Hash())
	s.Equal(42, s.mustCard("*", "").Hash())
	s.Equal(84010, s.mustCard("*", "R").Hash())
	s.Equal(43059, s.mustCard("3", "*").Hash())
	s.Equal(71777, s.mustJoker("10", "F").Hash())
}

func (s *CardTestSuite) TestValueOrder() {
	values := s.mustCard("2", "C").ValueOrder()

	s.Len(values, 54)
	s.Equal("", values[0])
	s.Equal("2C", values[1])
	s.Equal("*", values[len(values)-1])

	seen := make(map[string]bool)
	for _, v := range values {
		s.False(seen[v], "duplicate entry %q", v)
		seen[v] = true
	}
}

func (s *CardTestSuite) TestCustomOrdering() {
	// Setup: ace low, short deck of two suits
	ordering := &OrderingConfig{
		RankOrder: []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"},
		SuitOrder: []string{"h", "s", "H"},
	}
	opts := &CardOptions{Ordering: ordering}

	// Execute
	ace, err := NewCard("A", "H", opts)
	s.Require().NoError(err)
	king, err := NewCard("K", "H", opts)
	s.Require().NoError(err)
	_, err = NewCard("2", "C", opts)

	// Assert
	s.True(types.IsCardError(err, types.ErrInvalidSuit), "Clubs are not part of this deck")
	s.Equal(0, ace.RankValue())
	s.True(ace.Less(king))
	s.Equal([]string{"H", "S"}, ace.SuitOrder(), "Suit order is normalized and de-duplicated")
	s.Len(ace.ValueOrder(), 2*13+2)

	// The caller's slices are not aliased
	ordering.RankOrder[0] = "Z"
	s.Equal("A", ace.RankOrder()[0])
}

func (s *CardTestSuite) TestSign() {
	testCases := []struct {
		name         string
		text         string
		graphic      string
		expectedType SignatureType
	}{
		{name: "text", text: "Tammy", expectedType: TextSignature},
		{name: "graphic", graphic: "/sig/tammy.bmp", expectedType: GraphicSignature},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Setup
			c := s.mustCard("A", "S")

			// Execute
			err := c.Sign(tc.text, tc.graphic)

			// Assert
			s.Require().NoError(err)
			sig, ok := c.Signature()
			s.True(ok)
			s.Equal(tc.expectedType, sig.Type)
			s.Equal(tc.text+tc.graphic, sig.Data)
		})
	}
}

func (s *CardTestSuite) TestSignConflicts() {
	// Setup
	c := s.mustCard("A", "S")

	// Execute and assert
	err := c.Sign("", "")
	s.True(types.IsCardError(err, types.ErrSignatureConflict))
	err = c.Sign("Tammy", "/sig/tammy.bmp")
	s.True(types.IsCardError(err, types.ErrSignatureConflict))

	_, ok := c.Signature()
	s.False(ok, "Failed signing must not attach a signature")
	s.False(c.IsSigned())
}

func (s *CardTestSuite) TestSignIsOneShot() {
	// Setup
	c := s.mustCard("A", "S")
	s.Require().NoError(c.Sign("Tammy", ""))

	// Execute and assert
	for _, args := range [][2]string{{"Also Tammy", ""}, {"", "/sig.bmp"}, {"", ""}, {"a", "b"}} {
		err := c.Sign(args[0], args[1])
		s.True(types.IsCardError(err, types.ErrAlreadySigned), "args %v", args)
	}

	sig, _ := c.Signature()
	s.Equal("Tammy", sig.Data)
}

func (s *CardTestSuite) TestRotation() {
	// Setup
	c, err := NewCard("K", "C", &CardOptions{Rotation: Rotation90})
	s.Require().NoError(err)

	// Execute and assert
	s.Equal(90, c.Rotation())
	s.Equal(0, c.RotateBy(270))
	s.Equal(270, c.RotateBy(-90))
	s.Equal(90, c.RotateBy(900))
	s.Equal(359, c.RotateBy(-91))

	s.NoError(c.SetRotation(Rotation180))
	s.Equal(180, c.Rotation())
	s.True(types.IsCardError(c.SetRotation(360), types.ErrInvalidRotation))
	s.Equal(180, c.Rotation(), "Rejected rotation leaves the card unchanged")
}

func (s *CardTestSuite) TestTurnOver() {
	c := s.mustCard("K", "C")
	s.True(c.IsFaceUp())

	c.TurnOver()
	s.Equal(FaceDown, c.Orientation())

	c.TurnOver()
	s.Equal(FaceUp, c.Orientation())

	c.SetOrientation(FaceDown)
	s.False(c.IsFaceUp())
}

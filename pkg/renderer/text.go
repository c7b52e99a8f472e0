package renderer

import (
	"strings"

	"github.com/fadedpez/carddeck/pkg/entities"
)

// TextRenderer prints cards as short bracketed codes, e.g. [AD] or [??]
type TextRenderer struct{}

// NewTextRenderer creates a text renderer
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render prints the card, ignoring position and size
func (r *TextRenderer) Render(card *entities.Card, at Placement) (string, error) {
	if err := checkPlacement(card, at); err != nil {
		return "", err
	}
	if !at.faceUp(card) {
		return "[??]", nil
	}

	out := "[" + label(card) + "]"
	if sig, ok := card.Signature(); ok && sig.Type == entities.TextSignature {
		out += " ~" + sig.Data
	}
	return out, nil
}

// RenderHand prints several cards on one line
func RenderHand(r Renderer, cards []*entities.Card) (string, error) {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		s, err := r.Render(c, At(0, 0, 1, 1))
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

package entities

import "github.com/fadedpez/carddeck/internal/types"

// SignatureType is the kind of mark a card was signed with
type SignatureType string

const (
	TextSignature    SignatureType = "text"
	GraphicSignature SignatureType = "graphic"
)

// Signature is the annotation attached to a signed card. For a graphic
// signature Data is the path of the bitmap to draw.
type Signature struct {
	Type SignatureType `json:"type"`
	Data string        `json:"data"`
}

// Sign attaches a signature. Exactly one of text or graphic must be given,
// and a card can only be signed once.
func (c *Card) Sign(text, graphic string) error {
	if c.signature != nil {
		return types.NewCardError(types.ErrAlreadySigned, "card is already signed")
	}
	if text == "" && graphic == "" {
		return types.NewCardError(types.ErrSignatureConflict, "card must have a text or graphic signature")
	}
	if text != "" && graphic != "" {
		return types.NewCardError(types.ErrSignatureConflict, "card cannot have both text and graphic signatures")
	}

	if text != "" {
		c.signature = &Signature{Type: TextSignature, Data: text}
	} else {
		c.signature = &Signature{Type: GraphicSignature, Data: graphic}
	}
	return nil
}

// Signature returns the card's signature, if it has one
func (c *Card) Signature() (Signature, bool) {
	if c.signature == nil {
		return Signature{}, false
	}
	return *c.signature, true
}

func (c *Card) IsSigned() bool {
	return c.signature != nil
}

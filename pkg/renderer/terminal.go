package renderer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fadedpez/carddeck/pkg/entities"
)

var (
	redColor   = lipgloss.Color("196")
	blackColor = lipgloss.Color("255")
	backColor  = lipgloss.Color("33")
)

// TerminalRenderer draws boxed cards for a terminal or a Discord code block
type TerminalRenderer struct {
	base lipgloss.Style
}

// NewTerminalRenderer creates a terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		base: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
	}
}

// Render draws the card WidthTiles characters wide and HeightTiles lines tall
// inside its border, offset by X spaces and Y blank lines
func (r *TerminalRenderer) Render(card *entities.Card, at Placement) (string, error) {
	if err := checkPlacement(card, at); err != nil {
		return "", err
	}

	width := max(at.WidthTiles, 3)
	height := max(at.HeightTiles, 2)
	style := r.styleFor(card, at).Width(width).Height(height)

	var body string
	if !at.faceUp(card) {
		body = strings.TrimRight(strings.Repeat(strings.Repeat("░", width)+"\n", height), "\n")
	} else {
		top := label(card)
		bottom := lipgloss.PlaceHorizontal(width, lipgloss.Right, top)
		lines := []string{top}
		for i := 2; i < height; i++ {
			lines = append(lines, "")
		}
		body = strings.Join(append(lines, bottom), "\n")
	}

	out := style.Render(body)
	if at.X > 0 || at.Y > 0 {
		out = lipgloss.NewStyle().MarginLeft(max(at.X, 0)).MarginTop(max(at.Y, 0)).Render(out)
	}
	return out, nil
}

// RenderRow draws cards side by side
func (r *TerminalRenderer) RenderRow(cards []*entities.Card, widthTiles, heightTiles int) (string, error) {
	boxes := make([]string, 0, len(cards))
	for _, c := range cards {
		box, err := r.Render(c, At(0, 0, widthTiles, heightTiles))
		if err != nil {
			return "", err
		}
		boxes = append(boxes, box)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...), nil
}

func (r *TerminalRenderer) styleFor(card *entities.Card, at Placement) lipgloss.Style {
	style := r.base
	switch {
	case !at.faceUp(card):
		return style.Foreground(backColor).BorderForeground(backColor)
	case IsRed(card.Suit()):
		return style.Foreground(redColor).BorderForeground(redColor)
	default:
		return style.Foreground(blackColor)
	}
}

package renderer

import (
	"fmt"
	"strings"

	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
)

// Background sheets are a 3x3 grid: corners, edges and a fill tile
const backgroundSheetTiles = 3

// Tile is one sprite copied from a sheet onto the display
type Tile struct {
	Sheet  string
	Source TileCoord
	X      int
	Y      int
	Size   int
}

func (t Tile) String() string {
	return fmt.Sprintf("%s[%d,%d] @ (%d,%d)", t.Sheet, t.Source.Row, t.Source.Col, t.X, t.Y)
}

// Layout is every tile needed to draw one card, background first
type Layout struct {
	Card       string
	FaceUp     bool
	Rotation   int
	Background []Tile
	Symbols    []Tile
}

// Tiles returns background and symbol tiles in draw order
func (l *Layout) Tiles() []Tile {
	out := make([]Tile, 0, len(l.Background)+len(l.Symbols))
	out = append(out, l.Background...)
	return append(out, l.Symbols...)
}

func (l *Layout) String() string {
	var sb strings.Builder
	side := "face up"
	if !l.FaceUp {
		side = "face down"
	}
	fmt.Fprintf(&sb, "card %q %s rot %d\n", l.Card, side, l.Rotation)
	for _, t := range l.Tiles() {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// TileRenderer lays cards out on sprite sheets for a tiled display
type TileRenderer struct {
	opts Options
}

// NewTileRenderer creates a tile renderer, validating the sprite options
func NewTileRenderer(opts Options) (*TileRenderer, error) {
	if opts.SymbolMap == nil {
		opts.SymbolMap = DefaultSymbolMap()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &TileRenderer{opts: opts}, nil
}

// Options returns the sprite options in use
func (r *TileRenderer) Options() Options {
	return r.opts
}

// Render describes the layout of card as text, one tile per line
func (r *TileRenderer) Render(card *entities.Card, at Placement) (string, error) {
	layout, err := r.Layout(card, at)
	if err != nil {
		return "", err
	}
	return layout.String(), nil
}

// Layout computes the tiles that draw card at the placement. Cards turned a
// quarter swap their width and height.
func (r *TileRenderer) Layout(card *entities.Card, at Placement) (*Layout, error) {
	if err := checkPlacement(card, at); err != nil {
		return nil, err
	}

	width, height := at.WidthTiles, at.HeightTiles
	if card.Rotation() == entities.Rotation90 || card.Rotation() == entities.Rotation270 {
		width, height = height, width
	}

	faceUp := at.faceUp(card)
	layout := &Layout{Card: card.String(), FaceUp: faceUp, Rotation: card.Rotation()}

	sheet := r.opts.Asset(r.opts.FaceUpBackground)
	if !faceUp {
		sheet = r.opts.Asset(r.opts.FaceDownBackground)
	}
	size := r.opts.BackgroundTileSize
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			layout.Background = append(layout.Background, Tile{
				Sheet:  sheet,
				Source: TileCoord{Row: edgeIndex(row, height), Col: edgeIndex(col, width)},
				X:      at.X + col*size,
				Y:      at.Y + row*size,
				Size:   size,
			})
		}
	}

	if !faceUp || card.IsBlank() {
		return layout, nil
	}

	offset := r.opts.RowOffsetBlack
	if IsRed(card.Suit()) {
		offset = r.opts.RowOffsetRed
	}
	pad := (size - r.opts.SymbolTileSize) / 2
	line := 0
	for _, token := range []string{card.Rank(), card.Suit()} {
		token = symbolToken(token)
		if token == "" {
			continue
		}
		coord, ok := r.opts.SymbolMap[token]
		if !ok {
			// Joker tokens are free-form and only drawn when the sheet has them
			if card.IsJoker() {
				continue
			}
			return nil, types.Errorf(types.ErrUnknownValue, "no symbol tile for %q", token)
		}
		layout.Symbols = append(layout.Symbols, Tile{
			Sheet:  r.opts.Asset(r.opts.SymbolImage),
			Source: TileCoord{Row: coord.Row + offset, Col: coord.Col},
			X:      at.X + pad,
			Y:      at.Y + pad + line*size,
			Size:   r.opts.SymbolTileSize,
		})
		line++
	}

	return layout, nil
}

// edgeIndex picks the first, middle or last tile of the background sheet
// for position i of n
func edgeIndex(i, n int) int {
	switch {
	case i == 0:
		return 0
	case i == n-1:
		return backgroundSheetTiles - 1
	default:
		return 1
	}
}

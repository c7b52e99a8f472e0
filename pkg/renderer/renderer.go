package renderer

import (
	"path"

	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
)

// Renderer draws a single card at a placement on some output surface
type Renderer interface {
	Render(card *entities.Card, at Placement) (string, error)
}

// Placement positions a card. X and Y are in pixels for tile output;
// the size is measured in background tiles.
type Placement struct {
	X           int
	Y           int
	WidthTiles  int
	HeightTiles int
	// Orientation overrides the card's own orientation when set
	Orientation *entities.Orientation
}

// At is a placement using the card's own orientation
func At(x, y, widthTiles, heightTiles int) Placement {
	return Placement{X: x, Y: y, WidthTiles: widthTiles, HeightTiles: heightTiles}
}

// WithOrientation returns a copy of p forcing the given orientation
func (p Placement) WithOrientation(o entities.Orientation) Placement {
	p.Orientation = &o
	return p
}

func (p Placement) faceUp(card *entities.Card) bool {
	if p.Orientation != nil {
		return *p.Orientation == entities.FaceUp
	}
	return card.IsFaceUp()
}

// TileCoord is a (row, column) position on a sprite sheet
type TileCoord struct {
	Row int
	Col int
}

// SymbolTileMap maps rank and suit tokens onto the symbol sprite sheet
type SymbolTileMap map[string]TileCoord

// DefaultSymbolMap lays ranks out on the first row and faces and suits on
// the second. Red symbols live RowOffsetRed rows further down.
func DefaultSymbolMap() SymbolTileMap {
	return SymbolTileMap{
		"A": {0, 0}, "2": {0, 1}, "3": {0, 2}, "4": {0, 3}, "5": {0, 4},
		"6": {0, 5}, "7": {0, 6}, "8": {0, 7}, "9": {0, 8}, "10": {0, 9},
		"J": {1, 0}, "Q": {1, 1}, "K": {1, 2},
		"D": {1, 3}, "C": {1, 4}, "H": {1, 5}, "S": {1, 6},
	}
}

// Options describes the sprite sheets a renderer draws from
type Options struct {
	AssetPath          string
	FaceUpBackground   string
	FaceDownBackground string
	SymbolImage        string
	BackgroundTileSize int
	SymbolTileSize     int
	RowOffsetBlack     int
	RowOffsetRed       int
	SymbolMap          SymbolTileMap
}

// DefaultOptions matches the 24x24 sprite sheets shipped with the display
func DefaultOptions() Options {
	return Options{
		AssetPath:          "/assets",
		FaceUpBackground:   "card_front_sprites_24x24.bmp",
		FaceDownBackground: "card_back_sprites_24x24.bmp",
		SymbolImage:        "card_symbols_24x24.bmp",
		BackgroundTileSize: 24,
		SymbolTileSize:     16,
		RowOffsetBlack:     0,
		RowOffsetRed:       2,
		SymbolMap:          DefaultSymbolMap(),
	}
}

// Validate checks the options can produce a layout
func (o Options) Validate() error {
	if o.BackgroundTileSize <= 0 || o.SymbolTileSize <= 0 {
		return types.NewCardError(types.ErrInvalidArgument, "tile sizes must be positive")
	}
	if o.SymbolTileSize > o.BackgroundTileSize {
		return types.Errorf(types.ErrInvalidArgument, "symbol tiles (%d) larger than background tiles (%d)", o.SymbolTileSize, o.BackgroundTileSize)
	}
	if o.FaceUpBackground == "" || o.FaceDownBackground == "" || o.SymbolImage == "" {
		return types.NewCardError(types.ErrInvalidArgument, "sprite sheet names are required")
	}
	return nil
}

// Asset returns the full path of a sprite sheet
func (o Options) Asset(name string) string {
	return path.Join("/", o.AssetPath, name)
}

// IsRed reports whether a suit is drawn in red
func IsRed(suit string) bool {
	return suit == "D" || suit == "H"
}

func checkPlacement(card *entities.Card, at Placement) error {
	if card == nil {
		return types.NewCardError(types.ErrInvalidArgument, "card is nil")
	}
	if at.WidthTiles < 1 || at.HeightTiles < 1 {
		return types.Errorf(types.ErrInvalidArgument, "card must be at least 1x1 tiles, got %dx%d", at.WidthTiles, at.HeightTiles)
	}
	return nil
}

// symbolToken is the token printed for one half of a card, or "" when that
// half carries nothing to draw
func symbolToken(token string) string {
	if token == entities.Wildcard {
		return ""
	}
	return token
}

func label(card *entities.Card) string {
	if card.IsBlank() {
		return "  "
	}
	return card.String()
}

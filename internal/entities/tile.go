package entities

// Tile is a single dungeon grid cell
type Tile uint8

// Tile values. Only Door and Hazard change after generation: an opened door
// and a triggered hazard both become Floor.
const (
	TileWall Tile = iota
	TileFloor
	TileDoor
	TileStairsDown
	TileStairsUp
	TileHazard
)

var tileNames = map[Tile]string{
	TileWall:       "wall",
	TileFloor:      "floor",
	TileDoor:       "door",
	TileStairsDown: "stairs_down",
	TileStairsUp:   "stairs_up",
	TileHazard:     "hazard",
}

var tileGlyphs = map[Tile]rune{
	TileWall:       '#',
	TileFloor:      '.',
	TileDoor:       '+',
	TileStairsDown: '>',
	TileStairsUp:   '<',
	TileHazard:     '^',
}

func (t Tile) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return "unknown"
}

// Glyph is the ASCII character used by Dungeon.String
func (t Tile) Glyph() rune {
	if g, ok := tileGlyphs[t]; ok {
		return g
	}
	return '?'
}

// Walkable reports whether entities may stand on the tile
func (t Tile) Walkable() bool {
	return t != TileWall
}

// BlocksSight reports whether the tile stops line of sight. Closed doors do.
func (t Tile) BlocksSight() bool {
	return t == TileWall || t == TileDoor
}

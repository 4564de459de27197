// Package entities provides core data structures for rpg-dungeon.
package entities

import "strings"

// Room is a rectangular open region. Bounds covers the interior only; the
// ring of tiles around it is wall except where Doors were cut.
type Room struct {
	ID     int        `json:"id"`
	Bounds Rect       `json:"bounds"`
	Center Position   `json:"center"`
	Doors  []Position `json:"doors,omitempty"`
}

// Edge links two rooms by index in Dungeon.Rooms
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// SpawnKind tags a spawn point
type SpawnKind uint8

// Spawn point tags
const (
	SpawnPlayerStart SpawnKind = iota
	SpawnEnemy
	SpawnItem
	SpawnHazard
)

func (k SpawnKind) String() string {
	switch k {
	case SpawnPlayerStart:
		return "player_start"
	case SpawnEnemy:
		return "enemy"
	case SpawnItem:
		return "item"
	case SpawnHazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// SpawnPoint is an initial placement emitted by the generator. Enemy is set
// for enemy spawns, Item for item spawns.
type SpawnPoint struct {
	Kind  SpawnKind `json:"kind"`
	Pos   Position  `json:"pos"`
	Room  int       `json:"room"`
	Enemy Kind      `json:"enemy,omitempty"`
	Item  ItemKind  `json:"item,omitempty"`
}

// Dungeon is one generated floor. The grid is row-major, Width columns by
// Height rows.
type Dungeon struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Seed   int64        `json:"seed"`
	Depth  int          `json:"depth"`
	Tiles  []Tile       `json:"tiles"`
	Rooms  []Room       `json:"rooms"`
	Edges  []Edge       `json:"edges"`
	Entry  Position     `json:"entry"`
	Exit   Position     `json:"exit"`
	Spawns []SpawnPoint `json:"spawns"`
}

// NewDungeon creates a grid filled with wall
func NewDungeon(width, height int) *Dungeon {
	return &Dungeon{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}
}

// InBounds reports whether p is on the grid
func (d *Dungeon) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < d.Width && p.Y < d.Height
}

// At returns the tile at p. Off-grid positions read as wall.
func (d *Dungeon) At(p Position) Tile {
	if !d.InBounds(p) {
		return TileWall
	}
	return d.Tiles[p.Y*d.Width+p.X]
}

// Set writes a tile; off-grid writes are ignored
func (d *Dungeon) Set(p Position, t Tile) {
	if d.InBounds(p) {
		d.Tiles[p.Y*d.Width+p.X] = t
	}
}

// Walkable reports whether an entity may stand at p
func (d *Dungeon) Walkable(p Position) bool {
	return d.At(p).Walkable()
}

// BlocksSight reports whether p stops line of sight
func (d *Dungeon) BlocksSight(p Position) bool {
	return d.At(p).BlocksSight()
}

// OpenDoor turns a door at p into floor and reports whether it did
func (d *Dungeon) OpenDoor(p Position) bool {
	if d.At(p) != TileDoor {
		return false
	}
	d.Set(p, TileFloor)
	return true
}

// TriggerHazard spends the hazard at p and reports whether one was there
func (d *Dungeon) TriggerHazard(p Position) bool {
	if d.At(p) != TileHazard {
		return false
	}
	d.Set(p, TileFloor)
	return true
}

// CanStep reports whether a single step from p by dir is legal. Diagonal
// steps may not cut a wall corner.
func (d *Dungeon) CanStep(p, dir Position) bool {
	to := p.Add(dir)
	if !d.Walkable(to) {
		return false
	}
	if dir.X != 0 && dir.Y != 0 {
		if !d.Walkable(Position{X: p.X + dir.X, Y: p.Y}) || !d.Walkable(Position{X: p.X, Y: p.Y + dir.Y}) {
			return false
		}
	}
	return true
}

// Reachable floods from start over orthogonal steps and returns a
// row-major visited mask. Orthogonal connectivity is equivalent to eight-way
// connectivity without corner cutting.
func (d *Dungeon) Reachable(start Position) []bool {
	seen := make([]bool, len(d.Tiles))
	if !d.Walkable(start) {
		return seen
	}

	queue := []Position{start}
	seen[start.Y*d.Width+start.X] = true
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, dir := range Cardinals {
			n := p.Add(dir)
			if !d.Walkable(n) {
				continue
			}
			idx := n.Y*d.Width + n.X
			if seen[idx] {
				continue
			}
			seen[idx] = true
			queue = append(queue, n)
		}
	}
	return seen
}

// Unreachable lists walkable tiles that cannot be reached from the entry
func (d *Dungeon) Unreachable() []Position {
	seen := d.Reachable(d.Entry)
	var out []Position
	for i, t := range d.Tiles {
		if t.Walkable() && !seen[i] {
			out = append(out, Position{X: i % d.Width, Y: i / d.Width})
		}
	}
	return out
}

// Count returns how many tiles equal t
func (d *Dungeon) Count(t Tile) int {
	n := 0
	for _, tile := range d.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}

// RoomAt returns the index of the room whose interior holds p, or -1
func (d *Dungeon) RoomAt(p Position) int {
	for i, r := range d.Rooms {
		if r.Bounds.Contains(p) {
			return i
		}
	}
	return -1
}

// SpawnsOf filters spawn points by kind
func (d *Dungeon) SpawnsOf(kind SpawnKind) []SpawnPoint {
	var out []SpawnPoint
	for _, sp := range d.Spawns {
		if sp.Kind == kind {
			out = append(out, sp)
		}
	}
	return out
}

// Clone returns a deep copy
func (d *Dungeon) Clone() *Dungeon {
	c := *d
	c.Tiles = append([]Tile(nil), d.Tiles...)
	c.Rooms = make([]Room, len(d.Rooms))
	for i, r := range d.Rooms {
		r.Doors = append([]Position(nil), r.Doors...)
		c.Rooms[i] = r
	}
	c.Edges = append([]Edge(nil), d.Edges...)
	c.Spawns = append([]SpawnPoint(nil), d.Spawns...)
	return &c
}

// String renders the grid as ASCII, one row per line
func (d *Dungeon) String() string {
	var b strings.Builder
	b.Grow((d.Width + 1) * d.Height)
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			b.WriteRune(d.Tiles[y*d.Width+x].Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

package entities

import "math"

// Position is a tile coordinate. It doubles as a step offset for movement.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from o to p
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance is the Euclidean distance between two tiles
func (p Position) Distance(o Position) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Chebyshev is the number of king moves between two tiles
func (p Position) Chebyshev(o Position) int {
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

// IsZero reports whether p is the zero offset
func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Directions are the eight step offsets. The order is the final tie breaker
// for movement, so it must never change.
var Directions = []Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: -1},
}

// Cardinals are the four orthogonal step offsets
var Cardinals = Directions[:4]

// Rect is an axis aligned rectangle of tiles, X/Y inclusive, W/H exclusive
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Center returns the middle tile, rounding toward the origin
func (r Rect) Center() Position {
	return Position{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Area is the tile count of r
func (r Rect) Area() int {
	return r.W * r.H
}

// Expand grows r by n tiles on every side
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Intersects reports whether r and o share any tile
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Tiles lists every tile in row-major order
func (r Rect) Tiles() []Position {
	out := make([]Position, 0, r.Area())
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			out = append(out, Position{X: x, Y: y})
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

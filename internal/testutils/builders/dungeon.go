// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// DungeonBuilder provides a fluent interface for building small hand-drawn floors
type DungeonBuilder struct {
	dungeon *entities.Dungeon
}

// NewDungeonBuilder creates a builder for a floor that is all wall
func NewDungeonBuilder(width, height int) *DungeonBuilder {
	return &DungeonBuilder{dungeon: entities.NewDungeon(width, height)}
}

// WithFloor carves floor along row y from x0 to x1 inclusive
func (b *DungeonBuilder) WithFloor(y, x0, x1 int) *DungeonBuilder {
	for x := x0; x <= x1; x++ {
		b.dungeon.Set(entities.Position{X: x, Y: y}, entities.TileFloor)
	}
	return b
}

// WithWall places a wall tile
func (b *DungeonBuilder) WithWall(pos entities.Position) *DungeonBuilder {
	b.dungeon.Set(pos, entities.TileWall)
	return b
}

// WithEntry sets the entry and marks it with up stairs
func (b *DungeonBuilder) WithEntry(pos entities.Position) *DungeonBuilder {
	b.dungeon.Entry = pos
	return b
}

// WithExit sets the exit and marks it with down stairs
func (b *DungeonBuilder) WithExit(pos entities.Position) *DungeonBuilder {
	b.dungeon.Exit = pos
	return b
}

// WithSeed records the generation seed and depth
func (b *DungeonBuilder) WithSeed(seed int64, depth int) *DungeonBuilder {
	b.dungeon.Seed = seed
	b.dungeon.Depth = depth
	return b
}

// Build stamps the stairs and returns the dungeon
func (b *DungeonBuilder) Build() *entities.Dungeon {
	b.dungeon.Set(b.dungeon.Entry, entities.TileStairsUp)
	b.dungeon.Set(b.dungeon.Exit, entities.TileStairsDown)
	return b.dungeon
}

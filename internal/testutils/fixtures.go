package testutils

import (
	"time"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils/builders"
)

// FrozenAt is the wall time used by frozen clocks in tests
var FrozenAt = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

// Corridor is a floor generator producing a 5x3 dungeon with the exit one
// step east of the entry. With Open false a wall separates them and the exit
// is unreachable.
type Corridor struct {
	Open bool
}

// Generate implements the floor generator contract
func (c Corridor) Generate(seed int64, params dungeon.Params) (*entities.Dungeon, error) {
	b := builders.NewDungeonBuilder(5, 3).
		WithFloor(1, 1, 3).
		WithEntry(entities.Position{X: 1, Y: 1}).
		WithSeed(seed, params.Depth)
	if c.Open {
		return b.WithExit(entities.Position{X: 2, Y: 1}).Build(), nil
	}
	return b.WithWall(entities.Position{X: 2, Y: 1}).
		WithExit(entities.Position{X: 3, Y: 1}).
		Build(), nil
}

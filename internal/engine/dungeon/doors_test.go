package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// walledRoom is a 4x3 room at (3,3) on a 10x10 wall grid
func walledRoom() *entities.Dungeon {
	d := entities.NewDungeon(10, 10)
	room := entities.Rect{X: 3, Y: 3, W: 4, H: 3}
	for _, p := range room.Tiles() {
		d.Set(p, entities.TileFloor)
	}
	d.Rooms = []entities.Room{{ID: 0, Bounds: room, Center: room.Center()}}
	return d
}

func carve(d *entities.Dungeon, tiles ...entities.Position) {
	for _, p := range tiles {
		d.Set(p, entities.TileFloor)
	}
}

func column(x, fromY, toY int) []entities.Position {
	var out []entities.Position
	for y := fromY; y <= toY; y++ {
		out = append(out, entities.Position{X: x, Y: y})
	}
	return out
}

func TestPlaceDoorsMarksWholeDoorway(t *testing.T) {
	testCases := []struct {
		name  string
		width int
		cols  []int
	}{
		{name: "single", width: 1, cols: []int{4}},
		{name: "double", width: 2, cols: []int{4, 5}},
		{name: "triple", width: 3, cols: []int{3, 4, 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := walledRoom()
			var want []entities.Position
			for _, x := range tc.cols {
				// corridor runs north out of the top wall at y=2
				carve(d, column(x, 0, 2)...)
				want = append(want, entities.Position{X: x, Y: 2})
			}

			placeDoors(d, tc.width)

			require.Len(t, d.Rooms[0].Doors, len(tc.cols))
			assert.ElementsMatch(t, want, d.Rooms[0].Doors)
			for _, p := range want {
				assert.Equal(t, entities.TileDoor, d.At(p))
			}
		})
	}
}

func TestPlaceDoorsSkipsNonDoorways(t *testing.T) {
	t.Run("wider than a corridor", func(t *testing.T) {
		d := walledRoom()
		for x := 3; x <= 5; x++ {
			carve(d, column(x, 0, 2)...)
		}
		placeDoors(d, 2)
		assert.Empty(t, d.Rooms[0].Doors)
	})

	t.Run("corridor along the wall", func(t *testing.T) {
		d := walledRoom()
		// the top ring is carved end to end, corners included
		for x := 2; x <= 7; x++ {
			carve(d, entities.Position{X: x, Y: 2}, entities.Position{X: x, Y: 1})
		}
		placeDoors(d, 2)
		assert.Empty(t, d.Rooms[0].Doors)
	})

	t.Run("dead end in the wall", func(t *testing.T) {
		d := walledRoom()
		carve(d, entities.Position{X: 4, Y: 2})
		placeDoors(d, 1)
		assert.Empty(t, d.Rooms[0].Doors)
	})
}

// Package spatial answers visibility and path distance questions on a
// dungeon grid.
package spatial

import (
	toolkitspatial "github.com/KirkDiggler/rpg-toolkit/tools/spatial"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// grid mirrors the dungeon bounds as an rpg-toolkit square grid. The toolkit
// knows nothing about tiles; it supplies the Bresenham path and the dungeon
// decides what blocks it.
func grid(d *entities.Dungeon) *toolkitspatial.SquareGrid {
	return toolkitspatial.NewSquareGrid(toolkitspatial.SquareGridConfig{
		Width:  float64(d.Width),
		Height: float64(d.Height),
	})
}

// LineOfSight walks the line from a to b. Walls and closed doors between the
// endpoints block it; the endpoints themselves never do.
func LineOfSight(d *entities.Dungeon, a, b entities.Position) bool {
	if a == b {
		return true
	}

	path := grid(d).GetLineOfSight(toToolkit(a), toToolkit(b))
	for _, tp := range path {
		p := fromToolkit(tp)
		if p != a && p != b && d.BlocksSight(p) {
			return false
		}
	}
	return true
}

// CanSee combines a Euclidean radius check with line of sight
func CanSee(d *entities.Dungeon, from, to entities.Position, radius float64) bool {
	if from.Distance(to) > radius {
		return false
	}
	return LineOfSight(d, from, to)
}

func toToolkit(p entities.Position) toolkitspatial.Position {
	return toolkitspatial.Position{X: float64(p.X), Y: float64(p.Y)}
}

func fromToolkit(p toolkitspatial.Position) entities.Position {
	return entities.Position{X: int(p.X), Y: int(p.Y)}
}

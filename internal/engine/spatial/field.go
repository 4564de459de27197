package spatial

import "github.com/KirkDiggler/rpg-dungeon/internal/entities"

// Unreachable marks tiles the field never reached
const Unreachable = -1

// DistanceField holds the eight-way step count from every tile to a goal.
// Diagonal steps that would cut a wall corner are not allowed.
type DistanceField struct {
	Width  int
	Height int
	Goal   entities.Position
	steps  []int
}

// NewDistanceField runs a breadth-first flood outward from goal
func NewDistanceField(d *entities.Dungeon, goal entities.Position) *DistanceField {
	f := &DistanceField{
		Width:  d.Width,
		Height: d.Height,
		Goal:   goal,
		steps:  make([]int, d.Width*d.Height),
	}
	for i := range f.steps {
		f.steps[i] = Unreachable
	}
	if !d.Walkable(goal) {
		return f
	}

	f.steps[f.index(goal)] = 0
	queue := []entities.Position{goal}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		next := f.steps[f.index(p)] + 1
		for _, dir := range entities.Directions {
			// steps are symmetric so walking the goal outward is the same as
			// walking toward it
			if !d.CanStep(p, dir) {
				continue
			}
			n := p.Add(dir)
			idx := f.index(n)
			if f.steps[idx] != Unreachable {
				continue
			}
			f.steps[idx] = next
			queue = append(queue, n)
		}
	}
	return f
}

// At returns the step count from p to the goal, or Unreachable
func (f *DistanceField) At(p entities.Position) int {
	if p.X < 0 || p.Y < 0 || p.X >= f.Width || p.Y >= f.Height {
		return Unreachable
	}
	return f.steps[f.index(p)]
}

// Reachable reports whether p has a path to the goal
func (f *DistanceField) Reachable(p entities.Position) bool {
	return f.At(p) != Unreachable
}

func (f *DistanceField) index(p entities.Position) int {
	return p.Y*f.Width + p.X
}

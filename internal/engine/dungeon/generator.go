// Package dungeon generates connected room-and-corridor floors from a seed.
//
// Generation draws layout decisions from the "layout" fork of the seed and
// spawn decisions from the "spawns" fork, so tuning spawn densities never
// changes the shape of a floor.
package dungeon

import (
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/rng"
)

// RNG stream labels
const (
	StreamLayout = "layout"
	StreamSpawns = "spawns"
)

// Config holds the generator's dependencies
type Config struct {
	Logger logrus.FieldLogger
}

// Generator builds dungeons. It holds no per-dungeon state and is safe to
// share.
type Generator struct {
	log logrus.FieldLogger
}

// NewGenerator creates a generator. A nil config is allowed.
func NewGenerator(cfg *Config) *Generator {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Generator{
		log: logger.OrDiscard(cfg.Logger).WithField("component", "dungeon_generator"),
	}
}

// Generate is shorthand for a generator without logging
func Generate(seed int64, params Params) (*entities.Dungeon, error) {
	return NewGenerator(nil).Generate(seed, params)
}

// Generate builds a floor. It fails with GenerationFailed when the rooms
// cannot be placed within the attempt budget; the caller may retry with a
// fresh seed or relaxed params.
func (g *Generator) Generate(seed int64, params Params) (*entities.Dungeon, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid generation params")
	}

	master := rng.New(seed)
	layout := master.Fork(StreamLayout)
	spawns := master.Fork(StreamSpawns)

	log := g.log.WithFields(logrus.Fields{
		"seed":  seed,
		"depth": params.Depth,
	})

	rects, attempts, err := placeRooms(layout, params)
	if err != nil {
		log.WithField("attempts", attempts).WithError(err).Debug("room placement failed")
		return nil, err
	}

	d := entities.NewDungeon(params.Width, params.Height)
	d.Seed = seed
	d.Depth = params.Depth
	for i, r := range rects {
		for _, p := range r.Tiles() {
			d.Set(p, entities.TileFloor)
		}
		d.Rooms = append(d.Rooms, entities.Room{ID: i, Bounds: r, Center: r.Center()})
	}

	d.Edges = connectRooms(rects, layout, params.ExtraEdges)
	for _, e := range d.Edges {
		carveCorridor(d, rects[e.A].Center(), rects[e.B].Center(), params.CorridorWidth, layout.Chance(0.5))
	}
	placeDoors(d, params.CorridorWidth)

	d.Entry = d.Rooms[0].Center
	d.Set(d.Entry, entities.TileStairsUp)
	exitRoom := farthestRoom(d)
	d.Exit = d.Rooms[exitRoom].Center
	d.Set(d.Exit, entities.TileStairsDown)

	d.Spawns = append(d.Spawns, entities.SpawnPoint{Kind: entities.SpawnPlayerStart, Pos: d.Entry, Room: 0})
	placeSpawns(d, spawns, params)

	if bad := d.Unreachable(); len(bad) > 0 {
		return nil, errors.Internalf("generated dungeon has %d unreachable tiles, first at %v", len(bad), bad[0])
	}

	log.WithFields(logrus.Fields{
		"rooms":    len(d.Rooms),
		"edges":    len(d.Edges),
		"attempts": attempts,
		"spawns":   len(d.Spawns),
	}).Debug("dungeon generated")

	return d, nil
}

// placeRooms drops random rectangles until the target count is reached.
// After PlacementAttempts consecutive rejections the largest allowed room
// size drops by one; dropping below MinRoomSize or spending MaxAttempts
// gives up.
func placeRooms(layout *rng.Stream, p Params) ([]entities.Rect, int, error) {
	var rooms []entities.Rect
	size := p.MaxRoomSize
	failures := 0
	attempts := 0

	for len(rooms) < p.TargetRoomCount {
		if attempts >= p.MaxAttempts {
			return nil, attempts, errors.GenerationFailed("room placement budget exhausted").
				WithMeta("placed", len(rooms)).
				WithMeta("target", p.TargetRoomCount)
		}
		attempts++

		w := layout.NextInt(p.MinRoomSize, size+1)
		h := layout.NextInt(p.MinRoomSize, size+1)
		// interior stays off the outer ring so every room is walled in
		r := entities.Rect{
			X: layout.NextInt(1, p.Width-w),
			Y: layout.NextInt(1, p.Height-h),
			W: w,
			H: h,
		}

		if fits(r, p) && !overlapsAny(r, rooms) {
			rooms = append(rooms, r)
			failures = 0
			continue
		}

		failures++
		if failures >= p.PlacementAttempts {
			failures = 0
			size--
			if size < p.MinRoomSize {
				return nil, attempts, errors.GenerationFailed("rooms do not fit even at minimum size").
					WithMeta("placed", len(rooms)).
					WithMeta("target", p.TargetRoomCount)
			}
		}
	}
	return rooms, attempts, nil
}

func fits(r entities.Rect, p Params) bool {
	return r.X >= 1 && r.Y >= 1 && r.X+r.W <= p.Width-1 && r.Y+r.H <= p.Height-1
}

// overlapsAny keeps at least one wall tile between any two rooms
func overlapsAny(r entities.Rect, rooms []entities.Rect) bool {
	grown := r.Expand(1)
	for _, o := range rooms {
		if grown.Intersects(o) {
			return true
		}
	}
	return false
}

// connectRooms links every room into one tree by repeatedly joining the
// nearest unconnected room to the connected set, then adds up to extra loop
// edges chosen among the shortest remaining pairs.
func connectRooms(rects []entities.Rect, layout *rng.Stream, extra int) []entities.Edge {
	n := len(rects)
	linked := make([]bool, n)
	linked[0] = true
	var edges []entities.Edge

	for len(edges) < n-1 {
		bestA, bestB, bestDist := -1, -1, math.MaxInt
		for a := 0; a < n; a++ {
			if !linked[a] {
				continue
			}
			for b := 0; b < n; b++ {
				if linked[b] {
					continue
				}
				if dist := distSq(rects[a].Center(), rects[b].Center()); dist < bestDist {
					bestA, bestB, bestDist = a, b, dist
				}
			}
		}
		linked[bestB] = true
		edges = append(edges, entities.Edge{A: bestA, B: bestB})
	}

	type pair struct {
		a, b, dist int
	}
	var candidates []pair
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if hasEdge(edges, a, b) {
				continue
			}
			candidates = append(candidates, pair{a: a, b: b, dist: distSq(rects[a].Center(), rects[b].Center())})
		}
	}
	slices.SortStableFunc(candidates, func(x, y pair) int { return x.dist - y.dist })

	for i := 0; i < extra && len(candidates) > 0; i++ {
		pick := layout.NextInt(0, min(3, len(candidates)))
		c := candidates[pick]
		candidates = slices.Delete(candidates, pick, pick+1)
		edges = append(edges, entities.Edge{A: c.a, B: c.b})
	}
	return edges
}

func hasEdge(edges []entities.Edge, a, b int) bool {
	for _, e := range edges {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return true
		}
	}
	return false
}

func distSq(a, b entities.Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// carveCorridor digs an L shaped path between two centers. Only wall tiles
// change; the outer ring of the map is never touched.
func carveCorridor(d *entities.Dungeon, from, to entities.Position, width int, horizontalFirst bool) {
	corner := entities.Position{X: from.X, Y: to.Y}
	if horizontalFirst {
		corner = entities.Position{X: to.X, Y: from.Y}
	}
	carveLine(d, from, corner, width)
	carveLine(d, corner, to, width)
}

func carveLine(d *entities.Dungeon, from, to entities.Position, width int) {
	step := entities.Position{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
	p := from
	for {
		for dy := 0; dy < width; dy++ {
			for dx := 0; dx < width; dx++ {
				t := entities.Position{X: p.X + dx, Y: p.Y + dy}
				if t.X < 1 || t.Y < 1 || t.X > d.Width-2 || t.Y > d.Height-2 {
					continue
				}
				if d.At(t) == entities.TileWall {
					d.Set(t, entities.TileFloor)
				}
			}
		}
		if p == to {
			return
		}
		p = p.Add(step)
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// wallSide is one side of a room's wall ring, corners excluded, ordered
// along the wall
type wallSide struct {
	tiles  []entities.Position
	across entities.Position
	along  entities.Position
}

func wallSides(b entities.Rect) []wallSide {
	vertical := entities.Position{X: 0, Y: 1}
	horizontal := entities.Position{X: 1, Y: 0}
	top := wallSide{across: vertical, along: horizontal}
	bottom := wallSide{across: vertical, along: horizontal}
	for x := b.X; x < b.X+b.W; x++ {
		top.tiles = append(top.tiles, entities.Position{X: x, Y: b.Y - 1})
		bottom.tiles = append(bottom.tiles, entities.Position{X: x, Y: b.Y + b.H})
	}
	left := wallSide{across: horizontal, along: vertical}
	right := wallSide{across: horizontal, along: vertical}
	for y := b.Y; y < b.Y+b.H; y++ {
		left.tiles = append(left.tiles, entities.Position{X: b.X - 1, Y: y})
		right.tiles = append(right.tiles, entities.Position{X: b.X + b.W, Y: y})
	}
	return []wallSide{top, bottom, left, right}
}

// placeDoors marks doorways. A doorway is a run of carved tiles on one side
// of a room's wall ring, each walkable on both sides across the wall, no
// longer than a corridor is wide and closed off by wall at both ends. Every
// tile of the run becomes a door.
func placeDoors(d *entities.Dungeon, width int) {
	for i := range d.Rooms {
		room := &d.Rooms[i]
		for _, side := range wallSides(room.Bounds) {
			var run []entities.Position
			flush := func() {
				if isDoorway(d, run, side.along, width) {
					for _, p := range run {
						d.Set(p, entities.TileDoor)
						room.Doors = append(room.Doors, p)
					}
				}
				run = run[:0]
			}
			for _, p := range side.tiles {
				if crossesWall(d, p, side.across) {
					run = append(run, p)
					continue
				}
				flush()
			}
			flush()
		}
	}
}

func crossesWall(d *entities.Dungeon, p, across entities.Position) bool {
	tile := d.At(p)
	if tile != entities.TileFloor && tile != entities.TileDoor {
		return false
	}
	return d.Walkable(p.Add(across)) && d.Walkable(p.Sub(across))
}

func isDoorway(d *entities.Dungeon, run []entities.Position, along entities.Position, width int) bool {
	if len(run) == 0 || len(run) > width {
		return false
	}
	return !d.Walkable(run[0].Sub(along)) && !d.Walkable(run[len(run)-1].Add(along))
}

// farthestRoom picks the exit room: greatest hop count from room 0 over the
// room graph, then greatest Euclidean distance, then highest index
func farthestRoom(d *entities.Dungeon) int {
	n := len(d.Rooms)
	hops := make([]int, n)
	for i := range hops {
		hops[i] = -1
	}
	hops[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range d.Edges {
			next := -1
			switch cur {
			case e.A:
				next = e.B
			case e.B:
				next = e.A
			}
			if next >= 0 && hops[next] < 0 {
				hops[next] = hops[cur] + 1
				queue = append(queue, next)
			}
		}
	}

	best := 1
	for i := 1; i < n; i++ {
		switch {
		case hops[i] > hops[best]:
			best = i
		case hops[i] == hops[best]:
			di := distSq(d.Rooms[i].Center, d.Rooms[0].Center)
			db := distSq(d.Rooms[best].Center, d.Rooms[0].Center)
			if di >= db {
				best = i
			}
		}
	}
	return best
}

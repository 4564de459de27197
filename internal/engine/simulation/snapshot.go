package simulation

import (
	"slices"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// EntityState is the public view of one entity
type EntityState struct {
	ID         entities.EntityID `json:"id"`
	Kind       string            `json:"kind"`
	Glyph      string            `json:"glyph"`
	Pos        entities.Position `json:"pos"`
	HP         int               `json:"hp"`
	MaxHP      int               `json:"max_hp"`
	Corruption int               `json:"corruption"`
	Tags       []string          `json:"tags,omitempty"`
	AIState    string            `json:"ai_state,omitempty"`
}

// ItemState is an item lying on the floor
type ItemState struct {
	Kind string            `json:"kind"`
	Pos  entities.Position `json:"pos"`
}

// Snapshot is the per-tick view handed to renderers
type Snapshot struct {
	RunID    string        `json:"run_id"`
	Tick     int           `json:"tick"`
	Depth    int           `json:"depth"`
	Status   string        `json:"status"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Tiles    []string      `json:"tiles"`
	Entities []EntityState `json:"entities"`
	Items    []ItemState   `json:"items,omitempty"`
	Currency int           `json:"currency"`
	Kills    int           `json:"kills"`
}

// Snapshot captures the current floor and entity states. Tiles are one
// string per row using tile glyphs.
func (r *Run) Snapshot() *Snapshot {
	d := r.dungeon
	rows := make([]string, d.Height)
	for y := 0; y < d.Height; y++ {
		row := make([]rune, d.Width)
		for x := 0; x < d.Width; x++ {
			row[x] = d.At(entities.Position{X: x, Y: y}).Glyph()
		}
		rows[y] = string(row)
	}

	states := make([]EntityState, 0, r.registry.len())
	for _, e := range r.registry.ordered() {
		state := EntityState{
			ID:         e.ID,
			Kind:       e.Kind.String(),
			Glyph:      string(entities.Profile(e.Kind).Glyph),
			Pos:        e.Pos,
			HP:         e.HP,
			MaxHP:      e.MaxHP,
			Corruption: e.Corruption,
			Tags:       e.Tags(),
		}
		if e.AI != nil {
			state.AIState = e.AI.State.String()
		}
		states = append(states, state)
	}

	items := make([]ItemState, 0, len(r.items))
	for p, item := range r.items {
		items = append(items, ItemState{Kind: item.String(), Pos: p})
	}
	slices.SortFunc(items, func(a, b ItemState) int {
		if a.Pos.Y != b.Pos.Y {
			return a.Pos.Y - b.Pos.Y
		}
		return a.Pos.X - b.Pos.X
	})

	return &Snapshot{
		RunID:    r.id,
		Tick:     r.tick,
		Depth:    r.depth,
		Status:   r.status.String(),
		Width:    d.Width,
		Height:   d.Height,
		Tiles:    rows,
		Entities: states,
		Items:    items,
		Currency: r.currency,
		Kills:    r.kills,
	}
}

// Render draws the floor with items and entities on top
func (s *Snapshot) Render() string {
	grid := make([][]rune, len(s.Tiles))
	for y, row := range s.Tiles {
		grid[y] = []rune(row)
	}
	put := func(p entities.Position, glyph string) {
		if p.Y < 0 || p.Y >= len(grid) || p.X < 0 || p.X >= len(grid[p.Y]) || glyph == "" {
			return
		}
		grid[p.Y][p.X] = []rune(glyph)[0]
	}
	for _, it := range s.Items {
		switch it.Kind {
		case entities.ItemPotion.String():
			put(it.Pos, string(entities.ItemPotion.Glyph()))
		case entities.ItemSalt.String():
			put(it.Pos, string(entities.ItemSalt.Glyph()))
		}
	}
	for _, e := range s.Entities {
		put(e.Pos, e.Glyph)
	}

	out := make([]byte, 0, len(s.Tiles)*(s.Width+1))
	for _, row := range grid {
		out = append(out, string(row)...)
		out = append(out, '\n')
	}
	return string(out)
}

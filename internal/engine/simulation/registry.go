package simulation

import (
	"slices"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// registry owns every live entity of a run. Entities refer to each other
// by ID and resolve through it each tick.
type registry struct {
	byID map[entities.EntityID]*entities.Entity
	// ids stays in ascending order; IDs are handed out increasing
	ids  []entities.EntityID
	next entities.EntityID
}

func newRegistry() *registry {
	return &registry{
		byID: make(map[entities.EntityID]*entities.Entity),
		next: 1,
	}
}

// spawn creates an entity with the next free ID
func (r *registry) spawn(kind entities.Kind, pos entities.Position) *entities.Entity {
	e := entities.NewEntity(r.next, kind, pos)
	r.next++
	r.byID[e.ID] = e
	r.ids = append(r.ids, e.ID)
	return e
}

func (r *registry) get(id entities.EntityID) (*entities.Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

func (r *registry) remove(id entities.EntityID) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	r.ids = slices.DeleteFunc(r.ids, func(x entities.EntityID) bool { return x == id })
}

// ordered returns the live entities in ascending ID order
func (r *registry) ordered() []*entities.Entity {
	out := make([]*entities.Entity, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out
}

// at returns the living entity standing on p
func (r *registry) at(p entities.Position) (*entities.Entity, bool) {
	for _, id := range r.ids {
		e := r.byID[id]
		if e.Pos == p && !e.IsDead() {
			return e, true
		}
	}
	return nil, false
}

func (r *registry) len() int {
	return len(r.ids)
}

package dungeon

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/rng"
)

// lootDie is rolled for every item spawn; results up to potionMax are
// potions, the rest purifying salt
const (
	lootDie   = 10
	potionMax = 7
)

// placeSpawns fills every non-entry room with hazards, enemies and items.
// Counts are density x area x difficulty with the fraction rounded
// stochastically. Stairs and doors are never used.
func placeSpawns(d *entities.Dungeon, spawns *rng.Stream, p Params) {
	for i := 1; i < len(d.Rooms); i++ {
		room := d.Rooms[i]
		var free []entities.Position
		for _, t := range room.Bounds.Tiles() {
			if d.At(t) == entities.TileFloor {
				free = append(free, t)
			}
		}
		shuffle(free, spawns)

		area := float64(room.Bounds.Area())
		hazards := stochasticRound(p.HazardDensity*area*p.DifficultyModifier, spawns)
		enemies := stochasticRound(p.EnemyDensity*area*p.DifficultyModifier, spawns)
		items := stochasticRound(p.ItemDensity*area*p.DifficultyModifier, spawns)

		take := func() (entities.Position, bool) {
			if len(free) == 0 {
				return entities.Position{}, false
			}
			t := free[0]
			free = free[1:]
			return t, true
		}

		for n := 0; n < hazards; n++ {
			t, ok := take()
			if !ok {
				break
			}
			d.Set(t, entities.TileHazard)
			d.Spawns = append(d.Spawns, entities.SpawnPoint{Kind: entities.SpawnHazard, Pos: t, Room: i})
		}
		for n := 0; n < enemies; n++ {
			t, ok := take()
			if !ok {
				break
			}
			d.Spawns = append(d.Spawns, entities.SpawnPoint{
				Kind:  entities.SpawnEnemy,
				Pos:   t,
				Room:  i,
				Enemy: pickEnemy(spawns, p.Depth, p.DifficultyModifier),
			})
		}
		for n := 0; n < items; n++ {
			t, ok := take()
			if !ok {
				break
			}
			d.Spawns = append(d.Spawns, entities.SpawnPoint{
				Kind: entities.SpawnItem,
				Pos:  t,
				Room: i,
				Item: rollLoot(spawns),
			})
		}
	}
}

func rollLoot(roller dice.Roller) entities.ItemKind {
	roll, err := roller.Roll(lootDie)
	if err != nil || roll <= potionMax {
		return entities.ItemPotion
	}
	return entities.ItemSalt
}

func shuffle(tiles []entities.Position, src rng.Source) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := src.NextInt(0, i+1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

func stochasticRound(x float64, src rng.Source) int {
	if x <= 0 {
		return 0
	}
	whole := math.Floor(x)
	n := int(whole)
	if src.Next() < x-whole {
		n++
	}
	return n
}

// EnemyWeight is a kind's spawn weight on a floor. Kinds deeper than the
// floor never spawn; kinds gated behind deeper floors grow more common with depth
// and difficulty.
func EnemyWeight(kind entities.Kind, depth int, difficulty float64) float64 {
	p := entities.Profile(kind)
	if depth < p.MinDepth {
		return 0
	}
	w := p.Weight
	if p.MinDepth > 1 {
		w *= difficulty * float64(1+depth-p.MinDepth)
	}
	return w
}

func pickEnemy(src rng.Source, depth int, difficulty float64) entities.Kind {
	total := 0.0
	for _, k := range entities.EnemyKinds {
		total += EnemyWeight(k, depth, difficulty)
	}
	roll := src.Next() * total
	for _, k := range entities.EnemyKinds {
		w := EnemyWeight(k, depth, difficulty)
		if roll < w {
			return k
		}
		roll -= w
	}
	return entities.EnemyKinds[0]
}

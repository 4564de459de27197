// Package ai decides what each enemy does in a tick.
//
// Decide is a pure function of the enemy's own recorded state, the dungeon,
// the player's position and a random source. It never mutates its input, so
// a run can be replayed from its seed.
//
//	Idle      -> Alert      player seen inside the perception radius
//	Alert     -> Chasing    reaction delay elapsed
//	Alert     -> Idle       player left the perception radius
//	Chasing   -> Attacking  player within attack range
//	Chasing   -> Idle       player beyond the leash radius
//	Attacking -> Chasing    player left attack range, still within the leash
//	Chasing/Attacking -> Fleeing  HP fraction below the kind threshold (flee-capable kinds only)
//	Fleeing   -> Idle       player beyond the disengage radius
//	any       -> Dead       HP reached zero
package ai

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/spatial"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/rng"
)

// WanderChance is the chance an Idle enemy takes a random step
const WanderChance = 0.25

// Input is the start-of-tick view an enemy decides from
type Input struct {
	Self      *entities.Entity
	Dungeon   *entities.Dungeon
	PlayerID  entities.EntityID
	PlayerPos entities.Position
	// Field is the distance field toward the player. Computed when nil.
	Field *spatial.DistanceField
	// Occupied reports tiles held by other entities, the player included
	Occupied func(entities.Position) bool
	RNG      rng.Source
}

// Decision is the enemy's next recorded state and the intent it emits
type Decision struct {
	State  entities.AIState
	Intent entities.Intent
}

// Decide runs one step of the enemy state machine
func Decide(in Input) Decision {
	self := in.Self
	if self.AI == nil {
		return Decision{Intent: entities.Wait()}
	}
	if self.IsDead() {
		return Decision{State: entities.AIState{State: entities.AIDead}, Intent: entities.Wait()}
	}

	if in.Field == nil {
		in.Field = spatial.NewDistanceField(in.Dungeon, in.PlayerPos)
	}
	if in.Occupied == nil {
		in.Occupied = func(p entities.Position) bool { return p == in.PlayerPos }
	}

	c := newView(in)
	state := *self.AI

	switch state.State {
	case entities.AIIdle:
		return c.idle()
	case entities.AIAlert:
		return c.alert(state)
	case entities.AIChasing:
		return c.chasing()
	case entities.AIAttacking:
		return c.attacking()
	case entities.AIFleeing:
		return c.fleeing()
	default:
		return Decision{State: state, Intent: entities.Wait()}
	}
}

// view caches the per-decision facts every state needs
type view struct {
	in       Input
	profile  entities.KindProfile
	dist     float64
	sees     bool
	inRange  bool
	fleeable bool
}

func newView(in Input) *view {
	p := entities.Profile(in.Self.Kind)
	return &view{
		in:       in,
		profile:  p,
		dist:     in.Self.Pos.Distance(in.PlayerPos),
		sees:     spatial.CanSee(in.Dungeon, in.Self.Pos, in.PlayerPos, p.Perception),
		inRange:  in.Self.Pos.Chebyshev(in.PlayerPos) <= p.AttackRange,
		fleeable: p.FleeCapable && in.Self.HPFraction() < p.FleeThreshold,
	}
}

func (c *view) idle() Decision {
	if c.sees {
		state := entities.AIState{State: entities.AIAlert, Target: c.in.PlayerID, Delay: c.profile.ReactionDelay}
		if state.Delay <= 0 {
			return c.chasing()
		}
		return Decision{State: state, Intent: entities.Wait()}
	}
	return Decision{State: entities.AIState{State: entities.AIIdle}, Intent: c.wander()}
}

func (c *view) alert(state entities.AIState) Decision {
	if c.dist > c.profile.Perception {
		return Decision{State: entities.AIState{State: entities.AIIdle}, Intent: entities.Wait()}
	}
	state.Delay--
	if state.Delay > 0 {
		return Decision{State: state, Intent: entities.Wait()}
	}
	return c.chasing()
}

func (c *view) chasing() Decision {
	state := entities.AIState{State: entities.AIChasing, Target: c.in.PlayerID}
	switch {
	case c.fleeable:
		return c.fleeing()
	case c.dist > c.profile.LeashRadius():
		return Decision{State: entities.AIState{State: entities.AIIdle}, Intent: entities.Wait()}
	case c.inRange:
		return c.attack()
	}
	if dir, ok := c.stepToward(); ok {
		return Decision{State: state, Intent: entities.Move(dir)}
	}
	return Decision{State: state, Intent: entities.Wait()}
}

func (c *view) attacking() Decision {
	switch {
	case c.fleeable:
		return c.fleeing()
	case c.inRange:
		return c.attack()
	}
	return c.chasing()
}

func (c *view) fleeing() Decision {
	if c.dist > c.profile.DisengageRadius {
		return Decision{State: entities.AIState{State: entities.AIIdle}, Intent: entities.Wait()}
	}
	state := entities.AIState{State: entities.AIFleeing, Target: c.in.PlayerID}
	if dir, ok := c.stepAway(); ok {
		return Decision{State: state, Intent: entities.Move(dir)}
	}
	// cornered
	if c.inRange {
		return Decision{State: state, Intent: entities.Attack(c.in.PlayerID)}
	}
	return Decision{State: state, Intent: entities.Wait()}
}

func (c *view) attack() Decision {
	return Decision{
		State:  entities.AIState{State: entities.AIAttacking, Target: c.in.PlayerID},
		Intent: entities.Attack(c.in.PlayerID),
	}
}

// stepToward picks the legal step with the smallest path distance to the
// player that improves on the current one. Ties go to the smaller Euclidean
// distance, then to direction order.
func (c *view) stepToward() (entities.Position, bool) {
	return c.bestStep(func(cur, next int) bool { return next < cur }, func(a, b step) bool {
		if a.field != b.field {
			return a.field < b.field
		}
		return a.euclid < b.euclid
	})
}

// stepAway picks the legal step with the largest path distance from the
// player that improves on the current one. Ties go to the larger Euclidean
// distance, then to direction order.
func (c *view) stepAway() (entities.Position, bool) {
	return c.bestStep(func(cur, next int) bool { return next > cur }, func(a, b step) bool {
		if a.field != b.field {
			return a.field > b.field
		}
		return a.euclid > b.euclid
	})
}

type step struct {
	dir    entities.Position
	field  int
	euclid float64
}

func (c *view) bestStep(improves func(cur, next int) bool, better func(a, b step) bool) (entities.Position, bool) {
	self := c.in.Self
	cur := c.in.Field.At(self.Pos)
	var best *step
	for _, dir := range entities.Directions {
		if !c.in.Dungeon.CanStep(self.Pos, dir) {
			continue
		}
		next := self.Pos.Add(dir)
		if c.in.Occupied(next) {
			continue
		}
		f := c.in.Field.At(next)
		if f == spatial.Unreachable || (cur != spatial.Unreachable && !improves(cur, f)) {
			continue
		}
		candidate := step{dir: dir, field: f, euclid: next.Distance(c.in.PlayerPos)}
		if best == nil || better(candidate, *best) {
			best = &candidate
		}
	}
	if best == nil {
		return entities.Position{}, false
	}
	return best.dir, true
}

// wander takes a random legal step with probability WanderChance
func (c *view) wander() entities.Intent {
	if c.in.RNG == nil || c.in.RNG.Next() >= WanderChance {
		return entities.Wait()
	}
	start := c.in.RNG.NextInt(0, len(entities.Directions))
	for i := range entities.Directions {
		dir := entities.Directions[(start+i)%len(entities.Directions)]
		if !c.in.Dungeon.CanStep(c.in.Self.Pos, dir) {
			continue
		}
		if c.in.Occupied(c.in.Self.Pos.Add(dir)) {
			continue
		}
		return entities.Move(dir)
	}
	return entities.Wait()
}

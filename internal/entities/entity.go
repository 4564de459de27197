package entities

import (
	"slices"
	"strconv"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityID is a stable per-run handle. Entities refer to each other by ID and
// resolve through the run's registry, never by pointer.
type EntityID int

// NoEntity is the zero ID
const NoEntity EntityID = 0

// AIStateTag is an enemy behaviour state
type AIStateTag uint8

// Enemy behaviour states
const (
	AIIdle AIStateTag = iota
	AIAlert
	AIChasing
	AIAttacking
	AIFleeing
	AIDead
)

func (s AIStateTag) String() string {
	switch s {
	case AIIdle:
		return "idle"
	case AIAlert:
		return "alert"
	case AIChasing:
		return "chasing"
	case AIAttacking:
		return "attacking"
	case AIFleeing:
		return "fleeing"
	case AIDead:
		return "dead"
	default:
		return "unknown"
	}
}

// AIState is everything an enemy remembers between ticks
type AIState struct {
	State  AIStateTag `json:"state"`
	Target EntityID   `json:"target,omitempty"`
	// Delay counts down the reaction ticks while Alert
	Delay int `json:"delay,omitempty"`
}

// Entity is a player or an enemy. Every entity is mortal and can attack;
// entities with AI set are AI controlled.
type Entity struct {
	ID      EntityID `json:"id"`
	Kind    Kind     `json:"kind"`
	Pos     Position `json:"pos"`
	HP      int      `json:"hp"`
	MaxHP   int      `json:"max_hp"`
	Attack  int      `json:"attack"`
	Defense int      `json:"defense"`

	// Corruption is the current level in [0, 100]
	Corruption int `json:"corruption"`
	// Consumed is set once corruption reached 100; the level is then locked
	Consumed bool `json:"consumed,omitempty"`
	// Thresholds lists corruption thresholds already fired this run
	Thresholds []int `json:"thresholds,omitempty"`
	// PendingThresholds were crossed but their effects are not applied yet
	PendingThresholds []int `json:"pending_thresholds,omitempty"`
	// Mutations are visual tags for the rendering layer
	Mutations []string `json:"mutations,omitempty"`

	Statuses []StatusEffect `json:"statuses,omitempty"`

	AI *AIState `json:"ai,omitempty"`

	Inventory []ItemKind `json:"inventory,omitempty"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
}

// Ensure Entity can travel on the rpg-toolkit event bus
var _ core.Entity = (*Entity)(nil)

// NewEntity creates an entity with the stats of its kind profile. Enemies
// start Idle.
func NewEntity(id EntityID, kind Kind, pos Position) *Entity {
	p := Profile(kind)
	e := &Entity{
		ID:      id,
		Kind:    kind,
		Pos:     pos,
		HP:      p.MaxHP,
		MaxHP:   p.MaxHP,
		Attack:  p.Attack,
		Defense: p.Defense,
	}
	if kind.IsEnemy() {
		e.AI = &AIState{State: AIIdle}
	}
	return e
}

// GetID implements core.Entity
func (e *Entity) GetID() string {
	return strconv.Itoa(int(e.ID))
}

// GetType implements core.Entity
func (e *Entity) GetType() string {
	return e.Kind.String()
}

// IsPlayer reports whether this is the player
func (e *Entity) IsPlayer() bool {
	return e.Kind == KindPlayer
}

// IsDead reports whether HP reached zero
func (e *Entity) IsDead() bool {
	return e.HP <= 0
}

// ApplyDamage subtracts n from HP, clamped at zero. Negative amounts are
// ignored. Returns the new HP.
func (e *Entity) ApplyDamage(n int) int {
	if n > 0 {
		e.HP = max(0, e.HP-n)
	}
	return e.HP
}

// Heal adds n to HP, clamped at MaxHP. The dead stay dead.
func (e *Entity) Heal(n int) int {
	if n <= 0 || e.IsDead() {
		return e.HP
	}
	e.HP = min(e.MaxHP, e.HP+n)
	return e.HP
}

// AdjustMaxHP changes MaxHP by delta, never below 1, and clamps HP to it
func (e *Entity) AdjustMaxHP(delta int) {
	e.MaxHP = max(1, e.MaxHP+delta)
	e.HP = min(e.HP, e.MaxHP)
}

// HPFraction is HP / MaxHP
func (e *Entity) HPFraction() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return float64(e.HP) / float64(e.MaxHP)
}

// AddStatusEffect merges an effect into the status set.
// Stunned and Buffed refresh to the longer duration and never stack.
// Poisoned adds stacks up to MaxPoisonStacks and refreshes duration.
// Corrupted accumulates its level without a cap and never expires.
func (e *Entity) AddStatusEffect(effect StatusEffect) {
	for i := range e.Statuses {
		cur := &e.Statuses[i]
		if !cur.sameSlot(effect) {
			continue
		}
		switch effect.Kind {
		case StatusCorrupted:
			cur.Level += max(0, effect.Level)
		case StatusPoisoned:
			cur.Stacks = min(MaxPoisonStacks, cur.Stacks+effect.Stacks)
			cur.Ticks = max(cur.Ticks, effect.Ticks)
		case StatusStunned:
			cur.Ticks = max(cur.Ticks, effect.Ticks)
		case StatusBuffed:
			cur.Ticks = max(cur.Ticks, effect.Ticks)
			cur.Amount = max(cur.Amount, effect.Amount)
		}
		return
	}

	switch effect.Kind {
	case StatusCorrupted:
		effect.Level = max(0, effect.Level)
	case StatusPoisoned:
		effect.Stacks = min(MaxPoisonStacks, max(1, effect.Stacks))
		if effect.Ticks <= 0 {
			return
		}
	default:
		if effect.Ticks <= 0 {
			return
		}
	}
	e.Statuses = append(e.Statuses, effect)
}

// Status returns the effect occupying kind's slot, if any. For Buffed the
// first buff found is returned.
func (e *Entity) Status(kind StatusKind) (StatusEffect, bool) {
	for _, s := range e.Statuses {
		if s.Kind == kind {
			return s, true
		}
	}
	return StatusEffect{}, false
}

// TickStatuses runs one status phase: poison deals its damage, timed
// effects lose a tick, and expired effects are pruned.
func (e *Entity) TickStatuses() StatusTick {
	var out StatusTick
	kept := e.Statuses[:0]
	for _, s := range e.Statuses {
		if s.Kind == StatusCorrupted {
			kept = append(kept, s)
			continue
		}
		if s.Kind == StatusPoisoned {
			out.PoisonDamage += s.Stacks * PoisonDamagePerStack
		}
		s.Ticks--
		if s.Ticks <= 0 {
			out.Expired = append(out.Expired, s.Kind)
			continue
		}
		kept = append(kept, s)
	}
	e.Statuses = kept
	if out.PoisonDamage > 0 {
		e.ApplyDamage(out.PoisonDamage)
	}
	return out
}

// IsStunned reports whether the entity loses its action this tick
func (e *Entity) IsStunned() bool {
	_, ok := e.Status(StatusStunned)
	return ok
}

func (e *Entity) buff(stat Stat) int {
	total := 0
	for _, s := range e.Statuses {
		if s.Kind == StatusBuffed && s.Stat == stat {
			total += s.Amount
		}
	}
	return total
}

// EffectiveAttack is base attack plus attack buffs, never negative
func (e *Entity) EffectiveAttack() int {
	return max(0, e.Attack+e.buff(StatAttack))
}

// EffectiveDefense is base defense plus defense buffs, never negative
func (e *Entity) EffectiveDefense() int {
	return max(0, e.Defense+e.buff(StatDefense))
}

// CritBonus is the extra crit chance in percentage points
func (e *Entity) CritBonus() int {
	return e.buff(StatCrit)
}

// HasFired reports whether a corruption threshold already fired this run
func (e *Entity) HasFired(threshold int) bool {
	return slices.Contains(e.Thresholds, threshold) || slices.Contains(e.PendingThresholds, threshold)
}

// AddItem puts an item in the inventory
func (e *Entity) AddItem(item ItemKind) {
	e.Inventory = append(e.Inventory, item)
}

// TakeItem removes one item of a kind and reports whether one was held
func (e *Entity) TakeItem(item ItemKind) bool {
	i := slices.Index(e.Inventory, item)
	if i < 0 {
		return false
	}
	e.Inventory = slices.Delete(e.Inventory, i, i+1)
	return true
}

// Tags lists the status and mutation tags shown to observers, statuses first
func (e *Entity) Tags() []string {
	tags := make([]string, 0, len(e.Statuses)+len(e.Mutations))
	for _, s := range e.Statuses {
		tag := s.Kind.String()
		if s.Kind == StatusBuffed {
			tag += ":" + s.Stat.String()
		}
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return append(tags, e.Mutations...)
}

// Clone returns a deep copy
func (e *Entity) Clone() *Entity {
	c := *e
	c.Thresholds = slices.Clone(e.Thresholds)
	c.PendingThresholds = slices.Clone(e.PendingThresholds)
	c.Mutations = slices.Clone(e.Mutations)
	c.Statuses = slices.Clone(e.Statuses)
	c.Inventory = slices.Clone(e.Inventory)
	c.Modifiers = slices.Clone(e.Modifiers)
	if e.AI != nil {
		ai := *e.AI
		c.AI = &ai
	}
	return &c
}

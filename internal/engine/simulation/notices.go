package simulation

import (
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/corruption"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// Event types published on the run's event bus
const (
	EventCombat    = "dungeon.combat"
	EventThreshold = "dungeon.corruption.threshold"
	EventDeath     = "dungeon.death"
	EventDescend   = "dungeon.descend"
	EventRunEnd    = "dungeon.run.end"
)

// CombatNotice carries one resolved attack
type CombatNotice struct {
	*events.GameEvent
	RunID  string
	Combat entities.CombatEvent
}

// ThresholdNotice reports a corruption mutation that took effect
type ThresholdNotice struct {
	*events.GameEvent
	RunID     string
	Tick      int
	Threshold corruption.ThresholdEvent
}

// DeathNotice reports an entity removed in cleanup
type DeathNotice struct {
	*events.GameEvent
	RunID  string
	Tick   int
	Entity entities.EntityID
	Kind   entities.Kind
	// Killer is NoEntity for deaths to poison or hazards
	Killer entities.EntityID
}

// DescendNotice reports the player reaching a new floor
type DescendNotice struct {
	*events.GameEvent
	RunID string
	Tick  int
	Depth int
	Seed  int64
}

// RunEndNotice is published once when the run finishes
type RunEndNotice struct {
	*events.GameEvent
	Outcome entities.RunOutcome
}

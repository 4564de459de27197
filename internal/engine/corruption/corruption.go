// Package corruption tracks the cumulative corruption level of entities and
// applies the mutation attached to each threshold.
//
// Crossing a threshold is recorded immediately by Apply but its effect waits
// for Settle, which the tick loop runs in its threshold phase. Each threshold
// fires at most once per run even if a cure drops the level back below it.
// Reaching 100 is a forced transformation, never death.
package corruption

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
)

// MaxLevel is the corruption cap
const MaxLevel = 100

// ConsumedAttackMultiplier scales attack on transformation
const ConsumedAttackMultiplier = 1.5

// Threshold is a one-time mutation fired when corruption rises to Level
type Threshold struct {
	Level        int
	Name         string
	AttackDelta  int
	DefenseDelta int
	MaxHPDelta   int
	// Tag is the visual mutation handed to the renderer
	Tag string
	// Consume marks the terminal transformation
	Consume bool
}

// DefaultThresholds are ordered by level
var DefaultThresholds = []Threshold{
	{Level: 25, Name: "tainted", AttackDelta: 2, DefenseDelta: -1, Tag: "veins"},
	{Level: 50, Name: "warped", DefenseDelta: 2, Tag: "eyes"},
	{Level: 75, Name: "twisted", AttackDelta: 3, MaxHPDelta: -10, Tag: "horns"},
	{Level: 100, Name: "consumed", Tag: "consumed", Consume: true},
}

// ThresholdEvent reports a settled threshold
type ThresholdEvent struct {
	Entity    entities.EntityID
	Threshold Threshold
	// Level is the entity's corruption when the effect landed
	Level int
}

// Config holds the system's dependencies
type Config struct {
	Logger logrus.FieldLogger
	// Thresholds overrides DefaultThresholds; must be sorted by level
	Thresholds []Threshold
}

// System applies corruption and its thresholds
type System struct {
	log        logrus.FieldLogger
	thresholds []Threshold
}

// NewSystem creates a corruption system. A nil config uses the defaults.
func NewSystem(cfg *Config) *System {
	if cfg == nil {
		cfg = &Config{}
	}
	thresholds := cfg.Thresholds
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	return &System{
		log:        logger.OrDiscard(cfg.Logger).WithField("component", "corruption"),
		thresholds: thresholds,
	}
}

// Thresholds returns the configured thresholds
func (s *System) Thresholds() []Threshold {
	return s.thresholds
}

// Apply raises e's corruption by amount, capped at MaxLevel, and returns the
// thresholds newly crossed. Their effects are queued until Settle. Consumed
// entities are locked and ignore further corruption.
func (s *System) Apply(e *entities.Entity, amount int) []Threshold {
	if amount <= 0 || e.Consumed {
		return nil
	}

	before := e.Corruption
	e.Corruption = min(MaxLevel, before+amount)
	e.AddStatusEffect(entities.Corrupted(amount))

	var crossed []Threshold
	for _, t := range s.thresholds {
		if t.Level > before && t.Level <= e.Corruption && !e.HasFired(t.Level) {
			e.PendingThresholds = append(e.PendingThresholds, t.Level)
			crossed = append(crossed, t)
		}
	}

	if len(crossed) > 0 {
		s.log.WithFields(logrus.Fields{
			"entity_id": e.ID,
			"level":     e.Corruption,
			"crossed":   len(crossed),
		}).Debug("corruption threshold crossed")
	}
	return crossed
}

// Cure lowers e's corruption by amount, floored at zero, and returns the new
// level. Consumed entities cannot be cured.
func (s *System) Cure(e *entities.Entity, amount int) int {
	if amount <= 0 || e.Consumed {
		return e.Corruption
	}
	e.Corruption = max(0, e.Corruption-amount)
	return e.Corruption
}

// Settle applies every pending threshold effect in level order and marks
// the thresholds fired
func (s *System) Settle(e *entities.Entity) []ThresholdEvent {
	if len(e.PendingThresholds) == 0 {
		return nil
	}

	var out []ThresholdEvent
	for _, level := range e.PendingThresholds {
		t, ok := s.lookup(level)
		if !ok {
			continue
		}
		s.mutate(e, t)
		e.Thresholds = append(e.Thresholds, level)
		out = append(out, ThresholdEvent{Entity: e.ID, Threshold: t, Level: e.Corruption})
	}
	e.PendingThresholds = nil
	return out
}

func (s *System) mutate(e *entities.Entity, t Threshold) {
	e.Attack = max(0, e.Attack+t.AttackDelta)
	e.Defense = max(0, e.Defense+t.DefenseDelta)
	if t.MaxHPDelta != 0 {
		e.AdjustMaxHP(t.MaxHPDelta)
	}
	if t.Tag != "" {
		e.Mutations = append(e.Mutations, t.Tag)
	}
	if t.Consume {
		e.Attack = int(math.Round(float64(e.Attack) * ConsumedAttackMultiplier))
		e.Defense = 0
		e.Corruption = MaxLevel
		e.Consumed = true
	}

	s.log.WithFields(logrus.Fields{
		"entity_id": e.ID,
		"threshold": t.Name,
	}).Info("corruption mutation applied")
}

func (s *System) lookup(level int) (Threshold, bool) {
	for _, t := range s.thresholds {
		if t.Level == level {
			return t, true
		}
	}
	return Threshold{}, false
}

// Package combat resolves a single attack between two entities.
//
// Damage model:
//
//	raw       = effective attack x variance, variance uniform in [VarianceMin, VarianceMax]
//	mitigated = max(1, round((raw - defense x MitigationFactor) x crit))   when raw > 0
//	crit      = CritMultiplier when a d100 rolls at most BaseCritChance (as a percent) + attacker crit buffs, else 1
//
// The floor of 1 means defense can blunt a hit but never nullify it.
package combat

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/corruption"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/rng"
)

// Tuning constants
const (
	VarianceMin      = 0.85
	VarianceMax      = 1.15
	MitigationFactor = 0.5
	BaseCritChance   = 0.05
	CritMultiplier   = 1.5

	critDie = 100
)

// VarianceFunc produces the raw damage multiplier for one attack
type VarianceFunc func(src rng.Source) float64

// UniformVariance draws from [VarianceMin, VarianceMax)
func UniformVariance(src rng.Source) float64 {
	return VarianceMin + src.Next()*(VarianceMax-VarianceMin)
}

// FixedVariance always returns v without drawing
func FixedVariance(v float64) VarianceFunc {
	return func(rng.Source) float64 { return v }
}

// Config holds the resolver's dependencies and tuning
type Config struct {
	// Corruption receives on-hit corruption
	Corruption *corruption.System
	Logger     logrus.FieldLogger
	// Variance defaults to UniformVariance
	Variance VarianceFunc
	// MitigationFactor defaults to the package constant when zero
	MitigationFactor float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Corruption == nil {
		vb.RequiredField("Corruption")
	}
	if c.MitigationFactor < 0 {
		vb.Field("MitigationFactor", "must not be negative")
	}

	return vb.Build()
}

// Resolver turns attack intents into combat events
type Resolver struct {
	corruption *corruption.System
	log        logrus.FieldLogger
	variance   VarianceFunc
	mitigation float64
}

// NewResolver creates a resolver
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	variance := cfg.Variance
	if variance == nil {
		variance = UniformVariance
	}
	mitigation := cfg.MitigationFactor
	if mitigation == 0 {
		mitigation = MitigationFactor
	}

	return &Resolver{
		corruption: cfg.Corruption,
		log:        logger.OrDiscard(cfg.Logger).WithField("component", "combat"),
		variance:   variance,
		mitigation: mitigation,
	}, nil
}

// ResolveAttack applies one attack from attacker to defender. Damage lands
// through the defender's mutators and on-hit effects of the attacker's kind
// follow. A lethal hit is flagged but the defender stays in place; removal is
// the tick loop's job. Dead participants yield InvalidEntityReference.
func (r *Resolver) ResolveAttack(attacker, defender *entities.Entity, src rng.Source) (entities.CombatEvent, error) {
	if attacker == nil || defender == nil {
		return entities.CombatEvent{}, errors.InvalidEntityReference("attack needs both an attacker and a defender")
	}
	if attacker.IsDead() {
		return entities.CombatEvent{}, errors.InvalidEntityReference(
			fmt.Sprintf("attacker %d is dead", attacker.ID))
	}
	if defender.IsDead() {
		return entities.CombatEvent{}, errors.InvalidEntityReference(
			fmt.Sprintf("defender %d is dead", defender.ID))
	}

	raw := float64(attacker.EffectiveAttack()) * r.variance(src)
	critPercent := int(math.Round(BaseCritChance*100)) + attacker.CritBonus()
	roll, err := src.Roll(critDie)
	critical := err == nil && roll <= critPercent

	mitigated := 0
	if raw > 0 {
		multiplier := 1.0
		if critical {
			multiplier = CritMultiplier
		}
		reduced := (raw - float64(defender.EffectiveDefense())*r.mitigation) * multiplier
		mitigated = max(1, int(math.Round(reduced)))
	} else {
		critical = false
	}

	hp := defender.ApplyDamage(mitigated)
	event := entities.CombatEvent{
		Attacker:   attacker.ID,
		Defender:   defender.ID,
		Raw:        raw,
		Mitigated:  mitigated,
		Critical:   critical,
		DefenderHP: hp,
		Lethal:     defender.IsDead(),
	}

	if !event.Lethal && mitigated > 0 {
		event.Effects = r.applyOnHit(attacker, defender, src)
	}

	r.log.WithFields(logrus.Fields{
		"attacker":  attacker.ID,
		"defender":  defender.ID,
		"mitigated": mitigated,
		"critical":  critical,
		"lethal":    event.Lethal,
	}).Debug("attack resolved")

	return event, nil
}

func (r *Resolver) applyOnHit(attacker, defender *entities.Entity, src rng.Source) []string {
	var effects []string
	for _, hit := range entities.Profile(attacker.Kind).OnHit {
		if hit.Chance < 1 && src.Next() >= hit.Chance {
			continue
		}
		if hit.Effect != nil {
			defender.AddStatusEffect(*hit.Effect)
			effects = append(effects, hit.Effect.Kind.String())
		}
		if hit.Corruption > 0 {
			effects = append(effects, fmt.Sprintf("corruption+%d", hit.Corruption))
			for _, t := range r.corruption.Apply(defender, hit.Corruption) {
				effects = append(effects, fmt.Sprintf("threshold:%d", t.Level))
			}
		}
	}
	return effects
}

package simulation

import (
	"context"
	"fmt"
	"slices"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/spatial"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Autopilot plays the player for headless runs. It reads only run state and
// draws no randomness, so a seed plus an autopilot replays exactly.
type Autopilot struct {
	// HealBelow is the HP fraction under which a potion is drunk
	HealBelow float64
	// CureAbove is the corruption level from which salt is used
	CureAbove int

	field    *spatial.DistanceField
	fieldFor *entities.Dungeon
}

// NewAutopilot returns an autopilot with default thresholds
func NewAutopilot() *Autopilot {
	return &Autopilot{HealBelow: 0.4, CureAbove: 60}
}

// Next picks the player's intent: heal, cure, fight the weakest adjacent
// enemy, else walk toward the exit.
func (a *Autopilot) Next(r *Run) entities.Intent {
	p := r.Player()

	if p.HPFraction() < a.HealBelow && slices.Contains(p.Inventory, entities.ItemPotion) {
		return entities.UseItem(entities.ItemPotion)
	}
	if p.Corruption >= a.CureAbove && !p.Consumed && slices.Contains(p.Inventory, entities.ItemSalt) {
		return entities.UseItem(entities.ItemSalt)
	}

	reach := entities.Profile(p.Kind).AttackRange
	var target *entities.Entity
	for _, e := range r.Entities() {
		if e == p || e.IsDead() || p.Pos.Chebyshev(e.Pos) > reach {
			continue
		}
		if target == nil || e.HP < target.HP {
			target = e
		}
	}
	if target != nil {
		return entities.Attack(target.ID)
	}

	d := r.Dungeon()
	if a.fieldFor != d {
		a.field = spatial.NewDistanceField(d, d.Exit)
		a.fieldFor = d
	}
	cur := a.field.At(p.Pos)
	best, bestDist := entities.Position{}, cur
	for _, dir := range entities.Directions {
		if !d.CanStep(p.Pos, dir) {
			continue
		}
		f := a.field.At(p.Pos.Add(dir))
		if f == spatial.Unreachable {
			continue
		}
		if bestDist == spatial.Unreachable || f < bestDist {
			best, bestDist = dir, f
		}
	}
	if best.IsZero() {
		return entities.Wait()
	}
	return entities.Move(best)
}

// Play drives r until it finishes. Reaching maxTicks aborts the run.
func (a *Autopilot) Play(ctx context.Context, r *Run, maxTicks int) (*entities.RunOutcome, error) {
	for r.Status() == StatusActive {
		if r.Tick() >= maxTicks {
			if err := r.Abort(); err != nil {
				return nil, err
			}
			return nil, errors.Aborted(fmt.Sprintf("run %s did not finish within %d ticks", r.ID(), maxTicks))
		}
		if _, err := r.Step(ctx, a.Next(r)); err != nil {
			return nil, err
		}
	}

	out, ok := r.Outcome()
	if !ok {
		return nil, errors.FailedPreconditionf("run %s ended without an outcome", r.ID())
	}
	return out, nil
}

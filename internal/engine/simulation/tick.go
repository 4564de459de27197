package simulation

import (
	"context"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/ai"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/spatial"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type action struct {
	actor  *entities.Entity
	intent entities.Intent
}

// collect gathers the player's intent and every enemy decision from
// start-of-tick state. Stunned entities lose their action.
func (r *Run) collect(playerIntent entities.Intent) []action {
	actions := make([]action, 0, r.registry.len())
	if r.player.IsStunned() {
		playerIntent = entities.Wait()
	}
	actions = append(actions, action{actor: r.player, intent: playerIntent})

	field := spatial.NewDistanceField(r.dungeon, r.player.Pos)
	occupied := make(map[entities.Position]bool, r.registry.len())
	for _, e := range r.registry.ordered() {
		if !e.IsDead() {
			occupied[e.Pos] = true
		}
	}

	enemies := make([]*entities.Entity, 0, r.registry.len())
	decisions := make([]ai.Decision, 0, r.registry.len())
	for _, e := range r.registry.ordered() {
		if e.AI == nil || e.IsDead() {
			continue
		}
		if e.IsStunned() {
			actions = append(actions, action{actor: e, intent: entities.Wait()})
			continue
		}
		d := ai.Decide(ai.Input{
			Self:      e,
			Dungeon:   r.dungeon,
			PlayerID:  r.player.ID,
			PlayerPos: r.player.Pos,
			Field:     field,
			Occupied:  func(p entities.Position) bool { return occupied[p] },
			RNG:       r.aiRNG,
		})
		enemies = append(enemies, e)
		decisions = append(decisions, d)
		actions = append(actions, action{actor: e, intent: d.Intent})
	}

	// recorded only once every enemy has decided
	for i, e := range enemies {
		state := decisions[i].State
		e.AI = &state
	}
	return actions
}

func (r *Run) resolve(ctx context.Context, actions []action) {
	for _, a := range actions {
		// killed earlier this tick
		if a.actor.IsDead() {
			continue
		}
		switch a.intent.Kind {
		case entities.IntentMove:
			r.move(ctx, a.actor, a.intent.Dir)
		case entities.IntentAttack:
			target, _ := r.registry.get(a.intent.Target)
			r.attack(ctx, a.actor, target)
		case entities.IntentUseItem:
			r.useItem(a.actor, a.intent.Item)
		}
	}
}

// move steps an entity one tile. Stepping into a hostile entity is a bump
// attack; stepping into a friendly one does nothing.
func (r *Run) move(ctx context.Context, e *entities.Entity, dir entities.Position) {
	if dir.IsZero() || dir.Chebyshev(entities.Position{}) > 1 || !r.dungeon.CanStep(e.Pos, dir) {
		return
	}
	dest := e.Pos.Add(dir)
	if other, ok := r.registry.at(dest); ok {
		if hostile(e, other) {
			r.attack(ctx, e, other)
		}
		return
	}

	e.Pos = dest
	switch r.dungeon.At(dest) {
	case entities.TileDoor:
		r.dungeon.OpenDoor(dest)
	case entities.TileHazard:
		r.triggerHazard(e, dest)
	}

	if e == r.player {
		if item, ok := r.items[dest]; ok {
			e.AddItem(item)
			delete(r.items, dest)
		}
	}
}

func (r *Run) attack(ctx context.Context, attacker, target *entities.Entity) {
	log := r.log.WithFields(logrus.Fields{
		"tick":     r.tick,
		"attacker": attacker.ID,
	})
	if target == nil {
		log.Debug("attack target no longer exists")
		return
	}
	if !hostile(attacker, target) {
		return
	}
	if attacker.Pos.Chebyshev(target.Pos) > entities.Profile(attacker.Kind).AttackRange {
		log.WithField("defender", target.ID).Debug("attack target out of range")
		return
	}

	event, err := r.resolver.ResolveAttack(attacker, target, r.combatRNG)
	if err != nil {
		// same-tick ordering can leave stale targets; not fatal
		if errors.IsInvalidEntityReference(err) {
			log.WithError(err).Debug("attack skipped")
			return
		}
		log.WithError(err).Warn("attack failed")
		return
	}

	event.Seq = len(r.combatLog) + 1
	event.Tick = r.tick
	r.combatLog = append(r.combatLog, event)
	r.report.Combat = append(r.report.Combat, event)
	if event.Lethal {
		r.markDead(target, attacker.ID)
	}

	r.publish(ctx, &CombatNotice{
		GameEvent: events.NewGameEvent(EventCombat, attacker, target),
		RunID:     r.id,
		Combat:    event,
	})
}

// triggerHazard fires a corruption vent under e. Vents are single use.
func (r *Run) triggerHazard(e *entities.Entity, p entities.Position) {
	if !r.dungeon.TriggerHazard(p) {
		return
	}
	e.ApplyDamage(HazardDamage)
	r.corruption.Apply(e, HazardCorruption)
	if e.IsDead() {
		r.markDead(e, entities.NoEntity)
	}

	r.log.WithFields(logrus.Fields{
		"tick":      r.tick,
		"entity_id": e.ID,
		"hp":        e.HP,
	}).Debug("hazard triggered")
}

func (r *Run) useItem(e *entities.Entity, item entities.ItemKind) {
	if !e.TakeItem(item) {
		return
	}
	switch item {
	case entities.ItemPotion:
		e.Heal(entities.PotionHeal)
	case entities.ItemSalt:
		r.corruption.Cure(e, entities.SaltCure)
	}

	r.log.WithFields(logrus.Fields{
		"tick":      r.tick,
		"entity_id": e.ID,
		"item":      item.String(),
	}).Debug("item used")
}

func (r *Run) tickStatuses() {
	for _, e := range r.registry.ordered() {
		if e.IsDead() {
			continue
		}
		e.TickStatuses()
		if e.IsDead() {
			r.markDead(e, entities.NoEntity)
		}
	}
}

func (r *Run) markDead(e *entities.Entity, killer entities.EntityID) {
	if _, ok := r.pending[e.ID]; ok {
		return
	}
	r.pending[e.ID] = killer
}

// cleanup removes everything that died this tick. The player is never
// removed so the run can report on it.
func (r *Run) cleanup(ctx context.Context) {
	ids := make([]entities.EntityID, 0, len(r.pending))
	for id := range r.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		e, ok := r.registry.get(id)
		if !ok {
			continue
		}
		killerID := r.pending[id]
		killer, _ := r.registry.get(killerID)
		if e.AI != nil {
			e.AI = &entities.AIState{State: entities.AIDead}
		}
		if killerID == r.player.ID && e != r.player {
			r.kills++
			r.currency += entities.Profile(e.Kind).Bounty
		}
		r.report.Deaths = append(r.report.Deaths, id)

		r.publish(ctx, &DeathNotice{
			GameEvent: events.NewGameEvent(EventDeath, ref(killer), e),
			RunID:     r.id,
			Tick:      r.tick,
			Entity:    id,
			Kind:      e.Kind,
			Killer:    killerID,
		})

		if e != r.player {
			r.registry.remove(id)
		}
	}
	r.pending = nil
}

// settle applies the corruption mutations crossed this tick
func (r *Run) settle(ctx context.Context) {
	for _, e := range r.registry.ordered() {
		for _, t := range r.corruption.Settle(e) {
			r.thresholdLog = append(r.thresholdLog, t)
			r.report.Thresholds = append(r.report.Thresholds, t)
			r.publish(ctx, &ThresholdNotice{
				GameEvent: events.NewGameEvent(EventThreshold, e, nil),
				RunID:     r.id,
				Tick:      r.tick,
				Threshold: t,
			})
		}
	}
	r.maxCorruption = max(r.maxCorruption, r.player.Corruption)
}

// checkProgress ends the run on death or on the last exit, and descends
// otherwise when the player stands on the exit. If the next floor cannot be
// generated the tick still completes with the player on the stairs, and any
// later tick that ends there tries again with fresh seeds.
func (r *Run) checkProgress(ctx context.Context) {
	if r.player.IsDead() {
		r.finish(ctx, StatusDead)
		return
	}
	if r.dungeon.At(r.player.Pos) != entities.TileStairsDown {
		return
	}
	if r.depth >= r.maxDepth {
		r.currency += DepthCurrency * r.depth
		r.finish(ctx, StatusVictory)
		return
	}

	next, err := r.generateFloor(r.depth + 1)
	if err != nil {
		r.report.DescendFailed = true
		r.log.WithError(err).WithFields(logrus.Fields{
			"tick":  r.tick,
			"depth": r.depth + 1,
		}).Error("next floor unavailable, player stays on the stairs")
		return
	}
	r.currency += DepthCurrency * r.depth
	r.enterFloor(r.depth+1, next)
	r.report.Descended = true

	r.publish(ctx, &DescendNotice{
		GameEvent: events.NewGameEvent(EventDescend, r.player, nil),
		RunID:     r.id,
		Tick:      r.tick,
		Depth:     r.depth,
		Seed:      next.Seed,
	})
}

func (r *Run) finish(ctx context.Context, status Status) {
	r.status = status

	earned := r.currency + r.currency*entities.SumModifiers(r.mods, entities.ModCurrency)/100
	outcome := &entities.RunOutcome{
		RunID:          r.id,
		Seed:           r.seed,
		Victory:        status == StatusVictory,
		Died:           status == StatusDead,
		DepthReached:   r.depth,
		CurrencyEarned: earned,
		UnlocksEarned:  r.achievements(status),
		Kills:          r.kills,
		Ticks:          r.tick,
		MaxCorruption:  r.maxCorruption,
	}
	r.outcome = outcome

	r.publish(ctx, &RunEndNotice{
		GameEvent: events.NewGameEvent(EventRunEnd, r.player, nil),
		Outcome:   *outcome,
	})

	r.log.WithFields(logrus.Fields{
		"status":   status.String(),
		"tick":     r.tick,
		"depth":    r.depth,
		"kills":    r.kills,
		"currency": earned,
	}).Info("run finished")
}

// achievements lists the unlocks a finished run earns
func (r *Run) achievements(status Status) []string {
	if status != StatusVictory {
		return nil
	}
	earned := []string{entities.UnlockFirstVictory}
	if r.player.Consumed {
		earned = append(earned, entities.UnlockUnbroken)
	}
	return earned
}

func hostile(a, b *entities.Entity) bool {
	return a.IsPlayer() != b.IsPlayer()
}

// ref avoids handing the bus a typed nil
func ref(e *entities.Entity) core.Entity {
	if e == nil {
		return nil
	}
	return e
}

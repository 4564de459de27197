// Package simulation runs one roguelike playthrough tick by tick.
//
// A tick executes in a fixed order so a run replays exactly from its seed
// and the player's intents:
//
//  1. collect intents: the player's, then each enemy's AI decision in
//     ascending ID order, all from start-of-tick state
//  2. resolve intents in the same order: moves, bump attacks, item use,
//     hazard triggers, door opening
//  3. tick status effects
//  4. death cleanup from the pending-removal set
//  5. corruption threshold settlement, then the victory and descend check
package simulation

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/corruption"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/rng"
)

// Tuning constants
const (
	// DepthCurrency is paid per floor completed, times the floor's depth
	DepthCurrency = 10
	// HazardDamage and HazardCorruption are dealt by a corruption vent
	HazardDamage     = 2
	HazardCorruption = 10
	// DepthDifficultyStep raises spawn difficulty per floor below the first
	DepthDifficultyStep = 0.2
	// DefaultMaxDepth is used when Config.MaxDepth is zero
	DefaultMaxDepth = 3

	generationRetries = 5
)

// RNG stream labels
const (
	StreamCombat = "combat"
	StreamAI     = "ai"
)

// Status is where a run is in its lifecycle
type Status uint8

// Run statuses
const (
	StatusActive Status = iota
	StatusVictory
	StatusDead
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusVictory:
		return "victory"
	case StatusDead:
		return "dead"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Finished reports whether the run ended with an outcome
func (s Status) Finished() bool {
	return s == StatusVictory || s == StatusDead
}

//go:generate mockgen -destination=mock/mock_generator.go -package=simulationmock github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation FloorGenerator

// FloorGenerator builds one dungeon floor. *dungeon.Generator is the
// production implementation.
type FloorGenerator interface {
	Generate(seed int64, params dungeon.Params) (*entities.Dungeon, error)
}

// Config holds the run's identity and dependencies
type Config struct {
	RunID string
	Seed  int64
	// Params are the floor-1 generation params; Depth and difficulty are
	// derived per floor
	Params   dungeon.Params
	MaxDepth int
	// Modifiers come from owned unlocks, applied at run start
	Modifiers []entities.Modifier

	Generator  FloorGenerator
	Corruption *corruption.System
	// Resolver defaults to one built on Corruption
	Resolver *combat.Resolver
	EventBus events.EventBus
	Logger   logrus.FieldLogger
}

// Validate ensures all required fields are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("RunID", c.RunID, vb)
	if c.MaxDepth < 0 {
		vb.Field("MaxDepth", "must not be negative")
	}

	return vb.Build()
}

// TickReport is what happened during one tick
type TickReport struct {
	Tick       int
	Depth      int
	Combat     []entities.CombatEvent
	Thresholds []corruption.ThresholdEvent
	Deaths     []entities.EntityID
	Descended  bool

	// DescendFailed is set when the player reached the exit but the next
	// floor could not be generated; the player waits on the stairs
	DescendFailed bool
	Status        Status
}

// Run is one playthrough. It is not safe for concurrent use; callers
// serialize access.
type Run struct {
	id       string
	seed     int64
	params   dungeon.Params
	maxDepth int
	mods     []entities.Modifier

	generator  FloorGenerator
	corruption *corruption.System
	resolver   *combat.Resolver
	bus        events.EventBus
	log        logrus.FieldLogger

	master    *rng.Stream
	combatRNG *rng.Stream
	aiRNG     *rng.Stream
	// floor-N forks live for the whole run so a retried floor draws new seeds
	floorRNG map[int]*rng.Stream

	dungeon  *entities.Dungeon
	depth    int
	tick     int
	registry *registry
	player   *entities.Entity
	items    map[entities.Position]entities.ItemKind

	combatLog    []entities.CombatEvent
	thresholdLog []corruption.ThresholdEvent

	// per tick
	pending map[entities.EntityID]entities.EntityID
	report  *TickReport

	kills         int
	currency      int
	maxCorruption int
	status        Status
	outcome       *entities.RunOutcome
}

// NewRun creates a run and generates its first floor
func NewRun(cfg *Config) (*Run, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	log := logger.OrDiscard(cfg.Logger).WithFields(logrus.Fields{
		"component": "simulation",
		"run_id":    cfg.RunID,
	})

	corr := cfg.Corruption
	if corr == nil {
		corr = corruption.NewSystem(&corruption.Config{Logger: cfg.Logger})
	}
	resolver := cfg.Resolver
	if resolver == nil {
		var err error
		resolver, err = combat.NewResolver(&combat.Config{Corruption: corr, Logger: cfg.Logger})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create combat resolver")
		}
	}
	var generator FloorGenerator = dungeon.NewGenerator(&dungeon.Config{Logger: cfg.Logger})
	if cfg.Generator != nil {
		generator = cfg.Generator
	}
	bus := cfg.EventBus
	if bus == nil {
		bus = events.NewBus()
	}
	params := cfg.Params
	if params.Width == 0 {
		params = dungeon.DefaultParams()
	}
	maxDepth := cfg.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}

	master := rng.New(cfg.Seed)
	r := &Run{
		id:         cfg.RunID,
		seed:       cfg.Seed,
		params:     params,
		maxDepth:   maxDepth,
		mods:       cfg.Modifiers,
		generator:  generator,
		corruption: corr,
		resolver:   resolver,
		bus:        bus,
		log:        log,
		master:     master,
		combatRNG:  master.Fork(StreamCombat),
		aiRNG:      master.Fork(StreamAI),
		floorRNG:   make(map[int]*rng.Stream),
		registry:   newRegistry(),
		items:      make(map[entities.Position]entities.ItemKind),
	}

	d, err := r.generateFloor(1)
	if err != nil {
		return nil, err
	}
	r.player = r.registry.spawn(entities.KindPlayer, d.Entry)
	r.player.ApplyModifiers(cfg.Modifiers)
	r.enterFloor(1, d)

	log.WithFields(logrus.Fields{
		"seed":      cfg.Seed,
		"max_depth": maxDepth,
		"modifiers": len(cfg.Modifiers),
	}).Info("run started")

	return r, nil
}

// ID returns the run ID
func (r *Run) ID() string { return r.id }

// Seed returns the run seed
func (r *Run) Seed() int64 { return r.seed }

// Tick returns the number of completed ticks
func (r *Run) Tick() int { return r.tick }

// Depth returns the current floor number
func (r *Run) Depth() int { return r.depth }

// MaxDepth returns the floor whose exit wins the run
func (r *Run) MaxDepth() int { return r.maxDepth }

// Status returns the lifecycle status
func (r *Run) Status() Status { return r.status }

// Dungeon returns the current floor. Callers must not mutate it.
func (r *Run) Dungeon() *entities.Dungeon { return r.dungeon }

// Player returns the player entity. Callers must not mutate it.
func (r *Run) Player() *entities.Entity { return r.player }

// Entities returns the live entities in ID order. Callers must not mutate
// them.
func (r *Run) Entities() []*entities.Entity { return r.registry.ordered() }

// Entity resolves an ID through the registry
func (r *Run) Entity(id entities.EntityID) (*entities.Entity, bool) {
	return r.registry.get(id)
}

// ItemAt reports the item lying on p
func (r *Run) ItemAt(p entities.Position) (entities.ItemKind, bool) {
	item, ok := r.items[p]
	return item, ok
}

// Currency returns the currency gathered so far, before modifiers
func (r *Run) Currency() int { return r.currency }

// Kills returns the number of enemies the player killed
func (r *Run) Kills() int { return r.kills }

// CombatLog returns a copy of every combat event so far
func (r *Run) CombatLog() []entities.CombatEvent {
	return append([]entities.CombatEvent(nil), r.combatLog...)
}

// ThresholdLog returns a copy of every corruption mutation so far
func (r *Run) ThresholdLog() []corruption.ThresholdEvent {
	return append([]corruption.ThresholdEvent(nil), r.thresholdLog...)
}

// EventBus returns the bus notices are published on
func (r *Run) EventBus() events.EventBus { return r.bus }

// Outcome returns the outcome of a finished run
func (r *Run) Outcome() (*entities.RunOutcome, bool) {
	if r.outcome == nil {
		return nil, false
	}
	out := *r.outcome
	return &out, true
}

// Abort discards the run at a tick boundary. An aborted run never produces
// an outcome.
func (r *Run) Abort() error {
	if r.status != StatusActive {
		return errors.FailedPreconditionf("run %s is already %s", r.id, r.status)
	}
	r.status = StatusAborted
	r.log.WithField("tick", r.tick).Info("run aborted")
	return nil
}

// Step advances the run by one tick with the player's intent
func (r *Run) Step(ctx context.Context, intent entities.Intent) (*TickReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "step canceled")
	}
	if r.status != StatusActive {
		return nil, errors.FailedPreconditionf("run %s is %s", r.id, r.status)
	}

	r.tick++
	r.pending = make(map[entities.EntityID]entities.EntityID)
	r.report = &TickReport{Tick: r.tick}

	actions := r.collect(intent)
	r.resolve(ctx, actions)
	r.tickStatuses()
	r.cleanup(ctx)
	r.settle(ctx)
	r.checkProgress(ctx)

	report := r.report
	report.Depth = r.depth
	report.Status = r.status
	r.report = nil
	return report, nil
}

func (r *Run) floorParams(depth int) dungeon.Params {
	p := r.params
	p.Depth = depth
	p.TargetRoomCount += entities.SumModifiers(r.mods, entities.ModExtraRooms)
	scale := 1 + float64(entities.SumModifiers(r.mods, entities.ModDifficulty))/100
	p.DifficultyModifier *= scale * (1 + DepthDifficultyStep*float64(depth-1))
	return p
}

// generateFloor builds floor depth from the floor-N fork. A failed
// generation is retried with the next seed drawn from the same fork, and a
// later call for the same depth continues from where this one stopped.
func (r *Run) generateFloor(depth int) (*entities.Dungeon, error) {
	floor, ok := r.floorRNG[depth]
	if !ok {
		floor = r.master.Fork(fmt.Sprintf("floor-%d", depth))
		r.floorRNG[depth] = floor
	}
	params := r.floorParams(depth)

	var lastErr error
	for attempt := 0; attempt < generationRetries; attempt++ {
		seed := floor.Int63()
		d, err := r.generator.Generate(seed, params)
		if err == nil {
			return d, nil
		}
		if !errors.IsGenerationFailed(err) {
			return nil, errors.Wrapf(err, "failed to generate floor %d", depth)
		}
		lastErr = err
		r.log.WithFields(logrus.Fields{
			"depth":   depth,
			"attempt": attempt + 1,
		}).Warn("floor generation failed, retrying with a new seed")
	}
	return nil, errors.Wrapf(lastErr, "failed to generate floor %d after %d attempts", depth, generationRetries)
}

// enterFloor swaps in a new floor: enemies of the old floor are dropped and
// the player starts on the entry stairs
func (r *Run) enterFloor(depth int, d *entities.Dungeon) {
	for _, e := range r.registry.ordered() {
		if e != r.player {
			r.registry.remove(e.ID)
		}
	}
	r.dungeon = d
	r.depth = depth
	r.player.Pos = d.Entry
	r.items = make(map[entities.Position]entities.ItemKind)

	for _, sp := range d.Spawns {
		switch sp.Kind {
		case entities.SpawnEnemy:
			r.registry.spawn(sp.Enemy, sp.Pos)
		case entities.SpawnItem:
			r.items[sp.Pos] = sp.Item
		}
	}

	r.log.WithFields(logrus.Fields{
		"depth":   depth,
		"seed":    d.Seed,
		"enemies": r.registry.len() - 1,
		"items":   len(r.items),
	}).Debug("entered floor")
}

func (r *Run) publish(ctx context.Context, event events.Event) {
	if err := r.bus.Publish(ctx, event); err != nil {
		r.log.WithError(err).WithField("event", event.Type()).Warn("event handler failed")
	}
}

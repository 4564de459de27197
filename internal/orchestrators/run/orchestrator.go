// Package run orchestrates live runs: it starts them with the profile's
// unlock modifiers, steps them on behalf of callers and commits finished
// runs to the progression store. Aborted runs are discarded uncommitted.
package run

//go:generate mockgen -destination=mock/mock_service.go -package=runmock github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run Service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
)

// DefaultMaxTicks bounds an autoplayed run when the input sets no limit
const DefaultMaxTicks = 5000

// Service defines the interface for run operations
type Service interface {
	// Start creates a run with the profile's active modifiers
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Step advances a run one tick and commits it once it finishes
	Step(ctx context.Context, input *StepInput) (*StepOutput, error)

	// Autoplay starts a run and drives it to the end with the autopilot
	Autoplay(ctx context.Context, input *AutoplayInput) (*AutoplayOutput, error)

	// Abort discards a run without committing anything
	Abort(ctx context.Context, input *AbortInput) (*AbortOutput, error)

	// Get returns the current snapshot of a run
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// List returns the IDs of the runs in memory
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// ActiveRuns returns the IDs of the runs in memory for one profile
	ActiveRuns(ctx context.Context, input *ActiveRunsInput) (*ActiveRunsOutput, error)
}

// TickListener observes a run's snapshot after it starts, after every tick
// and when it is aborted
type TickListener interface {
	OnSnapshot(snap *simulation.Snapshot)
}

// Config holds the dependencies for the run orchestrator
type Config struct {
	Progression progression.Service
	IDGenerator idgen.Generator
	// Clock seeds runs started without an explicit seed
	Clock clock.Clock
	// Profile names runs started without a profile. It must match the
	// progression service's default; empty means progression.DefaultProfile.
	Profile string

	// Generator overrides the dungeon generator
	Generator simulation.FloorGenerator
	Params    dungeon.Params
	MaxDepth  int
	EventBus  events.EventBus
	Listeners []TickListener
	Logger    logrus.FieldLogger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Progression == nil {
		vb.RequiredField("Progression")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.MaxDepth < 0 {
		vb.Field("MaxDepth", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	progression progression.Service
	idGen       idgen.Generator
	clock       clock.Clock
	profile     string
	generator   simulation.FloorGenerator
	params      dungeon.Params
	maxDepth    int
	bus         events.EventBus
	listeners   []TickListener
	log         logrus.FieldLogger

	mu   sync.RWMutex
	runs map[string]*runState
}

// runState serializes access to one run
type runState struct {
	mu      sync.Mutex
	sim     *simulation.Run
	profile string
}

// NewOrchestrator creates a new run orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	profile := cfg.Profile
	if profile == "" {
		profile = progression.DefaultProfile
	}

	return &orchestrator{
		progression: cfg.Progression,
		idGen:       cfg.IDGenerator,
		clock:       cfg.Clock,
		profile:     profile,
		generator:   cfg.Generator,
		params:      cfg.Params,
		maxDepth:    cfg.MaxDepth,
		bus:         cfg.EventBus,
		listeners:   cfg.Listeners,
		log:         logger.OrDiscard(cfg.Logger).WithField("component", "run_orchestrator"),
		runs:        make(map[string]*runState),
	}, nil
}

func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	st, out, err := o.start(ctx, input)
	if err != nil {
		return nil, err
	}
	o.notify(out.Snapshot)
	o.track(st)
	return out, nil
}

func (o *orchestrator) start(ctx context.Context, input *StartInput) (*runState, *StartOutput, error) {
	mods, err := o.progression.ActiveModifiers(ctx, &progression.ActiveModifiersInput{ProfileID: input.ProfileID})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load active modifiers")
	}
	if mods.Warning != nil {
		o.log.WithError(mods.Warning).Warn("starting run with default progression")
	}

	seed := o.clock.Now().UnixNano()
	if input.Seed != nil {
		seed = *input.Seed
	}

	runID := o.idGen.Generate()
	sim, err := simulation.NewRun(&simulation.Config{
		RunID:     runID,
		Seed:      seed,
		Params:    o.params,
		MaxDepth:  o.maxDepth,
		Modifiers: mods.Modifiers,
		Generator: o.generator,
		EventBus:  o.bus,
		Logger:    o.log,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create run")
	}

	profile := o.profileID(input.ProfileID)
	o.log.WithFields(logrus.Fields{
		"run_id":  runID,
		"seed":    seed,
		"profile": profile,
		"unlocks": len(mods.Unlocks),
	}).Info("run created")

	st := &runState{sim: sim, profile: profile}
	return st, &StartOutput{
		RunID:     runID,
		Seed:      seed,
		Modifiers: mods.Modifiers,
		Snapshot:  sim.Snapshot(),
	}, nil
}

func (o *orchestrator) Step(ctx context.Context, input *StepInput) (*StepOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument("run ID is required")
	}

	st, err := o.lookup(input.RunID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	out := &StepOutput{}
	// a finished run still here failed to commit earlier; stepping retries it
	if !st.sim.Status().Finished() {
		report, err := st.sim.Step(ctx, input.Intent)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to step run %s", input.RunID)
		}
		out.Report = report
		out.Snapshot = st.sim.Snapshot()
		o.notify(out.Snapshot)
	} else {
		out.Snapshot = st.sim.Snapshot()
	}

	if st.sim.Status().Finished() {
		outcome, commit, err := o.commit(ctx, st)
		if err != nil {
			return nil, err
		}
		out.Outcome = outcome
		out.Commit = commit
	}
	return out, nil
}

func (o *orchestrator) Autoplay(ctx context.Context, input *AutoplayInput) (*AutoplayOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	maxTicks := input.MaxTicks
	if maxTicks == 0 {
		maxTicks = DefaultMaxTicks
	}
	if maxTicks < 0 {
		return nil, errors.InvalidArgument("max ticks must not be negative")
	}

	st, started, err := o.start(ctx, &input.StartInput)
	if err != nil {
		return nil, err
	}
	o.notify(started.Snapshot)
	o.track(st)

	st.mu.Lock()
	defer st.mu.Unlock()

	pilot := simulation.NewAutopilot()
	for st.sim.Status() == simulation.StatusActive {
		if st.sim.Tick() >= maxTicks {
			o.discard(st)
			return nil, errors.Aborted(fmt.Sprintf("run %s did not finish within %d ticks", started.RunID, maxTicks))
		}
		if _, err := st.sim.Step(ctx, pilot.Next(st.sim)); err != nil {
			o.discard(st)
			return nil, errors.Wrapf(err, "failed to step run %s", started.RunID)
		}
		o.notify(st.sim.Snapshot())
	}

	outcome, commit, err := o.commit(ctx, st)
	if err != nil {
		return nil, err
	}
	return &AutoplayOutput{
		RunID:    started.RunID,
		Seed:     started.Seed,
		Outcome:  outcome,
		Commit:   commit,
		Snapshot: st.sim.Snapshot(),
	}, nil
}

func (o *orchestrator) Abort(_ context.Context, input *AbortInput) (*AbortOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument("run ID is required")
	}

	st, err := o.lookup(input.RunID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sim.Status().Finished() {
		return nil, errors.FailedPreconditionf("run %s has finished and awaits commit", input.RunID)
	}
	tick := st.sim.Tick()
	o.discard(st)
	return &AbortOutput{Tick: tick}, nil
}

func (o *orchestrator) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.RunID == "" {
		return nil, errors.InvalidArgument("run ID is required")
	}

	st, err := o.lookup(input.RunID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return &GetOutput{
		Snapshot:  st.sim.Snapshot(),
		CombatLog: st.sim.CombatLog(),
	}, nil
}

func (o *orchestrator) List(_ context.Context, _ *ListInput) (*ListOutput, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := make([]string, 0, len(o.runs))
	for id := range o.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return &ListOutput{RunIDs: ids}, nil
}

func (o *orchestrator) ActiveRuns(_ context.Context, input *ActiveRunsInput) (*ActiveRunsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	profile := o.profileID(input.ProfileID)

	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := []string{}
	for id, st := range o.runs {
		if st.profile == profile {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return &ActiveRunsOutput{RunIDs: ids}, nil
}

func (o *orchestrator) profileID(id string) string {
	if id == "" {
		return o.profile
	}
	return id
}

// commit records a finished run and forgets it. On failure the run stays
// in memory so a later Step can retry; the commit is idempotent per run ID.
// Caller holds st.mu.
func (o *orchestrator) commit(ctx context.Context, st *runState) (*entities.RunOutcome, *CommitResult, error) {
	outcome, ok := st.sim.Outcome()
	if !ok {
		return nil, nil, errors.Internalf("run %s finished without an outcome", st.sim.ID())
	}

	out, err := o.progression.CommitRun(ctx, &progression.CommitRunInput{
		ProfileID: st.profile,
		Outcome:   outcome,
	})
	if err != nil {
		o.log.WithError(err).WithField("run_id", st.sim.ID()).Error("failed to commit run")
		return nil, nil, errors.Wrapf(err, "failed to commit run %s", st.sim.ID())
	}

	o.forget(st.sim.ID())
	o.log.WithFields(logrus.Fields{
		"run_id":   st.sim.ID(),
		"victory":  outcome.Victory,
		"depth":    outcome.DepthReached,
		"currency": outcome.CurrencyEarned,
		"applied":  out.Applied,
	}).Info("run finished")

	return outcome, &CommitResult{
		Record:     out.Record,
		NewUnlocks: out.NewUnlocks,
		Applied:    out.Applied,
	}, nil
}

// discard aborts an active run and forgets it. Caller holds st.mu.
func (o *orchestrator) discard(st *runState) {
	if st.sim.Status() == simulation.StatusActive {
		if err := st.sim.Abort(); err != nil {
			o.log.WithError(err).Warn("failed to abort run")
		}
	}
	o.forget(st.sim.ID())
	o.notify(st.sim.Snapshot())
}

func (o *orchestrator) track(st *runState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs[st.sim.ID()] = st
}

func (o *orchestrator) forget(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.runs, runID)
}

func (o *orchestrator) lookup(runID string) (*runState, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	st, ok := o.runs[runID]
	if !ok {
		return nil, errors.NotFoundf("run %s not found", runID)
	}
	return st, nil
}

func (o *orchestrator) notify(snap *simulation.Snapshot) {
	for _, l := range o.listeners {
		l.OnSnapshot(snap)
	}
}

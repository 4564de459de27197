package run_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
	progressionrepo "github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
	progressionmock "github.com/KirkDiggler/rpg-dungeon/internal/services/progression/mock"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils/mocks"
)

var east = entities.Position{X: 1, Y: 0}

type recorder struct {
	mu    sync.Mutex
	snaps []*simulation.Snapshot
}

func (r *recorder) OnSnapshot(snap *simulation.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

func (r *recorder) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Status
	}
	return out
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx             context.Context
	ctrl            *gomock.Controller
	mockProgression *progressionmock.MockService
	listener        *recorder
	orchestrator    run.Service
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockProgression = progressionmock.NewMockService(s.ctrl)
	s.listener = &recorder{}
	s.orchestrator = s.newOrchestrator(s.mockProgression, testutils.Corridor{Open: true})
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(svc progression.Service, gen simulation.FloorGenerator) run.Service {
	o, err := run.NewOrchestrator(&run.Config{
		Progression: svc,
		IDGenerator: idgen.NewSequential("run"),
		Clock:       &clock.Frozen{At: testutils.FrozenAt},
		Generator:   gen,
		MaxDepth:    1,
		Listeners:   []run.TickListener{s.listener},
	})
	s.Require().NoError(err)
	return o
}

func (s *OrchestratorTestSuite) expectModifiers(profile string, unlocks ...string) {
	mocks.ExpectActiveModifiers(s.ctx, s.mockProgression, profile, unlocks...)
}

func (s *OrchestratorTestSuite) start(profile string) *run.StartOutput {
	seed := int64(7)
	out, err := s.orchestrator.Start(s.ctx, &run.StartInput{ProfileID: profile, Seed: &seed})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := run.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = run.NewOrchestrator(&run.Config{IDGenerator: idgen.NewSequential("run")})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Progression")
	s.Contains(err.Error(), "Clock")
}

func (s *OrchestratorTestSuite) TestStartAppliesModifiers() {
	s.expectModifiers("alice", "vigor")

	out := s.start("alice")
	s.Equal("run_1", out.RunID)
	s.Equal(int64(7), out.Seed)
	s.Len(out.Modifiers, 1)

	player := out.Snapshot.Entities[0]
	s.Equal(entities.EntityID(1), player.ID)
	s.Equal(35, player.MaxHP)
	s.Equal("active", out.Snapshot.Status)

	list, err := s.orchestrator.List(s.ctx, &run.ListInput{})
	s.Require().NoError(err)
	s.Equal([]string{"run_1"}, list.RunIDs)
}

func (s *OrchestratorTestSuite) TestStartSeedsFromClock() {
	s.expectModifiers("")

	out, err := s.orchestrator.Start(s.ctx, &run.StartInput{})
	s.Require().NoError(err)
	s.Equal(testutils.FrozenAt.UnixNano(), out.Seed)
}

func (s *OrchestratorTestSuite) TestStartProgressionFailure() {
	s.mockProgression.EXPECT().
		ActiveModifiers(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("store down"))

	_, err := s.orchestrator.Start(s.ctx, &run.StartInput{})
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *OrchestratorTestSuite) TestActiveRunsByProfile() {
	s.expectModifiers("alice")
	s.expectModifiers("")
	alice := s.start("alice")
	anon := s.start("")

	out, err := s.orchestrator.ActiveRuns(s.ctx, &run.ActiveRunsInput{ProfileID: "alice"})
	s.Require().NoError(err)
	s.Equal([]string{alice.RunID}, out.RunIDs)

	// runs without a profile belong to the default one
	out, err = s.orchestrator.ActiveRuns(s.ctx, &run.ActiveRunsInput{ProfileID: progression.DefaultProfile})
	s.Require().NoError(err)
	s.Equal([]string{anon.RunID}, out.RunIDs)

	_, err = s.orchestrator.Abort(s.ctx, &run.AbortInput{RunID: alice.RunID})
	s.Require().NoError(err)

	out, err = s.orchestrator.ActiveRuns(s.ctx, &run.ActiveRunsInput{ProfileID: "alice"})
	s.Require().NoError(err)
	s.Empty(out.RunIDs)

	_, err = s.orchestrator.ActiveRuns(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestStepWithoutFinishingDoesNotCommit() {
	s.expectModifiers("")
	started := s.start("")

	out, err := s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID, Intent: entities.Wait()})
	s.Require().NoError(err)
	s.Equal(1, out.Report.Tick)
	s.Equal(simulation.StatusActive, out.Report.Status)
	s.Nil(out.Outcome)
	s.Nil(out.Commit)
}

func (s *OrchestratorTestSuite) TestStepCommitsFinishedRun() {
	s.expectModifiers("alice")
	started := s.start("alice")

	record := entities.NewProgressionRecord()
	record.Currency = 10
	s.mockProgression.EXPECT().
		CommitRun(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progression.CommitRunInput) (*progression.CommitRunOutput, error) {
			s.Equal("alice", input.ProfileID)
			s.Equal(started.RunID, input.Outcome.RunID)
			s.True(input.Outcome.Victory)
			s.Equal(10, input.Outcome.CurrencyEarned)
			return &progression.CommitRunOutput{
				Record:     record,
				Applied:    true,
				NewUnlocks: []string{entities.UnlockFirstVictory},
			}, nil
		})

	out, err := s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID, Intent: entities.Move(east)})
	s.Require().NoError(err)
	s.Equal(simulation.StatusVictory, out.Report.Status)
	s.Require().NotNil(out.Outcome)
	s.True(out.Outcome.Victory)
	s.Require().NotNil(out.Commit)
	s.True(out.Commit.Applied)
	s.Equal(record, out.Commit.Record)
	s.Equal([]string{entities.UnlockFirstVictory}, out.Commit.NewUnlocks)

	_, err = s.orchestrator.Get(s.ctx, &run.GetInput{RunID: started.RunID})
	s.True(errors.IsNotFound(err))
	s.Equal([]string{"active", "victory"}, s.listener.statuses())
}

func (s *OrchestratorTestSuite) TestFailedCommitIsRetriedOnNextStep() {
	s.expectModifiers("")
	started := s.start("")

	gomock.InOrder(
		s.mockProgression.EXPECT().
			CommitRun(s.ctx, gomock.Any()).
			Return(nil, errors.Unavailable("store down")),
		mocks.ExpectCommitRun(s.ctx, s.mockProgression, entities.NewProgressionRecord()),
	)

	_, err := s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID, Intent: entities.Move(east)})
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))

	got, err := s.orchestrator.Get(s.ctx, &run.GetInput{RunID: started.RunID})
	s.Require().NoError(err)
	s.Equal("victory", got.Snapshot.Status)

	out, err := s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID})
	s.Require().NoError(err)
	s.Nil(out.Report)
	s.True(out.Commit.Applied)
	s.Equal(1, out.Snapshot.Tick)
}

func (s *OrchestratorTestSuite) TestAbortDiscardsWithoutCommit() {
	s.expectModifiers("")
	started := s.start("")

	_, err := s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID, Intent: entities.Wait()})
	s.Require().NoError(err)

	out, err := s.orchestrator.Abort(s.ctx, &run.AbortInput{RunID: started.RunID})
	s.Require().NoError(err)
	s.Equal(1, out.Tick)

	_, err = s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID, Intent: entities.Wait()})
	s.True(errors.IsNotFound(err))
	s.Equal([]string{"active", "active", "aborted"}, s.listener.statuses())
}

func (s *OrchestratorTestSuite) TestUnknownAndMissingRunIDs() {
	_, err := s.orchestrator.Step(s.ctx, &run.StepInput{RunID: "nope"})
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.Step(s.ctx, &run.StepInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Abort(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Get(s.ctx, &run.GetInput{RunID: "nope"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestGetReturnsSnapshot() {
	s.expectModifiers("")
	started := s.start("")

	got, err := s.orchestrator.Get(s.ctx, &run.GetInput{RunID: started.RunID})
	s.Require().NoError(err)
	s.Equal(started.Snapshot, got.Snapshot)
	s.Empty(got.CombatLog)
}

func (s *OrchestratorTestSuite) TestAutoplayTickLimit() {
	o := s.newOrchestrator(s.mockProgression, testutils.Corridor{Open: false})
	s.expectModifiers("")

	_, err := o.Autoplay(s.ctx, &run.AutoplayInput{MaxTicks: 5})
	s.Equal(errors.CodeAborted, errors.GetCode(err))

	list, err := o.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(list.RunIDs)
}

func (s *OrchestratorTestSuite) TestAutoplayRejectsNegativeLimit() {
	_, err := s.orchestrator.Autoplay(s.ctx, &run.AutoplayInput{MaxTicks: -1})
	s.True(errors.IsInvalidArgument(err))
}

// StoreTestSuite runs the orchestrator against a real progression store
type StoreTestSuite struct {
	suite.Suite
	ctx          context.Context
	progression  progression.Service
	orchestrator run.Service
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	svc, err := progression.NewService(&progression.Config{
		Repository: progressionrepo.NewInMemory(),
		Clock:      &clock.Frozen{At: testutils.FrozenAt},
	})
	s.Require().NoError(err)
	s.progression = svc

	o, err := run.NewOrchestrator(&run.Config{
		Progression: svc,
		IDGenerator: idgen.NewSequential("run"),
		Clock:       &clock.Frozen{At: testutils.FrozenAt},
		Generator:   testutils.Corridor{Open: true},
		MaxDepth:    1,
	})
	s.Require().NoError(err)
	s.orchestrator = o
}

func (s *StoreTestSuite) TestAutoplayCommitsOutcome() {
	out, err := s.orchestrator.Autoplay(s.ctx, &run.AutoplayInput{})
	s.Require().NoError(err)
	s.True(out.Outcome.Victory)
	s.Equal(1, out.Outcome.Ticks)
	s.True(out.Commit.Applied)

	loaded, err := s.progression.Load(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(10, loaded.Record.Currency)
	s.Equal(1, loaded.Record.Best.Victories)
	s.True(loaded.Record.HasUnlock(entities.UnlockFirstVictory))
}

func (s *StoreTestSuite) TestAbortedRunLeavesStoreUntouched() {
	started, err := s.orchestrator.Start(s.ctx, &run.StartInput{})
	s.Require().NoError(err)
	_, err = s.orchestrator.Step(s.ctx, &run.StepInput{RunID: started.RunID, Intent: entities.Wait()})
	s.Require().NoError(err)
	_, err = s.orchestrator.Abort(s.ctx, &run.AbortInput{RunID: started.RunID})
	s.Require().NoError(err)

	loaded, err := s.progression.Load(s.ctx, nil)
	s.Require().NoError(err)
	s.True(loaded.Fresh)
}

func (s *StoreTestSuite) TestUnlocksCarryIntoNextRun() {
	_, err := s.orchestrator.Autoplay(s.ctx, &run.AutoplayInput{})
	s.Require().NoError(err)

	started, err := s.orchestrator.Start(s.ctx, &run.StartInput{})
	s.Require().NoError(err)
	s.Equal(35, started.Snapshot.Entities[0].MaxHP)
}

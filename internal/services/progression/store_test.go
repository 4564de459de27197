package progression_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	progressionrepo "github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression"
	progressionrepomock "github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression/mock"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils/builders"
)

var frozenAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *progressionrepo.InMemoryRepository
	service progression.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = progressionrepo.NewInMemory()
	svc, err := progression.NewService(&progression.Config{
		Repository: s.repo,
		Clock:      &clock.Frozen{At: frozenAt},
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) stored() *entities.ProgressionRecord {
	out, err := s.repo.Get(s.ctx, &progressionrepo.GetInput{ProfileID: progression.DefaultProfile})
	s.Require().NoError(err)
	var record entities.ProgressionRecord
	s.Require().NoError(json.Unmarshal(out.Data, &record))
	return &record
}

func (s *ServiceTestSuite) store(data string) {
	_, err := s.repo.Put(s.ctx, &progressionrepo.PutInput{ProfileID: progression.DefaultProfile, Data: []byte(data)})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) commit(outcome entities.RunOutcome) *progression.CommitRunOutput {
	out, err := s.service.CommitRun(s.ctx, &progression.CommitRunInput{Outcome: &outcome})
	s.Require().NoError(err)
	return out
}

func (s *ServiceTestSuite) TestNewServiceValidation() {
	_, err := progression.NewService(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = progression.NewService(&progression.Config{Repository: s.repo})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Clock")
}

func (s *ServiceTestSuite) TestLoadDefaultsWhenMissing() {
	out, err := s.service.Load(s.ctx, &progression.LoadInput{})
	s.Require().NoError(err)
	s.True(out.Fresh)
	s.NoError(out.Warning)
	s.Equal(entities.NewProgressionRecord(), out.Record)
}

func (s *ServiceTestSuite) TestLoadReturnsStoredRecord() {
	want := builders.NewProgressionRecordBuilder().
		WithCurrency(7, 62).
		WithUnlocks(entities.UnlockFirstVictory, "vigor").
		WithRuns("run_1", "run_2", "run_3").
		WithBest(entities.BestRun{DeepestDepth: 4, MostKills: 11, Victories: 1, Deaths: 2}).
		WithUpdatedAt(frozenAt.Add(-time.Hour)).
		Build()
	data, err := json.Marshal(want)
	s.Require().NoError(err)
	s.store(string(data))

	out, err := s.service.Load(s.ctx, &progression.LoadInput{})
	s.Require().NoError(err)
	s.False(out.Fresh)
	s.NoError(out.Warning)
	s.Equal(want, out.Record)
}

func (s *ServiceTestSuite) TestLoadCorruptRecordFallsBack() {
	testCases := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"future version", `{"version":99,"currency":5}`},
		{"missing version", `{"currency":5}`},
		{"negative currency", `{"version":1,"currency":-3}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.store(tc.data)

			out, err := s.service.Load(s.ctx, nil)
			s.Require().NoError(err)
			s.True(errors.IsCorruptPersistedRecord(out.Warning))
			s.False(out.Fresh)
			s.Equal(entities.NewProgressionRecord(), out.Record)
		})
	}
}

func (s *ServiceTestSuite) TestCommitRunVictory() {
	out := s.commit(entities.RunOutcome{
		RunID:          "run_1",
		Victory:        true,
		DepthReached:   3,
		CurrencyEarned: 40,
		UnlocksEarned:  []string{entities.UnlockFirstVictory},
		Kills:          7,
		MaxCorruption:  55,
	})

	s.True(out.Applied)
	s.Equal([]string{entities.UnlockFirstVictory}, out.NewUnlocks)

	record := s.stored()
	s.Equal(40, record.Currency)
	s.Equal(40, record.CurrencyEarned)
	s.Equal(1, record.RunCount)
	s.Equal([]string{entities.UnlockFirstVictory}, record.Unlocks)
	s.Equal(entities.BestRun{
		DeepestDepth:          3,
		MostKills:             7,
		MostCurrency:          40,
		MaxCorruptionSurvived: 55,
		Victories:             1,
	}, record.Best)
	s.Equal([]string{"run_1"}, record.RecentRuns)
	s.Equal(frozenAt, record.UpdatedAt)
	s.Equal(record, out.Record)
}

func (s *ServiceTestSuite) TestCommitRunDeathBanksCurrency() {
	s.commit(entities.RunOutcome{RunID: "run_1", Died: true, DepthReached: 2, CurrencyEarned: 12, MaxCorruption: 90})

	record := s.stored()
	s.Equal(12, record.Currency)
	s.Equal(1, record.Best.Deaths)
	s.Equal(0, record.Best.Victories)
	s.Equal(0, record.Best.MaxCorruptionSurvived)
	s.Equal(2, record.Best.DeepestDepth)
}

func (s *ServiceTestSuite) TestCommitRunIsIdempotent() {
	outcome := entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 12}
	s.commit(outcome)

	again := s.commit(outcome)
	s.False(again.Applied)
	s.Equal(12, again.Record.Currency)
	s.Equal(1, s.stored().RunCount)
}

func (s *ServiceTestSuite) TestCommitRunKeepsBest() {
	s.commit(entities.RunOutcome{RunID: "run_1", Victory: true, DepthReached: 3, Kills: 9, CurrencyEarned: 50})
	s.commit(entities.RunOutcome{RunID: "run_2", Died: true, DepthReached: 1, Kills: 2, CurrencyEarned: 5})

	record := s.stored()
	s.Equal(3, record.Best.DeepestDepth)
	s.Equal(9, record.Best.MostKills)
	s.Equal(50, record.Best.MostCurrency)
	s.Equal(55, record.Currency)
	s.Equal(2, record.RunCount)
	s.Equal([]string{"run_1", "run_2"}, record.RecentRuns)
}

func (s *ServiceTestSuite) TestCommitRunSkipsUnknownAndOwnedUnlocks() {
	s.commit(entities.RunOutcome{RunID: "run_1", Victory: true, UnlocksEarned: []string{entities.UnlockFirstVictory}})
	out := s.commit(entities.RunOutcome{
		RunID:         "run_2",
		Victory:       true,
		UnlocksEarned: []string{entities.UnlockFirstVictory, entities.UnlockUnbroken, "made_up"},
	})

	s.Equal([]string{entities.UnlockUnbroken}, out.NewUnlocks)
	s.Equal([]string{entities.UnlockFirstVictory, entities.UnlockUnbroken}, s.stored().Unlocks)
}

func (s *ServiceTestSuite) TestCommitRunRejectsUnfinished() {
	_, err := s.service.CommitRun(s.ctx, &progression.CommitRunInput{Outcome: &entities.RunOutcome{RunID: "run_1"}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.CommitRun(s.ctx, &progression.CommitRunInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.CommitRun(s.ctx, &progression.CommitRunInput{Outcome: &entities.RunOutcome{Died: true}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestCommitOverCorruptRecordStartsFresh() {
	s.store("not json")

	out := s.commit(entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 3})
	s.True(errors.IsCorruptPersistedRecord(out.Warning))
	s.Equal(3, s.stored().Currency)
}

func (s *ServiceTestSuite) TestActiveModifiers() {
	s.store(`{"version":1,"currency":0,"unlocks":["satchel","vigor"]}`)

	out, err := s.service.ActiveModifiers(s.ctx, &progression.ActiveModifiersInput{})
	s.Require().NoError(err)
	s.Equal([]string{"satchel", "vigor"}, out.Unlocks)
	s.Equal([]entities.Modifier{
		{Kind: entities.ModMaxHP, Amount: 5, Source: "vigor"},
		{Kind: entities.ModStartingItem, Item: entities.ItemPotion, Source: "satchel"},
	}, out.Modifiers)
}

func (s *ServiceTestSuite) TestPurchase() {
	s.commit(entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 25})

	out, err := s.service.Purchase(s.ctx, &progression.PurchaseInput{UnlockID: "vigor"})
	s.Require().NoError(err)
	s.Equal("vigor", out.Unlock.ID)
	s.Equal(15, out.Record.Currency)

	record := s.stored()
	s.Equal(15, record.Currency)
	s.Equal(25, record.CurrencyEarned)
	s.True(record.HasUnlock("vigor"))
}

func (s *ServiceTestSuite) TestPurchaseErrors() {
	s.commit(entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 12})
	_, err := s.service.Purchase(s.ctx, &progression.PurchaseInput{UnlockID: "vigor"})
	s.Require().NoError(err)

	testCases := []struct {
		name   string
		unlock string
		check  func(error) bool
	}{
		{"empty", "", errors.IsInvalidArgument},
		{"unknown", "jetpack", errors.IsNotFound},
		{"achievement", entities.UnlockFirstVictory, errors.IsFailedPrecondition},
		{"owned", "vigor", errors.IsAlreadyExists},
		{"too expensive", "delver", errors.IsFailedPrecondition},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.Purchase(s.ctx, &progression.PurchaseInput{UnlockID: tc.unlock})
			s.True(tc.check(err), "got %v", err)
		})
	}
	s.Equal(2, s.stored().Currency)
}

func (s *ServiceTestSuite) TestReset() {
	s.commit(entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 12})

	out, err := s.service.Reset(s.ctx, nil)
	s.Require().NoError(err)
	s.True(out.Existed)

	loaded, err := s.service.Load(s.ctx, nil)
	s.Require().NoError(err)
	s.True(loaded.Fresh)
}

func (s *ServiceTestSuite) TestProfilesAreSeparate() {
	_, err := s.service.CommitRun(s.ctx, &progression.CommitRunInput{
		ProfileID: "alice",
		Outcome:   &entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 9},
	})
	s.Require().NoError(err)

	alice, err := s.service.Load(s.ctx, &progression.LoadInput{ProfileID: "alice"})
	s.Require().NoError(err)
	s.Equal(9, alice.Record.Currency)

	def, err := s.service.Load(s.ctx, nil)
	s.Require().NoError(err)
	s.True(def.Fresh)
}

func TestCommitFailureLeavesStoreUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := progressionrepomock.NewMockRepository(ctrl)
	ctx := context.Background()

	svc, err := progression.NewService(&progression.Config{
		Repository: repo,
		Clock:      &clock.Frozen{At: frozenAt},
		Profile:    "p1",
	})
	if err != nil {
		t.Fatal(err)
	}

	repo.EXPECT().
		Get(ctx, &progressionrepo.GetInput{ProfileID: "p1"}).
		Return(nil, errors.NotFound("no record"))
	repo.EXPECT().
		Put(ctx, gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err = svc.CommitRun(ctx, &progression.CommitRunInput{
		Outcome: &entities.RunOutcome{RunID: "run_1", Died: true, CurrencyEarned: 4},
	})
	if errors.GetCode(err) != errors.CodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestLoadStorageErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := progressionrepomock.NewMockRepository(ctrl)
	ctx := context.Background()

	svc, err := progression.NewService(&progression.Config{Repository: repo, Clock: clock.New()})
	if err != nil {
		t.Fatal(err)
	}

	repo.EXPECT().
		Get(ctx, gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err = svc.Load(ctx, nil)
	if errors.GetCode(err) != errors.CodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

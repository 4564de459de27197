package progression

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
	progressionrepo "github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression"
)

const (
	// DefaultProfile is used when neither the input nor the config names one
	DefaultProfile = "default"
	// maxRecentRuns bounds the run IDs kept for commit deduplication
	maxRecentRuns = 64
)

// Config holds the dependencies for the progression service
type Config struct {
	Repository progressionrepo.Repository
	Clock      clock.Clock
	Logger     logrus.FieldLogger
	// Profile is the default profile ID
	Profile string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type service struct {
	repo    progressionrepo.Repository
	clock   clock.Clock
	log     logrus.FieldLogger
	profile string

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// NewService creates a progression service
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	profile := cfg.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	return &service{
		repo:    cfg.Repository,
		clock:   cfg.Clock,
		log:     logger.OrDiscard(cfg.Logger).WithField("component", "progression"),
		profile: profile,
	}, nil
}

func (s *service) profileID(id string) string {
	if id == "" {
		return s.profile
	}
	return id
}

func (s *service) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		input = &LoadInput{}
	}
	return s.load(ctx, s.profileID(input.ProfileID))
}

// load reads and decodes a record. Only storage failures are errors; an
// unreadable record degrades to defaults with a warning.
func (s *service) load(ctx context.Context, profile string) (*LoadOutput, error) {
	out, err := s.repo.Get(ctx, &progressionrepo.GetInput{ProfileID: profile})
	if err != nil {
		if errors.IsNotFound(err) {
			return &LoadOutput{Record: entities.NewProgressionRecord(), Fresh: true}, nil
		}
		return nil, errors.Wrapf(err, "failed to load progression for profile %s", profile)
	}

	record, err := DecodeRecord(out.Data)
	if err != nil {
		s.log.WithError(err).WithField("profile", profile).Warn("progression record unreadable, using defaults")
		return &LoadOutput{Record: entities.NewProgressionRecord(), Warning: err}, nil
	}
	return &LoadOutput{Record: record}, nil
}

func (s *service) CommitRun(ctx context.Context, input *CommitRunInput) (*CommitRunOutput, error) {
	if input == nil || input.Outcome == nil {
		return nil, errors.InvalidArgument("outcome is required")
	}
	outcome := input.Outcome
	if outcome.RunID == "" {
		return nil, errors.InvalidArgument("outcome run ID is required")
	}
	if !outcome.Victory && !outcome.Died {
		return nil, errors.InvalidArgument("only finished runs can be committed")
	}

	profile := s.profileID(input.ProfileID)
	log := s.log.WithFields(logrus.Fields{"profile": profile, "run_id": outcome.RunID})

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	record := loaded.Record

	if slices.Contains(record.RecentRuns, outcome.RunID) {
		log.Info("run already committed")
		return &CommitRunOutput{Record: record, Warning: loaded.Warning}, nil
	}

	newUnlocks := apply(record, outcome)
	record.UpdatedAt = s.clock.Now()

	if err := s.save(ctx, profile, record); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"currency":    outcome.CurrencyEarned,
		"victory":     outcome.Victory,
		"depth":       outcome.DepthReached,
		"new_unlocks": len(newUnlocks),
	}).Info("run committed")

	return &CommitRunOutput{
		Record:     record,
		Applied:    true,
		NewUnlocks: newUnlocks,
		Warning:    loaded.Warning,
	}, nil
}

// apply folds an outcome into the record and returns the unlocks it granted
func apply(record *entities.ProgressionRecord, outcome *entities.RunOutcome) []string {
	earned := max(0, outcome.CurrencyEarned)
	record.Currency += earned
	record.CurrencyEarned += earned
	record.RunCount++

	best := &record.Best
	best.DeepestDepth = max(best.DeepestDepth, outcome.DepthReached)
	best.MostKills = max(best.MostKills, outcome.Kills)
	best.MostCurrency = max(best.MostCurrency, earned)
	if outcome.Victory {
		best.Victories++
		best.MaxCorruptionSurvived = max(best.MaxCorruptionSurvived, outcome.MaxCorruption)
	}
	if outcome.Died {
		best.Deaths++
	}

	var granted []string
	for _, id := range outcome.UnlocksEarned {
		if _, ok := entities.LookupUnlock(id); !ok {
			continue
		}
		if record.AddUnlock(id) {
			granted = append(granted, id)
		}
	}

	record.RecentRuns = append(record.RecentRuns, outcome.RunID)
	if len(record.RecentRuns) > maxRecentRuns {
		record.RecentRuns = slices.Clone(record.RecentRuns[len(record.RecentRuns)-maxRecentRuns:])
	}
	return granted
}

func (s *service) ActiveModifiers(ctx context.Context, input *ActiveModifiersInput) (*ActiveModifiersOutput, error) {
	if input == nil {
		input = &ActiveModifiersInput{}
	}
	loaded, err := s.load(ctx, s.profileID(input.ProfileID))
	if err != nil {
		return nil, err
	}

	return &ActiveModifiersOutput{
		Modifiers: entities.ModifiersFor(loaded.Record.Unlocks),
		Unlocks:   slices.Clone(loaded.Record.Unlocks),
		Warning:   loaded.Warning,
	}, nil
}

func (s *service) Purchase(ctx context.Context, input *PurchaseInput) (*PurchaseOutput, error) {
	if input == nil || input.UnlockID == "" {
		return nil, errors.InvalidArgument("unlock ID is required")
	}
	unlock, ok := entities.LookupUnlock(input.UnlockID)
	if !ok {
		return nil, errors.NotFoundf("unknown unlock %s", input.UnlockID)
	}
	if !unlock.Purchasable() {
		return nil, errors.FailedPreconditionf("unlock %s is earned, not sold", unlock.ID)
	}

	profile := s.profileID(input.ProfileID)

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.load(ctx, profile)
	if err != nil {
		return nil, err
	}
	record := loaded.Record

	if record.HasUnlock(unlock.ID) {
		return nil, errors.AlreadyExists("unlock already owned").WithMeta("unlock_id", unlock.ID)
	}
	if record.Currency < unlock.Cost {
		return nil, errors.FailedPrecondition("not enough currency").
			WithMeta("unlock_id", unlock.ID).
			WithMeta("cost", unlock.Cost).
			WithMeta("currency", record.Currency)
	}

	record.Currency -= unlock.Cost
	record.AddUnlock(unlock.ID)
	record.UpdatedAt = s.clock.Now()

	if err := s.save(ctx, profile, record); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"profile":   profile,
		"unlock_id": unlock.ID,
		"cost":      unlock.Cost,
	}).Info("unlock purchased")

	return &PurchaseOutput{Record: record, Unlock: unlock}, nil
}

func (s *service) Reset(ctx context.Context, input *ResetInput) (*ResetOutput, error) {
	if input == nil {
		input = &ResetInput{}
	}
	profile := s.profileID(input.ProfileID)

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.repo.Delete(ctx, &progressionrepo.DeleteInput{ProfileID: profile})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reset progression for profile %s", profile)
	}

	s.log.WithField("profile", profile).Info("progression reset")
	return &ResetOutput{Existed: out.Existed}, nil
}

func (s *service) save(ctx context.Context, profile string, record *entities.ProgressionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to encode progression record")
	}
	if _, err := s.repo.Put(ctx, &progressionrepo.PutInput{ProfileID: profile, Data: data}); err != nil {
		return errors.Wrapf(err, "failed to persist progression for profile %s", profile)
	}
	return nil
}

// DecodeRecord parses and sanity checks a stored record. Unreadable records
// fail with a CorruptPersistedRecord error.
func DecodeRecord(data []byte) (*entities.ProgressionRecord, error) {
	var record entities.ProgressionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.CorruptPersistedRecord("progression record is not valid JSON").
			WithMeta("cause", err.Error())
	}
	if record.Version < 1 || record.Version > entities.RecordVersion {
		return nil, errors.CorruptPersistedRecord("unsupported progression record version").
			WithMeta("version", record.Version)
	}
	if record.Currency < 0 || record.CurrencyEarned < 0 || record.RunCount < 0 {
		return nil, errors.CorruptPersistedRecord("progression record has negative counters")
	}
	if record.Unlocks == nil {
		record.Unlocks = []string{}
	}
	slices.Sort(record.Unlocks)
	record.Unlocks = slices.Compact(record.Unlocks)
	return &record, nil
}

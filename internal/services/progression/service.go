// Package progression owns the persistent meta-progression record: currency,
// unlocks and best-run statistics carried across runs.
//
// The record changes only at run boundaries. CommitRun is the single
// mutation point for run results and is idempotent per run ID; Purchase
// spends currency between runs. A run that never commits leaves the stored
// record untouched.
package progression

//go:generate mockgen -destination=mock/mock_service.go -package=progressionmock github.com/KirkDiggler/rpg-dungeon/internal/services/progression Service

import (
	"context"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// Service defines the meta-progression operations
type Service interface {
	// Load returns the profile's record, or defaults when none exists or
	// the stored one is unreadable
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	// CommitRun folds a finished run into the record and persists it
	CommitRun(ctx context.Context, input *CommitRunInput) (*CommitRunOutput, error)
	// ActiveModifiers expands owned unlocks for the next run
	ActiveModifiers(ctx context.Context, input *ActiveModifiersInput) (*ActiveModifiersOutput, error)
	// Purchase buys an unlock with banked currency
	Purchase(ctx context.Context, input *PurchaseInput) (*PurchaseOutput, error)
	// Reset deletes the profile's record
	Reset(ctx context.Context, input *ResetInput) (*ResetOutput, error)
}

// LoadInput defines the request for loading a record. An empty ProfileID
// uses the service's default profile.
type LoadInput struct {
	ProfileID string
}

// LoadOutput defines the response for loading a record
type LoadOutput struct {
	Record *entities.ProgressionRecord
	// Fresh is set when no record was stored yet
	Fresh bool
	// Warning is a CorruptPersistedRecord error when the stored record could
	// not be read and defaults were returned instead
	Warning error
}

// CommitRunInput defines the request for committing a run
type CommitRunInput struct {
	ProfileID string
	Outcome   *entities.RunOutcome
}

// CommitRunOutput defines the response for committing a run
type CommitRunOutput struct {
	Record *entities.ProgressionRecord
	// Applied is false when this run ID was already committed
	Applied bool
	// NewUnlocks lists unlocks this commit granted
	NewUnlocks []string
	Warning    error
}

// ActiveModifiersInput defines the request for the modifiers of a profile
type ActiveModifiersInput struct {
	ProfileID string
}

// ActiveModifiersOutput defines the response for active modifiers
type ActiveModifiersOutput struct {
	Modifiers []entities.Modifier
	Unlocks   []string
	Warning   error
}

// PurchaseInput defines the request for buying an unlock
type PurchaseInput struct {
	ProfileID string
	UnlockID  string
}

// PurchaseOutput defines the response for buying an unlock
type PurchaseOutput struct {
	Record *entities.ProgressionRecord
	Unlock entities.Unlock
}

// ResetInput defines the request for deleting a record
type ResetInput struct {
	ProfileID string
}

// ResetOutput defines the response for deleting a record
type ResetOutput struct {
	Existed bool
}

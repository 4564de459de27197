package run

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// StartInput defines the request for starting a run
type StartInput struct {
	// ProfileID selects the progression record; empty means the default
	ProfileID string
	// Seed fixes the run seed. Nil draws one from the clock.
	Seed *int64
}

// StartOutput defines the response for starting a run
type StartOutput struct {
	RunID     string
	Seed      int64
	Modifiers []entities.Modifier
	Snapshot  *simulation.Snapshot
}

// StepInput defines the request for advancing a run one tick
type StepInput struct {
	RunID  string
	Intent entities.Intent
}

// StepOutput defines the response for advancing a run. Outcome is set once
// the run has finished and been committed.
type StepOutput struct {
	Report   *simulation.TickReport
	Snapshot *simulation.Snapshot
	Outcome  *entities.RunOutcome
	Commit   *CommitResult
}

// CommitResult describes how a finished run changed the progression record
type CommitResult struct {
	Record     *entities.ProgressionRecord
	NewUnlocks []string
	// Applied is false when the run had already been committed
	Applied bool
}

// AutoplayInput defines the request for playing a run headlessly
type AutoplayInput struct {
	StartInput
	// MaxTicks aborts the run when reached; zero uses the default
	MaxTicks int
}

// AutoplayOutput defines the response for a headless run
type AutoplayOutput struct {
	RunID    string
	Seed     int64
	Outcome  *entities.RunOutcome
	Commit   *CommitResult
	Snapshot *simulation.Snapshot
}

// AbortInput defines the request for discarding a run
type AbortInput struct {
	RunID string
}

// AbortOutput defines the response for discarding a run
type AbortOutput struct {
	Tick int
}

// GetInput defines the request for reading a run
type GetInput struct {
	RunID string
}

// GetOutput defines the response for reading a run
type GetOutput struct {
	Snapshot  *simulation.Snapshot
	CombatLog []entities.CombatEvent
}

// ListInput defines the request for listing active runs
type ListInput struct{}

// ListOutput defines the response for listing active runs
type ListOutput struct {
	RunIDs []string
}

// ActiveRunsInput defines the request for the live runs of one profile
type ActiveRunsInput struct {
	// ProfileID selects the profile; empty means the default
	ProfileID string
}

// ActiveRunsOutput defines the response for a profile's live runs
type ActiveRunsOutput struct {
	RunIDs []string
}

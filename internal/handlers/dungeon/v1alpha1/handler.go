package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	RunService         run.Service
	ProgressionService progression.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RunService == nil {
		vb.RequiredField("RunService")
	}
	if c.ProgressionService == nil {
		vb.RequiredField("ProgressionService")
	}

	return vb.Build()
}

var _ RunServiceServer = (*Handler)(nil)

// Handler implements the RunService gRPC service
type Handler struct {
	runService         run.Service
	progressionService progression.Service
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		runService:         cfg.RunService,
		progressionService: cfg.ProgressionService,
	}, nil
}

// respond encodes a response or converts the error to a gRPC status
func respond(v any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	out, err := encode(v)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}

// StartRun starts a run.
// Request: {"profile_id": "...", "seed": "42"}, both optional.
func (h *Handler) StartRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in startRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.runService.Start(ctx, &run.StartInput{ProfileID: in.ProfileID, Seed: in.Seed})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&startResponse{
		RunID:     out.RunID,
		Seed:      out.Seed,
		Modifiers: fromModifiers(out.Modifiers),
		Snapshot:  out.Snapshot,
	}, nil)
}

// Step advances a run by one tick.
// Request: {"run_id": "...", "intent": {"kind": "move", "dir": {"x": 1, "y": 0}}}.
// Intent kinds are wait, move (dir), attack (target) and use_item (item).
func (h *Handler) Step(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in stepRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.RunID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("run_id is required"))
	}
	intent, err := toIntent(in.Intent)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.runService.Step(ctx, &run.StepInput{RunID: in.RunID, Intent: intent})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&stepResponse{
		Report:   fromReport(out.Report),
		Snapshot: out.Snapshot,
		Outcome:  fromOutcome(out.Outcome),
		Commit:   fromCommit(out.Commit),
	}, nil)
}

// Autoplay plays a whole run with the autopilot.
// Request: {"profile_id": "...", "seed": "42", "max_ticks": 5000}.
func (h *Handler) Autoplay(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in autoplayRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.runService.Autoplay(ctx, &run.AutoplayInput{
		StartInput: run.StartInput{ProfileID: in.ProfileID, Seed: in.Seed},
		MaxTicks:   in.MaxTicks,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&autoplayResponse{
		RunID:    out.RunID,
		Seed:     out.Seed,
		Outcome:  fromOutcome(out.Outcome),
		Commit:   fromCommit(out.Commit),
		Snapshot: out.Snapshot,
	}, nil)
}

// AbortRun discards a run without committing it.
// Request: {"run_id": "..."}.
func (h *Handler) AbortRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in runRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.runService.Abort(ctx, &run.AbortInput{RunID: in.RunID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&abortResponse{Tick: out.Tick}, nil)
}

// GetRun returns a run's snapshot and combat log.
// Request: {"run_id": "..."}.
func (h *Handler) GetRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in runRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.runService.Get(ctx, &run.GetInput{RunID: in.RunID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&getResponse{Snapshot: out.Snapshot, CombatLog: out.CombatLog}, nil)
}

// ListRuns returns the IDs of the live runs
func (h *Handler) ListRuns(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.runService.List(ctx, &run.ListInput{})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&listResponse{RunIDs: out.RunIDs}, nil)
}

// GetProgression returns a profile's record.
// Request: {"profile_id": "..."}, optional.
func (h *Handler) GetProgression(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in profileRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.progressionService.Load(ctx, &progression.LoadInput{ProfileID: in.ProfileID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&progressionResponse{
		Record:  out.Record,
		Fresh:   out.Fresh,
		Warning: warningText(out.Warning),
	}, nil)
}

// ListUnlocks returns the unlock catalog marked with what the profile owns.
// Request: {"profile_id": "..."}, optional.
func (h *Handler) ListUnlocks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in profileRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.progressionService.Load(ctx, &progression.LoadInput{ProfileID: in.ProfileID})
	if err != nil {
		return respond(nil, err)
	}

	catalog := entities.Catalog()
	resp := &unlocksResponse{
		Currency: out.Record.Currency,
		Unlocks:  make([]unlockMessage, len(catalog)),
	}
	for i, u := range catalog {
		resp.Unlocks[i] = fromUnlock(u, out.Record.HasUnlock(u.ID))
	}
	return respond(resp, nil)
}

// PurchaseUnlock spends currency on an unlock.
// Request: {"profile_id": "...", "unlock_id": "vigor"}.
func (h *Handler) PurchaseUnlock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in purchaseRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if err := h.requireNoActiveRun(ctx, in.ProfileID); err != nil {
		return respond(nil, err)
	}

	out, err := h.progressionService.Purchase(ctx, &progression.PurchaseInput{
		ProfileID: in.ProfileID,
		UnlockID:  in.UnlockID,
	})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&purchaseResponse{
		Unlock: fromUnlock(out.Unlock, true),
		Record: out.Record,
	}, nil)
}

// ResetProfile deletes a profile's record.
// Request: {"profile_id": "..."}, optional.
func (h *Handler) ResetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in profileRequest
	if err := decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if err := h.requireNoActiveRun(ctx, in.ProfileID); err != nil {
		return respond(nil, err)
	}

	out, err := h.progressionService.Reset(ctx, &progression.ResetInput{ProfileID: in.ProfileID})
	if err != nil {
		return respond(nil, err)
	}
	return respond(&resetResponse{Existed: out.Existed}, nil)
}

// requireNoActiveRun keeps a profile's record fixed while one of its runs is
// live; the run commits against the record it started from.
func (h *Handler) requireNoActiveRun(ctx context.Context, profileID string) error {
	out, err := h.runService.ActiveRuns(ctx, &run.ActiveRunsInput{ProfileID: profileID})
	if err != nil {
		return err
	}
	if len(out.RunIDs) > 0 {
		return errors.FailedPrecondition("profile has a run in progress").WithMetaMap(map[string]interface{}{
			"profile_id": profileID,
			"run_id":     out.RunIDs[0],
		})
	}
	return nil
}

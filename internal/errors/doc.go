// Package errors provides the structured error type used across rpg-dungeon.
//
// Every error carries a Code, a message safe to show to a caller, an optional
// cause and free-form metadata. Codes map directly onto gRPC status codes.
//
// # Basic Usage
//
//	err := errors.NotFoundf("run %s not found", runID)
//	err := errors.InvalidArgument("target room count must be at least 2").
//	    WithMeta("target_room_count", params.TargetRoomCount)
//
// Wrapping keeps the original code unless one is given explicitly:
//
//	if err := repo.Put(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to persist progression record")
//	}
//
// # Simulation Errors
//
// The simulation core has three recoverable failure kinds. None of them is
// fatal to the host process.
//
//   - GenerationFailed: the dungeon generator could not place the requested
//     rooms. Retry with a fresh seed or relaxed parameters.
//   - InvalidEntityReference: an intent or attack named an entity that is dead
//     or already removed. Callers treat it as a no-op.
//   - CorruptPersistedRecord: a stored progression record could not be
//     decoded. The store falls back to a default record and reports a warning.
//
// Check for them with IsGenerationFailed, IsInvalidEntityReference and
// IsCorruptPersistedRecord; the checks see through Wrap.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("target_room_count", p.TargetRoomCount, 2, 64, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # gRPC
//
// Handlers return errors.ToGRPCError(err); clients convert back with
// errors.FromGRPCError.
package errors

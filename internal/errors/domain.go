package errors

// MetaReason is the metadata key holding a simulation failure reason
const MetaReason = "reason"

// Simulation failure reasons
const (
	ReasonGenerationFailed       = "generation_failed"
	ReasonInvalidEntityReference = "invalid_entity_reference"
	ReasonCorruptPersistedRecord = "corrupt_persisted_record"
)

// GenerationFailed reports that the dungeon generator gave up. The caller may
// retry with a new seed or relaxed parameters.
func GenerationFailed(message string) *Error {
	return New(CodeResourceExhausted, message).WithMeta(MetaReason, ReasonGenerationFailed)
}

// InvalidEntityReference reports an intent aimed at a dead or removed entity
func InvalidEntityReference(message string) *Error {
	return New(CodeNotFound, message).WithMeta(MetaReason, ReasonInvalidEntityReference)
}

// CorruptPersistedRecord reports a stored progression record that could not be decoded
func CorruptPersistedRecord(message string) *Error {
	return DataLoss(message).WithMeta(MetaReason, ReasonCorruptPersistedRecord)
}

// IsGenerationFailed checks if err, or anything it wraps, is a generation failure
func IsGenerationFailed(err error) bool {
	return hasReason(err, ReasonGenerationFailed)
}

// IsInvalidEntityReference checks if err is a stale entity reference
func IsInvalidEntityReference(err error) bool {
	return hasReason(err, ReasonInvalidEntityReference)
}

// IsCorruptPersistedRecord checks if err is an undecodable progression record
func IsCorruptPersistedRecord(err error) bool {
	return hasReason(err, ReasonCorruptPersistedRecord)
}

func hasReason(err error, reason string) bool {
	meta := GetMeta(err)
	if meta == nil {
		return false
	}
	got, ok := meta[MetaReason].(string)
	return ok && got == reason
}

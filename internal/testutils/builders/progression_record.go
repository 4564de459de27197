package builders

import (
	"time"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

// ProgressionRecordBuilder builds progression records for store and handler tests
type ProgressionRecordBuilder struct {
	record *entities.ProgressionRecord
}

// NewProgressionRecordBuilder starts from the fresh-profile defaults
func NewProgressionRecordBuilder() *ProgressionRecordBuilder {
	return &ProgressionRecordBuilder{record: entities.NewProgressionRecord()}
}

// WithCurrency sets the balance and lifetime total
func (b *ProgressionRecordBuilder) WithCurrency(balance, earned int) *ProgressionRecordBuilder {
	b.record.Currency = balance
	b.record.CurrencyEarned = earned
	return b
}

// WithUnlocks adds owned unlocks
func (b *ProgressionRecordBuilder) WithUnlocks(ids ...string) *ProgressionRecordBuilder {
	for _, id := range ids {
		b.record.AddUnlock(id)
	}
	return b
}

// WithRuns records committed run IDs
func (b *ProgressionRecordBuilder) WithRuns(runIDs ...string) *ProgressionRecordBuilder {
	b.record.RunCount += len(runIDs)
	b.record.RecentRuns = append(b.record.RecentRuns, runIDs...)
	return b
}

// WithBest sets the best-run statistics
func (b *ProgressionRecordBuilder) WithBest(best entities.BestRun) *ProgressionRecordBuilder {
	b.record.Best = best
	return b
}

// WithUpdatedAt sets the last write time
func (b *ProgressionRecordBuilder) WithUpdatedAt(at time.Time) *ProgressionRecordBuilder {
	b.record.UpdatedAt = at
	return b
}

// Build returns the record
func (b *ProgressionRecordBuilder) Build() *entities.ProgressionRecord {
	return b.record
}

// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
	progressionmock "github.com/KirkDiggler/rpg-dungeon/internal/services/progression/mock"
)

// ExpectActiveModifiers sets up the modifier lookup a run start performs
func ExpectActiveModifiers(
	ctx context.Context, mockService *progressionmock.MockService,
	profileID string, unlocks ...string,
) *gomock.Call {
	return mockService.EXPECT().
		ActiveModifiers(ctx, &progression.ActiveModifiersInput{ProfileID: profileID}).
		Return(&progression.ActiveModifiersOutput{Modifiers: entities.ModifiersFor(unlocks)}, nil)
}

// ExpectCommitRun sets up a successful commit returning record
func ExpectCommitRun(
	ctx context.Context, mockService *progressionmock.MockService,
	record *entities.ProgressionRecord, newUnlocks ...string,
) *gomock.Call {
	return mockService.EXPECT().
		CommitRun(ctx, gomock.Any()).
		Return(&progression.CommitRunOutput{
			Record:     record,
			NewUnlocks: newUnlocks,
			Applied:    true,
		}, nil)
}

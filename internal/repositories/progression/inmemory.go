package progression

import (
	"context"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string][]byte),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves a copy of a profile's record
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.store[input.ProfileID]
	if !exists {
		return nil, errors.NotFoundf("no progression record for profile %s", input.ProfileID)
	}

	return &GetOutput{Data: append([]byte(nil), data...)}, nil
}

// Put stores a copy of the record
func (r *InMemoryRepository) Put(_ context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.ProfileID] = append([]byte(nil), input.Data...)
	return &PutOutput{}, nil
}

// Delete removes a profile's record
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, errors.InvalidArgument(errProfileIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.store[input.ProfileID]
	delete(r.store, input.ProfileID)
	return &DeleteOutput{Existed: existed}, nil
}

// Package progression stores meta-progression records as opaque blobs keyed
// by profile. Encoding belongs to the service layer.
package progression

import (
	"context"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=progressionmock github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression Repository

// Repository is raw read/write of one progression blob per profile
type Repository interface {
	// Get returns NotFound when the profile has no record yet
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	// Put replaces the profile's record
	Put(ctx context.Context, input *PutInput) (*PutOutput, error)
	// Delete removes the profile's record; deleting a missing record is not
	// an error
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// GetInput contains parameters for reading a record
type GetInput struct {
	ProfileID string
}

// GetOutput contains the stored blob
type GetOutput struct {
	Data []byte
}

// PutInput contains parameters for writing a record
type PutInput struct {
	ProfileID string
	Data      []byte
}

// PutOutput is empty; a nil error means the write is durable
type PutOutput struct{}

// DeleteInput contains parameters for removing a record
type DeleteInput struct {
	ProfileID string
}

// DeleteOutput reports whether a record existed
type DeleteOutput struct {
	Existed bool
}

const (
	errInputNil       = "input is required"
	errProfileIDEmpty = "profile ID is required"
	errDataEmpty      = "data is required"
)

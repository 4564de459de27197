package dungeon

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Params controls one generation pass
type Params struct {
	Width  int
	Height int

	TargetRoomCount int
	MinRoomSize     int
	MaxRoomSize     int
	CorridorWidth   int

	// Densities are spawns per interior tile, in [0, 1]
	HazardDensity float64
	EnemyDensity  float64
	ItemDensity   float64

	// ExtraEdges is the most loop corridors added after the spanning links
	ExtraEdges int
	// DifficultyModifier scales spawn counts; 1 is neutral
	DifficultyModifier float64

	// PlacementAttempts is how many consecutive failed placements shrink the
	// room size bucket by one
	PlacementAttempts int
	// MaxAttempts caps placement attempts across all buckets
	MaxAttempts int

	// Depth is the floor number, starting at 1
	Depth int
}

// DefaultParams returns a medium sized floor
func DefaultParams() Params {
	return Params{
		Width:              60,
		Height:             40,
		TargetRoomCount:    8,
		MinRoomSize:        4,
		MaxRoomSize:        10,
		CorridorWidth:      1,
		HazardDensity:      0.02,
		EnemyDensity:       0.04,
		ItemDensity:        0.015,
		ExtraEdges:         2,
		DifficultyModifier: 1,
		PlacementAttempts:  50,
		MaxAttempts:        2000,
		Depth:              1,
	}
}

// Validate reports every out of range field at once
func (p Params) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("MinRoomSize", p.MinRoomSize, 3, 64, vb)
	if p.MaxRoomSize < p.MinRoomSize {
		vb.Fieldf("MaxRoomSize", "must be at least MinRoomSize (%d)", p.MinRoomSize)
	}
	errors.ValidateRange("Width", p.Width, p.MinRoomSize+2, 512, vb)
	errors.ValidateRange("Height", p.Height, p.MinRoomSize+2, 512, vb)
	errors.ValidateRange("TargetRoomCount", p.TargetRoomCount, 2, 256, vb)
	errors.ValidateRange("CorridorWidth", p.CorridorWidth, 1, 3, vb)
	errors.ValidateFraction("HazardDensity", p.HazardDensity, vb)
	errors.ValidateFraction("EnemyDensity", p.EnemyDensity, vb)
	errors.ValidateFraction("ItemDensity", p.ItemDensity, vb)
	if p.ExtraEdges < 0 {
		vb.Field("ExtraEdges", "must not be negative")
	}
	if p.DifficultyModifier < 0 {
		vb.Field("DifficultyModifier", "must not be negative")
	}
	if p.PlacementAttempts <= 0 {
		vb.Field("PlacementAttempts", "must be positive")
	}
	if p.MaxAttempts <= 0 {
		vb.Field("MaxAttempts", "must be positive")
	}
	if p.Depth < 1 {
		vb.Field("Depth", "must be at least 1")
	}

	return vb.Build()
}

package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationErrorIsStable() {
	ve := errors.NewValidationError()
	ve.AddFieldError("width", "is too small")
	ve.AddFieldErrorf("corridor_width", "must be at least %d", 1)

	s.True(ve.HasErrors())
	s.Equal("validation failed: corridor_width: must be at least 1; width: is too small", ve.Error())

	err := ve.ToError()
	s.Equal(errors.CodeInvalidArgument, err.Code)
	s.NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestBuilder() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("target_room_count", 1, 2, 64, vb)
	errors.ValidateFraction("hazard_density", 1.5, vb)
	errors.ValidateRequired("profile", "  ", vb)
	errors.ValidateEnum("store", "postgres", []string{"memory", "redis", "sqlite"}, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "target_room_count: must be between 2 and 64")
	s.Contains(err.Error(), "hazard_density: must be between 0 and 1")
	s.Contains(err.Error(), "profile: is required")
	s.Contains(err.Error(), "store: must be one of: memory, redis, sqlite")
}

func (s *ValidationTestSuite) TestBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("depth", 3, 1, 10, vb)
	errors.ValidateFraction("enemy_density", 0.05, vb)
	s.NoError(vb.Build())
}

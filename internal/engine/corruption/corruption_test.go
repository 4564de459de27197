package corruption_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/corruption"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

type CorruptionTestSuite struct {
	suite.Suite
	system *corruption.System
	player *entities.Entity
}

func TestCorruptionSuite(t *testing.T) {
	suite.Run(t, new(CorruptionTestSuite))
}

func (s *CorruptionTestSuite) SetupTest() {
	s.system = corruption.NewSystem(nil)
	s.player = entities.NewEntity(1, entities.KindPlayer, entities.Position{})
}

func (s *CorruptionTestSuite) TestThresholdFiresOnceAcrossCure() {
	s.player.Corruption = 24

	crossed := s.system.Apply(s.player, 1)
	s.Equal(25, s.player.Corruption)
	s.Require().Len(crossed, 1)
	s.Equal(25, crossed[0].Level)

	settled := s.system.Settle(s.player)
	s.Require().Len(settled, 1)
	s.Equal("tainted", settled[0].Threshold.Name)
	s.Equal(8, s.player.Attack)
	s.Equal(1, s.player.Defense)

	s.Empty(s.system.Apply(s.player, 1))
	s.Equal(24, s.system.Cure(s.player, 2))
	s.Empty(s.system.Apply(s.player, 2))
	s.Equal(26, s.player.Corruption)
	s.Empty(s.system.Settle(s.player))

	s.Equal(8, s.player.Attack, "tainted must not apply twice")
	s.Equal([]string{"veins"}, s.player.Mutations)
	s.Equal([]int{25}, s.player.Thresholds)
}

func (s *CorruptionTestSuite) TestCapAndMultipleCrossings() {
	crossed := s.system.Apply(s.player, 80)
	s.Equal(80, s.player.Corruption)
	s.Len(crossed, 3)

	events := s.system.Settle(s.player)
	s.Require().Len(events, 3)
	s.Equal([]string{"veins", "eyes", "horns"}, s.player.Mutations)
	s.Equal(20, s.player.MaxHP)
	s.Equal(20, s.player.HP)
	s.Equal(11, s.player.Attack)
	s.Equal(3, s.player.Defense)

	crossed = s.system.Apply(s.player, 500)
	s.Equal(corruption.MaxLevel, s.player.Corruption)
	s.Require().Len(crossed, 1)
	s.True(crossed[0].Consume)
}

func (s *CorruptionTestSuite) TestConsumedIsTransformationNotDeath() {
	s.system.Apply(s.player, 100)
	s.system.Settle(s.player)

	s.True(s.player.Consumed)
	s.False(s.player.IsDead())
	s.Zero(s.player.Defense)
	// 6 +2 +3 = 11, then x1.5 rounds to 17
	s.Equal(17, s.player.Attack)
	s.Contains(s.player.Mutations, "consumed")

	s.Equal(100, s.system.Cure(s.player, 50))
	s.Empty(s.system.Apply(s.player, 10))
	s.Equal(100, s.player.Corruption)
}

func (s *CorruptionTestSuite) TestMonotonicWithoutCure() {
	last := 0
	for i := 0; i < 40; i++ {
		s.system.Apply(s.player, i%4)
		s.system.Settle(s.player)
		s.GreaterOrEqual(s.player.Corruption, last)
		s.LessOrEqual(s.player.Corruption, corruption.MaxLevel)
		last = s.player.Corruption
	}
}

func (s *CorruptionTestSuite) TestNonPositiveAmountsIgnored() {
	s.Empty(s.system.Apply(s.player, -5))
	s.Zero(s.player.Corruption)
	s.Zero(s.system.Cure(s.player, 10))
	s.Equal(0, s.system.Cure(s.player, -3))
}

func (s *CorruptionTestSuite) TestExposureRecordedOnStatus() {
	s.system.Apply(s.player, 30)
	s.system.Cure(s.player, 30)
	s.system.Apply(s.player, 10)

	status, ok := s.player.Status(entities.StatusCorrupted)
	s.Require().True(ok)
	s.Equal(40, status.Level)
	s.Equal(10, s.player.Corruption)
}

func (s *CorruptionTestSuite) TestCustomThresholds() {
	system := corruption.NewSystem(&corruption.Config{
		Thresholds: []corruption.Threshold{{Level: 10, Name: "itch", Tag: "rash"}},
	})
	s.Len(system.Apply(s.player, 10), 1)
	system.Settle(s.player)
	s.Equal([]string{"rash"}, s.player.Mutations)
}

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

type EntityTestSuite struct {
	suite.Suite
	player *entities.Entity
}

func TestEntitySuite(t *testing.T) {
	suite.Run(t, new(EntityTestSuite))
}

func (s *EntityTestSuite) SetupTest() {
	s.player = entities.NewEntity(1, entities.KindPlayer, entities.Position{X: 3, Y: 4})
}

func (s *EntityTestSuite) TestNewEntityUsesProfile() {
	rat := entities.NewEntity(2, entities.KindRat, entities.Position{})
	profile := entities.Profile(entities.KindRat)

	s.Equal(profile.MaxHP, rat.HP)
	s.Equal(profile.MaxHP, rat.MaxHP)
	s.Equal(profile.Attack, rat.Attack)
	s.Require().NotNil(rat.AI)
	s.Equal(entities.AIIdle, rat.AI.State)

	s.Nil(s.player.AI)
	s.True(s.player.IsPlayer())
	s.Equal("1", s.player.GetID())
	s.Equal("player", s.player.GetType())
}

func (s *EntityTestSuite) TestApplyDamageClamps() {
	testCases := []struct {
		name   string
		amount int
		wantHP int
	}{
		{name: "normal hit", amount: 7, wantHP: 23},
		{name: "overkill", amount: 500, wantHP: 0},
		{name: "negative ignored", amount: -10, wantHP: 30},
		{name: "zero", amount: 0, wantHP: 30},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			e := entities.NewEntity(1, entities.KindPlayer, entities.Position{})
			s.Equal(tc.wantHP, e.ApplyDamage(tc.amount))
			s.GreaterOrEqual(e.HP, 0)
			s.LessOrEqual(e.HP, e.MaxHP)
		})
	}
}

func (s *EntityTestSuite) TestHealClamps() {
	s.player.ApplyDamage(10)
	s.Equal(25, s.player.Heal(5))
	s.Equal(30, s.player.Heal(100))
	s.Equal(30, s.player.Heal(-4))
}

func (s *EntityTestSuite) TestHealDoesNotRevive() {
	s.player.ApplyDamage(999)
	s.Equal(0, s.player.Heal(10))
	s.True(s.player.IsDead())
}

func (s *EntityTestSuite) TestAdjustMaxHPClampsHP() {
	s.player.AdjustMaxHP(-10)
	s.Equal(20, s.player.MaxHP)
	s.Equal(20, s.player.HP)

	s.player.AdjustMaxHP(-100)
	s.Equal(1, s.player.MaxHP)
	s.Equal(1, s.player.HP)
}

func (s *EntityTestSuite) TestPoisonStacksToCap() {
	for i := 0; i < 8; i++ {
		s.player.AddStatusEffect(entities.Poisoned(1, 3))
	}
	poison, ok := s.player.Status(entities.StatusPoisoned)
	s.Require().True(ok)
	s.Equal(entities.MaxPoisonStacks, poison.Stacks)
	s.Len(s.player.Statuses, 1)
}

func (s *EntityTestSuite) TestPoisonRefreshesDuration() {
	s.player.AddStatusEffect(entities.Poisoned(1, 2))
	s.player.AddStatusEffect(entities.Poisoned(1, 5))
	poison, _ := s.player.Status(entities.StatusPoisoned)
	s.Equal(5, poison.Ticks)
	s.Equal(2, poison.Stacks)
}

func (s *EntityTestSuite) TestStunRefreshesWithoutStacking() {
	s.player.AddStatusEffect(entities.Stunned(3))
	s.player.AddStatusEffect(entities.Stunned(1))
	stun, _ := s.player.Status(entities.StatusStunned)
	s.Equal(3, stun.Ticks)
	s.Len(s.player.Statuses, 1)

	s.player.AddStatusEffect(entities.Stunned(4))
	stun, _ = s.player.Status(entities.StatusStunned)
	s.Equal(4, stun.Ticks)
}

func (s *EntityTestSuite) TestBuffsPerStat() {
	s.player.AddStatusEffect(entities.Buffed(entities.StatAttack, 2, 3))
	s.player.AddStatusEffect(entities.Buffed(entities.StatAttack, 1, 5))
	s.player.AddStatusEffect(entities.Buffed(entities.StatDefense, 4, 2))

	s.Len(s.player.Statuses, 2)
	s.Equal(8, s.player.EffectiveAttack())
	s.Equal(6, s.player.EffectiveDefense())
}

func (s *EntityTestSuite) TestCorruptedAccumulatesAndPersists() {
	s.player.AddStatusEffect(entities.Corrupted(40))
	s.player.AddStatusEffect(entities.Corrupted(90))

	for i := 0; i < 10; i++ {
		s.player.TickStatuses()
	}
	corrupted, ok := s.player.Status(entities.StatusCorrupted)
	s.Require().True(ok)
	s.Equal(130, corrupted.Level)
}

func (s *EntityTestSuite) TestTickStatuses() {
	s.player.AddStatusEffect(entities.Poisoned(3, 2))
	s.player.AddStatusEffect(entities.Stunned(1))

	tick := s.player.TickStatuses()
	s.Equal(3, tick.PoisonDamage)
	s.Equal(27, s.player.HP)
	s.Equal([]entities.StatusKind{entities.StatusStunned}, tick.Expired)
	s.False(s.player.IsStunned())

	tick = s.player.TickStatuses()
	s.Equal(3, tick.PoisonDamage)
	s.Equal(24, s.player.HP)
	s.Empty(s.player.Statuses)

	tick = s.player.TickStatuses()
	s.Zero(tick.PoisonDamage)
}

func (s *EntityTestSuite) TestZeroDurationEffectsIgnored() {
	s.player.AddStatusEffect(entities.Stunned(0))
	s.player.AddStatusEffect(entities.Poisoned(2, 0))
	s.Empty(s.player.Statuses)
}

func (s *EntityTestSuite) TestItems() {
	s.player.AddItem(entities.ItemPotion)
	s.player.AddItem(entities.ItemSalt)

	s.True(s.player.TakeItem(entities.ItemPotion))
	s.False(s.player.TakeItem(entities.ItemPotion))
	s.Equal([]entities.ItemKind{entities.ItemSalt}, s.player.Inventory)
}

func (s *EntityTestSuite) TestTags() {
	s.player.AddStatusEffect(entities.Poisoned(1, 2))
	s.player.AddStatusEffect(entities.Buffed(entities.StatCrit, 5, 2))
	s.player.Mutations = []string{"veins"}

	s.Equal([]string{"poisoned", "buffed:crit", "veins"}, s.player.Tags())
}

func (s *EntityTestSuite) TestCloneIsDeep() {
	rat := entities.NewEntity(2, entities.KindRat, entities.Position{})
	rat.AddStatusEffect(entities.Poisoned(1, 3))

	c := rat.Clone()
	c.AI.State = entities.AIChasing
	c.Statuses[0].Stacks = 5

	s.Equal(entities.AIIdle, rat.AI.State)
	s.Equal(1, rat.Statuses[0].Stacks)
}

func (s *EntityTestSuite) TestLeashRadius() {
	p := entities.Profile(entities.KindRat)
	s.InDelta(6*1.8, p.LeashRadius(), 1e-9)
}

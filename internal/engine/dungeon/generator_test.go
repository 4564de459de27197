package dungeon_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type GeneratorTestSuite struct {
	suite.Suite
	gen    *dungeon.Generator
	params dungeon.Params
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (s *GeneratorTestSuite) SetupTest() {
	s.gen = dungeon.NewGenerator(nil)
	s.params = dungeon.DefaultParams()
}

func (s *GeneratorTestSuite) TestSeed42EightRooms() {
	s.params.TargetRoomCount = 8

	d, err := s.gen.Generate(42, s.params)
	s.Require().NoError(err)

	s.Len(d.Rooms, 8)
	s.Equal(1, d.Count(entities.TileStairsUp))
	s.Equal(1, d.Count(entities.TileStairsDown))
	s.Equal(entities.TileStairsUp, d.At(d.Entry))
	s.Equal(entities.TileStairsDown, d.At(d.Exit))
	s.NotEqual(d.Entry, d.Exit)
	s.Empty(d.Unreachable())
}

func (s *GeneratorTestSuite) TestConnectivityAcrossSeeds() {
	variants := map[string]func(*dungeon.Params){
		"defaults":     func(*dungeon.Params) {},
		"wide halls":   func(p *dungeon.Params) { p.CorridorWidth = 3 },
		"many rooms":   func(p *dungeon.Params) { p.TargetRoomCount = 14; p.MaxRoomSize = 7 },
		"small map":    func(p *dungeon.Params) { p.Width, p.Height = 30, 20; p.TargetRoomCount = 5 },
		"loopy":        func(p *dungeon.Params) { p.ExtraEdges = 6 },
		"dense spawns": func(p *dungeon.Params) { p.HazardDensity, p.EnemyDensity = 0.3, 0.3 },
	}

	for name, mutate := range variants {
		s.Run(name, func() {
			params := dungeon.DefaultParams()
			mutate(&params)
			for seed := int64(0); seed < 60; seed++ {
				d, err := s.gen.Generate(seed, params)
				if err != nil {
					s.True(errors.IsGenerationFailed(err), "seed %d: unexpected error %v", seed, err)
					continue
				}
				s.Empty(d.Unreachable(), "seed %d disconnected", seed)
				s.Len(d.Rooms, params.TargetRoomCount)
			}
		})
	}
}

func (s *GeneratorTestSuite) TestDeterministic() {
	a, err := s.gen.Generate(1234, s.params)
	s.Require().NoError(err)
	b, err := s.gen.Generate(1234, s.params)
	s.Require().NoError(err)
	s.Equal(a, b)

	c, err := s.gen.Generate(1235, s.params)
	s.Require().NoError(err)
	s.NotEqual(a.Tiles, c.Tiles)
}

func (s *GeneratorTestSuite) TestSpawnDensityDoesNotMoveRooms() {
	sparse := s.params
	sparse.EnemyDensity = 0
	dense := s.params
	dense.EnemyDensity = 0.2

	a, err := s.gen.Generate(7, sparse)
	s.Require().NoError(err)
	b, err := s.gen.Generate(7, dense)
	s.Require().NoError(err)
	s.Equal(a.Rooms, b.Rooms)
	s.Equal(a.Edges, b.Edges)
}

func (s *GeneratorTestSuite) TestRoomsNeverOverlap() {
	for seed := int64(0); seed < 40; seed++ {
		d, err := s.gen.Generate(seed, s.params)
		s.Require().NoError(err)
		for i := range d.Rooms {
			for j := i + 1; j < len(d.Rooms); j++ {
				s.False(d.Rooms[i].Bounds.Expand(1).Intersects(d.Rooms[j].Bounds),
					"seed %d rooms %d and %d touch", seed, i, j)
			}
		}
	}
}

func (s *GeneratorTestSuite) TestEdges() {
	s.params.ExtraEdges = 3
	d, err := s.gen.Generate(99, s.params)
	s.Require().NoError(err)

	n := len(d.Rooms)
	s.GreaterOrEqual(len(d.Edges), n-1)
	s.LessOrEqual(len(d.Edges), n-1+3)
}

func (s *GeneratorTestSuite) TestExitIsFarthestByGraph() {
	for seed := int64(0); seed < 30; seed++ {
		d, err := s.gen.Generate(seed, s.params)
		s.Require().NoError(err)

		hops := roomHops(d)
		exitRoom := d.RoomAt(d.Exit)
		s.Require().GreaterOrEqual(exitRoom, 1)
		for i := range d.Rooms {
			s.LessOrEqual(hops[i], hops[exitRoom], "seed %d", seed)
		}
	}
}

func (s *GeneratorTestSuite) TestDoorsSitOnRoomWalls() {
	for width := 1; width <= 3; width++ {
		s.Run(fmt.Sprintf("corridor width %d", width), func() {
			params := dungeon.DefaultParams()
			params.CorridorWidth = width

			doors := 0
			for seed := int64(0); seed < 30; seed++ {
				d, err := s.gen.Generate(seed, params)
				if err != nil {
					s.True(errors.IsGenerationFailed(err), "seed %d: unexpected error %v", seed, err)
					continue
				}
				for _, room := range d.Rooms {
					ring := room.Bounds.Expand(1)
					for _, door := range room.Doors {
						s.Equal(entities.TileDoor, d.At(door))
						s.True(ring.Contains(door))
						s.False(room.Bounds.Contains(door))
					}
					doors += len(room.Doors)
				}
				s.Empty(d.Unreachable(), "seed %d disconnected", seed)
			}
			s.Positive(doors)
		})
	}
}

func (s *GeneratorTestSuite) TestSpawnPlacement() {
	s.params.HazardDensity = 0.1
	s.params.EnemyDensity = 0.1
	s.params.ItemDensity = 0.05

	for seed := int64(0); seed < 30; seed++ {
		d, err := s.gen.Generate(seed, s.params)
		s.Require().NoError(err)

		starts := d.SpawnsOf(entities.SpawnPlayerStart)
		s.Require().Len(starts, 1)
		s.Equal(d.Entry, starts[0].Pos)

		used := map[entities.Position]bool{}
		for _, sp := range d.Spawns {
			if sp.Kind == entities.SpawnPlayerStart {
				continue
			}
			s.False(used[sp.Pos], "seed %d: two spawns on %v", seed, sp.Pos)
			used[sp.Pos] = true

			s.NotEqual(d.Entry, sp.Pos)
			s.NotEqual(d.Exit, sp.Pos)
			s.NotEqual(entities.TileDoor, d.At(sp.Pos))
			s.NotZero(sp.Room, "spawn in entry room")
			s.True(d.Rooms[sp.Room].Bounds.Contains(sp.Pos))

			switch sp.Kind {
			case entities.SpawnHazard:
				s.Equal(entities.TileHazard, d.At(sp.Pos))
			case entities.SpawnEnemy:
				s.True(sp.Enemy.IsEnemy())
			case entities.SpawnItem:
				s.NotEqual(entities.ItemNone, sp.Item)
			}
		}
	}
}

func (s *GeneratorTestSuite) TestDifficultyScalesSpawns() {
	count := func(difficulty float64) int {
		total := 0
		params := dungeon.DefaultParams()
		params.DifficultyModifier = difficulty
		for seed := int64(0); seed < 20; seed++ {
			d, err := s.gen.Generate(seed, params)
			s.Require().NoError(err)
			total += len(d.SpawnsOf(entities.SpawnEnemy))
		}
		return total
	}

	s.Zero(count(0))
	s.Greater(count(2), count(1))
}

func (s *GeneratorTestSuite) TestImpossibleLayoutFails() {
	s.params.Width = 12
	s.params.Height = 12
	s.params.TargetRoomCount = 10

	_, err := s.gen.Generate(3, s.params)
	s.Require().Error(err)
	s.True(errors.IsGenerationFailed(err))
	s.Equal(errors.CodeResourceExhausted, errors.GetCode(err))
}

func (s *GeneratorTestSuite) TestAttemptCapFails() {
	s.params.MaxAttempts = 3
	s.params.TargetRoomCount = 20

	_, err := s.gen.Generate(3, s.params)
	s.Require().Error(err)
	s.True(errors.IsGenerationFailed(err))
}

func (s *GeneratorTestSuite) TestInvalidParams() {
	s.params.MaxRoomSize = 2
	s.params.EnemyDensity = 1.5

	_, err := s.gen.Generate(1, s.params)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "EnemyDensity")
	s.Contains(err.Error(), "MaxRoomSize")
}

func (s *GeneratorTestSuite) TestEnemyWeightGatesByDepth() {
	s.Zero(dungeon.EnemyWeight(entities.KindWraith, 1, 1))
	s.Zero(dungeon.EnemyWeight(entities.KindHusk, 1, 1))
	s.Positive(dungeon.EnemyWeight(entities.KindHusk, 2, 1))
	s.Greater(dungeon.EnemyWeight(entities.KindHusk, 4, 1), dungeon.EnemyWeight(entities.KindHusk, 2, 1))
	s.Greater(dungeon.EnemyWeight(entities.KindHusk, 2, 2), dungeon.EnemyWeight(entities.KindHusk, 2, 1))
	s.Equal(entities.Profile(entities.KindRat).Weight, dungeon.EnemyWeight(entities.KindRat, 5, 3))
}

func roomHops(d *entities.Dungeon) []int {
	hops := make([]int, len(d.Rooms))
	for i := range hops {
		hops[i] = -1
	}
	hops[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range d.Edges {
			for _, pair := range [][2]int{{e.A, e.B}, {e.B, e.A}} {
				if pair[0] == cur && hops[pair[1]] < 0 {
					hops[pair[1]] = hops[cur] + 1
					queue = append(queue, pair[1])
				}
			}
		}
	}
	return hops
}

func (s *GeneratorTestSuite) TestLootFavoursPotions() {
	s.params.ItemDensity = 0.1

	counts := map[entities.ItemKind]int{}
	for seed := int64(0); seed < 40; seed++ {
		d, err := s.gen.Generate(seed, s.params)
		s.Require().NoError(err)
		for _, sp := range d.SpawnsOf(entities.SpawnItem) {
			counts[sp.Item]++
		}
	}

	s.Len(counts, 2)
	s.Greater(counts[entities.ItemPotion], counts[entities.ItemSalt])
	s.NotZero(counts[entities.ItemSalt])
}

package progression_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func(t *testing.T) progression.Repository
	repo    progression.Repository
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo(s.T())
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(*testing.T) progression.Repository {
		return progression.NewInMemory()
	}})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) progression.Repository {
		client, _ := testutils.NewTestRedis(t)
		repo, err := progression.NewRedis(&progression.RedisConfig{Client: client})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func(t *testing.T) progression.Repository {
		path := filepath.Join(t.TempDir(), "progression.db")
		repo, err := progression.OpenSQLite(context.Background(), path, &clock.Frozen{At: time.Unix(1700000000, 0)})
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	}})
}

func (s *RepositoryTestSuite) TestGetMissingIsNotFound() {
	_, err := s.repo.Get(s.ctx, &progression.GetInput{ProfileID: "nobody"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestPutThenGet() {
	_, err := s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "default", Data: []byte(`{"version":1}`)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &progression.GetInput{ProfileID: "default"})
	s.Require().NoError(err)
	s.Equal([]byte(`{"version":1}`), out.Data)
}

func (s *RepositoryTestSuite) TestPutReplaces() {
	_, err := s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "default", Data: []byte("first")})
	s.Require().NoError(err)
	_, err = s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "default", Data: []byte("second")})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &progression.GetInput{ProfileID: "default"})
	s.Require().NoError(err)
	s.Equal([]byte("second"), out.Data)
}

func (s *RepositoryTestSuite) TestProfilesAreIsolated() {
	_, err := s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "alice", Data: []byte("a")})
	s.Require().NoError(err)
	_, err = s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "bob", Data: []byte("b")})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, &progression.GetInput{ProfileID: "alice"})
	s.Require().NoError(err)
	s.Equal([]byte("a"), out.Data)
}

func (s *RepositoryTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "default", Data: []byte("x")})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, &progression.DeleteInput{ProfileID: "default"})
	s.Require().NoError(err)
	s.True(out.Existed)

	_, err = s.repo.Get(s.ctx, &progression.GetInput{ProfileID: "default"})
	s.True(errors.IsNotFound(err))

	out, err = s.repo.Delete(s.ctx, &progression.DeleteInput{ProfileID: "default"})
	s.Require().NoError(err)
	s.False(out.Existed)
}

func (s *RepositoryTestSuite) TestInputValidation() {
	testCases := []struct {
		name string
		call func() error
	}{
		{"get nil input", func() error { _, err := s.repo.Get(s.ctx, nil); return err }},
		{"get blank profile", func() error {
			_, err := s.repo.Get(s.ctx, &progression.GetInput{ProfileID: " "})
			return err
		}},
		{"put nil input", func() error { _, err := s.repo.Put(s.ctx, nil); return err }},
		{"put empty data", func() error {
			_, err := s.repo.Put(s.ctx, &progression.PutInput{ProfileID: "default"})
			return err
		}},
		{"delete blank profile", func() error {
			_, err := s.repo.Delete(s.ctx, &progression.DeleteInput{})
			return err
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.True(errors.IsInvalidArgument(tc.call()))
		})
	}
}

func TestNewRedisRequiresClient(t *testing.T) {
	_, err := progression.NewRedis(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	_, err = progression.NewRedis(&progression.RedisConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

package config_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Equal(config.StoreMemory, cfg.Store)
	s.Equal("default", cfg.Profile)
	s.Equal(3, cfg.MaxDepth)
	s.Equal(50051, cfg.GRPCPort)
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestEnvironmentOverrides() {
	s.T().Setenv("DUNGEON_STORE", "redis")
	s.T().Setenv("DUNGEON_REDIS_ADDR", "cache:6380")
	s.T().Setenv("DUNGEON_MAX_DEPTH", "5")
	s.T().Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	s.Require().NoError(err)

	s.Equal(config.StoreRedis, cfg.Store)
	s.Equal("cache:6380", cfg.RedisAddr)
	s.Equal(5, cfg.MaxDepth)
	s.Equal("json", cfg.LogFormat)
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestMalformedNumber() {
	s.T().Setenv("DUNGEON_MAX_DEPTH", "deep")

	_, err := config.Load()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "unknown store",
			mutate:  func(c *config.Config) { c.Store = "postgres" },
			wantErr: "Store",
		},
		{
			name:    "depth out of range",
			mutate:  func(c *config.Config) { c.MaxDepth = 0 },
			wantErr: "MaxDepth",
		},
		{
			name: "sqlite without path",
			mutate: func(c *config.Config) {
				c.Store = config.StoreSQLite
				c.SQLitePath = ""
			},
			wantErr: "SQLitePath",
		},
		{
			name:    "blank profile",
			mutate:  func(c *config.Config) { c.Profile = " " },
			wantErr: "Profile",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg, err := config.Load()
			s.Require().NoError(err)
			tc.mutate(cfg)

			err = cfg.Validate()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.wantErr)
		})
	}
}

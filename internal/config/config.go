// Package config loads process configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Store backends for the progression record
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds everything the server and CLI commands read from the
// environment. Cobra flags override individual fields after Load.
type Config struct {
	Store      string `env:"DUNGEON_STORE"       envDefault:"memory"`
	RedisAddr  string `env:"DUNGEON_REDIS_ADDR"  envDefault:"localhost:6379"`
	SQLitePath string `env:"DUNGEON_SQLITE_PATH" envDefault:"dungeon.db"`
	Profile    string `env:"DUNGEON_PROFILE"     envDefault:"default"`
	MaxDepth   int    `env:"DUNGEON_MAX_DEPTH"   envDefault:"3"`

	GRPCPort   int `env:"DUNGEON_GRPC_PORT"   envDefault:"50051"`
	StreamPort int `env:"DUNGEON_STREAM_PORT" envDefault:"8080"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment into a Config
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	return cfg, nil
}

// Validate checks that the config is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("Store", c.Store, []string{StoreMemory, StoreRedis, StoreSQLite}, vb)
	errors.ValidateRequired("Profile", c.Profile, vb)
	errors.ValidateRange("MaxDepth", c.MaxDepth, 1, 99, vb)

	if c.Store == StoreRedis && c.RedisAddr == "" {
		vb.RequiredField("RedisAddr")
	}
	if c.Store == StoreSQLite && c.SQLitePath == "" {
		vb.RequiredField("SQLitePath")
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		vb.Fieldf("GRPCPort", "port %d out of range", c.GRPCPort)
	}
	if c.StreamPort < 0 || c.StreamPort > 65535 {
		vb.Fieldf("StreamPort", "port %d out of range", c.StreamPort)
	}

	return vb.Build()
}

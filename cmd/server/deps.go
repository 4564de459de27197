package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/logger"
	"github.com/KirkDiggler/rpg-dungeon/internal/redis"
	progressionrepo "github.com/KirkDiggler/rpg-dungeon/internal/repositories/progression"
	"github.com/KirkDiggler/rpg-dungeon/internal/services/progression"
)

// flag overrides for environment config
var (
	storeFlag      string
	redisAddrFlag  string
	sqlitePathFlag string
	profileFlag    string
	maxDepthFlag   int
	logLevelFlag   string
	logFormatFlag  string
)

func bindConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&storeFlag, "store", "", "progression store: memory, redis or sqlite (env DUNGEON_STORE)")
	flags.StringVar(&redisAddrFlag, "redis-addr", "", "redis address (env DUNGEON_REDIS_ADDR)")
	flags.StringVar(&sqlitePathFlag, "sqlite-path", "", "sqlite database file (env DUNGEON_SQLITE_PATH)")
	flags.StringVar(&profileFlag, "profile", "", "progression profile (env DUNGEON_PROFILE)")
	flags.IntVar(&maxDepthFlag, "max-depth", 0, "floors per run (env DUNGEON_MAX_DEPTH)")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level (env LOG_LEVEL)")
	flags.StringVar(&logFormatFlag, "log-format", "", "log format: text or json (env LOG_FORMAT)")
}

// loadConfig reads the environment and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = storeFlag
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr = redisAddrFlag
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = sqlitePathFlag
	}
	if flags.Changed("profile") {
		cfg.Profile = profileFlag
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepthFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormatFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
}

// openRepository connects the configured progression backend. The returned
// func releases it.
func openRepository(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (progressionrepo.Repository, func(), error) {
	log = log.WithField("store", cfg.Store)

	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.Connect(ctx, cfg.RedisAddr, nil)
		if err != nil {
			return nil, nil, err
		}
		repo, err := progressionrepo.NewRedis(&progressionrepo.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("progression store ready")
		return repo, closer(log, client.Close), nil

	case config.StoreSQLite:
		repo, err := progressionrepo.OpenSQLite(ctx, cfg.SQLitePath, clock.New())
		if err != nil {
			return nil, nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("progression store ready")
		return repo, closer(log, repo.Close), nil

	default:
		log.Warn("progression is kept in memory and lost on exit")
		return progressionrepo.NewInMemory(), func() {}, nil
	}
}

func closer(log logrus.FieldLogger, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			log.WithError(err).Warn("failed to close progression store")
		}
	}
}

// newProgression builds the progression service over the configured store
func newProgression(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (progression.Service, func(), error) {
	repo, release, err := openRepository(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc, err := progression.NewService(&progression.Config{
		Repository: repo,
		Clock:      clock.New(),
		Logger:     log,
		Profile:    cfg.Profile,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return svc, release, nil
}

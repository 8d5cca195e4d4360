// Package bootstrap loads configuration, logging and connections shared by every command.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"genesiscode/internal/infrastructure/cache"
	"genesiscode/internal/infrastructure/config"
	"genesiscode/internal/infrastructure/database"
	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
)

// Runtime is what a command gets after Init.
type Runtime struct {
	Env    string
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
	Redis  *redis.Client
}

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flagValue string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	if flagValue == "" {
		return constants.EnvDevelopment
	}
	return flagValue
}

// LoadConfig reads configuration and initializes the process logger.
func LoadConfig(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.NewLogger(), nil
}

// Init loads config, opens the database and, when withRedis is set, connects to redis.
// A redis failure is logged and leaves Redis nil so callers can run uncached.
func Init(ctx context.Context, env, configPath string, withRedis bool) (*Runtime, error) {
	cfg, log, err := LoadConfig(env, configPath)
	if err != nil {
		return nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rt := &Runtime{Env: env, Config: cfg, Log: log, DB: database.Get()}

	if withRedis && cfg.Access.CacheEnabled {
		client, err := cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warnw("redis unavailable, access decisions will not be cached",
				"address", cfg.Redis.GetAddr(), "error", err)
		} else {
			log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
			rt.Redis = client
		}
	}

	return rt, nil
}

// Close releases the connections opened by Init.
func (rt *Runtime) Close() {
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			rt.Log.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		rt.Log.Warnw("failed to close database", "error", err)
	}
}

func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	accessApp "genesiscode/internal/application/access"
	categoryUsecases "genesiscode/internal/application/categoryaccess/usecases"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/infrastructure/auth"
	"genesiscode/internal/infrastructure/cache"
	"genesiscode/internal/infrastructure/config"
	"genesiscode/internal/infrastructure/email"
	"genesiscode/internal/infrastructure/metrics"
	"genesiscode/internal/infrastructure/permission"
	"genesiscode/internal/infrastructure/ratelimit"
	"genesiscode/internal/infrastructure/repository"
	"genesiscode/internal/interfaces/http/middleware"
	"genesiscode/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and handlers
// of the HTTP server and wires them together.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	metrics *metrics.Metrics

	repos        *repository.Repositories
	enforcer     *permission.Enforcer
	accessEngine *accessApp.Engine

	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
}

// NewContainer wires the server. redisClient may be nil, which disables the decision cache.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		metrics: metrics.New(),
		repos:   repository.NewRepositories(db, log),
	}

	enforcer, err := permission.NewEnforcer(db, cfg.Auth.CasbinModelPath, log.Named("permission"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := enforcer.EnsureDefaultPolicies(); err != nil {
		return nil, err
	}
	c.enforcer = enforcer

	c.accessEngine = accessApp.NewEngine(
		c.accessSources(),
		c.decisionCache(),
		log.Named("access"),
		accessApp.WithCacheTTL(cfg.Access.CacheTTL()),
		accessApp.WithMetrics(c.metrics),
	)

	c.ucs = newUseCases(c.repos, c.accessEngine, c.unlockNotifier(), log)
	c.hdlrs = newHandlers(c.accessEngine, c.ucs, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(jwtService, log.Named("middleware.auth"))
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.accessEngine, enforcer, log.Named("middleware.permission"))

	return c, nil
}

func (c *Container) accessSources() accessApp.Sources {
	return accessApp.Sources{
		Users:          c.repos.Users,
		Roles:          c.enforcer,
		Catalog:        c.repos.Catalog,
		Grants:         c.repos.Grants,
		Subscriptions:  c.repos.Subscriptions,
		Plans:          c.repos.Plans,
		CategoryAccess: c.repos.CategoryAccess,
		Progress:       c.repos.Progress,
	}
}

func (c *Container) decisionCache() access.DecisionCache {
	if !c.cfg.Access.CacheEnabled || c.redis == nil {
		c.log.Infow("access decision cache disabled")
		return access.NopCache{}
	}
	return cache.NewRedisDecisionCache(c.redis, c.log.Named("cache.decision"))
}

func (c *Container) unlockNotifier() categoryUsecases.UnlockNotifier {
	if !c.cfg.Email.Enabled {
		return email.NopEmailService{}
	}
	return email.NewSMTPEmailService(email.SMTPConfig{
		Host:        c.cfg.Email.SMTPHost,
		Port:        c.cfg.Email.SMTPPort,
		Username:    c.cfg.Email.SMTPUser,
		Password:    c.cfg.Email.SMTPPassword,
		FromAddress: c.cfg.Email.FromAddress,
		FromName:    c.cfg.Email.FromName,
		BaseURL:     c.cfg.Email.BaseURL,
	})
}

// rateLimit returns nil when limiting is off or redis is unavailable.
func (c *Container) rateLimit(scope string, perMinute int) gin.HandlerFunc {
	if !c.cfg.RateLimit.Enabled || c.redis == nil || perMinute <= 0 {
		return nil
	}
	return middleware.RateLimit(ratelimit.NewRedisLimiter(c.redis), scope,
		ratelimit.Limit{PerMinute: perMinute}, c.log.Named("middleware.ratelimit"))
}

// AccessEngine exposes the engine for in-process callers such as the CLI.
func (c *Container) AccessEngine() *accessApp.Engine {
	return c.accessEngine
}

// Repositories exposes the stores for the seed command and the worker.
func (c *Container) Repositories() *repository.Repositories {
	return c.repos
}

// Enforcer exposes the casbin enforcer, which also stores role assignments.
func (c *Container) Enforcer() *permission.Enforcer {
	return c.enforcer
}

func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

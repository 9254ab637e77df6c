package app

import (
	"context"
	"crypto/rand"
	"fmt"

	"family-chores-go/internal/config"
	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/internal/domain/reconcile"
	"family-chores-go/internal/mailer"
	"family-chores-go/internal/metrics"
	"family-chores-go/internal/repository/inmemory"
	childrenrepo "family-chores-go/internal/repository/postgres/children"
	choresrepo "family-chores-go/internal/repository/postgres/chores"
	familyrepo "family-chores-go/internal/repository/postgres/family"
	goalsrepo "family-chores-go/internal/repository/postgres/goals"
	ledgerrepo "family-chores-go/internal/repository/postgres/ledger"
	notificationsrepo "family-chores-go/internal/repository/postgres/notifications"
	reconcilerepo "family-chores-go/internal/repository/postgres/reconcile"
	rediscache "family-chores-go/internal/repository/redis"
	"family-chores-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the domain layer shared by the HTTP server and the admin CLI.
type Services struct {
	Family        *family.Service
	Children      *children.Service
	Chores        *chores.Service
	Goals         *goals.Service
	Notifications *notifications.Service
	Reconcile     *reconcile.Service

	redis *goredis.Client
}

func NewServices(ctx context.Context, cfg config.Config, dbConn *gorm.DB, m *metrics.Metrics, log logger.Logger) (*Services, error) {
	mail, err := mailer.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init mailer: %w", err)
	}

	secret, err := sessionSecret(cfg.ChildSessions, log)
	if err != nil {
		return nil, err
	}

	var (
		tokenCache  children.Cache
		redisClient *goredis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient, err = rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		tokenCache = rediscache.NewChildTokenCache(redisClient, log)
		log.Info("app: child token cache on redis", "addr", cfg.Redis.Addr)
	} else {
		tokenCache = inmemory.NewInMemoryChildTokenCache()
		log.Info("app: child token cache in memory")
	}

	familySvc := family.NewService(familyrepo.NewPostgres(dbConn), inmemory.NewInMemoryFamilyCache(), mail, log)
	childrenSvc := children.NewService(
		childrenrepo.NewPostgres(dbConn),
		familySvc,
		tokenCache,
		cfg.Redis.CacheTTL,
		children.NewSessions(secret, cfg.ChildSessions.TTL),
		log,
	)
	notificationsSvc := notifications.NewService(notificationsrepo.NewPostgres(dbConn), mail, familySvc, log)

	var choreMetrics chores.Metrics
	if m != nil {
		choreMetrics = m
	}

	return &Services{
		Family:        familySvc,
		Children:      childrenSvc,
		Chores:        chores.NewService(choresrepo.NewPostgres(dbConn), childrenSvc, familySvc, notificationsSvc, choreMetrics, log),
		Goals:         goals.NewService(goalsrepo.NewPostgres(dbConn), childrenSvc, familySvc, notificationsSvc, log),
		Notifications: notificationsSvc,
		Reconcile:     reconcile.NewService(reconcilerepo.NewPostgres(dbConn), ledgerrepo.NewPostgres(dbConn), log),
		redis:         redisClient,
	}, nil
}

func (s *Services) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

func sessionSecret(cfg config.ChildSessionConfig, log logger.Logger) ([]byte, error) {
	if cfg.Secret != "" {
		return []byte(cfg.Secret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	log.Warn("app: CHILD_SESSION_SECRET not set, child sessions will not survive a restart")
	return secret, nil
}

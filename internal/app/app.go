package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/internal/db"
	"family-chores-go/internal/metrics"
	"family-chores-go/internal/transport/httpserver"
	"family-chores-go/internal/transport/httpserver/handler"
	"family-chores-go/internal/transport/httpserver/handler/admin"
	"family-chores-go/internal/transport/httpserver/handler/child"
	childrenhandler "family-chores-go/internal/transport/httpserver/handler/children"
	choreshandler "family-chores-go/internal/transport/httpserver/handler/chores"
	"family-chores-go/internal/transport/httpserver/handler/families"
	goalshandler "family-chores-go/internal/transport/httpserver/handler/goals"
	notificationshandler "family-chores-go/internal/transport/httpserver/handler/notifications"
	"family-chores-go/pkg/logger"
	"gorm.io/gorm"
)

const poolStatsInterval = 30 * time.Second

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	metrics    *metrics.Metrics
	services   *Services
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		closeDB(dbConn)
		return nil, err
	}

	m := metrics.New()

	log.Info("app: initializing services")
	services, err := NewServices(ctx, cfg, dbConn, m, log)
	if err != nil {
		closeDB(dbConn)
		return nil, err
	}

	handlers := &handler.Handlers{
		Families:      families.New(services.Family, cfg.IsAdmin, log),
		Children:      childrenhandler.New(services.Children, services.Goals, log),
		Chores:        choreshandler.New(services.Chores, log),
		Goals:         goalshandler.New(services.Goals, log),
		Notifications: notificationshandler.New(services.Notifications, log),
		Child:         child.New(services.Chores, services.Goals, services.Notifications, log),
		Admin:         admin.New(services.Reconcile, log),
	}

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, services.Family, services.Children, m, log)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
		metrics:    m,
		services:   services,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// RunBackground sends due-date reminders and samples pool statistics until
// ctx is cancelled.
func (a *App) RunBackground(ctx context.Context) {
	reminders := time.NewTicker(a.cfg.Reminders.Interval)
	defer reminders.Stop()
	poolStats := time.NewTicker(poolStatsInterval)
	defer poolStats.Stop()

	a.log.Info("reminders: scheduler started", "interval", a.cfg.Reminders.Interval, "window", a.cfg.Reminders.Window)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-reminders.C:
			sent, err := a.services.Chores.SendDueReminders(ctx, now.UTC(), a.cfg.Reminders.Window)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.log.InternalError("reminders: run failed", err)
				continue
			}
			a.metrics.ReminderSent(sent)
		case <-poolStats.C:
			if sqlDB, err := a.db.DB(); err == nil {
				a.metrics.RecordDBPoolStats(sqlDB.Stats())
			}
		}
	}
}

func (a *App) Close() error {
	var errs []error
	if a.services != nil {
		errs = append(errs, a.services.Close())
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

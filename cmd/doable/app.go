package main

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/core/querycache"
	"github.com/doable/dashboard/internal/core/service"
	"github.com/doable/dashboard/internal/core/session"
	"github.com/doable/dashboard/internal/infrastructure/config"
	"github.com/doable/dashboard/internal/infrastructure/db/mongo"
	"github.com/doable/dashboard/internal/infrastructure/db/redis"
	"github.com/doable/dashboard/internal/infrastructure/db/sqlite"
	"github.com/doable/dashboard/internal/infrastructure/http/handlers"
	"github.com/doable/dashboard/internal/infrastructure/realtime"
)

// app holds the wired services and everything that must be released on exit.
type app struct {
	log zerolog.Logger

	identities ports.IdentityRepository
	profiles   ports.ProfileRepository
	projects   ports.ProjectRepository
	tasks      ports.TaskRepository

	changes     ports.ChangeFeed
	authEvents  ports.AuthEventBus
	revocations ports.RevocationStore

	checks  map[string]handlers.Check
	closers []func(context.Context) error

	authSvc      *service.AuthService
	taskSvc      *service.TaskService
	projectSvc   *service.ProjectService
	profileSvc   *service.ProfileService
	dashboardSvc *service.DashboardService
	sessions     *session.Controller
	hub          *realtime.Hub
}

// newApp connects the configured stores and builds the services. The caller
// must call close.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{log: log, checks: make(map[string]handlers.Check)}
	if err := a.openStore(ctx, cfg); err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	if err := a.openRealtime(ctx, cfg); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	// Local writes invalidate synchronously; the hub covers other processes.
	cache := querycache.New(service.CacheRules())
	changes := querycache.NewFeed(a.changes, cache)
	a.authSvc = service.NewAuthService(service.AuthDeps{
		Identities:  a.identities,
		Profiles:    a.profiles,
		Revocations: a.revocations,
		AuthEvents:  a.authEvents,
		Changes:     changes,
	}, cfg.JWTSecret, cfg.Session.TTL, log)
	a.taskSvc = service.NewTaskService(a.tasks, a.profiles, a.projects, changes, log)
	a.projectSvc = service.NewProjectService(a.projects, changes, log)
	a.profileSvc = service.NewProfileService(a.profiles, a.identities, changes, log)
	a.dashboardSvc = service.NewDashboardService(a.tasks, a.projects, a.taskSvc, cache)

	a.sessions = session.NewController(a.authSvc, service.NewRoleResolver(a.profiles), a.authEvents,
		session.Config{SettleTimeout: cfg.Session.SettleTimeout}, log)
	a.hub = realtime.NewHub(a.changes, cache, log,
		realtime.WithWorkers(cfg.Realtime.Workers),
		realtime.WithEventHook(metrics.RecordChange),
	)
	return a, nil
}

// start follows auth and change events until ctx is cancelled.
func (a *app) start(ctx context.Context) error {
	if err := a.sessions.Start(ctx); err != nil {
		return fmt.Errorf("session controller: %w", err)
	}
	if err := a.hub.Start(ctx); err != nil {
		return fmt.Errorf("realtime hub: %w", err)
	}
	return nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		if err := db.Init(ctx); err != nil {
			return err
		}
		a.identities = sqlite.NewIdentityRepository(db)
		a.profiles = sqlite.NewProfileRepository(db)
		a.projects = sqlite.NewProjectRepository(db)
		a.tasks = sqlite.NewTaskRepository(db)
		a.checks["sqlite"] = db.Ping
		a.log.Info().Str("path", cfg.SQLite.Path).Msg("using sqlite store")

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Disconnect)

		identities := mongo.NewIdentityRepository(db)
		profiles := mongo.NewProfileRepository(db)
		projects := mongo.NewProjectRepository(db)
		tasks := mongo.NewTaskRepository(db)
		if err := mongo.EnsureIndexes(ctx, identities, profiles, projects, tasks); err != nil {
			return err
		}
		a.identities, a.profiles, a.projects, a.tasks = identities, profiles, projects, tasks
		a.checks["mongo"] = handlers.MongoCheck(db)
		a.log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo store")
	}
	return nil
}

func (a *app) openRealtime(ctx context.Context, cfg *config.Config) error {
	switch cfg.RealtimeDriver {
	case config.RealtimeLocal:
		broker := realtime.NewBroker(a.log)
		a.changes, a.authEvents = broker, broker
		a.revocations = realtime.NewRevocations()
		a.log.Info().Msg("using in-process realtime broker")

	default:
		client, err := redis.Connect(ctx, redis.Config{
			URL:        cfg.Redis.URL,
			Addr:       cfg.Redis.Addr,
			DB:         cfg.Redis.DB,
			Username:   cfg.Redis.Username,
			Password:   cfg.Redis.Password,
			ClientName: cfg.Redis.ClientName,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, closeRedis(client))
		ps := redis.NewPubSub(client, a.log)
		a.changes, a.authEvents = ps, ps
		a.revocations = redis.NewRevocationStore(client)
		a.checks["redis"] = handlers.RedisCheck(client)
		a.log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis realtime")
	}
	return nil
}

func closeRedis(client *goredis.Client) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}

// close stops the event loops and releases connections in reverse order.
func (a *app) close(ctx context.Context) error {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.sessions != nil {
		a.sessions.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

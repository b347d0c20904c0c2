package app

import (
	"context"
	"database/sql"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargehub/backend/libs/metrics"
	libredis "chargehub/backend/libs/redis"
	"chargehub/backend/services/chargehub/internal/clients"
	appconfig "chargehub/backend/services/chargehub/internal/config"
	"chargehub/backend/services/chargehub/internal/db"
	httpserver "chargehub/backend/services/chargehub/internal/http"
	"chargehub/backend/services/chargehub/internal/http/handlers"
	"chargehub/backend/services/chargehub/internal/http/middleware"
	"chargehub/backend/services/chargehub/internal/mapview"
	"chargehub/backend/services/chargehub/internal/password"
	redisstore "chargehub/backend/services/chargehub/internal/redis"
	"chargehub/backend/services/chargehub/internal/repository"
	"chargehub/backend/services/chargehub/internal/service"
	"chargehub/backend/services/chargehub/internal/store"
	"chargehub/backend/services/chargehub/internal/ws"
)

// App wires dependencies for the station directory.
type App struct {
	cfg      *appconfig.Config
	server   *httpserver.Server
	registry *store.Registry
	hub      *ws.Hub
	db       *sql.DB
	redis    *goredis.Client
	logger   *zap.Logger
}

// New builds application graph. ctx bounds the startup probes only.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, db: sqlDB, logger: logger}

	if cfg.Database.Migrate {
		version, err := db.Migrate(sqlDB)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("database schema ready", zap.Uint("version", version))
	}

	var revoker service.SessionRevoker
	if cfg.RedisEnabled() {
		client, err := libredis.Connect(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		revoker = redisstore.NewRevokedSessions(client)
	} else {
		logger.Warn("redis not configured, sign-outs are kept in process")
		revoker = service.NewMemoryRevocations()
	}

	backend, err := newBackend(cfg, sqlDB)
	if err != nil {
		a.Close()
		return nil, err
	}

	adapters, err := mapview.NewSet(mapview.Config{
		Default:     cfg.Map.Adapter,
		HostedToken: cfg.Map.HostedToken,
		HostedStyle: cfg.Map.HostedStyle,
		OpenTileURL: cfg.Map.OpenTileURL,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	m := metrics.New("chargehub")
	a.hub = ws.NewHub(m, logger)
	a.registry = store.NewRegistry(func(sessionID, userID string) *store.Store {
		return store.New(backend, store.Options{
			UserID:   userID,
			Timeout:  cfg.BackendTimeout(),
			Logger:   logger.With(zap.String("session_id", sessionID)),
			Recorder: m,
			OnChange: func(evt store.Event) { a.hub.Publish(sessionID, evt) },
		})
	}, m, logger)
	a.registry.OnRelease(a.hub.CloseSession)

	authSvc := service.NewAuthService(
		repository.NewUserRepository(sqlDB),
		password.NewBcryptHasher(0),
		service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration()),
		revoker,
		a.registry,
		logger,
	)

	live := ws.NewServer(a.hub, middleware.SessionFromRequest, ws.Timeouts{
		Write: cfg.Live.WriteTimeout,
		Pong:  cfg.Live.PongTimeout,
		Ping:  cfg.Live.PingInterval,
	}, logger)

	checks := []handlers.HealthCheck{{Name: "database", Pinger: sqlDB}}
	if a.redis != nil {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Pinger: libredis.Pinger{Client: a.redis}})
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(authSvc, logger),
		StationsHandlers: handlers.NewStationsHandlers(service.NewDirectoryService(logger), logger),
		MapHandlers:      handlers.NewMapHandlers(service.NewMapService(adapters, cfg.Map.Theme, logger), logger),
		HealthHandler:    handlers.NewHealthHandler(checks...),
		LandingHandler:   handlers.NewLandingHandler(adapters.Names(), adapters.Default()),
		NotFoundHandler:  handlers.NewNotFoundHandler(),
		MetricsHandler:   m.Handler(),
		LiveHandler:      live.HandleWS,
		Authenticate:     middleware.AuthMiddleware(authSvc),
		Session:          middleware.SessionMiddleware(a.registry),
	})

	a.server = httpserver.NewServer(cfg.HTTPAddress(), router, httpserver.Timeouts{
		Read:     cfg.HTTP.ReadTimeout,
		Write:    cfg.HTTP.WriteTimeout,
		Idle:     cfg.HTTP.IdleTimeout,
		Shutdown: cfg.HTTP.ShutdownTimeout,
	}, logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, m),
	)
	a.server.RegisterOnShutdown(a.hub.CloseAll)

	logger.Info("chargehub configured",
		zap.String("backend", cfg.Backend.Kind),
		zap.String("map_adapter", adapters.Default()),
		zap.Strings("map_adapters", adapters.Names()),
		zap.Bool("redis", a.redis != nil),
	)
	return a, nil
}

func newBackend(cfg *appconfig.Config, sqlDB *sql.DB) (store.Backend, error) {
	switch cfg.Backend.Kind {
	case appconfig.BackendPostgres:
		return repository.NewStationRepository(sqlDB), nil
	case appconfig.BackendREST:
		doer := clients.NewDefaultHTTPClient(cfg.BackendTimeout())
		return clients.NewStationsRESTClient(cfg.Backend.URL, cfg.Backend.APIKey, cfg.Backend.Table, doer), nil
	case appconfig.BackendNone:
		return store.Offline{}, nil
	default:
		return nil, errors.New("app: unknown station backend " + cfg.Backend.Kind)
	}
}

// Run serves HTTP traffic and sweeps expired sessions until context cancellation.
func (a *App) Run(ctx context.Context) error {
	go a.registry.Run(ctx, a.cfg.Sessions.SweepInterval)
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.hub != nil {
		a.hub.CloseAll()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}

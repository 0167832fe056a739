package app

import (
	"context"
	"net/http"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	gameAPI "slot_backend/internal/api/game"
	wsAPI "slot_backend/internal/api/ws"
	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/logger"
	"slot_backend/internal/metrics"
	"slot_backend/internal/repository"
	"slot_backend/internal/repository/account_repo"
	"slot_backend/internal/repository/gamestate_repo"
	"slot_backend/internal/repository/memory"
	"slot_backend/internal/repository/stats_repo"
	"slot_backend/internal/service"
	"slot_backend/internal/service/line"
	"slot_backend/internal/service/session"
	"slot_backend/internal/service/wager"
	"slot_backend/pkg/resp"
)

type ServiceProvider struct {
	log    *zap.Logger
	logCfg config.LogConfig

	//TXManager
	txManager trm.Manager

	// Database. Без PG_DSN работаем на хранилище в памяти
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool
	memStore *memory.Store

	// Accounts and sessions
	sessionCfg  config.SessionConfig
	accountRepo repository.AccountRepository
	sessionServ service.SessionService

	// Games and wagers
	gamesCfg      config.GamesConfig
	catalog       *line.Catalog
	generator     line.Generator
	gameStateRepo repository.GameStateRepository
	statsRepo     *stats_repo.StatsRepo
	wagerServ     service.WagerService
	gameHand      *gameAPI.Handler

	// Gateway
	gatewayCfg config.GatewayConfig
	registry   *wsAPI.Registry
	lobby      *wsAPI.Lobby
	gateway    *wsAPI.Gateway

	// Metrics
	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		cfg, err := env.NewLogConfig()
		if err != nil {
			panic("failed to get log config: " + err.Error())
		}
		sp.logCfg = cfg
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		l, err := logger.New(sp.LogCfg().Development())
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = l
	}
	return sp.log
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

// InMemory - true, если PG_DSN не задан
func (sp *ServiceProvider) InMemory() bool {
	return sp.PgConfig().DSN() == ""
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) MemStore() *memory.Store {
	if sp.memStore == nil {
		sp.Logger().Warn("PG_DSN is not set, using in-memory store: data is lost on restart")
		sp.memStore = memory.NewStore()
	}
	return sp.memStore
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if sp.InMemory() {
			sp.txManager = sp.MemStore().TxManager()
			return sp.txManager
		}

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) SessionCfg() config.SessionConfig {
	if sp.sessionCfg == nil {
		cfg, err := env.NewSessionConfig()
		if err != nil {
			panic("failed to get session config: " + err.Error())
		}
		sp.sessionCfg = cfg
	}
	return sp.sessionCfg
}

func (sp *ServiceProvider) AccountRepo(ctx context.Context) repository.AccountRepository {
	if sp.accountRepo == nil {
		if sp.InMemory() {
			sp.accountRepo = memory.NewAccountRepository(sp.MemStore())
		} else {
			sp.accountRepo = account_repo.NewAccountRepository(sp.DBClient(ctx))
		}
	}
	return sp.accountRepo
}

func (sp *ServiceProvider) SessionService(ctx context.Context) service.SessionService {
	if sp.sessionServ == nil {
		sp.sessionServ = session.NewSessionService(sp.SessionCfg(), sp.TXManager(ctx), sp.AccountRepo(ctx), sp.Logger())
	}
	return sp.sessionServ
}

func (sp *ServiceProvider) GamesCfg() config.GamesConfig {
	if sp.gamesCfg == nil {
		cfg, err := env.NewGamesConfig()
		if err != nil {
			panic("failed to get games config: " + err.Error())
		}
		sp.gamesCfg = cfg
	}
	return sp.gamesCfg
}

func (sp *ServiceProvider) Catalog() *line.Catalog {
	if sp.catalog == nil {
		games, err := env.NewGamesFromYAML(sp.GamesCfg().Path())
		if err != nil {
			panic("failed to load games: " + err.Error())
		}
		catalog, err := line.NewCatalog(games...)
		if err != nil {
			panic("invalid games config: " + err.Error())
		}
		sp.catalog = catalog

		for _, g := range catalog.List() {
			sp.Logger().Info("game registered", zap.String("game_id", g.ID), zap.Int("paylines", len(g.Paylines)))
		}
	}
	return sp.catalog
}

func (sp *ServiceProvider) Generator() line.Generator {
	if sp.generator == nil {
		sp.generator = line.NewGenerator()
	}
	return sp.generator
}

func (sp *ServiceProvider) GameStateRepo(ctx context.Context) repository.GameStateRepository {
	if sp.gameStateRepo == nil {
		if sp.InMemory() {
			sp.gameStateRepo = memory.NewGameStateRepository(sp.MemStore())
		} else {
			sp.gameStateRepo = gamestate_repo.NewGameStateRepository(sp.DBClient(ctx))
		}
	}
	return sp.gameStateRepo
}

func (sp *ServiceProvider) StatsRepo() *stats_repo.StatsRepo {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewStatsRepository(stats_repo.DefaultWindowSize)
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) WagerService(ctx context.Context) service.WagerService {
	if sp.wagerServ == nil {
		sp.wagerServ = wager.NewWagerService(wager.Deps{
			Catalog:     sp.Catalog(),
			Generator:   sp.Generator(),
			TxManager:   sp.TXManager(ctx),
			AccountRepo: sp.AccountRepo(ctx),
			StateRepo:   sp.GameStateRepo(ctx),
			StatsRepo:   sp.StatsRepo(),
			Metrics:     sp.Metrics(),
			Log:         sp.Logger(),
		})
	}
	return sp.wagerServ
}

func (sp *ServiceProvider) GameHandler() *gameAPI.Handler {
	if sp.gameHand == nil {
		sp.gameHand = gameAPI.NewHandler(gameAPI.HandlerDeps{Catalog: sp.Catalog()})
	}
	return sp.gameHand
}

func (sp *ServiceProvider) GatewayCfg() config.GatewayConfig {
	if sp.gatewayCfg == nil {
		cfg, err := env.NewGatewayConfig()
		if err != nil {
			panic("failed to get gateway config: " + err.Error())
		}
		sp.gatewayCfg = cfg
	}
	return sp.gatewayCfg
}

func (sp *ServiceProvider) Registry() *wsAPI.Registry {
	if sp.registry == nil {
		sp.registry = wsAPI.NewRegistry()
	}
	return sp.registry
}

func (sp *ServiceProvider) Lobby() *wsAPI.Lobby {
	if sp.lobby == nil {
		sp.lobby = wsAPI.NewLobby()
	}
	return sp.lobby
}

func (sp *ServiceProvider) Gateway(ctx context.Context) *wsAPI.Gateway {
	if sp.gateway == nil {
		sp.gateway = wsAPI.NewGateway(wsAPI.HandlerDeps{
			Sessions: sp.SessionService(ctx),
			Wagers:   sp.WagerService(ctx),
			Registry: sp.Registry(),
			Lobby:    sp.Lobby(),
			Config:   sp.GatewayCfg(),
			Metrics:  sp.Metrics(),
			Log:      sp.Logger(),
		})
	}
	return sp.gateway
}

func (sp *ServiceProvider) PromRegistry() *prometheus.Registry {
	if sp.promRegistry == nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sp.promRegistry = reg
	}
	return sp.promRegistry
}

func (sp *ServiceProvider) Metrics() *metrics.Metrics {
	if sp.metrics == nil {
		sp.metrics = metrics.New(sp.PromRegistry())
	}
	return sp.metrics
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

// healthz - процесс жив и хранилище доступно
func (sp *ServiceProvider) healthz(w http.ResponseWriter, r *http.Request) {
	if sp.dbClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := sp.dbClient.Ping(ctx); err != nil {
			sp.Logger().Warn("health check failed", zap.Error(err))
			resp.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   sp.GatewayCfg().AllowedOrigins(),
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Realtime gateway
		r.Handle("/ws", sp.Gateway(ctx))

		// Game catalog endpoints
		gameHandler := sp.GameHandler()
		r.Route("/games", func(rr chi.Router) {
			rr.Get("/", gameHandler.List)
			rr.Get("/{gameID}", gameHandler.Get)
		})

		r.Get("/healthz", sp.healthz)
		r.Handle("/metrics", promhttp.HandlerFor(sp.PromRegistry(), promhttp.HandlerOpts{}))

		sp.router = r
	}

	return sp.router
}

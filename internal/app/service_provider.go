package app

import (
	"context"

	slotAPI "midnight_slots/internal/api/slot"
	"midnight_slots/internal/config"
	"midnight_slots/internal/config/env"
	"midnight_slots/internal/repository"
	"midnight_slots/internal/repository/balance_repo"
	"midnight_slots/internal/repository/memory_repo"
	"midnight_slots/internal/repository/redis_repo"
	"midnight_slots/internal/repository/stats_repo"
	"midnight_slots/internal/service"
	"midnight_slots/internal/service/slot"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	// Logger
	logCfg config.LogConfig
	log    *zap.Logger

	//TXManager
	txManager trm.Manager

	// Storage
	storageCfg config.StorageConfig
	pgConfig   config.PGConfig
	dbClient   *pgxpool.Pool
	redisCfg   config.RedisConfig
	rdb        *redis.Client

	// Slot bits
	slotCfg     config.SlotConfig
	balanceRepo repository.BalanceRepository
	statsRepo   repository.StatsRepository
	revealServ  service.RevealService
	slotServ    service.SlotService
	slotHand    *slotAPI.Handler

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
		l, err := newLogger(sp.LogCfg().Level())
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = l
	}
	return sp.log
}

func (sp *ServiceProvider) StorageCfg() config.StorageConfig {
	if sp.storageCfg == nil {
		cfg, err := env.NewStorageConfig()
		if err != nil {
			panic("failed to get storage config: " + err.Error())
		}
		sp.storageCfg = cfg
	}
	return sp.storageCfg
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
		err = balance_repo.Migrate(ctx, dbc)
		if err != nil {
			panic("failed to migrate db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.rdb == nil {
		cfg := sp.RedisCfg()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Address(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.rdb = rdb
	}
	return sp.rdb
}

// TXManager настоящие транзакции есть только у postgres
func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if sp.StorageCfg().Driver() != config.StoragePostgres {
			sp.txManager = memory_repo.NewTxManager()
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

func (sp *ServiceProvider) BalanceRepository(ctx context.Context) repository.BalanceRepository {
	if sp.balanceRepo == nil {
		switch sp.StorageCfg().Driver() {
		case config.StoragePostgres:
			sp.balanceRepo = balance_repo.NewBalanceRepository(sp.DBClient(ctx))
		case config.StorageRedis:
			sp.balanceRepo = redis_repo.NewBalanceRepository(sp.RedisClient(ctx))
		default:
			sp.balanceRepo = memory_repo.NewBalanceRepository()
		}
		sp.Logger().Info("balance storage ready", zap.String("driver", sp.StorageCfg().Driver()))
	}
	return sp.balanceRepo
}

func (sp *ServiceProvider) StatsRepository() repository.StatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewStatsRepository()
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) SlotCfg() config.SlotConfig {
	if sp.slotCfg == nil {
		cfg, err := env.NewSlotConfigFromYAML(env.SlotConfigPath())
		if err != nil {
			panic("failed to get slot config: " + err.Error())
		}
		sp.slotCfg = cfg
	}
	return sp.slotCfg
}

func (sp *ServiceProvider) RevealService() service.RevealService {
	if sp.revealServ == nil {
		sp.revealServ = slot.NewRevealService(sp.SlotCfg())
	}
	return sp.revealServ
}

// SlotService баланс читается сразу, как при открытии страницы
func (sp *ServiceProvider) SlotService(ctx context.Context) service.SlotService {
	if sp.slotServ == nil {
		serv := slot.NewSlotService(sp.BalanceRepository(ctx), sp.StatsRepository(), sp.TXManager(ctx), sp.RevealService(), sp.Logger())
		balance, err := serv.LoadBalance(ctx)
		if err != nil {
			panic("failed to load balance: " + err.Error())
		}
		sp.Logger().Info("balance loaded", zap.Int64("balance", balance))
		sp.slotServ = serv
	}
	return sp.slotServ
}

func (sp *ServiceProvider) SlotHandler(ctx context.Context) *slotAPI.Handler {
	if sp.slotHand == nil {
		sp.slotHand = slotAPI.NewHandler(slotAPI.HandlerDeps{
			Serv:     sp.SlotService(ctx),
			Revealer: sp.RevealService(),
			Log:      sp.Logger(),
		})
	}
	return sp.slotHand
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

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(middleware.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Slot endpoints
		slotHandler := sp.SlotHandler(ctx)
		r.Route("/slots", func(rr chi.Router) {
			rr.Get("/state", slotHandler.State)
			rr.Post("/spin", slotHandler.Spin)
			rr.Post("/spin/stream", slotHandler.SpinStream)
			rr.Get("/max-bet", slotHandler.MaxBet)
			rr.Post("/reset", slotHandler.Reset)
		})

		r.Get("/healthz", slotHandler.Health)
		r.Handle("/metrics", promhttp.Handler())

		sp.router = r
	}

	return sp.router
}

// Close освобождает соединения с хранилищами
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.rdb != nil {
		_ = sp.rdb.Close()
	}
	if sp.log != nil {
		_ = sp.log.Sync()
	}
}

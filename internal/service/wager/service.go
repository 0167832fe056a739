package wager

import (
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"slot_backend/internal/metrics"
	"slot_backend/internal/repository"
	"slot_backend/internal/service"
	"slot_backend/internal/service/line"
	"slot_backend/pkg/keymutex"
)

type serv struct {
	catalog     service.CatalogService
	generator   line.Generator
	txManager   trm.Manager
	accountRepo repository.AccountRepository
	stateRepo   repository.GameStateRepository
	statsRepo   repository.StatsRepository
	metrics     *metrics.Metrics
	log         *zap.Logger

	// Ставки одного аккаунта выполняются строго по очереди
	locks *keymutex.KeyedMutex[int64]
	// Снимок баланса и состояния читается в одной транзакции repeatable read
	snapshotSettings trm.Settings
}

type Deps struct {
	Catalog     service.CatalogService
	Generator   line.Generator
	TxManager   trm.Manager
	AccountRepo repository.AccountRepository
	StateRepo   repository.GameStateRepository
	StatsRepo   repository.StatsRepository
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

func NewWagerService(deps Deps) service.WagerService {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &serv{
		catalog:     deps.Catalog,
		generator:   deps.Generator,
		txManager:   deps.TxManager,
		accountRepo: deps.AccountRepo,
		stateRepo:   deps.StateRepo,
		statsRepo:   deps.StatsRepo,
		metrics:     deps.Metrics,
		log:         log,
		locks:       keymutex.New[int64](),
		snapshotSettings: trmpgx.MustSettings(settings.Must(),
			trmpgx.WithTxOptions(pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})),
	}
}

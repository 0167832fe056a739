package session

import (
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"

	"slot_backend/internal/config"
	"slot_backend/internal/repository"
	"slot_backend/internal/service"
	"slot_backend/pkg/token"
)

// maxKeyAttempts - сколько раз генерируем новый ключ при коллизии
const maxKeyAttempts = 5

// maxKeyLength - ключи длиннее заведомо не выдавались, в БД не ходим
const maxKeyLength = 256

type serv struct {
	cfg         config.SessionConfig
	txManager   trm.Manager
	accountRepo repository.AccountRepository
	log         *zap.Logger

	newKey func() (string, error)
	now    func() time.Time
}

func NewSessionService(
	cfg config.SessionConfig,
	txManager trm.Manager,
	accountRepo repository.AccountRepository,
	log *zap.Logger,
) service.SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &serv{
		cfg:         cfg,
		txManager:   txManager,
		accountRepo: accountRepo,
		log:         log,
		newKey:      token.GenerateKey,
		now:         time.Now,
	}
}

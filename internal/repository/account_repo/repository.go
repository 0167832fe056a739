package account_repo

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table        = "accounts"
	colID        = "id"
	colUsername  = "username"
	colBalance   = "balance"
	colKey       = "key"
	colLastLogin = "last_login"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewAccountRepository(dbc *pgxpool.Pool) repository.AccountRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// conn - транзакция из контекста или пул, если транзакции нет
func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// CreateAccount - создает новый аккаунт в БД.
// Возвращает ID созданного аккаунта
func (r *repo) CreateAccount(ctx context.Context, acc *model.Account) (int64, error) {
	sqlStr, args, err := createQuery(acc).ToSql()
	if err != nil {
		return 0, repository.Wrap("build create account", err)
	}

	var id int64
	if err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, repository.Wrap("create account", err)
	}

	return id, nil
}

// TouchByKey - находит аккаунт по ключу и сдвигает last_login.
// Новое значение всегда строго больше предыдущего, даже если часы совпали
func (r *repo) TouchByKey(ctx context.Context, key string, at time.Time) (*model.Account, error) {
	sqlStr, args, err := touchQuery(key, at).ToSql()
	if err != nil {
		return nil, repository.Wrap("build touch account", err)
	}

	var acc model.Account
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).
		Scan(&acc.ID, &acc.Username, &acc.Balance, &acc.Key, &acc.LastLogin)
	if err != nil {
		return nil, repository.Wrap("touch account", err)
	}

	return &acc, nil
}

// GetBalance - получение баланса аккаунта по его ID
func (r *repo) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.balance(ctx, balanceQuery(id))
}

// GetBalanceForUpdate - то же, что GetBalance, но с блокировкой строки.
// Имеет смысл только внутри транзакции
func (r *repo) GetBalanceForUpdate(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.balance(ctx, balanceQuery(id).Suffix("FOR UPDATE"))
}

func (r *repo) balance(ctx context.Context, query sq.SelectBuilder) (decimal.Decimal, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, repository.Wrap("build get balance", err)
	}

	var balance decimal.Decimal
	if err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&balance); err != nil {
		return decimal.Zero, repository.Wrap("get balance", err)
	}

	return balance, nil
}

// UpdateBalance - обновляет баланс аккаунта.
// Отрицательный баланс отклоняется ограничением CHECK в схеме
func (r *repo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	sqlStr, args, err := updateBalanceQuery(id, balance).ToSql()
	if err != nil {
		return repository.Wrap("build update balance", err)
	}

	res, err := r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return repository.Wrap("update balance", err)
	}
	if res.RowsAffected() == 0 {
		return repository.Wrap("update balance", repository.ErrNotFound)
	}

	return nil
}

func createQuery(acc *model.Account) sq.InsertBuilder {
	return psql.Insert(table).
		Columns(colUsername, colBalance, colKey, colLastLogin).
		Values(acc.Username, model.RoundMoney(acc.Balance), acc.Key, acc.LastLogin).
		Suffix("RETURNING " + colID)
}

func touchQuery(key string, at time.Time) sq.UpdateBuilder {
	return psql.Update(table).
		Set(colLastLogin, sq.Expr("GREATEST(?::timestamptz, "+colLastLogin+" + interval '1 microsecond')", at)).
		Where(sq.Eq{colKey: key}).
		Suffix("RETURNING " + colID + ", " + colUsername + ", " + colBalance + ", " + colKey + ", " + colLastLogin)
}

func balanceQuery(id int64) sq.SelectBuilder {
	return psql.Select(colBalance).From(table).Where(sq.Eq{colID: id})
}

func updateBalanceQuery(id int64, balance decimal.Decimal) sq.UpdateBuilder {
	return psql.Update(table).
		Set(colBalance, model.RoundMoney(balance)).
		Where(sq.Eq{colID: id})
}

package gamestate_repo

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

const (
	table        = "gamestates"
	colAccountID = "user_id"
	colGameID    = "game_id"
	colBet       = "bet"
	colCoinValue = "coin_value"
	colReels     = "reels"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewGameStateRepository(dbc *pgxpool.Pool) repository.GameStateRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// CreateGameState - вставка состояния, если записи для пары (аккаунт, игра) еще нет
func (r *repo) CreateGameState(ctx context.Context, state *model.GameState) error {
	reels, err := encodeReels(state.Reels)
	if err != nil {
		return repository.Wrap("encode reels", err)
	}

	query := insertQuery(state, reels).
		Suffix("ON CONFLICT (" + colAccountID + ", " + colGameID + ") DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return repository.Wrap("build create game state", err)
	}

	if _, err = r.conn(ctx).Exec(ctx, sqlStr, args...); err != nil {
		return repository.Wrap("create game state", err)
	}

	return nil
}

// GetGameState - получение состояния игры. ErrNotFound, если записи нет
func (r *repo) GetGameState(ctx context.Context, accountID int64, gameID string) (*model.GameState, error) {
	sqlStr, args, err := selectQuery(accountID, gameID).ToSql()
	if err != nil {
		return nil, repository.Wrap("build get game state", err)
	}

	state := model.GameState{AccountID: accountID, GameID: gameID}
	var rawReels []byte
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&state.Bet, &state.CoinValue, &rawReels)
	if err != nil {
		return nil, repository.Wrap("get game state", err)
	}

	if state.Reels, err = decodeReels(rawReels); err != nil {
		return nil, repository.Wrap("decode reels", err)
	}

	return &state, nil
}

// UpdateGameState - перезапись состояния игры.
// Если записи нет, создается новая
func (r *repo) UpdateGameState(ctx context.Context, state *model.GameState) error {
	reels, err := encodeReels(state.Reels)
	if err != nil {
		return repository.Wrap("encode reels", err)
	}

	sqlStr, args, err := updateQuery(state, reels).ToSql()
	if err != nil {
		return repository.Wrap("build update game state", err)
	}

	res, err := r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return repository.Wrap("update game state", err)
	}

	// Если rowsAffected = 0 - то записи не существует и делаем вставку
	if res.RowsAffected() == 0 {
		sqlStr, args, err = insertQuery(state, reels).ToSql()
		if err != nil {
			return repository.Wrap("build insert game state", err)
		}

		if _, err = r.conn(ctx).Exec(ctx, sqlStr, args...); err != nil {
			return repository.Wrap("insert game state", err)
		}
	}

	return nil
}

func insertQuery(state *model.GameState, reels []byte) sq.InsertBuilder {
	return psql.Insert(table).
		Columns(colAccountID, colGameID, colBet, colCoinValue, colReels).
		Values(state.AccountID, state.GameID, state.Bet, state.CoinValue, reels)
}

func selectQuery(accountID int64, gameID string) sq.SelectBuilder {
	return psql.Select(colBet, colCoinValue, colReels).
		From(table).
		Where(sq.Eq{colAccountID: accountID, colGameID: gameID})
}

func updateQuery(state *model.GameState, reels []byte) sq.UpdateBuilder {
	return psql.Update(table).
		Set(colBet, state.Bet).
		Set(colCoinValue, state.CoinValue).
		Set(colReels, reels).
		Where(sq.Eq{colAccountID: state.AccountID, colGameID: state.GameID})
}

// Пустая матрица хранится как JSON null
func encodeReels(reels model.Reels) ([]byte, error) {
	return json.Marshal(reels)
}

func decodeReels(raw []byte) (model.Reels, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var reels model.Reels
	if err := json.Unmarshal(raw, &reels); err != nil {
		return nil, fmt.Errorf("invalid reels payload: %w", err)
	}
	return reels, nil
}

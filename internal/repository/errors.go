package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"slot_backend/internal/model"
)

// uniqueViolation - SQLSTATE нарушения уникальности
const uniqueViolation = "23505"

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Wrap переводит ошибку драйвера в ошибки репозитория.
// Все, что не ErrNotFound и не ErrDuplicateKey, считается ошибкой хранилища.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, model.ErrPersistence) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrPersistence, err)
}

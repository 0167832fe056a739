package ws

import (
	"context"
	"errors"
	"fmt"

	dto "slot_backend/internal/api/dto/ws"
	"slot_backend/internal/model"
)

// Коды ошибок протокола
const (
	codeAuth              = "auth_error"
	codeUnknownGame       = "unknown_game"
	codeUnknownRoom       = "unknown_room"
	codeInsufficientFunds = "insufficient_funds"
	codeInvalidState      = "invalid_state"
	codePersistence       = "persistence_error"
	codeRateLimited       = "rate_limit_exceeded"
	codeTimeout           = "timeout"
	codeBadRequest        = "bad_request"
)

func badRequest(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, model.ErrBadRequest, err)
}

// toErrorResponse сопоставляет ошибку коду протокола.
// Таймаут проверяется первым: драйвер БД оборачивает его как ошибку хранилища
func toErrorResponse(err error) dto.ErrorResponse {
	switch {
	case errors.Is(err, model.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return dto.ErrorResponse{Code: codeTimeout, Message: "request timed out, try again"}
	case errors.Is(err, model.ErrRateLimited):
		return dto.ErrorResponse{Code: codeRateLimited, Message: "too many requests"}
	case errors.Is(err, model.ErrAuth):
		return dto.ErrorResponse{Code: codeAuth, Message: "invalid key"}
	case errors.Is(err, model.ErrUnknownGame):
		return dto.ErrorResponse{Code: codeUnknownGame, Message: "unknown game"}
	case errors.Is(err, model.ErrUnknownRoom):
		return dto.ErrorResponse{Code: codeUnknownRoom, Message: "unknown room"}
	case errors.Is(err, model.ErrInsufficientFunds):
		return dto.ErrorResponse{Code: codeInsufficientFunds, Message: "insufficient funds"}
	case errors.Is(err, model.ErrInvalidState):
		return dto.ErrorResponse{Code: codeInvalidState, Message: err.Error()}
	case errors.Is(err, model.ErrBadRequest):
		return dto.ErrorResponse{Code: codeBadRequest, Message: err.Error()}
	default:
		// Детали ошибок хранилища клиенту не отдаем
		return dto.ErrorResponse{Code: codePersistence, Message: "internal storage error"}
	}
}

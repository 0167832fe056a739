package model

import "errors"

var (
	// ErrAuth - неизвестный или некорректный ключ
	ErrAuth = errors.New("invalid key")
	// ErrUnknownGame - игра не зарегистрирована в каталоге
	ErrUnknownGame = errors.New("unknown game")
	// ErrInsufficientFunds - баланс меньше суммы ставки
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownRoom - комнаты лобби нет или она уже удалена
	ErrUnknownRoom = errors.New("unknown room")
	// ErrInvalidState - событие пришло в неподходящем состоянии соединения
	ErrInvalidState = errors.New("invalid connection state")
	// ErrPersistence - ошибка хранилища
	ErrPersistence = errors.New("persistence failure")
	// ErrRateLimited - превышен лимит запросов соединения
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrTimeout - запрос не уложился в дедлайн
	ErrTimeout = errors.New("request timed out")
	// ErrBadRequest - некорректные данные запроса
	ErrBadRequest = errors.New("bad request")
)

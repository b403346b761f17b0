package worker

import "errors"

// Ошибки воркера.
var (
	// ErrNoSession — воркер создан без Telegram-сессии.
	ErrNoSession = errors.New("telegram session is required")

	// ErrNoWorkerID — не задан идентификатор экземпляра.
	ErrNoWorkerID = errors.New("worker id is required")
)

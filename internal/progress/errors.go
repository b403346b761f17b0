package progress

import "errors"

// Ошибки пакета progress.
var (
	// ErrBadPayload — payload не является валидным JSON-объектом.
	ErrBadPayload = errors.New("malformed webhook payload")

	// ErrNoOrderRef — в payload не нашёлся идентификатор заказа
	// ни по одному из ключей-кандидатов.
	ErrNoOrderRef = errors.New("order reference not found in payload")
)

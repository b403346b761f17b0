package executor

import "errors"

// Ошибки executor'ов.
var (
	// ErrMissingField — в payload отсутствует обязательное поле.
	ErrMissingField = errors.New("missing payload field")
)

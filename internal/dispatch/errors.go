package dispatch

import "errors"

// Ошибки пакета dispatch.
var (
	// ErrUnknownTask — отчёт ссылается на несуществующую задачу.
	ErrUnknownTask = errors.New("unknown task")

	// ErrUnsupportedCombo — для пары (тип услуги, тип ссылки) нет политики.
	ErrUnsupportedCombo = errors.New("unsupported service/link combination")

	// ErrUnknownState — отчёт содержит нераспознанное состояние.
	ErrUnknownState = errors.New("unknown report state")
)

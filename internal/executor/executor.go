package executor

import (
	"context"
	"fmt"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// Состояния Outcome — что делать с task после этого вызова.
const (
	// StateDone — task завершён (успешно или без смысла повторять).
	StateDone = "done"

	// StatePending — вернуть task в очередь, возможно с retry-задержкой.
	StatePending = "pending"

	// StateFailed — терминальная ошибка выполнения.
	StateFailed = "failed"
)

// Outcome — стандартизованный результат выполнения действия.
//
// Контракт одинаков для всех executor'ов: замена реализации не меняет
// форму результата.
type Outcome struct {
	// OK — действие выполнено успешно.
	OK bool `json:"ok"`

	// State — рекомендуемое состояние task: done, pending, failed.
	State string `json:"state,omitempty"`

	// Error — сообщение об ошибке.
	Error string `json:"error,omitempty"`

	// RetryAfter — рекомендуемая задержка перед повтором, секунды.
	RetryAfter int `json:"retry_after,omitempty"`

	// Data — дополнительные данные выполнения.
	Data map[string]any `json:"data,omitempty"`
}

// Executor — интерфейс выполнения одного действия.
//
// Executor stateless: всё состояние приходит через payload и session.
// Каждый executor сам валидирует обязательные поля payload и возвращает
// структурированную ошибку вместо паники.
type Executor interface {
	Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome
}

// Engine маршрутизирует действие к зарегистрированному executor'у.
//
// Таблица action → executor собирается при старте и передаётся по ссылке —
// никакого мутабельного глобального реестра.
type Engine struct {
	executors map[string]Executor
}

// NewEngine создаёт движок с зарегистрированными executor'ами по умолчанию.
func NewEngine() *Engine {
	e := &Engine{executors: make(map[string]Executor)}
	e.Register("subscribe", &SubscribeExecutor{})
	e.Register("join", &JoinExecutor{})
	e.Register("view", &ViewExecutor{})
	e.Register("react", &ReactExecutor{})
	e.Register("comment", &CommentExecutor{})
	e.Register("bot_start", &BotStartExecutor{})
	e.Register("story_react", &StoryReactExecutor{})
	return e
}

// Register добавляет executor для действия.
func (e *Engine) Register(action string, ex Executor) {
	e.executors[action] = ex
}

// Actions возвращает список зарегистрированных действий.
func (e *Engine) Actions() []string {
	actions := make([]string, 0, len(e.executors))
	for a := range e.executors {
		actions = append(actions, a)
	}
	return actions
}

// Execute выполняет действие.
//
// Незарегистрированное действие — не паника и не error: пространство
// действий определяется конфигурацией и может расширяться независимо от
// кода воркера, поэтому неизвестное действие даёт единообразный
// failure-Outcome со state=done (повторять бессмысленно).
func (e *Engine) Execute(ctx context.Context, action string, sess telegram.Session, payload map[string]any) Outcome {
	ex, ok := e.executors[action]
	if !ok {
		return Outcome{
			OK:    false,
			State: StateDone,
			Error: fmt.Sprintf("unknown action: %s", action),
		}
	}
	return ex.Execute(ctx, sess, payload)
}

// success — успешный Outcome с опциональными данными.
func success(data map[string]any) Outcome {
	return Outcome{OK: true, State: StateDone, Data: data}
}

// failure — терминальный failure-Outcome.
func failure(err error) Outcome {
	return Outcome{OK: false, State: StateFailed, Error: err.Error()}
}

// sessionFailure переводит типизированный отказ сессии в Outcome.
//
// FloodWait — транзиентная ошибка: task возвращается в pending с
// retry-задержкой. Остальное терминально.
func sessionFailure(err error) Outcome {
	if secs, ok := telegram.AsFloodWait(err); ok {
		return Outcome{
			OK:         false,
			State:      StatePending,
			Error:      err.Error(),
			RetryAfter: secs,
		}
	}
	return Outcome{OK: false, State: StateFailed, Error: err.Error()}
}

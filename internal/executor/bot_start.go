package executor

import (
	"context"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// BotStartExecutor — действие "bot_start": запуск бота командой /start.
//
// Payload:
//   - username (string): username бота (обязательно)
//   - start_param (string): реферальный параметр. Опционально
type BotStartExecutor struct{}

// Execute запускает бота.
func (e *BotStartExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	username, err := requireString(payload, "username")
	if err != nil {
		return failure(err)
	}
	startParam := getString(payload, "start_param", "")

	if err := sess.StartBot(ctx, username, startParam); err != nil {
		return sessionFailure(err)
	}

	data := map[string]any{"username": username}
	if startParam != "" {
		data["start_param"] = startParam
	}
	return success(data)
}

package executor

import (
	"context"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// SubscribeExecutor — действие "subscribe": подписка на публичный канал.
//
// Payload:
//   - username (string): username канала (обязательно)
type SubscribeExecutor struct{}

// Execute подписывает сессию на канал.
func (e *SubscribeExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	username, err := requireString(payload, "username")
	if err != nil {
		return failure(err)
	}

	if err := sess.Subscribe(ctx, username); err != nil {
		return sessionFailure(err)
	}

	return success(map[string]any{"username": username})
}

package executor

import (
	"context"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// defaultEmoji — реакция по умолчанию, если заказ не задаёт свою.
const defaultEmoji = "👍"

// ReactExecutor — действие "react": реакция на пост.
//
// Payload:
//   - username (string): username канала (обязательно)
//   - post_id (int): идентификатор поста (обязательно)
//   - emoji (string): эмодзи реакции. Default: 👍
type ReactExecutor struct{}

// Execute ставит реакцию на пост.
func (e *ReactExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	username, err := requireString(payload, "username")
	if err != nil {
		return failure(err)
	}
	postID, err := requireInt(payload, "post_id")
	if err != nil {
		return failure(err)
	}
	emoji := getString(payload, "emoji", defaultEmoji)

	if err := sess.SendReaction(ctx, username, postID, emoji); err != nil {
		return sessionFailure(err)
	}

	return success(map[string]any{
		"username": username,
		"post_id":  postID,
		"emoji":    emoji,
	})
}

package executor

import (
	"context"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// CommentExecutor — действие "comment": комментарий в обсуждении поста.
//
// Payload:
//   - username (string): username канала (обязательно)
//   - post_id (int): идентификатор поста (обязательно)
//   - text (string): текст комментария (обязательно)
type CommentExecutor struct{}

// Execute отправляет комментарий.
func (e *CommentExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	username, err := requireString(payload, "username")
	if err != nil {
		return failure(err)
	}
	postID, err := requireInt(payload, "post_id")
	if err != nil {
		return failure(err)
	}
	text, err := requireString(payload, "text")
	if err != nil {
		return failure(err)
	}

	if err := sess.SendComment(ctx, username, postID, text); err != nil {
		return sessionFailure(err)
	}

	return success(map[string]any{
		"username": username,
		"post_id":  postID,
	})
}

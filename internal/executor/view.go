package executor

import (
	"context"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// ViewExecutor — действие "view": засчитывание просмотров поста.
//
// Payload:
//   - username (string): username канала (обязательно)
//   - post_id (int): идентификатор поста (обязательно)
//   - count (int): сколько единиц за вызов. Default: 1
type ViewExecutor struct{}

// Execute засчитывает просмотр поста.
func (e *ViewExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	username, err := requireString(payload, "username")
	if err != nil {
		return failure(err)
	}
	postID, err := requireInt(payload, "post_id")
	if err != nil {
		return failure(err)
	}

	if err := sess.ViewPosts(ctx, username, []int{postID}); err != nil {
		return sessionFailure(err)
	}

	return success(map[string]any{
		"username": username,
		"post_id":  postID,
		"count":    getInt(payload, "count", 1),
	})
}

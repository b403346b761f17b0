package executor

import (
	"context"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// StoryReactExecutor — действие "story_react": реакция на сторис.
//
// Payload:
//   - username (string): username канала или пользователя (обязательно)
//   - story_id (int): идентификатор сторис (обязательно)
//   - emoji (string): эмодзи реакции. Default: 👍
type StoryReactExecutor struct{}

// Execute ставит реакцию на сторис.
func (e *StoryReactExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	username, err := requireString(payload, "username")
	if err != nil {
		return failure(err)
	}
	storyID, err := requireInt(payload, "story_id")
	if err != nil {
		return failure(err)
	}
	emoji := getString(payload, "emoji", defaultEmoji)

	if err := sess.SendStoryReaction(ctx, username, storyID, emoji); err != nil {
		return sessionFailure(err)
	}

	return success(map[string]any{
		"username": username,
		"story_id": storyID,
		"emoji":    emoji,
	})
}

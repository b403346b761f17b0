package executor

import (
	"context"
	"fmt"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// JoinExecutor — действие "join": вступление в группу или чат по инвайту.
//
// Payload (одно из двух обязательно):
//   - invite_hash (string): хэш инвайт-ссылки
//   - username (string): username публичной группы
type JoinExecutor struct{}

// Execute вступает в чат. Инвайт-хэш приоритетнее username.
func (e *JoinExecutor) Execute(ctx context.Context, sess telegram.Session, payload map[string]any) Outcome {
	if hash := getString(payload, "invite_hash", ""); hash != "" {
		if err := sess.JoinByInvite(ctx, hash); err != nil {
			return sessionFailure(err)
		}
		return success(map[string]any{"invite_hash": hash})
	}

	if username := getString(payload, "username", ""); username != "" {
		if err := sess.JoinGroup(ctx, username); err != nil {
			return sessionFailure(err)
		}
		return success(map[string]any{"username": username})
	}

	return failure(fmt.Errorf("%w: invite_hash or username", ErrMissingField))
}

package telegram

import (
	"context"
	"errors"
	"fmt"
)

// Session — аутентифицированная Telegram-сессия.
//
// Интерфейс описывает границу с MTProto-клиентом: каждая операция —
// один RPC, возвращающий nil или типизированный отказ. Реализация
// (библиотека wire-протокола) находится вне этого репозитория.
type Session interface {
	// Subscribe подписывается на публичный канал.
	Subscribe(ctx context.Context, username string) error

	// JoinByInvite вступает в чат по инвайт-хэшу.
	JoinByInvite(ctx context.Context, inviteHash string) error

	// JoinGroup вступает в публичную группу.
	JoinGroup(ctx context.Context, username string) error

	// StartBot отправляет /start боту, опционально с параметром.
	StartBot(ctx context.Context, username, startParam string) error

	// ViewPosts засчитывает просмотры постов.
	ViewPosts(ctx context.Context, username string, postIDs []int) error

	// SendReaction ставит реакцию на пост.
	SendReaction(ctx context.Context, username string, postID int, emoji string) error

	// SendComment отправляет комментарий в обсуждение поста.
	SendComment(ctx context.Context, username string, postID int, text string) error

	// SendStoryReaction ставит реакцию на сторис.
	SendStoryReaction(ctx context.Context, username string, storyID int, emoji string) error

	// ResolveChatType возвращает тип чата по username:
	// "channel", "supergroup", "group", "bot", "private".
	ResolveChatType(ctx context.Context, username string) (string, error)
}

// FloodWaitError — провайдер требует паузу перед повторной попыткой.
type FloodWaitError struct {
	// Seconds — сколько секунд ждать.
	Seconds int
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait: retry after %ds", e.Seconds)
}

// PeerError — сущность недоступна: не существует, приватная, бан.
type PeerError struct {
	Peer   string
	Reason string
}

func (e *PeerError) Error() string {
	return fmt.Sprintf("peer %s: %s", e.Peer, e.Reason)
}

// AsFloodWait возвращает (seconds, true), если ошибка — FloodWaitError.
func AsFloodWait(err error) (int, bool) {
	var fw *FloodWaitError
	if errors.As(err, &fw) {
		return fw.Seconds, true
	}
	return 0, false
}

// IsPeerError возвращает true, если ошибка — PeerError.
func IsPeerError(err error) bool {
	var pe *PeerError
	return errors.As(err, &pe)
}

package telegram

import (
	"context"
	"log/slog"
)

// DryRunSession — сессия-заглушка: логирует действие и отвечает успехом.
//
// Используется для интеграционных прогонов и нагрузочного тестирования
// pipeline без реального MTProto-клиента: задачи проходят полный цикл
// claim -> execute -> report, но в Telegram ничего не отправляется.
type DryRunSession struct {
	logger *slog.Logger
}

// NewDryRunSession создаёт DryRunSession.
func NewDryRunSession(logger *slog.Logger) *DryRunSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunSession{logger: logger.With("session", "dry-run")}
}

func (s *DryRunSession) Subscribe(ctx context.Context, username string) error {
	s.logger.Info("subscribe", "username", username)
	return nil
}

func (s *DryRunSession) JoinByInvite(ctx context.Context, inviteHash string) error {
	s.logger.Info("join by invite", "invite_hash", inviteHash)
	return nil
}

func (s *DryRunSession) JoinGroup(ctx context.Context, username string) error {
	s.logger.Info("join group", "username", username)
	return nil
}

func (s *DryRunSession) StartBot(ctx context.Context, username, startParam string) error {
	s.logger.Info("start bot", "username", username, "start_param", startParam)
	return nil
}

func (s *DryRunSession) ViewPosts(ctx context.Context, username string, postIDs []int) error {
	s.logger.Info("view posts", "username", username, "post_ids", postIDs)
	return nil
}

func (s *DryRunSession) SendReaction(ctx context.Context, username string, postID int, emoji string) error {
	s.logger.Info("send reaction", "username", username, "post_id", postID, "emoji", emoji)
	return nil
}

func (s *DryRunSession) SendComment(ctx context.Context, username string, postID int, text string) error {
	s.logger.Info("send comment", "username", username, "post_id", postID)
	return nil
}

func (s *DryRunSession) SendStoryReaction(ctx context.Context, username string, storyID int, emoji string) error {
	s.logger.Info("send story reaction", "username", username, "story_id", storyID, "emoji", emoji)
	return nil
}

func (s *DryRunSession) ResolveChatType(ctx context.Context, username string) (string, error) {
	s.logger.Info("resolve chat type", "username", username)
	return "channel", nil
}

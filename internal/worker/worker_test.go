package worker

import (
	"context"
	"testing"

	"github.com/shaiso/Gramflow/internal/executor"
)

// noopSession — заглушка Telegram-сессии для тестов конструктора.
type noopSession struct{}

func (noopSession) Subscribe(ctx context.Context, username string) error      { return nil }
func (noopSession) JoinByInvite(ctx context.Context, inviteHash string) error { return nil }
func (noopSession) JoinGroup(ctx context.Context, username string) error      { return nil }
func (noopSession) StartBot(ctx context.Context, username, startParam string) error {
	return nil
}
func (noopSession) ViewPosts(ctx context.Context, username string, postIDs []int) error {
	return nil
}
func (noopSession) SendReaction(ctx context.Context, username string, postID int, emoji string) error {
	return nil
}
func (noopSession) SendComment(ctx context.Context, username string, postID int, text string) error {
	return nil
}
func (noopSession) SendStoryReaction(ctx context.Context, username string, storyID int, emoji string) error {
	return nil
}
func (noopSession) ResolveChatType(ctx context.Context, username string) (string, error) {
	return "channel", nil
}

func TestReportFromOutcome_Done(t *testing.T) {
	o := executor.Outcome{
		OK:    true,
		State: executor.StateDone,
		Data:  map[string]any{"count": 50},
	}

	rep := ReportFromOutcome(o)

	if !rep.OK || rep.State != "done" {
		t.Errorf("rep = %+v", rep)
	}
	if rep.Count != 50 {
		t.Errorf("count = %d, ожидалось 50", rep.Count)
	}
}

func TestReportFromOutcome_FloodWait(t *testing.T) {
	// Flood-wait: pending с retry_after, не терминальный failed.
	o := executor.Outcome{
		OK:         false,
		State:      executor.StatePending,
		Error:      "flood wait: retry in 42s",
		RetryAfter: 42,
	}

	rep := ReportFromOutcome(o)

	if rep.OK {
		t.Error("ok должен быть false")
	}
	if rep.State != "pending" {
		t.Errorf("state = %q, ожидалось pending", rep.State)
	}
	if rep.RetryAfter != 42 {
		t.Errorf("retry_after = %d, ожидалось 42", rep.RetryAfter)
	}
}

func TestReportFromOutcome_JSONNumbers(t *testing.T) {
	// Данные после JSON round-trip: числа приходят как float64.
	o := executor.Outcome{
		OK:    true,
		State: executor.StateDone,
		Data:  map[string]any{"count": float64(7)},
	}

	if rep := ReportFromOutcome(o); rep.Count != 7 {
		t.Errorf("count = %d, ожидалось 7", rep.Count)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{WorkerID: "w-1"}); err != ErrNoSession {
		t.Errorf("err = %v, ожидалось ErrNoSession", err)
	}

	if _, err := New(Config{Session: noopSession{}}); err != ErrNoWorkerID {
		t.Errorf("err = %v, ожидалось ErrNoWorkerID", err)
	}
}

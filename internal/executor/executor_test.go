package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shaiso/Gramflow/internal/telegram"
)

// fakeSession — тестовая реализация telegram.Session, записывающая вызовы.
type fakeSession struct {
	calls []string
	err   error
}

func (f *fakeSession) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeSession) Subscribe(_ context.Context, username string) error {
	return f.record("subscribe:" + username)
}

func (f *fakeSession) JoinByInvite(_ context.Context, hash string) error {
	return f.record("join_invite:" + hash)
}

func (f *fakeSession) JoinGroup(_ context.Context, username string) error {
	return f.record("join_group:" + username)
}

func (f *fakeSession) StartBot(_ context.Context, username, param string) error {
	return f.record("bot_start:" + username + ":" + param)
}

func (f *fakeSession) ViewPosts(_ context.Context, username string, _ []int) error {
	return f.record("view:" + username)
}

func (f *fakeSession) SendReaction(_ context.Context, username string, _ int, emoji string) error {
	return f.record("react:" + username + ":" + emoji)
}

func (f *fakeSession) SendComment(_ context.Context, username string, _ int, text string) error {
	return f.record("comment:" + username + ":" + text)
}

func (f *fakeSession) SendStoryReaction(_ context.Context, username string, _ int, emoji string) error {
	return f.record("story_react:" + username + ":" + emoji)
}

func (f *fakeSession) ResolveChatType(_ context.Context, _ string) (string, error) {
	return "channel", f.err
}

func TestEngine_UnknownAction(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{}

	out := engine.Execute(context.Background(), "teleport", sess, map[string]any{})

	if out.OK {
		t.Error("ok = true, want false")
	}
	if out.State != StateDone {
		t.Errorf("state = %s, want done", out.State)
	}
	if !strings.Contains(out.Error, "unknown action") {
		t.Errorf("error = %q, want unknown action", out.Error)
	}
	if len(sess.calls) != 0 {
		t.Errorf("сессия не должна вызываться: %v", sess.calls)
	}
}

func TestEngine_Subscribe(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{}

	out := engine.Execute(context.Background(), "subscribe", sess, map[string]any{
		"username": "somechannel",
	})

	if !out.OK {
		t.Fatalf("ok = false: %s", out.Error)
	}
	if out.State != StateDone {
		t.Errorf("state = %s, want done", out.State)
	}
	if len(sess.calls) != 1 || sess.calls[0] != "subscribe:somechannel" {
		t.Errorf("calls = %v", sess.calls)
	}
}

func TestEngine_MissingPayloadField(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{}

	// У каждого executor'а свой набор обязательных полей; пустой payload
	// всегда даёт структурированный failure, не панику.
	for _, action := range []string{"subscribe", "join", "view", "react", "comment", "bot_start", "story_react"} {
		out := engine.Execute(context.Background(), action, sess, map[string]any{})
		if out.OK {
			t.Errorf("%s: ok = true на пустом payload", action)
		}
		if out.Error == "" {
			t.Errorf("%s: пустая ошибка", action)
		}
	}
	if len(sess.calls) != 0 {
		t.Errorf("сессия не должна вызываться: %v", sess.calls)
	}
}

func TestEngine_FloodWait(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{err: &telegram.FloodWaitError{Seconds: 42}}

	out := engine.Execute(context.Background(), "view", sess, map[string]any{
		"username": "somechannel",
		"post_id":  7,
	})

	if out.OK {
		t.Error("ok = true, want false")
	}
	if out.State != StatePending {
		t.Errorf("state = %s, want pending", out.State)
	}
	if out.RetryAfter != 42 {
		t.Errorf("retry_after = %d, want 42", out.RetryAfter)
	}
}

func TestEngine_PeerError(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{err: &telegram.PeerError{Peer: "gone", Reason: "deleted"}}

	out := engine.Execute(context.Background(), "subscribe", sess, map[string]any{
		"username": "gone",
	})

	if out.OK {
		t.Error("ok = true, want false")
	}
	if out.State != StateFailed {
		t.Errorf("state = %s, want failed", out.State)
	}
	if out.RetryAfter != 0 {
		t.Errorf("retry_after = %d, want 0", out.RetryAfter)
	}
}

func TestJoinExecutor_InviteBeforeUsername(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{}

	out := engine.Execute(context.Background(), "join", sess, map[string]any{
		"invite_hash": "AbC123",
		"username":    "somegroup",
	})

	if !out.OK {
		t.Fatalf("ok = false: %s", out.Error)
	}
	if sess.calls[0] != "join_invite:AbC123" {
		t.Errorf("calls = %v, инвайт приоритетнее username", sess.calls)
	}
}

func TestViewExecutor_JSONNumbers(t *testing.T) {
	// После json.Unmarshal числа приходят как float64.
	engine := NewEngine()
	sess := &fakeSession{}

	out := engine.Execute(context.Background(), "view", sess, map[string]any{
		"username": "somechannel",
		"post_id":  float64(42),
		"count":    float64(50),
	})

	if !out.OK {
		t.Fatalf("ok = false: %s", out.Error)
	}
	if out.Data["count"] != 50 {
		t.Errorf("data.count = %v, want 50", out.Data["count"])
	}
}

func TestReactExecutor_DefaultEmoji(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{}

	out := engine.Execute(context.Background(), "react", sess, map[string]any{
		"username": "somechannel",
		"post_id":  1,
	})

	if !out.OK {
		t.Fatalf("ok = false: %s", out.Error)
	}
	if sess.calls[0] != "react:somechannel:"+defaultEmoji {
		t.Errorf("calls = %v", sess.calls)
	}
}

func TestBotStartExecutor_WithParam(t *testing.T) {
	engine := NewEngine()
	sess := &fakeSession{}

	out := engine.Execute(context.Background(), "bot_start", sess, map[string]any{
		"username":    "somebot",
		"start_param": "ref99",
	})

	if !out.OK {
		t.Fatalf("ok = false: %s", out.Error)
	}
	if sess.calls[0] != "bot_start:somebot:ref99" {
		t.Errorf("calls = %v", sess.calls)
	}
}

func TestEngine_RegisterCustom(t *testing.T) {
	engine := NewEngine()
	engine.Register("noop", noopExecutor{})

	out := engine.Execute(context.Background(), "noop", &fakeSession{}, nil)
	if !out.OK {
		t.Errorf("ok = false: %s", out.Error)
	}
}

type noopExecutor struct{}

func (noopExecutor) Execute(_ context.Context, _ telegram.Session, _ map[string]any) Outcome {
	return success(nil)
}

var _ error = (*telegram.FloodWaitError)(nil)

func TestSessionFailure_WrappedFloodWait(t *testing.T) {
	wrapped := errors.Join(errors.New("rpc"), &telegram.FloodWaitError{Seconds: 5})

	out := sessionFailure(wrapped)
	if out.State != StatePending || out.RetryAfter != 5 {
		t.Errorf("outcome = %+v, want pending/5", out)
	}
}

package tglink

import "testing"

func TestClassify_Invite(t *testing.T) {
	tests := []string{
		"t.me/+AbC123",
		"https://t.me/+AbC123",
		"telegram.me/joinchat/AbC123",
		"https://t.me/joinchat/AbC123",
	}

	for _, raw := range tests {
		d := Classify(raw)
		if d.Kind != KindInvite {
			t.Errorf("Classify(%q).Kind = %s, want invite", raw, d.Kind)
		}
		if d.InviteHash != "AbC123" {
			t.Errorf("Classify(%q).InviteHash = %q, want AbC123", raw, d.InviteHash)
		}
	}
}

func TestClassify_PublicPost(t *testing.T) {
	d := Classify("https://t.me/channelname/42")

	if d.Kind != KindPublicPost {
		t.Fatalf("kind = %s, want public_post", d.Kind)
	}
	if d.Username != "channelname" {
		t.Errorf("username = %q, want channelname", d.Username)
	}
	if d.PostID != 42 {
		t.Errorf("post_id = %d, want 42", d.PostID)
	}
}

func TestClassify_Story(t *testing.T) {
	d := Classify("https://t.me/channelname/s/15")

	if d.Kind != KindStory {
		t.Fatalf("kind = %s, want story", d.Kind)
	}
	if d.Username != "channelname" {
		t.Errorf("username = %q, want channelname", d.Username)
	}
	if d.StoryID != 15 {
		t.Errorf("story_id = %d, want 15", d.StoryID)
	}
}

func TestClassify_StoryBadID(t *testing.T) {
	// Нечисловой идентификатор сторис не распознаётся.
	if d := Classify("t.me/channelname/s/latest"); d.Kind != KindUnknown {
		t.Errorf("kind = %s, want unknown", d.Kind)
	}
}

func TestClassify_PrivatePost(t *testing.T) {
	d := Classify("t.me/c/1234567890/777")

	if d.Kind != KindPrivatePost {
		t.Fatalf("kind = %s, want private_post", d.Kind)
	}
	if d.InternalChatID != 1234567890 {
		t.Errorf("internal_chat_id = %d, want 1234567890", d.InternalChatID)
	}
	if d.PostID != 777 {
		t.Errorf("post_id = %d, want 777", d.PostID)
	}
}

func TestClassify_BareBotUsername(t *testing.T) {
	for _, raw := range []string{"somebot", "@somebot", "my_bot", "MegaBot"} {
		d := Classify(raw)
		if d.Kind != KindBotStart {
			t.Errorf("Classify(%q).Kind = %s, want bot_start", raw, d.Kind)
		}
	}
}

func TestClassify_BarePublicUsername(t *testing.T) {
	d := Classify("durov_channel")

	if d.Kind != KindPublicUsername {
		t.Fatalf("kind = %s, want public_username", d.Kind)
	}
	if d.Username != "durov_channel" {
		t.Errorf("username = %q", d.Username)
	}
}

func TestClassify_TgResolveWithStart(t *testing.T) {
	d := Classify("tg://resolve?domain=mybot&start=ref99")

	if d.Kind != KindBotStartRef {
		t.Fatalf("kind = %s, want bot_start_with_referral", d.Kind)
	}
	if d.Username != "mybot" {
		t.Errorf("username = %q, want mybot", d.Username)
	}
	if d.StartParam != "ref99" {
		t.Errorf("start_param = %q, want ref99", d.StartParam)
	}
	if d.StartKey != "start" {
		t.Errorf("start_key = %q, want start", d.StartKey)
	}
	if !d.HasReferrer {
		t.Error("has_referrer = false, want true")
	}
}

func TestClassify_TgResolveEmptyStart(t *testing.T) {
	d := Classify("tg://resolve?domain=mybot&start=")

	if d.Kind != KindBotStart {
		t.Fatalf("kind = %s, want bot_start", d.Kind)
	}
	if d.HasReferrer {
		t.Error("has_referrer = true, want false")
	}
}

func TestClassify_TgResolveStartKeyPriority(t *testing.T) {
	// start проверяется раньше startapp — выигрывает start.
	d := Classify("tg://resolve?domain=mybot&startapp=app1&start=ref1")

	if d.StartKey != "start" {
		t.Errorf("start_key = %q, want start", d.StartKey)
	}
	if d.StartParam != "ref1" {
		t.Errorf("start_param = %q, want ref1", d.StartParam)
	}
}

func TestClassify_TgResolveStartgroup(t *testing.T) {
	d := Classify("tg://resolve?domain=mybot&startgroup=g1")

	if d.Kind != KindBotStartRef {
		t.Fatalf("kind = %s, want bot_start_with_referral", d.Kind)
	}
	if d.StartKey != "startgroup" {
		t.Errorf("start_key = %q, want startgroup", d.StartKey)
	}
}

func TestClassify_TgResolveNoStart(t *testing.T) {
	// Без start-ключей — обычная bot-vs-public эвристика по domain.
	if d := Classify("tg://resolve?domain=somebot"); d.Kind != KindBotStart {
		t.Errorf("kind = %s, want bot_start", d.Kind)
	}
	if d := Classify("tg://resolve?domain=somechannel"); d.Kind != KindPublicUsername {
		t.Errorf("kind = %s, want public_username", d.Kind)
	}
}

func TestClassify_URLWithStartParam(t *testing.T) {
	d := Classify("https://t.me/mybot?start=promo")

	if d.Kind != KindBotStartRef {
		t.Fatalf("kind = %s, want bot_start_with_referral", d.Kind)
	}
	if d.StartParam != "promo" {
		t.Errorf("start_param = %q, want promo", d.StartParam)
	}
}

func TestClassify_Unknown(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"https://example.com/foo",
		"!!!",
		"ab", // слишком короткий для username
		"tg://settings",
	}

	for _, raw := range tests {
		d := Classify(raw)
		if d.Kind != KindUnknown {
			t.Errorf("Classify(%q).Kind = %s, want unknown", raw, d.Kind)
		}
		if d.Raw != raw {
			t.Errorf("Classify(%q).Raw = %q, исходная строка должна сохраняться", raw, d.Raw)
		}
	}
}

func TestClassify_InvitePrecedesBotHeuristic(t *testing.T) {
	// Хэш, оканчивающийся на "bot", всё равно инвайт: паттерны пути
	// проверяются раньше bot-эвристики.
	d := Classify("t.me/+somebot")

	if d.Kind != KindInvite {
		t.Fatalf("kind = %s, want invite", d.Kind)
	}
	if d.InviteHash != "somebot" {
		t.Errorf("invite_hash = %q", d.InviteHash)
	}
}

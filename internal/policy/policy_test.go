package policy

import (
	"testing"

	"github.com/shaiso/Gramflow/internal/tglink"
)

func TestResolve_KnownCombinations(t *testing.T) {
	tests := []struct {
		service    string
		linkType   string
		wantAction string
	}{
		{"members", LinkChannel, "subscribe"},
		{"members", LinkGroup, "join"},
		{"members", LinkInvite, "join"},
		{"views", LinkPublicPost, "view"},
		{"reactions", LinkPublicPost, "react"},
		{"comments", LinkPublicPost, "comment"},
		{"bot_start", LinkBot, "bot_start"},
		{"story_reactions", LinkStory, "story_react"},
	}

	for _, tt := range tests {
		p, ok := Resolve(tt.service, tt.linkType)
		if !ok {
			t.Errorf("Resolve(%s, %s): политика отсутствует", tt.service, tt.linkType)
			continue
		}
		if p.Action != tt.wantAction {
			t.Errorf("Resolve(%s, %s).Action = %s, want %s", tt.service, tt.linkType, p.Action, tt.wantAction)
		}
		if p.PerCall < 1 {
			t.Errorf("Resolve(%s, %s).PerCall = %d, want ≥1", tt.service, tt.linkType, p.PerCall)
		}
		if p.IntervalSec < 0 {
			t.Errorf("Resolve(%s, %s).IntervalSec = %d, want ≥0", tt.service, tt.linkType, p.IntervalSec)
		}
	}
}

func TestResolve_UnsupportedCombination(t *testing.T) {
	// Несконфигурированная пара — absent, никаких действий по догадке.
	tests := []struct{ service, linkType string }{
		{"views", LinkChannel},
		{"members", LinkBot},
		{"comments", LinkInvite},
		{"nonexistent", LinkChannel},
		{"views", LinkUnknown},
		// Сторис по username: без идентификатора сторис не планируется.
		{"story_reactions", LinkChannel},
		{"story_reactions", LinkUser},
	}

	for _, tt := range tests {
		if p, ok := Resolve(tt.service, tt.linkType); ok {
			t.Errorf("Resolve(%s, %s) = %+v, want absent", tt.service, tt.linkType, p)
		}
	}
}

func TestLinkTypeFromInspection_ParsedKindWins(t *testing.T) {
	// Явный распарсенный вид приоритетнее live-типа чата.
	d := tglink.Descriptor{Kind: tglink.KindInvite, InviteHash: "AbC"}
	if got := LinkTypeFromInspection(d, "channel"); got != LinkInvite {
		t.Errorf("got %s, want invite", got)
	}

	d = tglink.Descriptor{Kind: tglink.KindPublicPost, Username: "ch", PostID: 1}
	if got := LinkTypeFromInspection(d, "group"); got != LinkPublicPost {
		t.Errorf("got %s, want public_post", got)
	}
}

func TestLinkTypeFromInspection_ChatType(t *testing.T) {
	d := tglink.Descriptor{Kind: tglink.KindPublicUsername, Username: "ch"}

	tests := []struct{ chatType, want string }{
		{"channel", LinkChannel},
		{"supergroup", LinkGroup},
		{"group", LinkGroup},
		{"bot", LinkBot},
		{"private", LinkUser},
		{"", LinkUnknown},
	}

	for _, tt := range tests {
		if got := LinkTypeFromInspection(d, tt.chatType); got != tt.want {
			t.Errorf("LinkTypeFromInspection(public_username, %q) = %s, want %s", tt.chatType, got, tt.want)
		}
	}
}

func TestLinkTypeFromInspection_Bot(t *testing.T) {
	d := tglink.Descriptor{Kind: tglink.KindBotStart, Username: "somebot"}
	if got := LinkTypeFromInspection(d, ""); got != LinkBot {
		t.Errorf("got %s, want bot", got)
	}
}

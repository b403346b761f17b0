package tglink

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Kind — вид Telegram-ссылки.
type Kind string

const (
	// KindInvite — инвайт-ссылка: t.me/+hash или t.me/joinchat/hash.
	KindInvite Kind = "invite"

	// KindPublicPost — пост в публичном канале: t.me/username/123.
	KindPublicPost Kind = "public_post"

	// KindPrivatePost — пост в приватном канале: t.me/c/123456/42.
	KindPrivatePost Kind = "private_post"

	// KindStory — сторис: t.me/username/s/123.
	KindStory Kind = "story"

	// KindPublicUsername — публичный username без поста.
	KindPublicUsername Kind = "public_username"

	// KindBotStart — запуск бота без реферального параметра.
	KindBotStart Kind = "bot_start"

	// KindBotStartRef — запуск бота с реферальным параметром.
	KindBotStartRef Kind = "bot_start_with_referral"

	// KindUnknown — ссылка не распознана.
	KindUnknown Kind = "unknown"
)

// Descriptor — структурированный результат классификации ссылки.
// Неизменяемый, выводится только из входной строки.
type Descriptor struct {
	Kind Kind `json:"kind"`

	// Username — username канала/группы/бота (без @).
	Username string `json:"username,omitempty"`

	// PostID — идентификатор поста (public_post, private_post).
	PostID int `json:"post_id,omitempty"`

	// StoryID — идентификатор сторис (story).
	StoryID int `json:"story_id,omitempty"`

	// InviteHash — хэш инвайт-ссылки.
	InviteHash string `json:"invite_hash,omitempty"`

	// InternalChatID — внутренний ID чата из ссылок вида t.me/c/<id>/<post>.
	InternalChatID int64 `json:"internal_chat_id,omitempty"`

	// StartParam — значение start-параметра (bot_start_with_referral).
	StartParam string `json:"start_param,omitempty"`

	// StartKey — какой из ключей start/startgroup/startapp/startattach сработал.
	StartKey string `json:"start_key,omitempty"`

	// HasReferrer — присутствует ли непустой реферальный параметр.
	HasReferrer bool `json:"has_referrer,omitempty"`

	// Raw — исходная строка (сохраняется для диагностики).
	Raw string `json:"raw"`
}

// startKeys — ключи запуска бота в порядке приоритета. Первый найденный
// определяет результат.
var startKeys = []string{"start", "startgroup", "startapp", "startattach"}

var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{3,31}$`)

// Classify разбирает сырую строку в Descriptor.
//
// Детерминирована и не имеет отказов: нераспознаваемый вход даёт
// Kind=unknown с сохранённой исходной строкой.
//
// Порядок проверки путей значим: инвайт- и пост-паттерны проверяются
// раньше bot-эвристики, поскольку username'ы и инвайт-хэши пересекаются
// по классу символов.
func Classify(raw string) Descriptor {
	d := Descriptor{Kind: KindUnknown, Raw: raw}

	s := strings.TrimSpace(raw)
	if s == "" {
		return d
	}

	// Голые хосты t.me/... и telegram.me/... приводим к канонической форме.
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "t.me/") || strings.HasPrefix(lower, "telegram.me/") {
		s = "https://" + s
		lower = "https://" + lower
	}

	switch {
	case strings.HasPrefix(lower, "tg://"):
		return classifyTgScheme(s, d)

	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		return classifyURL(s, d)

	default:
		// Голый username или @username.
		return classifyUsernameToken(strings.TrimPrefix(s, "@"), d)
	}
}

// classifyTgScheme разбирает ссылки вида tg://resolve?domain=X и tg://join?invite=H.
func classifyTgScheme(s string, d Descriptor) Descriptor {
	u, err := url.Parse(s)
	if err != nil {
		return d
	}

	q := u.Query()

	switch u.Host {
	case "resolve":
		domain := q.Get("domain")
		if domain == "" {
			return d
		}

		for _, key := range startKeys {
			if !q.Has(key) {
				continue
			}
			val := q.Get(key)
			if val != "" {
				d.Kind = KindBotStartRef
				d.Username = domain
				d.StartParam = val
				d.StartKey = key
				d.HasReferrer = true
				return d
			}
			d.Kind = KindBotStart
			d.Username = domain
			d.StartKey = key
			return d
		}

		return classifyUsernameToken(domain, d)

	case "join":
		if hash := q.Get("invite"); hash != "" {
			d.Kind = KindInvite
			d.InviteHash = hash
			return d
		}
		return d

	default:
		return d
	}
}

// classifyURL разбирает http(s)-ссылки на t.me/telegram.me.
func classifyURL(s string, d Descriptor) Descriptor {
	u, err := url.Parse(s)
	if err != nil {
		return d
	}

	host := strings.ToLower(u.Hostname())
	if host != "t.me" && host != "telegram.me" {
		return d
	}

	segs := splitPath(u.Path)
	if len(segs) == 0 {
		return d
	}

	// t.me/c/<internal_id>/<post_id> — пост в приватном канале.
	if segs[0] == "c" && len(segs) >= 3 {
		chatID, err1 := strconv.ParseInt(segs[1], 10, 64)
		postID, err2 := strconv.Atoi(segs[2])
		if err1 == nil && err2 == nil {
			d.Kind = KindPrivatePost
			d.InternalChatID = chatID
			d.PostID = postID
			return d
		}
		return d
	}

	// t.me/+<hash> и t.me/joinchat/<hash> — инвайт.
	if strings.HasPrefix(segs[0], "+") {
		if hash := segs[0][1:]; hash != "" {
			d.Kind = KindInvite
			d.InviteHash = hash
		}
		return d
	}
	if segs[0] == "joinchat" && len(segs) >= 2 && segs[1] != "" {
		d.Kind = KindInvite
		d.InviteHash = segs[1]
		return d
	}

	// t.me/<username>/s/<story_id> — сторис.
	if len(segs) >= 3 && segs[1] == "s" {
		if storyID, err := strconv.Atoi(segs[2]); err == nil {
			d.Kind = KindStory
			d.Username = segs[0]
			d.StoryID = storyID
			return d
		}
		return d
	}

	// t.me/<username>/<post_id> — пост в публичном канале.
	if len(segs) >= 2 {
		if postID, err := strconv.Atoi(segs[1]); err == nil {
			d.Kind = KindPublicPost
			d.Username = segs[0]
			d.PostID = postID
			return d
		}
		return d
	}

	// t.me/<username>?start=... — запуск бота с параметром.
	q := u.Query()
	for _, key := range startKeys {
		if !q.Has(key) {
			continue
		}
		val := q.Get(key)
		d.Username = segs[0]
		d.StartKey = key
		if val != "" {
			d.Kind = KindBotStartRef
			d.StartParam = val
			d.HasReferrer = true
		} else {
			d.Kind = KindBotStart
		}
		return d
	}

	// Голый t.me/<username> — та же bot-эвристика, что и для токена.
	return classifyUsernameToken(segs[0], d)
}

// classifyUsernameToken классифицирует голый username:
// похожие на ботов — bot_start, остальные — public_username.
func classifyUsernameToken(token string, d Descriptor) Descriptor {
	if !usernameRe.MatchString(token) {
		return d
	}

	d.Username = token
	if looksLikeBot(token) {
		d.Kind = KindBotStart
	} else {
		d.Kind = KindPublicUsername
	}
	return d
}

// looksLikeBot — эвристика «похоже на бота»: username оканчивается
// на "bot" или "_bot".
func looksLikeBot(username string) bool {
	return strings.HasSuffix(strings.ToLower(username), "bot")
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

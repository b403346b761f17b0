package policy

import (
	"github.com/shaiso/Gramflow/internal/tglink"
)

// Policy — политика выполнения для пары (тип услуги, тип ссылки).
type Policy struct {
	// Action — действие для executor'а.
	Action string `json:"action"`

	// IntervalSec — минимальный интервал между вызовами, секунды.
	IntervalSec int `json:"interval_sec"`

	// PerCall — количество единиц за один вызов.
	PerCall int `json:"per_call"`
}

// Типы ссылок — ключи таблицы политик.
const (
	LinkInvite     = "invite"
	LinkPublicPost = "public_post"
	LinkStory      = "story"
	LinkChannel    = "channel"
	LinkGroup      = "group"
	LinkBot        = "bot"
	LinkUser       = "user"
	LinkUnknown    = "unknown"
)

// key — составной ключ таблицы политик.
type key struct {
	service  string
	linkType string
}

// table — статическая таблица политик. Отсутствие записи — валидный
// результат: комбинация не поддерживается, никакого fallback-действия
// не подставляется.
var table = map[key]Policy{
	{"members", LinkChannel}: {Action: "subscribe", IntervalSec: 60, PerCall: 1},
	{"members", LinkGroup}:   {Action: "join", IntervalSec: 60, PerCall: 1},
	{"members", LinkInvite}:  {Action: "join", IntervalSec: 60, PerCall: 1},

	{"views", LinkPublicPost}: {Action: "view", IntervalSec: 10, PerCall: 50},

	{"reactions", LinkPublicPost}: {Action: "react", IntervalSec: 30, PerCall: 20},

	{"comments", LinkPublicPost}: {Action: "comment", IntervalSec: 120, PerCall: 1},

	{"bot_start", LinkBot}: {Action: "bot_start", IntervalSec: 30, PerCall: 1},

	// Только прямые ссылки на сторис: по username нельзя определить
	// идентификатор активной сторис без live-запроса.
	{"story_reactions", LinkStory}: {Action: "story_react", IntervalSec: 60, PerCall: 10},
}

// Resolve возвращает политику для (serviceType, linkType).
// Второе значение false означает «комбинация не поддерживается» —
// вызывающий обязан трактовать это как unsupported, а не подставлять
// действие по догадке.
func Resolve(serviceType, linkType string) (Policy, bool) {
	p, ok := table[key{serviceType, linkType}]
	return p, ok
}

// LinkTypeFromInspection сводит результат инспекции ссылки к ключу
// таблицы политик.
//
// Приоритет: явный распарсенный вид (invite/public_post) → наблюдавшийся
// тип чата (channel/supergroup/group/bot/private) → unknown.
func LinkTypeFromInspection(d tglink.Descriptor, chatType string) string {
	switch d.Kind {
	case tglink.KindInvite:
		return LinkInvite
	case tglink.KindPublicPost, tglink.KindPrivatePost:
		return LinkPublicPost
	case tglink.KindStory:
		return LinkStory
	case tglink.KindBotStart, tglink.KindBotStartRef:
		return LinkBot
	}

	switch chatType {
	case "channel":
		return LinkChannel
	case "supergroup", "group":
		return LinkGroup
	case "bot":
		return LinkBot
	case "private", "user":
		return LinkUser
	}

	// public_username без наблюдавшегося типа чата остаётся unknown:
	// без live-проверки нельзя отличить канал от группы.
	return LinkUnknown
}

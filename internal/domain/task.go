package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task — единица работы по заказу, выдаваемая pull-воркерам.
//
// Task создаётся генератором, когда по заказу есть невыполненный остаток
// и нет другого живого task'а. Воркер получает task через lease и обязан
// отчитаться до истечения lease_expires_at, иначе task автоматически
// становится доступным для повторной выдачи.
type Task struct {
	// ID — уникальный идентификатор task. Стабилен между циклами lease.
	ID uuid.UUID `json:"id"`

	// OrderID — ссылка на заказ.
	OrderID uuid.UUID `json:"order_id"`

	// Action — действие: "subscribe", "join", "view", "react",
	// "comment", "bot_start", "story_react".
	Action string `json:"action"`

	// Payload — данные для выполнения: ссылка, распарсенный дескриптор,
	// количество единиц за вызов, провайдерские идентификаторы.
	Payload map[string]any `json:"payload,omitempty"`

	// Status — текущий статус task.
	Status TaskStatus `json:"status"`

	// LeaseOwner — идентификатор держателя текущего lease.
	LeaseOwner string `json:"lease_owner,omitempty"`

	// LeaseExpiresAt — время истечения lease. После этого момента
	// неотчитанный task снова доступен для выдачи.
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`

	// Attempt — номер попытки. Увеличивается при каждой выдаче.
	Attempt int `json:"attempt"`

	// LastError — текст последней ошибки выполнения.
	LastError string `json:"last_error,omitempty"`

	// NotBefore — не выдавать task раньше этого времени (retry-задержка).
	NotBefore *time.Time `json:"not_before,omitempty"`

	// ProviderTaskID — идентификатор задачи на стороне воркера/провайдера.
	ProviderTaskID string `json:"provider_task_id,omitempty"`

	// CreatedAt / UpdatedAt — времена создания и последнего обновления.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFinished возвращает true, если task завершён.
func (t *Task) IsFinished() bool {
	return t.Status.IsTerminal()
}

// LeaseActive возвращает true, если lease ещё не истёк на момент now.
func (t *Task) LeaseActive(now time.Time) bool {
	return t.Status == TaskStatusLeased &&
		t.LeaseExpiresAt != nil &&
		t.LeaseExpiresAt.After(now)
}

// PerCall возвращает количество единиц за один вызов из payload.
// Если в payload его нет — единица.
func (t *Task) PerCall() int {
	if t.Payload == nil {
		return 1
	}
	switch v := t.Payload["count"].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return 1
}

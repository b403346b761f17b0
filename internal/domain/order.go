package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Order — заказ на накрутку.
//
// Счётчики прогресса обновляются из двух источников:
//   - отчёты воркеров через tasks/report (polling-источник)
//   - webhook провайдера (авторитетный источник)
//
// Инварианты счётчиков (всегда, после любого обновления):
//
//	0 ≤ Delivered, 0 ≤ Remains, Delivered + Remains ≤ Quantity
type Order struct {
	// ID — уникальный идентификатор заказа.
	ID uuid.UUID `json:"id"`

	// ServiceType — тип услуги: "members", "views", "reactions",
	// "comments", "bot_start", "story_reactions".
	ServiceType string `json:"service_type"`

	// Link — исходная ссылка на Telegram-сущность, как её прислал клиент.
	Link string `json:"link"`

	// ChatType — тип чата, наблюдавшийся при последней проверке ссылки
	// ("channel", "supergroup", "group", "bot", "private"). Пустая строка,
	// если проверка не выполнялась.
	ChatType string `json:"chat_type,omitempty"`

	// Quantity — заказанное количество. Фиксируется при создании.
	Quantity int `json:"quantity"`

	// StartCount — стартовое значение счётчика на стороне Telegram.
	StartCount int `json:"start_count"`

	// Delivered — доставлено единиц.
	Delivered int `json:"delivered"`

	// Remains — осталось доставить.
	Remains int `json:"remains"`

	// Status — текущий статус заказа.
	Status OrderStatus `json:"status"`

	// ProviderOrderID — идентификатор заказа на стороне провайдера.
	ProviderOrderID string `json:"provider_order_id,omitempty"`

	// PollLockedAt / PollLockOwner — поля polling-блокировки.
	// Webhook всегда очищает их, сигнализируя что polling должен отступить.
	PollLockedAt  *time.Time `json:"poll_locked_at,omitempty"`
	PollLockOwner string     `json:"poll_lock_owner,omitempty"`

	// WebhookPayload — последний сырой payload webhook'а (для аудита).
	WebhookPayload json.RawMessage `json:"webhook_payload,omitempty"`

	// WebhookReceivedAt — время получения последнего webhook'а.
	WebhookReceivedAt *time.Time `json:"webhook_received_at,omitempty"`

	// LastError — последняя ошибка обработки. Очищается при успешной
	// реконсиляции.
	LastError string `json:"last_error,omitempty"`

	// CreatedAt / UpdatedAt — времена создания и последнего обновления.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressUpdate — частичное обновление счётчиков прогресса.
// nil-поле означает «в этом обновлении значение отсутствует».
type ProgressUpdate struct {
	StartCount *int
	Delivered  *int
	Remains    *int
}

// IsEmpty возвращает true, если обновление не содержит ни одного поля.
func (u ProgressUpdate) IsEmpty() bool {
	return u.StartCount == nil && u.Delivered == nil && u.Remains == nil
}

// ApplyProgress применяет обновление счётчиков с клампингом.
//
// Правила (в этом порядке):
//  1. StartCount клампится к ≥0.
//  2. Только Delivered: кламп в [0, Quantity], Remains = Quantity - Delivered.
//  3. Только Remains: симметрично, Delivered = Quantity - Remains.
//  4. Оба: каждый клампится независимо; при сумме > Quantity провайдерские
//     данные противоречивы — Delivered поднимается до Quantity, Remains = 0.
//
// Невалидное состояние никогда не сохраняется — любое нарушение инварианта
// приводится к допустимому детерминированно.
func (o *Order) ApplyProgress(u ProgressUpdate) {
	if u.StartCount != nil {
		o.StartCount = clamp(*u.StartCount, 0, maxInt)
	}

	switch {
	case u.Delivered != nil && u.Remains != nil:
		delivered := clamp(*u.Delivered, 0, o.Quantity)
		remains := clamp(*u.Remains, 0, o.Quantity)
		if delivered+remains > o.Quantity {
			delivered = o.Quantity
			remains = 0
		}
		o.Delivered = delivered
		o.Remains = remains

	case u.Delivered != nil:
		o.Delivered = clamp(*u.Delivered, 0, o.Quantity)
		o.Remains = o.Quantity - o.Delivered

	case u.Remains != nil:
		o.Remains = clamp(*u.Remains, 0, o.Quantity)
		o.Delivered = o.Quantity - o.Remains
	}
}

// AddDelivered прибавляет delta доставленных единиц (polling-путь).
// Счётчики приводятся к инварианту тем же клампингом.
func (o *Order) AddDelivered(delta int) {
	if delta < 0 {
		delta = 0
	}
	delivered := o.Delivered + delta
	o.ApplyProgress(ProgressUpdate{Delivered: &delivered})
}

// NeedsWork возвращает true, если по заказу ещё требуется прогресс.
func (o *Order) NeedsWork() bool {
	return o.Status.IsActive() && o.Remains > 0
}

// ClearPollLock очищает поля polling-блокировки.
func (o *Order) ClearPollLock() {
	o.PollLockedAt = nil
	o.PollLockOwner = ""
}

const maxInt = int(^uint(0) >> 1)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

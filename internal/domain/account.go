package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account — Telegram-аккаунт воркера, синхронизируемый через accounts/sync.
// Upsert выполняется по ProviderAccountID.
type Account struct {
	// ID — внутренний идентификатор.
	ID uuid.UUID `json:"id"`

	// ProviderAccountID — идентификатор аккаунта на стороне воркера.
	ProviderAccountID string `json:"provider_account_id"`

	// Phone — номер телефона аккаунта.
	Phone string `json:"phone"`

	// IsActive — аккаунт пригоден для работы.
	IsActive bool `json:"is_active"`

	// Meta — произвольные метаданные воркера (прокси, сессия и т.п.).
	Meta map[string]any `json:"meta,omitempty"`

	// CreatedAt / UpdatedAt — времена создания и последнего обновления.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

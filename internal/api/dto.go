package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
)

// Order DTOs

// CreateOrderRequest — запрос на создание заказа.
type CreateOrderRequest struct {
	ServiceType     string `json:"service_type"`
	Link            string `json:"link"`
	ChatType        string `json:"chat_type,omitempty"`
	Quantity        int    `json:"quantity"`
	StartCount      int    `json:"start_count,omitempty"`
	ProviderOrderID string `json:"provider_order_id,omitempty"`
}

// OrderResponse — ответ с заказом.
type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	ServiceType     string             `json:"service_type"`
	Link            string             `json:"link"`
	ChatType        string             `json:"chat_type,omitempty"`
	Quantity        int                `json:"quantity"`
	StartCount      int                `json:"start_count"`
	Delivered       int                `json:"delivered"`
	Remains         int                `json:"remains"`
	Status          domain.OrderStatus `json:"status"`
	ProviderOrderID string             `json:"provider_order_id,omitempty"`
	LastError       string             `json:"last_error,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// OrderFromDomain конвертирует domain.Order в OrderResponse.
func OrderFromDomain(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		ServiceType:     o.ServiceType,
		Link:            o.Link,
		ChatType:        o.ChatType,
		Quantity:        o.Quantity,
		StartCount:      o.StartCount,
		Delivered:       o.Delivered,
		Remains:         o.Remains,
		Status:          o.Status,
		ProviderOrderID: o.ProviderOrderID,
		LastError:       o.LastError,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// Task DTOs

// TaskResponse — задача в ответе tasks/pull: всё, что нужно воркеру
// для выполнения и отчёта.
type TaskResponse struct {
	ID             uuid.UUID         `json:"id"`
	OrderID        uuid.UUID         `json:"order_id"`
	Action         string            `json:"action"`
	Payload        map[string]any    `json:"payload,omitempty"`
	Status         domain.TaskStatus `json:"status"`
	Attempt        int               `json:"attempt"`
	LeaseExpiresAt *time.Time        `json:"lease_expires_at,omitempty"`
}

// TaskFromDomain конвертирует domain.Task в TaskResponse.
func TaskFromDomain(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		OrderID:        t.OrderID,
		Action:         t.Action,
		Payload:        t.Payload,
		Status:         t.Status,
		Attempt:        t.Attempt,
		LeaseExpiresAt: t.LeaseExpiresAt,
	}
}

// Worker boundary DTOs

// PullRequest — запрос воркера на выдачу задач.
type PullRequest struct {
	Limit int `json:"limit"`

	// WorkerID — идентификатор воркера; становится владельцем lease.
	WorkerID string `json:"worker_id,omitempty"`
}

// PullResponse — ответ на tasks/pull.
type PullResponse struct {
	OK    bool           `json:"ok"`
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ReportRequest — отчёт воркера о выполнении задачи.
type ReportRequest struct {
	TaskID         uuid.UUID      `json:"task_id"`
	State          string         `json:"state"`
	OK             bool           `json:"ok"`
	Error          string         `json:"error,omitempty"`
	RetryAfter     int            `json:"retry_after,omitempty"`
	ProviderTaskID string         `json:"provider_task_id,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// ReportResponse — ответ на tasks/report.
type ReportResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SyncAccountsRequest — батч аккаунтов воркера.
type SyncAccountsRequest struct {
	Accounts []SyncAccountItem `json:"accounts"`
}

// SyncAccountItem — один аккаунт в батче.
type SyncAccountItem struct {
	ProviderAccountID string         `json:"provider_account_id"`
	Phone             string         `json:"phone"`
	IsActive          *bool          `json:"is_active,omitempty"`
	Meta              map[string]any `json:"meta,omitempty"`
}

// SyncAccountsResponse — результат синхронизации батча.
// Ошибки отдельных аккаунтов не прерывают батч.
type SyncAccountsResponse struct {
	OK     bool            `json:"ok"`
	Synced int             `json:"synced"`
	Errors []SyncItemError `json:"errors,omitempty"`
}

// SyncItemError — ошибка по одному аккаунту батча.
type SyncItemError struct {
	ProviderAccountID string `json:"provider_account_id"`
	Error             string `json:"error"`
}

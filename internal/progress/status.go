package progress

import (
	"strings"

	"github.com/shaiso/Gramflow/internal/domain"
)

// statusTable — таблица соответствия провайдерских статусов локальным.
// Ключи — уже нормализованные строки (lower-case, без пробелов).
var statusTable = map[string]domain.OrderStatus{
	"pending":     domain.OrderStatusPending,
	"queued":      domain.OrderStatusPending,
	"processing":  domain.OrderStatusProcessing,
	"active":      domain.OrderStatusProcessing,
	"inprogress":  domain.OrderStatusInProgress,
	"in_progress": domain.OrderStatusInProgress,
	"running":     domain.OrderStatusInProgress,
	"completed":   domain.OrderStatusCompleted,
	"complete":    domain.OrderStatusCompleted,
	"done":        domain.OrderStatusCompleted,
	"success":     domain.OrderStatusCompleted,
	"partial":     domain.OrderStatusPartial,
	"canceled":    domain.OrderStatusCanceled,
	"cancelled":   domain.OrderStatusCanceled,
	"failed":      domain.OrderStatusFailed,
	"error":       domain.OrderStatusFailed,
}

// MapProviderStatus нормализует провайдерскую строку статуса и сводит
// её к локальному словарю. Нераспознанный статус — PROCESSING: webhook
// пришёл, значит провайдер над заказом работает; ронять реконсиляцию
// из-за незнакомой строки нельзя.
func MapProviderStatus(raw string) domain.OrderStatus {
	// Внутренние пробелы сводятся к "_": "in progress" и "In  Progress"
	// попадают в ту же ячейку таблицы, что и "in_progress".
	norm := strings.Join(strings.Fields(strings.ToLower(raw)), "_")
	if s, ok := statusTable[norm]; ok {
		return s
	}
	return domain.OrderStatusProcessing
}

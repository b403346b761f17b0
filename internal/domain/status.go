package domain

// OrderStatus — статус заказа.
//
// Жизненный цикл:
//
//	PENDING → PROCESSING → IN_PROGRESS → COMPLETED
//	                                   ↘ PARTIAL
//	          (или) → CANCELED / FAILED
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, работа ещё не началась.
	OrderStatusPending OrderStatus = "PENDING"

	// OrderStatusProcessing — заказ принят в обработку.
	OrderStatusProcessing OrderStatus = "PROCESSING"

	// OrderStatusInProgress — по заказу идёт выполнение.
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"

	// OrderStatusCompleted — заказ выполнен полностью.
	OrderStatusCompleted OrderStatus = "COMPLETED"

	// OrderStatusPartial — заказ выполнен частично, остаток не будет доставлен.
	OrderStatusPartial OrderStatus = "PARTIAL"

	// OrderStatusCanceled — заказ отменён.
	OrderStatusCanceled OrderStatus = "CANCELED"

	// OrderStatusFailed — заказ завершился ошибкой.
	OrderStatusFailed OrderStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (заказ завершён).
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusPartial, OrderStatusCanceled, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// IsActive возвращает true, если по заказу ещё можно генерировать задачи.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusInProgress:
		return true
	default:
		return false
	}
}

// TaskStatus — статус выполнения task.
//
// Жизненный цикл:
//
//	PENDING → LEASED → DONE
//	                 ↘ FAILED
//	                 ↘ PENDING (retry с not_before, либо истечение lease без отчёта)
type TaskStatus string

const (
	// TaskStatusPending — task ожидает выдачи воркеру.
	TaskStatusPending TaskStatus = "PENDING"

	// TaskStatusLeased — task выдан воркеру, lease активен до lease_expires_at.
	TaskStatusLeased TaskStatus = "LEASED"

	// TaskStatusDone — task выполнен успешно.
	TaskStatusDone TaskStatus = "DONE"

	// TaskStatusFailed — task завершился ошибкой без retry.
	TaskStatusFailed TaskStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
// Терминальный task никогда не выдаётся повторно.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusDone, TaskStatusFailed:
		return true
	default:
		return false
	}
}

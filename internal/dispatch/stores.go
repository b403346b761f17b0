package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/repo"
)

// TaskStore — операции над задачами, нужные генератору и приёмнику
// отчётов. Реализуется repo.TaskRepo.
type TaskStore interface {
	// CreateForBacklog вставляет задачу, если по заказу нет живой.
	CreateForBacklog(ctx context.Context, task *domain.Task) (bool, error)

	// GetByID возвращает задачу или repo.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// MarkDone/MarkFailed/Requeue — переходы жизненного цикла.
	// Возвращают false, если задача уже в терминальном состоянии.
	MarkDone(ctx context.Context, id uuid.UUID, providerTaskID string) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (bool, error)
	Requeue(ctx context.Context, id uuid.UUID, notBefore *time.Time, errMsg string) (bool, error)
}

// OrderStore — операции над заказами, нужные генератору и приёмнику
// отчётов. Реализуется repo.OrderRepo.
type OrderStore interface {
	// ListNeedingTasks возвращает заказы с остатком без живой задачи.
	ListNeedingTasks(ctx context.Context, limit int) ([]domain.Order, error)

	// SetLastError записывает диагностику в заказ.
	SetLastError(ctx context.Context, id uuid.UUID, msg string) error

	// ApplyWorkerProgress атомарно применяет дельту к счётчикам заказа.
	ApplyWorkerProgress(ctx context.Context, id uuid.UUID, delta int, lockOwner string) (*domain.Order, error)
}

var (
	_ TaskStore  = (*repo.TaskRepo)(nil)
	_ OrderStore = (*repo.OrderRepo)(nil)
)

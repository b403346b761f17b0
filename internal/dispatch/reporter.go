package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/executor"
	"github.com/shaiso/Gramflow/internal/mq"
	"github.com/shaiso/Gramflow/internal/repo"
)

// Report — результат выполнения задачи, присланный воркером.
type Report struct {
	// State — состояние: done, pending, failed. Пустая строка
	// нормализуется по OK.
	State string

	// OK — действие выполнено успешно.
	OK bool

	// Error — сообщение об ошибке.
	Error string

	// RetryAfter — задержка перед повторной выдачей, секунды.
	RetryAfter int

	// ProviderTaskID — идентификатор задачи на стороне воркера.
	ProviderTaskID string

	// Count — доставлено единиц. 0 — взять per-call из payload задачи.
	Count int
}

// ReporterConfig — конфигурация приёмника отчётов.
type ReporterConfig struct {
	// Tasks — хранилище задач.
	Tasks TaskStore

	// Orders — хранилище заказов.
	Orders OrderStore

	// Publisher — публикация событий order.progress. Опционально.
	Publisher *mq.Publisher

	// Logger — логгер.
	Logger *slog.Logger
}

// Reporter идемпотентно применяет отчёты воркеров к задачам и заказам.
//
// Терминальные состояния липкие: повторный отчёт по уже завершённой
// задаче принимается без ошибки и без повторного применения дельты
// к счётчикам заказа.
type Reporter struct {
	tasks  TaskStore
	orders OrderStore
	pub    *mq.Publisher
	logger *slog.Logger
}

// NewReporter создаёт новый Reporter.
func NewReporter(cfg ReporterConfig) *Reporter {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Reporter{
		tasks:  cfg.Tasks,
		orders: cfg.Orders,
		pub:    cfg.Publisher,
		logger: cfg.Logger,
	}
}

// Report применяет отчёт воркера к задаче.
//
// Возвращает ErrUnknownTask, если задача не найдена, и ErrUnknownState
// при нераспознанном состоянии. Отчёт по терминальной задаче — no-op.
func (r *Reporter) Report(ctx context.Context, taskID uuid.UUID, rep Report) error {
	state := NormalizeState(rep.State, rep.OK)

	task, err := r.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
		}
		return fmt.Errorf("load task: %w", err)
	}

	if task.IsFinished() {
		r.logger.Debug("duplicate report for terminal task", "task_id", taskID, "status", task.Status)
		return nil
	}

	switch state {
	case executor.StateDone:
		return r.applyDone(ctx, task, rep)

	case executor.StateFailed:
		if rep.RetryAfter > 0 {
			// Ограниченный retry: задача возвращается в очередь
			// с нижней границей времени повторной выдачи.
			return r.requeue(ctx, task, rep)
		}
		changed, err := r.tasks.MarkFailed(ctx, task.ID, rep.Error)
		if err != nil {
			return fmt.Errorf("mark task failed: %w", err)
		}
		if changed {
			r.logger.Info("task failed", "task_id", task.ID, "error", rep.Error)
		}
		return nil

	case executor.StatePending:
		return r.requeue(ctx, task, rep)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, rep.State)
	}
}

// applyDone переводит задачу в done и применяет дельту прогресса к заказу.
func (r *Reporter) applyDone(ctx context.Context, task *domain.Task, rep Report) error {
	changed, err := r.tasks.MarkDone(ctx, task.ID, rep.ProviderTaskID)
	if err != nil {
		return fmt.Errorf("mark task done: %w", err)
	}
	if !changed {
		// Гонка с дублирующим отчётом: дельту применил первый.
		return nil
	}

	delta := ProgressDelta(task, rep)
	order, err := r.orders.ApplyWorkerProgress(ctx, task.OrderID, delta, task.LeaseOwner)
	if err != nil {
		return fmt.Errorf("apply progress to order %s: %w", task.OrderID, err)
	}

	r.logger.Info("task done",
		"task_id", task.ID,
		"order_id", order.ID,
		"delta", delta,
		"delivered", order.Delivered,
		"remains", order.Remains,
	)

	if r.pub != nil {
		err := r.pub.PublishOrderProgress(ctx, mq.OrderProgressPayload{
			OrderID:   order.ID,
			Status:    string(order.Status),
			Delivered: order.Delivered,
			Remains:   order.Remains,
		})
		if err != nil {
			r.logger.Warn("failed to publish order.progress", "order_id", order.ID, "error", err)
		}
	}

	return nil
}

// requeue возвращает задачу в очередь с учётом retry_after.
func (r *Reporter) requeue(ctx context.Context, task *domain.Task, rep Report) error {
	notBefore := NotBeforeAt(time.Now(), rep.RetryAfter)

	changed, err := r.tasks.Requeue(ctx, task.ID, notBefore, rep.Error)
	if err != nil {
		return fmt.Errorf("requeue task: %w", err)
	}
	if changed {
		r.logger.Info("task requeued",
			"task_id", task.ID,
			"retry_after", rep.RetryAfter,
			"error", rep.Error,
		)
	}
	return nil
}

// NormalizeState приводит состояние отчёта к каноническому виду.
// Пустое состояние выводится из ok: true → done, false → failed.
func NormalizeState(state string, ok bool) string {
	if state != "" {
		return state
	}
	if ok {
		return executor.StateDone
	}
	return executor.StateFailed
}

// ProgressDelta возвращает дельту прогресса по отчёту: явный счётчик
// из отчёта, иначе per-call из payload задачи.
func ProgressDelta(task *domain.Task, rep Report) int {
	if rep.Count > 0 {
		return rep.Count
	}
	return task.PerCall()
}

// NotBeforeAt возвращает нижнюю границу времени повторной выдачи.
// Нулевая задержка — без ограничения (nil).
func NotBeforeAt(now time.Time, retryAfterSec int) *time.Time {
	if retryAfterSec <= 0 {
		return nil
	}
	t := now.Add(time.Duration(retryAfterSec) * time.Second)
	return &t
}

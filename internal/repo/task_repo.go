package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Gramflow/internal/domain"
)

// taskColumns — колонки tasks в порядке сканирования.
const taskColumns = `id, order_id, action, payload, status, lease_owner, lease_expires_at,
       attempt, last_error, not_before, provider_task_id, created_at, updated_at`

// TaskRepo — репозиторий для работы с tasks.
type TaskRepo struct {
	pool *pgxpool.Pool
}

// NewTaskRepo создаёт новый TaskRepo.
func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// CreateForBacklog создаёт task для заказа, если по заказу нет другого
// живого task'а (PENDING либо LEASED с неистёкшим lease).
//
// Проверка встроена в INSERT одним стейтментом — генерация идемпотентна
// относительно уже созданной работы даже при конкурентных вызовах.
// Возвращает true, если task создан.
func (r *TaskRepo) CreateForBacklog(ctx context.Context, task *domain.Task) (bool, error) {
	payloadJSON, err := json.Marshal(task.Payload)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO tasks (id, order_id, action, payload, status, attempt, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, 0, now(), now()
		WHERE NOT EXISTS (
			SELECT 1 FROM tasks
			WHERE order_id = $2
			  AND (status = 'PENDING'
			       OR (status = 'LEASED' AND lease_expires_at > now()))
		)
	`
	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.OrderID,
		task.Action,
		payloadJSON,
		domain.TaskStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("insert task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID возвращает task по ID.
func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

// Claim атомарно выдаёт до limit task'ов вызывающему.
//
// Условие выборки встроено в сам claim-запрос: PENDING с наступившим
// not_before либо LEASED с истёкшим lease — просроченный неотчитанный
// task возвращается в пул без отдельного reaper'а. FOR UPDATE SKIP LOCKED
// гарантирует, что конкурентные вызовы никогда не получат один task
// одновременно: в любой момент у task'а не больше одного живого lease.
func (r *TaskRepo) Claim(ctx context.Context, owner string, limit int, ttl time.Duration) ([]domain.Task, error) {
	if limit <= 0 {
		return nil, nil
	}

	expiresAt := time.Now().Add(ttl)

	query := `
		WITH candidates AS (
			SELECT id FROM tasks
			WHERE (status = 'PENDING' AND (not_before IS NULL OR not_before <= now()))
			   OR (status = 'LEASED' AND lease_expires_at < now())
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE tasks t
		SET status = 'LEASED',
		    lease_owner = $1,
		    lease_expires_at = $3,
		    attempt = t.attempt + 1,
		    updated_at = now()
		FROM candidates c
		WHERE t.id = c.id
		RETURNING t.id, t.order_id, t.action, t.payload, t.status, t.lease_owner,
		          t.lease_expires_at, t.attempt, t.last_error, t.not_before,
		          t.provider_task_id, t.created_at, t.updated_at`

	rows, err := r.pool.Query(ctx, query, owner, limit, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("claim tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// MarkDone переводит task в терминальный DONE.
//
// Обновление условно: терминальный task не трогается (sticky terminal
// states), повторный отчёт — no-op. Возвращает true, если переход
// применён этим вызовом.
func (r *TaskRepo) MarkDone(ctx context.Context, id uuid.UUID, providerTaskID string) (bool, error) {
	query := `
		UPDATE tasks
		SET status = 'DONE',
		    provider_task_id = COALESCE(NULLIF($2, ''), provider_task_id),
		    last_error = NULL,
		    updated_at = now()
		WHERE id = $1 AND status IN ('PENDING', 'LEASED')
	`
	tag, err := r.pool.Exec(ctx, query, id, providerTaskID)
	if err != nil {
		return false, fmt.Errorf("mark task done: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkFailed переводит task в терминальный FAILED с текстом ошибки.
func (r *TaskRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) (bool, error) {
	query := `
		UPDATE tasks
		SET status = 'FAILED',
		    last_error = $2,
		    updated_at = now()
		WHERE id = $1 AND status IN ('PENDING', 'LEASED')
	`
	tag, err := r.pool.Exec(ctx, query, id, nullString(errMsg))
	if err != nil {
		return false, fmt.Errorf("mark task failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Requeue возвращает task в PENDING с опциональной not_before задержкой.
// Lease снимается. Терминальные tasks не трогаются.
func (r *TaskRepo) Requeue(ctx context.Context, id uuid.UUID, notBefore *time.Time, errMsg string) (bool, error) {
	query := `
		UPDATE tasks
		SET status = 'PENDING',
		    lease_owner = NULL,
		    lease_expires_at = NULL,
		    not_before = $2,
		    last_error = $3,
		    updated_at = now()
		WHERE id = $1 AND status IN ('PENDING', 'LEASED')
	`
	tag, err := r.pool.Exec(ctx, query, id, notBefore, nullString(errMsg))
	if err != nil {
		return false, fmt.Errorf("requeue task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByOrder возвращает tasks заказа.
func (r *TaskRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by order: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// TaskFilter — фильтр для списка tasks.
type TaskFilter struct {
	Status domain.TaskStatus
	Limit  int
	Offset int
}

// List возвращает tasks с фильтрацией.
func (r *TaskRepo) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []any{}

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// --- Helpers ---

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var payloadJSON []byte
	var leaseOwner, lastError, providerTaskID *string

	err := row.Scan(
		&task.ID,
		&task.OrderID,
		&task.Action,
		&payloadJSON,
		&task.Status,
		&leaseOwner,
		&task.LeaseExpiresAt,
		&task.Attempt,
		&lastError,
		&task.NotBefore,
		&providerTaskID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if payloadJSON != nil {
		if err := json.Unmarshal(payloadJSON, &task.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	if leaseOwner != nil {
		task.LeaseOwner = *leaseOwner
	}
	if lastError != nil {
		task.LastError = *lastError
	}
	if providerTaskID != nil {
		task.ProviderTaskID = *providerTaskID
	}

	return &task, nil
}

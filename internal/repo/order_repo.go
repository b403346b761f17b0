package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Gramflow/internal/domain"
)

// orderColumns — колонки orders в порядке сканирования.
const orderColumns = `id, service_type, link, chat_type, quantity, start_count, delivered,
       remains, status, provider_order_id, poll_locked_at, poll_lock_owner,
       webhook_payload, webhook_received_at, last_error, created_at, updated_at`

// OrderRepo — репозиторий для работы с orders.
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepo создаёт новый OrderRepo.
func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create создаёт новый заказ. Remains инициализируется Quantity.
func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, service_type, link, chat_type, quantity, start_count,
		                    delivered, remains, status, provider_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
	`
	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.ServiceType,
		order.Link,
		nullString(order.ChatType),
		order.Quantity,
		order.StartCount,
		order.Delivered,
		order.Remains,
		order.Status,
		nullString(order.ProviderOrderID),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID возвращает заказ по ID.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

// FindByProviderRef ищет заказ по провайдерскому идентификатору.
// Если ref парсится как UUID и по provider_order_id ничего нет,
// пробуем первичный ключ.
func (r *OrderRepo) FindByProviderRef(ctx context.Context, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE provider_order_id = $1`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, ref))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id, parseErr := uuid.Parse(ref)
	if parseErr != nil {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// OrderFilter — фильтр для списка заказов.
type OrderFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

// List возвращает заказы с фильтрацией.
func (r *OrderRepo) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListNeedingTasks возвращает активные заказы с остатком, по которым нет
// живого task'а — кандидаты для генератора.
func (r *OrderRepo) ListNeedingTasks(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		WHERE o.status IN ('PENDING', 'PROCESSING', 'IN_PROGRESS')
		  AND o.remains > 0
		  AND NOT EXISTS (
			SELECT 1 FROM tasks t
			WHERE t.order_id = o.id
			  AND (t.status = 'PENDING'
			       OR (t.status = 'LEASED' AND t.lease_expires_at > now()))
		  )
		ORDER BY o.created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders needing tasks: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// UpdateStatus меняет статус заказа.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLastError записывает last_error заказа.
func (r *OrderRepo) SetLastError(ctx context.Context, id uuid.UUID, msg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET last_error = $2, updated_at = now() WHERE id = $1`,
		id, nullString(msg))
	if err != nil {
		return fmt.Errorf("set order last_error: %w", err)
	}
	return nil
}

// ApplyWorkerProgress применяет worker-derived дельту доставленного
// (polling-путь) одной read-modify-write транзакцией по строке заказа.
// Поля polling-блокировки помечаются владельцем этого обновления;
// webhook при получении их очистит.
func (r *OrderRepo) ApplyWorkerProgress(ctx context.Context, id uuid.UUID, delta int, lockOwner string) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	order.AddDelivered(delta)
	if order.Remains == 0 {
		order.Status = domain.OrderStatusCompleted
	} else if order.Status == domain.OrderStatusPending || order.Status == domain.OrderStatusProcessing {
		order.Status = domain.OrderStatusInProgress
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET start_count = $2, delivered = $3, remains = $4, status = $5,
		    poll_locked_at = now(), poll_lock_owner = $6,
		    updated_at = now()
		WHERE id = $1
	`, order.ID, order.StartCount, order.Delivered, order.Remains, order.Status, lockOwner)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}

// StoreWebhookPayload сохраняет сырой payload webhook'а и время получения,
// одновременно очищая поля polling-блокировки.
//
// Вызывается до обработки: доставка не теряется даже при падении
// дальнейшей реконсиляции, а очистка блокировки не зависит от её успеха.
func (r *OrderRepo) StoreWebhookPayload(ctx context.Context, id uuid.UUID, raw []byte) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET webhook_payload = $2,
		    webhook_received_at = now(),
		    poll_locked_at = NULL,
		    poll_lock_owner = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id, raw)
	if err != nil {
		return fmt.Errorf("store webhook payload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyWebhookProgress применяет авторитетное webhook-обновление:
// счётчики с клампингом, статус, очистка polling-блокировки и last_error.
// Read-modify-write по строке заказа — конкурентный polling-путь не может
// вклиниться между чтением и записью.
func (r *OrderRepo) ApplyWebhookProgress(ctx context.Context, id uuid.UUID, u domain.ProgressUpdate, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := scanOrder(tx.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	order.ApplyProgress(u)
	if status != "" {
		order.Status = status
	}
	order.ClearPollLock()
	order.LastError = ""

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET start_count = $2, delivered = $3, remains = $4, status = $5,
		    poll_locked_at = NULL, poll_lock_owner = NULL, last_error = NULL,
		    updated_at = now()
		WHERE id = $1
	`, order.ID, order.StartCount, order.Delivered, order.Remains, order.Status)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return order, nil
}

// --- Helpers ---

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var chatType, providerOrderID, pollLockOwner, lastError *string

	err := row.Scan(
		&order.ID,
		&order.ServiceType,
		&order.Link,
		&chatType,
		&order.Quantity,
		&order.StartCount,
		&order.Delivered,
		&order.Remains,
		&order.Status,
		&providerOrderID,
		&order.PollLockedAt,
		&pollLockOwner,
		&order.WebhookPayload,
		&order.WebhookReceivedAt,
		&lastError,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if chatType != nil {
		order.ChatType = *chatType
	}
	if providerOrderID != nil {
		order.ProviderOrderID = *providerOrderID
	}
	if pollLockOwner != nil {
		order.PollLockOwner = *pollLockOwner
	}
	if lastError != nil {
		order.LastError = *lastError
	}

	return &order, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

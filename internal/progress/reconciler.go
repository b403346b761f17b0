package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/mq"
	"github.com/shaiso/Gramflow/internal/repo"
)

// OrderStore — операции над заказами, нужные реконсиляции.
// Реализуется repo.OrderRepo; в тестах подменяется фейком.
type OrderStore interface {
	// FindByProviderRef ищет заказ по идентификатору провайдера.
	FindByProviderRef(ctx context.Context, ref string) (*domain.Order, error)

	// StoreWebhookPayload сохраняет сырой payload и снимает
	// polling-блокировку заказа.
	StoreWebhookPayload(ctx context.Context, id uuid.UUID, raw []byte) error

	// ApplyWebhookProgress применяет счётчики и статус через клампинг.
	ApplyWebhookProgress(ctx context.Context, id uuid.UUID, u domain.ProgressUpdate, status domain.OrderStatus) (*domain.Order, error)

	// SetLastError записывает диагностику в заказ.
	SetLastError(ctx context.Context, id uuid.UUID, msg string) error
}

var _ OrderStore = (*repo.OrderRepo)(nil)

// ReconcilerConfig — конфигурация реконсилятора.
type ReconcilerConfig struct {
	// Orders — хранилище заказов.
	Orders OrderStore

	// Publisher — публикация событий order.progress. Опционально.
	Publisher *mq.Publisher

	// Logger — логгер.
	Logger *slog.Logger
}

// Reconciler применяет webhook'и провайдера к заказам.
type Reconciler struct {
	orders OrderStore
	pub    *mq.Publisher
	logger *slog.Logger
}

// NewReconciler создаёт новый Reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Reconciler{
		orders: cfg.Orders,
		pub:    cfg.Publisher,
		logger: cfg.Logger,
	}
}

// ProcessWebhook обрабатывает один webhook провайдера.
//
// Порядок жёсткий:
//  1. Разбор payload и поиск заказа. Невалидный JSON или отсутствующий
//     идентификатор — ErrBadPayload/ErrNoOrderRef; неизвестный заказ —
//     repo.ErrNotFound.
//  2. Сырой payload сохраняется безусловно, вместе со снятием
//     polling-блокировки: доставка не теряется, даже если дальнейшая
//     обработка упадёт.
//  3. Извлечение счётчиков и статуса, реконсиляция через клампинг.
//     Ошибка этого шага записывается в last_error заказа.
//
// Возвращает заказ после реконсиляции.
func (r *Reconciler) ProcessWebhook(ctx context.Context, raw []byte) (*domain.Order, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadPayload, err)
	}

	ref := ExtractOrderRef(payload)
	if ref == "" {
		return nil, ErrNoOrderRef
	}

	order, err := r.orders.FindByProviderRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("find order by ref %q: %w", ref, err)
	}

	// Сохранение сырого payload + снятие polling-блокировки. Всегда
	// до обработки: webhook главнее любого текущего poll-цикла.
	if err := r.orders.StoreWebhookPayload(ctx, order.ID, raw); err != nil {
		return nil, fmt.Errorf("store webhook payload: %w", err)
	}

	update := ExtractProgress(payload)

	var status domain.OrderStatus
	if rawStatus, ok := ExtractStatus(payload); ok {
		status = MapProviderStatus(rawStatus)
	}

	reconciled, err := r.orders.ApplyWebhookProgress(ctx, order.ID, update, status)
	if err != nil {
		if serr := r.orders.SetLastError(ctx, order.ID, err.Error()); serr != nil {
			r.logger.Error("failed to record order error", "order_id", order.ID, "error", serr)
		}
		return nil, fmt.Errorf("reconcile order %s: %w", order.ID, err)
	}

	r.logger.Info("webhook reconciled",
		"order_id", reconciled.ID,
		"status", reconciled.Status,
		"delivered", reconciled.Delivered,
		"remains", reconciled.Remains,
	)

	if r.pub != nil {
		err := r.pub.PublishOrderProgress(ctx, mq.OrderProgressPayload{
			OrderID:   reconciled.ID,
			Status:    string(reconciled.Status),
			Delivered: reconciled.Delivered,
			Remains:   reconciled.Remains,
		})
		if err != nil {
			r.logger.Warn("failed to publish order.progress", "order_id", reconciled.ID, "error", err)
		}
	}

	return reconciled, nil
}

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/Gramflow/internal/mq"
)

// GeneratorConfig — конфигурация генератора задач.
type GeneratorConfig struct {
	// Orders — хранилище заказов.
	Orders OrderStore

	// Tasks — хранилище задач.
	Tasks TaskStore

	// Publisher — публикация событий task.created. Опционально:
	// при nil генератор работает без событий, воркеры добирают
	// задачи через polling.
	Publisher *mq.Publisher

	// BatchLimit — максимум заказов за один проход.
	BatchLimit int

	// Logger — логгер.
	Logger *slog.Logger
}

// Generator создаёт задачи из backlog заказов.
//
// Идемпотентность обеспечивается на уровне БД: вставка задачи выполняется
// одним оператором с условием «нет живой задачи по заказу», так что
// параллельные проходы генератора не плодят дубликаты.
type Generator struct {
	orders     OrderStore
	tasks      TaskStore
	pub        *mq.Publisher
	batchLimit int
	logger     *slog.Logger
}

// NewGenerator создаёт новый Generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Generator{
		orders:     cfg.Orders,
		tasks:      cfg.Tasks,
		pub:        cfg.Publisher,
		batchLimit: cfg.BatchLimit,
		logger:     cfg.Logger,
	}
}

// Generate выполняет один проход генерации: выбирает заказы с остатком
// и без живой задачи, планирует и вставляет задачи.
//
// Возвращает количество созданных задач. Заказ с неподдерживаемой
// комбинацией (услуга, тип ссылки) помечается last_error и пропускается,
// не прерывая проход.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	orders, err := g.orders.ListNeedingTasks(ctx, g.batchLimit)
	if err != nil {
		return 0, fmt.Errorf("list orders needing tasks: %w", err)
	}

	created := 0
	for i := range orders {
		order := &orders[i]

		task, err := PlanTask(order)
		if err != nil {
			if errors.Is(err, ErrUnsupportedCombo) {
				g.logger.Warn("order skipped: no execution policy",
					"order_id", order.ID,
					"service_type", order.ServiceType,
					"link", order.Link,
				)
				if serr := g.orders.SetLastError(ctx, order.ID, err.Error()); serr != nil {
					g.logger.Error("failed to record order error", "order_id", order.ID, "error", serr)
				}
				continue
			}
			return created, fmt.Errorf("plan task for order %s: %w", order.ID, err)
		}

		inserted, err := g.tasks.CreateForBacklog(ctx, task)
		if err != nil {
			return created, fmt.Errorf("create task for order %s: %w", order.ID, err)
		}
		if !inserted {
			// Живая задача уже есть — параллельный проход успел раньше.
			continue
		}

		created++
		g.logger.Info("task created",
			"task_id", task.ID,
			"order_id", order.ID,
			"action", task.Action,
		)

		if g.pub != nil {
			if err := g.pub.PublishTaskCreated(ctx, task.ID, order.ID, task.Action); err != nil {
				// Событие — только сигнал для воркеров; задача уже в БД
				// и будет добрана через polling.
				g.logger.Warn("failed to publish task.created", "task_id", task.ID, "error", err)
			}
		}
	}

	return created, nil
}

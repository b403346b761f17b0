package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/executor"
	"github.com/shaiso/Gramflow/internal/mq"
	"github.com/shaiso/Gramflow/internal/repo"
	"github.com/shaiso/Gramflow/internal/telegram"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 20
	defaultLeaseTTL     = 5 * time.Minute
	defaultPrefetch     = 5
)

// Worker — встроенный референсный воркер.
//
// Внешние воркеры ходят через HTTP-границу (tasks/pull, tasks/report);
// этот делает то же самое in-process, через те же claim и Reporter:
//   - Получает сигнал о новых задачах из очереди RabbitMQ (event-driven)
//   - Периодически забирает задачи сам (polling fallback)
//   - Выполняет действие через executor.Engine и telegram.Session
//   - Применяет результат через dispatch.Reporter
//
// Масштабируется горизонтально: lease-механизм гарантирует, что одну
// задачу не возьмут два экземпляра.
type Worker struct {
	tasks    *repo.TaskRepo
	reporter *dispatch.Reporter
	engine   *executor.Engine
	session  telegram.Session

	conn     *mq.Connection
	consumer *mq.Consumer

	// Идентификатор экземпляра — владелец lease забираемых задач.
	workerID string

	pollInterval time.Duration
	batchSize    int
	leaseTTL     time.Duration

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	// claimMu сериализует claim-проходы: сигнал из очереди и тик
	// могут прийти одновременно.
	claimMu sync.Mutex
}

// Config — конфигурация Worker.
type Config struct {
	Tasks    *repo.TaskRepo
	Reporter *dispatch.Reporter

	// Engine — реестр executor'ов. nil — executor.NewEngine().
	Engine *executor.Engine

	// Session — авторизованная Telegram-сессия для выполнения действий.
	Session telegram.Session

	// Conn — соединение RabbitMQ. Опционально: при nil работает
	// только polling.
	Conn *mq.Connection

	// WorkerID — идентификатор экземпляра (владелец lease).
	WorkerID string

	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // задач за один claim (default: 20)
	LeaseTTL     time.Duration // длительность lease (default: 5m)

	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) (*Worker, error) {
	if cfg.Session == nil {
		return nil, ErrNoSession
	}
	if cfg.WorkerID == "" {
		return nil, ErrNoWorkerID
	}

	engine := cfg.Engine
	if engine == nil {
		engine = executor.NewEngine()
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	leaseTTL := cfg.LeaseTTL
	if leaseTTL <= 0 {
		leaseTTL = defaultLeaseTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		tasks:        cfg.Tasks,
		reporter:     cfg.Reporter,
		engine:       engine,
		session:      cfg.Session,
		conn:         cfg.Conn,
		workerID:     cfg.WorkerID,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		leaseTTL:     leaseTTL,
		logger:       logger.With("worker_id", cfg.WorkerID),
	}, nil
}

// Start запускает Worker.
//
// Запускает consumer для tasks.created (если есть соединение MQ)
// и polling-горутину.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
		"lease_ttl", w.leaseTTL,
	)

	if w.conn != nil {
		w.consumer = mq.NewTaskCreatedConsumer(w.conn, w.logger, defaultPrefetch, w.handleTaskCreated)

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("task consumer error", "error", err)
			}
		}()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	// Ждём завершения горутин
	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// pollLoop — цикл polling для fallback.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Первый проход сразу при старте: подхватываем задачи,
	// созданные пока воркер был выключен.
	w.claimAndRun(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.claimAndRun(ctx)
		}
	}
}

// claimAndRun забирает пачку задач под lease и выполняет их.
func (w *Worker) claimAndRun(ctx context.Context) {
	w.claimMu.Lock()
	defer w.claimMu.Unlock()

	tasks, err := w.tasks.Claim(ctx, w.workerID, w.batchSize, w.leaseTTL)
	if err != nil {
		w.logger.Error("failed to claim tasks", "error", err)
		return
	}

	if len(tasks) == 0 {
		return
	}

	w.logger.Debug("claimed tasks", "count", len(tasks))

	for i := range tasks {
		if ctx.Err() != nil {
			return
		}
		w.runTask(ctx, &tasks[i])
	}
}

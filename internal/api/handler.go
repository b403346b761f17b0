package api

import (
	"log/slog"
	"time"

	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/progress"
	"github.com/shaiso/Gramflow/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	orderRepo   *repo.OrderRepo
	taskRepo    *repo.TaskRepo
	accountRepo *repo.AccountRepo
	generator   *dispatch.Generator
	reporter    *dispatch.Reporter
	reconciler  *progress.Reconciler
	logger      *slog.Logger

	// workerToken — общий секрет pull-воркеров (заголовок X-Worker-Token).
	workerToken string

	// webhookSecret — ключ HMAC-подписи webhook'ов провайдера.
	webhookSecret string

	// leaseTTL/claimLimit — параметры выдачи задач.
	leaseTTL   time.Duration
	claimLimit int
}

// Config — конфигурация для создания Handler.
type Config struct {
	OrderRepo   *repo.OrderRepo
	TaskRepo    *repo.TaskRepo
	AccountRepo *repo.AccountRepo
	Generator   *dispatch.Generator
	Reporter    *dispatch.Reporter
	Reconciler  *progress.Reconciler
	Logger      *slog.Logger

	WorkerToken   string
	WebhookSecret string

	// LeaseTTL — длительность lease выдаваемых задач.
	LeaseTTL time.Duration

	// ClaimLimit — верхняя граница limit в tasks/pull.
	ClaimLimit int
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 5 * time.Minute
	}
	if cfg.ClaimLimit <= 0 {
		cfg.ClaimLimit = 1000
	}
	if cfg.WorkerToken == "" {
		// Пустой токен не отключает аутентификацию: WorkerAuth отвергнет
		// любой запрос воркера. Такой запуск почти наверняка ошибка оператора.
		cfg.Logger.Warn("worker token is not set, all worker requests will be rejected")
	}

	return &Handler{
		orderRepo:     cfg.OrderRepo,
		taskRepo:      cfg.TaskRepo,
		accountRepo:   cfg.AccountRepo,
		generator:     cfg.Generator,
		reporter:      cfg.Reporter,
		reconciler:    cfg.Reconciler,
		logger:        cfg.Logger,
		workerToken:   cfg.WorkerToken,
		webhookSecret: cfg.WebhookSecret,
		leaseTTL:      cfg.LeaseTTL,
		claimLimit:    cfg.ClaimLimit,
	}
}

// Gramflow Worker — встроенный воркер, выполняющий задачи in-process.
//
// Worker:
//   - Получает сигнал о новых задачах из RabbitMQ (event-driven)
//   - Периодически добирает задачи сам (polling fallback)
//   - Выполняет действие через executor.Engine и Telegram-сессию
//   - Применяет результат через тот же Reporter, что и HTTP-граница
//
// Workers масштабируются горизонтально: lease-механизм не даёт двум
// экземплярам взять одну задачу.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/mq"
	"github.com/shaiso/Gramflow/internal/repo"
	"github.com/shaiso/Gramflow/internal/telegram"
	"github.com/shaiso/Gramflow/internal/telemetry"
	"github.com/shaiso/Gramflow/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting gramflow-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	orderRepo := repo.NewOrderRepo(pool)
	taskRepo := repo.NewTaskRepo(pool)

	// RabbitMQ
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err = mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
		mqConn = nil
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	reporter := dispatch.NewReporter(dispatch.ReporterConfig{
		Tasks:     taskRepo,
		Orders:    orderRepo,
		Publisher: publisher,
		Logger:    logger,
	})

	workerID := os.Getenv("WORKER_ID")
	if workerID == "" {
		workerID = "inhouse-" + uuid.New().String()
	}

	// Сессия: MTProto-клиент подключается здесь. Без него воркер
	// работает в dry-run режиме — задачи проходят полный цикл,
	// действия только логируются.
	session := telegram.NewDryRunSession(logger)

	// Создаём worker
	w, err := worker.New(worker.Config{
		Tasks:    taskRepo,
		Reporter: reporter,
		Session:  session,
		Conn:     mqConn,
		WorkerID: workerID,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create worker", "error", err)
		os.Exit(1)
	}

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("gramflow-worker stopped")
}

// Gramflow Generator — периодическая генерация задач из backlog заказов.
//
// Generator:
//   - Раз в тик выбирает заказы с остатком и без живой задачи
//   - Планирует действие через классификатор ссылок и матрицу политик
//   - Вставляет задачи идемпотентно и публикует task.created
//
// Экземпляров может быть несколько: лидерство через pg_try_advisory_lock,
// генерирует только лидер.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/mq"
	"github.com/shaiso/Gramflow/internal/repo"
	"github.com/shaiso/Gramflow/internal/telemetry"
)

const genLockKey int64 = 779301

var tasksCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gramflow_generator_tasks_created_total",
	Help: "Total tasks created by the generator",
})

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting gramflow-generator")

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
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, events disabled", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	generator := dispatch.NewGenerator(dispatch.GeneratorConfig{
		Orders:    orderRepo,
		Tasks:     taskRepo,
		Publisher: publisher,
		Logger:    logger,
	})

	// Расписание генерации: стандартный cron-синтаксис или @every
	spec := os.Getenv("GENERATE_CRON")
	if spec == "" {
		spec = "@every 15s"
	}

	var (
		mu      sync.Mutex
		hasLock bool
	)
	defer func() {
		if hasLock {
			_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", genLockKey)
		}
	}()

	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		mu.Lock()
		defer mu.Unlock()

		// пытаемся стать лидером (или подтвердить лидерство)
		if !hasLock {
			var ok bool
			if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", genLockKey).Scan(&ok); err != nil {
				logger.Error("advisory lock failed", "error", err)
				return
			}
			hasLock = ok
		}
		if !hasLock {
			// не лидер — пропускаем тик
			return
		}

		created, err := generator.Generate(ctx)
		if err != nil {
			logger.Error("generation pass failed", "error", err)
			return
		}
		if created > 0 {
			tasksCreated.Add(float64(created))
		}
	})
	if err != nil {
		logger.Error("invalid generate spec", "spec", spec, "error", err)
		os.Exit(1)
	}

	c.Start()
	defer c.Stop()
	logger.Info("generation scheduled", "spec", spec)

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("GEN_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("gramflow-generator stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shaiso/Gramflow/internal/api"
	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/mq"
	"github.com/shaiso/Gramflow/internal/progress"
	"github.com/shaiso/Gramflow/internal/repo"
	"github.com/shaiso/Gramflow/internal/telemetry"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_api_http_requests_total",
		Help: "Total HTTP requests handled by gramflow_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting gramflow-api")

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Создаём репозитории
	orderRepo := repo.NewOrderRepo(pool)
	taskRepo := repo.NewTaskRepo(pool)
	accountRepo := repo.NewAccountRepo(pool)

	// RabbitMQ — опционально: без него события не публикуются,
	// воркеры добирают задачи через polling
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

		if err := mq.SetupTopology(context.Background(), mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Собираем pipeline
	generator := dispatch.NewGenerator(dispatch.GeneratorConfig{
		Orders:    orderRepo,
		Tasks:     taskRepo,
		Publisher: publisher,
		Logger:    logger,
	})
	reporter := dispatch.NewReporter(dispatch.ReporterConfig{
		Tasks:     taskRepo,
		Orders:    orderRepo,
		Publisher: publisher,
		Logger:    logger,
	})
	reconciler := progress.NewReconciler(progress.ReconcilerConfig{
		Orders:    orderRepo,
		Publisher: publisher,
		Logger:    logger,
	})

	var leaseTTL time.Duration
	if v := os.Getenv("LEASE_TTL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			leaseTTL = time.Duration(sec) * time.Second
		}
	}

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		OrderRepo:     orderRepo,
		TaskRepo:      taskRepo,
		AccountRepo:   accountRepo,
		Generator:     generator,
		Reporter:      reporter,
		Reconciler:    reconciler,
		Logger:        logger,
		WorkerToken:   os.Getenv("WORKER_TOKEN"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		LeaseTTL:      leaseTTL,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Pull-воркеры: общий секрет проверяется до обращения к задачам.
	workerChain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		WorkerAuth(h.workerToken, h.logger),
	)

	// Orders
	mux.Handle("GET /api/v1/orders", chain(http.HandlerFunc(h.ListOrders)))
	mux.Handle("POST /api/v1/orders", chain(http.HandlerFunc(h.CreateOrder)))
	mux.Handle("GET /api/v1/orders/{id}", chain(http.HandlerFunc(h.GetOrder)))
	mux.Handle("GET /api/v1/orders/{id}/tasks", chain(http.HandlerFunc(h.ListOrderTasks)))
	mux.Handle("POST /api/v1/orders/{id}/cancel", chain(http.HandlerFunc(h.CancelOrder)))

	// Accounts
	mux.Handle("GET /api/v1/accounts", chain(http.HandlerFunc(h.ListAccounts)))

	// Worker boundary
	mux.Handle("POST /api/v1/tasks/pull", workerChain(http.HandlerFunc(h.PullTasks)))
	mux.Handle("POST /api/v1/tasks/report", workerChain(http.HandlerFunc(h.ReportTask)))
	mux.Handle("POST /api/v1/accounts/sync", workerChain(http.HandlerFunc(h.SyncAccounts)))

	// Provider webhook: вместо общего секрета — HMAC-подпись тела,
	// проверяется в самом обработчике (нужно сырое тело).
	mux.Handle("POST /api/v1/provider/webhook", chain(http.HandlerFunc(h.ProviderWebhook)))
}

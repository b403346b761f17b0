package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
	"github.com/shaiso/Gramflow/internal/repo"
	"github.com/shaiso/Gramflow/internal/tglink"
)

// ListOrders возвращает список заказов с фильтрацией.
// GET /api/v1/orders?status=...&limit=...&offset=...
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := repo.OrderFilter{Limit: 50}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.OrderStatus(status)
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		filter.Limit = int(mustParseInt(limitStr, 50))
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		filter.Offset = int(mustParseInt(offsetStr, 0))
	}

	orders, err := h.orderRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]OrderResponse, len(orders))
	for i, order := range orders {
		result[i] = OrderFromDomain(order)
	}

	List(w, result, len(result))
}

// CreateOrder создаёт новый заказ.
// POST /api/v1/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.ServiceType == "" {
		BadRequest(w, "service_type is required")
		return
	}
	if req.Link == "" {
		BadRequest(w, "link is required")
		return
	}
	if req.Quantity <= 0 {
		BadRequest(w, "quantity must be positive")
		return
	}

	// Ссылка классифицируется сразу: заведомо нерабочий заказ
	// отклоняется на входе, а не застревает в backlog.
	if desc := tglink.Classify(req.Link); desc.Kind == tglink.KindUnknown && req.ChatType == "" {
		BadRequest(w, "unrecognized link")
		return
	}

	order := &domain.Order{
		ID:              uuid.New(),
		ServiceType:     req.ServiceType,
		Link:            req.Link,
		ChatType:        req.ChatType,
		Quantity:        req.Quantity,
		StartCount:      req.StartCount,
		Remains:         req.Quantity,
		Status:          domain.OrderStatusPending,
		ProviderOrderID: req.ProviderOrderID,
	}

	if err := h.orderRepo.Create(r.Context(), order); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, OrderFromDomain(*order))
}

// GetOrder возвращает заказ по ID.
// GET /api/v1/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid order id")
		return
	}

	order, err := h.orderRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "order not found") {
		return
	}

	Success(w, OrderFromDomain(*order))
}

// ListOrderTasks возвращает задачи заказа.
// GET /api/v1/orders/{id}/tasks
func (h *Handler) ListOrderTasks(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid order id")
		return
	}

	if _, err := h.orderRepo.GetByID(r.Context(), id); HandleRepoError(w, h.logger, err, "order not found") {
		return
	}

	tasks, err := h.taskRepo.ListByOrder(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		result[i] = TaskFromDomain(task)
	}

	List(w, result, len(result))
}

// CancelOrder отменяет заказ.
// POST /api/v1/orders/{id}/cancel
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid order id")
		return
	}

	order, err := h.orderRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "order not found") {
		return
	}

	if order.Status.IsTerminal() {
		InvalidState(w, "order is already in terminal state: "+string(order.Status))
		return
	}

	if err := h.orderRepo.UpdateStatus(r.Context(), id, domain.OrderStatusCanceled); err != nil {
		HandleRepoError(w, h.logger, err, "order not found")
		return
	}

	order.Status = domain.OrderStatusCanceled
	Success(w, OrderFromDomain(*order))
}

// mustParseInt парсит int64 с fallback на значение по умолчанию.
func mustParseInt(s string, defaultVal int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

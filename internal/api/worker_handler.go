package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/dispatch"
	"github.com/shaiso/Gramflow/internal/domain"
)

// PullTasks выдаёт воркеру пачку задач под lease.
// POST /api/v1/tasks/pull
//
// Перед выдачей запускается проход генерации: свежий backlog заказов
// превращается в задачи в том же запросе, без ожидания отдельного тика.
func (h *Handler) PullTasks(w http.ResponseWriter, r *http.Request) {
	var req PullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Limit < 1 || req.Limit > h.claimLimit {
		BadRequest(w, "limit must be in [1..1000]")
		return
	}

	owner := req.WorkerID
	if owner == "" {
		owner = "worker-" + uuid.New().String()
	}

	if _, err := h.generator.Generate(r.Context()); err != nil {
		// Генерация не должна блокировать выдачу уже существующих задач.
		h.logger.Warn("generation pass failed during pull", "error", err)
	}

	tasks, err := h.taskRepo.Claim(r.Context(), owner, req.Limit, h.leaseTTL)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		result[i] = TaskFromDomain(task)
	}

	JSON(w, http.StatusOK, PullResponse{
		OK:    true,
		Tasks: result,
		Count: len(result),
	})
}

// ReportTask принимает отчёт воркера о выполнении задачи.
// POST /api/v1/tasks/report
func (h *Handler) ReportTask(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.TaskID == uuid.Nil {
		JSON(w, http.StatusBadRequest, ReportResponse{OK: false, Error: "task_id is required"})
		return
	}

	switch req.State {
	case "", "done", "pending", "failed":
	default:
		JSON(w, http.StatusBadRequest, ReportResponse{OK: false, Error: "invalid state"})
		return
	}

	rep := dispatch.Report{
		State:          req.State,
		OK:             req.OK,
		Error:          req.Error,
		RetryAfter:     req.RetryAfter,
		ProviderTaskID: req.ProviderTaskID,
		Count:          dataCount(req.Data),
	}

	if err := h.reporter.Report(r.Context(), req.TaskID, rep); err != nil {
		// Отчёт по неизвестной задаче — ошибка вызывающему, не молчаливый дроп.
		if errors.Is(err, dispatch.ErrUnknownTask) || errors.Is(err, dispatch.ErrUnknownState) {
			JSON(w, http.StatusBadRequest, ReportResponse{OK: false, Error: err.Error()})
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	JSON(w, http.StatusOK, ReportResponse{OK: true})
}

// SyncAccounts синхронизирует батч аккаунтов воркера.
// POST /api/v1/accounts/sync
//
// Upsert по provider_account_id; ошибка одного аккаунта не прерывает батч.
func (h *Handler) SyncAccounts(w http.ResponseWriter, r *http.Request) {
	var req SyncAccountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	resp := SyncAccountsResponse{OK: true}

	for _, item := range req.Accounts {
		if item.ProviderAccountID == "" {
			resp.Errors = append(resp.Errors, SyncItemError{
				ProviderAccountID: item.ProviderAccountID,
				Error:             "provider_account_id is required",
			})
			continue
		}

		isActive := true
		if item.IsActive != nil {
			isActive = *item.IsActive
		}

		acc := &domain.Account{
			ProviderAccountID: item.ProviderAccountID,
			Phone:             item.Phone,
			IsActive:          isActive,
			Meta:              item.Meta,
		}

		if err := h.accountRepo.Upsert(r.Context(), acc); err != nil {
			h.logger.Warn("account sync failed",
				"provider_account_id", item.ProviderAccountID,
				"error", err,
			)
			resp.Errors = append(resp.Errors, SyncItemError{
				ProviderAccountID: item.ProviderAccountID,
				Error:             err.Error(),
			})
			continue
		}

		resp.Synced++
	}

	JSON(w, http.StatusOK, resp)
}

// dataCount извлекает счётчик доставленных единиц из data отчёта.
func dataCount(data map[string]any) int {
	if data == nil {
		return 0
	}
	switch v := data["count"].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return 0
}

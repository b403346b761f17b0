package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/shaiso/Gramflow/internal/progress"
	"github.com/shaiso/Gramflow/internal/repo"
)

// maxWebhookBody — верхняя граница размера тела webhook'а.
const maxWebhookBody = 1 << 20 // 1 MiB

// ProviderWebhook принимает webhook провайдера о статусе заказа.
// POST /api/v1/provider/webhook
//
// Тело подписано HMAC-SHA256 (заголовок X-Webhook-Signature). Проверка
// подписи — до любого обращения к состоянию. Коды ответа:
//   - 401/403 — подпись отсутствует/не сошлась
//   - 422     — невалидный payload или не найден идентификатор заказа
//   - 404     — заказ неизвестен
//   - 500     — ошибка реконсиляции; last_error заказа уже записан,
//     сырой payload сохранён — доставка не потеряна
func (h *Handler) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" {
		h.logger.Error("webhook secret is not configured")
		InternalError(w, h.logger, nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		BadRequest(w, "failed to read body")
		return
	}

	signature := r.Header.Get("X-Webhook-Signature")
	if signature == "" {
		h.logger.Warn("webhook rejected: missing signature",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
		Unauthorized(w, "missing signature")
		return
	}

	if !VerifySignature(h.webhookSecret, body, signature) {
		h.logger.Warn("webhook rejected: signature mismatch",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
		Forbidden(w, "invalid signature")
		return
	}

	order, err := h.reconciler.ProcessWebhook(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrBadPayload), errors.Is(err, progress.ErrNoOrderRef):
			InvalidState(w, err.Error())
		case errors.Is(err, repo.ErrNotFound):
			NotFound(w, "order not found")
		default:
			InternalError(w, h.logger, err)
		}
		return
	}

	Success(w, OrderFromDomain(*order))
}

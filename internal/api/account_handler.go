package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Gramflow/internal/domain"
)

// AccountResponse — аккаунт в ответе API.
type AccountResponse struct {
	ID                uuid.UUID `json:"id"`
	ProviderAccountID string    `json:"provider_account_id"`
	Phone             string    `json:"phone"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AccountFromDomain конвертирует domain.Account в AccountResponse.
// Meta намеренно не отдаётся: там могут лежать прокси и сессии воркера.
func AccountFromDomain(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:                a.ID,
		ProviderAccountID: a.ProviderAccountID,
		Phone:             a.Phone,
		IsActive:          a.IsActive,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ListAccounts возвращает список аккаунтов.
// GET /api/v1/accounts?limit=...
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit = int(mustParseInt(limitStr, 100))
	}

	accounts, err := h.accountRepo.List(r.Context(), limit)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		result[i] = AccountFromDomain(acc)
	}

	List(w, result, len(result))
}

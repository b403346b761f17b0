package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Gramflow/internal/domain"
)

// AccountRepo — репозиторий для работы с аккаунтами воркеров.
type AccountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepo создаёт новый AccountRepo.
func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Upsert создаёт или обновляет аккаунт по provider_account_id.
func (r *AccountRepo) Upsert(ctx context.Context, acc *domain.Account) error {
	if acc.ProviderAccountID == "" {
		return fmt.Errorf("%w: provider_account_id is empty", ErrInvalidState)
	}
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}

	metaJSON, err := json.Marshal(acc.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	query := `
		INSERT INTO accounts (id, provider_account_id, phone, is_active, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (provider_account_id) DO UPDATE
		SET phone = EXCLUDED.phone,
		    is_active = EXCLUDED.is_active,
		    meta = EXCLUDED.meta,
		    updated_at = now()
	`
	_, err = r.pool.Exec(ctx, query,
		acc.ID,
		acc.ProviderAccountID,
		acc.Phone,
		acc.IsActive,
		metaJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// GetByProviderID возвращает аккаунт по provider_account_id.
func (r *AccountRepo) GetByProviderID(ctx context.Context, providerID string) (*domain.Account, error) {
	query := `
		SELECT id, provider_account_id, phone, is_active, meta, created_at, updated_at
		FROM accounts
		WHERE provider_account_id = $1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, providerID))
}

// List возвращает аккаунты.
func (r *AccountRepo) List(ctx context.Context, limit int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, provider_account_id, phone, is_active, meta, created_at, updated_at
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var metaJSON []byte

	err := row.Scan(
		&acc.ID,
		&acc.ProviderAccountID,
		&acc.Phone,
		&acc.IsActive,
		&metaJSON,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if metaJSON != nil {
		if err := json.Unmarshal(metaJSON, &acc.Meta); err != nil {
			return nil, fmt.Errorf("unmarshal meta: %w", err)
		}
	}

	return &acc, nil
}

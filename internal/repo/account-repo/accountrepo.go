package accountrepo

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/pg"
)

const checkViolation = "23514"

var accountColumns = []string{
	"id", "owner_kind", "owner_id", "balance", "status", "version", "created_at", "updated_at", "deleted_at",
}

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		ownerKind string
		status    string
		deletedAt *time.Time
	)
	err := row.Scan(
		&account.ID, &ownerKind, &account.Owner.ID, &account.Balance, &status,
		&account.Version, &account.CreatedAt, &account.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Owner.Kind = domain.OwnerKind(ownerKind)
	account.Status = domain.AccountStatus(status)
	account.DeletedAt = deletedAt
	return &account, nil
}

func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
        SELECT id, owner_kind, owner_id, balance, status, version, created_at, updated_at, deleted_at
        FROM accounts
        WHERE id = $1
    `
	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return account, nil
}

func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (id, owner_kind, owner_id, balance, status, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
        RETURNING id, owner_kind, owner_id, balance, status, version, created_at, updated_at, deleted_at
    `
	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, string(account.Owner.Kind), account.Owner.ID, account.Balance,
		string(account.Status), account.Version, account.CreatedAt,
	))
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// ApplyDelta moves the balance by delta if the stored version still equals expectedVersion,
// and appends tx in the same database transaction.
func (r *Repository) ApplyDelta(ctx context.Context, id uuid.UUID, delta, expectedVersion int64, tx *domain.Transaction) (*domain.Account, error) {
	update := `
        UPDATE accounts
        SET balance = balance + $1, version = version + 1, updated_at = $2
        WHERE id = $3 AND version = $4
        RETURNING id, owner_kind, owner_id, balance, status, version, created_at, updated_at, deleted_at
    `
	insert := `
        INSERT INTO transactions (id, account_id, type, amount, business_status, reason, evidence_reference, balance_after, account_version, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	var updated *domain.Account
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := scanAccount(r.db.QueryRow(ctx, update, delta, tx.CreatedAt, id, expectedVersion))
		if err != nil {
			return err
		}

		tx.BalanceAfter = account.Balance
		tx.AccountVersion = account.Version
		_, err = r.db.Exec(ctx, insert,
			tx.ID, tx.AccountID, string(tx.Type), tx.Amount, tx.BusinessStatus, tx.Reason,
			tx.EvidenceReference, tx.BalanceAfter, tx.AccountVersion, tx.CreatedAt,
		)
		if err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrConflict
		case errors.As(err, &pgErr) && pgErr.Code == checkViolation:
			return nil, domain.ErrInsufficientBalance
		}
		zap.L().Error("failed to apply delta", zap.Error(err), zap.String("account", id.String()))
		return nil, err
	}
	return updated, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus, deletedAt *time.Time, expectedVersion int64) (*domain.Account, error) {
	query := `
        UPDATE accounts
        SET status = $1, deleted_at = COALESCE(deleted_at, $2), version = version + 1, updated_at = $3
        WHERE id = $4 AND version = $5
        RETURNING id, owner_kind, owner_id, balance, status, version, created_at, updated_at, deleted_at
    `
	var updated *domain.Account
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		account, err := scanAccount(r.db.QueryRow(ctx, query, string(status), deletedAt, time.Now().UTC(), id, expectedVersion))
		if err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConflict
		}
		zap.L().Error("failed to update account status", zap.Error(err), zap.String("account", id.String()))
		return nil, err
	}
	return updated, nil
}

func applyFilter(b sq.SelectBuilder, f domain.AccountFilter) sq.SelectBuilder {
	if f.OwnerID != "" {
		b = b.Where(sq.Eq{"owner_id": f.OwnerID})
	}
	if f.OwnerKind != "" {
		b = b.Where(sq.Eq{"owner_kind": string(f.OwnerKind)})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.MinBalance != nil {
		b = b.Where(sq.GtOrEq{"balance": *f.MinBalance})
	}
	if f.MaxBalance != nil {
		b = b.Where(sq.LtOrEq{"balance": *f.MaxBalance})
	}
	if f.CreatedFrom != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.CreatedFrom})
	}
	if f.CreatedTo != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.CreatedTo})
	}
	return b
}

func (r *Repository) SearchAccounts(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int, error) {
	countSQL, countArgs, err := applyFilter(sq.Select("COUNT(*)").From("accounts"), f).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		zap.L().Error("failed to build count query", zap.Error(err))
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		zap.L().Error("failed to count accounts", zap.Error(err), zap.String("query", countSQL))
		return nil, 0, err
	}

	selectSQL, args, err := applyFilter(sq.Select(accountColumns...).From("accounts"), f).
		OrderBy("created_at DESC", "id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset())).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		zap.L().Error("failed to build search query", zap.Error(err))
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, selectSQL, args...)
	if err != nil {
		zap.L().Error("failed to search accounts", zap.Error(err), zap.String("query", selectSQL))
		return nil, 0, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, f.Limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			zap.L().Error("failed to scan account row", zap.Error(err))
			return nil, 0, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

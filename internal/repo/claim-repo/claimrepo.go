package claimrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/pg"
)

const uniqueViolation = "23505"

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

type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(row scanner) (domain.Claim, error) {
	var (
		claim  domain.Claim
		status string
	)
	err := row.Scan(&claim.ID, &claim.AccountID, &claim.OrderNumber, &status, &claim.Accrual, &claim.UploadedAt)
	claim.Status = domain.ClaimStatus(status)
	return claim, err
}

func (r *Repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Claim, error) {
	query := `
        SELECT id, account_id, order_number, status, accrual, uploaded_at
        FROM claims
        WHERE order_number = $1
    `
	claim, err := scanClaim(r.db.QueryRow(ctx, query, orderNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find claim", zap.Error(err))
		return nil, err
	}
	return &claim, nil
}

func (r *Repository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Claim, error) {
	query := `
        SELECT id, account_id, order_number, status, accrual, uploaded_at
        FROM claims
        WHERE account_id = $1
        ORDER BY uploaded_at DESC
    `
	return r.list(ctx, query, accountID)
}

func (r *Repository) Save(ctx context.Context, claim *domain.Claim) error {
	query := `
        INSERT INTO claims (account_id, order_number, status, accrual, uploaded_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, claim.AccountID, claim.OrderNumber, string(claim.Status), claim.Accrual, claim.UploadedAt).Scan(&claim.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrClaimTaken
	}
	if err != nil {
		zap.L().Error("can't save claim", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, claim *domain.Claim) error {
	query := `
        UPDATE claims
        SET status = $1, accrual = $2
        WHERE id = $3
    `
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, string(claim.Status), claim.Accrual, claim.ID)
		if err != nil {
			zap.L().Error("failed to update claim", zap.Error(err))
			return err
		}
		return nil
	})
}

func (r *Repository) FindForProcessing(ctx context.Context, limit uint32) ([]domain.Claim, error) {
	query := `
        SELECT id, account_id, order_number, status, accrual, uploaded_at
        FROM claims
        WHERE status = 'NEW' OR status = 'PROCESSING'
        ORDER BY uploaded_at ASC
        LIMIT $1
    `
	return r.list(ctx, query, int(limit))
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Claim, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get claims", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			zap.L().Error("can't scan claim row", zap.Error(err))
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

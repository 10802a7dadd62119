package transactionrepo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// ListByAccount returns entries newest first, in reverse application order.
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	query := `
        SELECT id, account_id, type, amount, business_status, reason, evidence_reference, balance_after, account_version, created_at
        FROM transactions
        WHERE account_id = $1
        ORDER BY account_version DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var (
			tx  domain.Transaction
			typ string
		)
		err := rows.Scan(&tx.ID, &tx.AccountID, &typ, &tx.Amount, &tx.BusinessStatus, &tx.Reason,
			&tx.EvidenceReference, &tx.BalanceAfter, &tx.AccountVersion, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		tx.Type = domain.TxType(typ)
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *Repository) ExistsByEvidence(ctx context.Context, accountID uuid.UUID, typ domain.TxType, evidence string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM transactions
            WHERE account_id = $1 AND type = $2 AND evidence_reference = $3
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, accountID, string(typ), evidence).Scan(&exists); err != nil {
		zap.L().Error("failed to check transaction evidence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

// Package validator decides whether a proposed transaction is admissible for an account.
// It never touches storage: the caller passes the account state read before the transaction.
package validator

import (
	"math"
	"strings"

	"github.com/GlebRadaev/mileage/internal/domain"
)

type Result struct {
	Delta        int64
	BalanceAfter int64
}

// Validate evaluates the rules in order; the first failing rule determines the error.
func Validate(account *domain.Account, req domain.TransactionRequest) (Result, error) {
	if account.Status == domain.StatusDeleted {
		return Result{}, domain.ErrAccountDeleted
	}
	if account.Status == domain.StatusFrozen && req.Type != domain.TxExpiration {
		return Result{}, domain.ErrAccountFrozen
	}

	var delta int64
	switch req.Type {
	case domain.TxAccrual, domain.TxBonus:
		if req.Amount < 0 {
			return Result{}, domain.ErrInvalidAmount
		}
		delta = req.Amount
	case domain.TxSpend:
		if req.Amount < 0 {
			return Result{}, domain.ErrInvalidAmount
		}
		if req.Amount > account.Balance {
			return Result{}, domain.ErrInsufficientBalance
		}
		delta = -req.Amount
	case domain.TxAdjustment:
		if req.Amount < 0 && (req.Amount == math.MinInt64 || -req.Amount > account.Balance) {
			return Result{}, domain.ErrInsufficientBalance
		}
		delta = req.Amount
	case domain.TxExpiration:
		if req.Amount != 0 {
			return Result{}, domain.ErrInvalidAmount
		}
		delta = 0
	default:
		return Result{}, domain.ErrInvalidType
	}

	if req.Type.AdminOnly() && strings.TrimSpace(req.Reason) == "" {
		return Result{}, domain.ErrReasonRequired
	}

	if delta > 0 && account.Balance > math.MaxInt64-delta {
		return Result{}, domain.ErrInvalidAmount
	}

	return Result{
		Delta:        delta,
		BalanceAfter: account.Balance + delta,
	}, nil
}

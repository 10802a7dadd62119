package transactionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/mileage/internal/domain"
)

var txColumns = []string{
	"id", "account_id", "type", "amount", "business_status", "reason", "evidence_reference", "balance_after", "account_version", "created_at",
}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func TestRepository_ListByAccount(t *testing.T) {
	accountID := uuid.New()
	now := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectErr bool
		result    []domain.Transaction
	}{
		{
			name: "Newest first",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(txColumns).
					AddRow(second, accountID, "spend", int64(400), "applied", "", "checkout-1", int64(600), int64(2), now).
					AddRow(first, accountID, "accrual", int64(1000), "applied", "", "", int64(1000), int64(1), now)
				mock.ExpectQuery(regexp.QuoteMeta("ORDER BY account_version DESC")).
					WithArgs(accountID, 10, 0).
					WillReturnRows(rows)
			},
			result: []domain.Transaction{
				{ID: second, AccountID: accountID, Type: domain.TxSpend, Amount: 400, BusinessStatus: "applied", EvidenceReference: "checkout-1", BalanceAfter: 600, AccountVersion: 2, CreatedAt: now},
				{ID: first, AccountID: accountID, Type: domain.TxAccrual, Amount: 1000, BusinessStatus: "applied", BalanceAfter: 1000, AccountVersion: 1, CreatedAt: now},
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
					WithArgs(accountID, 10, 0).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
		{
			name: "Scan row error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(txColumns).
					AddRow(first, accountID, "accrual", "many", "applied", "", "", int64(1000), int64(1), now)
				mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
					WithArgs(accountID, 10, 0).
					WillReturnRows(rows)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			result, err := repo.ListByAccount(context.Background(), accountID, 10, 0)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.result, result)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ExistsByEvidence(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expected  bool
		expectErr bool
	}{
		{
			name: "Accrual already recorded",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
					WithArgs(accountID, "accrual", "2404815702").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			expected: true,
		},
		{
			name: "Nothing recorded",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
					WithArgs(accountID, "accrual", "2404815702").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
			expected: false,
		},
		{
			name: "Database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
					WithArgs(accountID, "accrual", "2404815702").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			exists, err := repo.ExistsByEvidence(context.Background(), accountID, domain.TxAccrual, "2404815702")
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
		})
	}
}

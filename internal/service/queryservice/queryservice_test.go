package queryservice

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/mileage/internal/cache"
	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/memstore"
)

var (
	admin  = domain.Principal{ID: "ops", Role: domain.RoleAdmin}
	seller = domain.Principal{ID: "s-1", Role: domain.RoleSeller}
)

func NewMock(t *testing.T) (*Service, *MockAccountRepo, *MockTransactionRepo, *MockCache) {
	ctrl := gomock.NewController(t)
	accounts := NewMockAccountRepo(ctrl)
	transactions := NewMockTransactionRepo(ctrl)
	cache := NewMockCache(ctrl)
	service := New(accounts, transactions, cache)
	return service, accounts, transactions, cache
}

func TestGetAccount(t *testing.T) {
	service, accounts, _, cache := NewMock(t)
	id := uuid.New()
	owned := &domain.Account{ID: id, Owner: domain.Owner{Kind: domain.OwnerSeller, ID: "s-1"}, Balance: 10}
	foreign := &domain.Account{ID: id, Owner: domain.Owner{Kind: domain.OwnerCustomer, ID: "s-1"}, Balance: 10}

	tests := []struct {
		name          string
		principal     domain.Principal
		prepareMock   func()
		expectedError error
	}{
		{
			name:      "Cache hit",
			principal: seller,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(owned, nil)
			},
		},
		{
			name:      "Cache miss reads through",
			principal: seller,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(nil, nil)
				accounts.EXPECT().GetAccount(gomock.Any(), id).Return(owned, nil)
				cache.EXPECT().Set(gomock.Any(), owned).Return(nil)
			},
		},
		{
			name:      "Cache failure falls back to the store",
			principal: admin,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(nil, errors.New("redis down"))
				accounts.EXPECT().GetAccount(gomock.Any(), id).Return(owned, nil)
				cache.EXPECT().Set(gomock.Any(), owned).Return(errors.New("redis down"))
			},
		},
		{
			name:      "Same id under another owner kind",
			principal: seller,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(foreign, nil)
			},
			expectedError: domain.ErrForbidden,
		},
		{
			name:      "Not found",
			principal: admin,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(nil, nil)
				accounts.EXPECT().GetAccount(gomock.Any(), id).Return(nil, domain.ErrNotFound)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			account, err := service.GetAccount(context.Background(), tt.principal, id)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, account)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, owned, account)
		})
	}
}

func TestListTransactions(t *testing.T) {
	service, _, transactions, cache := NewMock(t)
	id := uuid.New()
	owned := &domain.Account{ID: id, Owner: domain.Owner{Kind: domain.OwnerSeller, ID: "s-1"}}

	tests := []struct {
		name          string
		principal     domain.Principal
		page, limit   int
		prepareMock   func()
		expectedLen   int
		expectedError error
	}{
		{
			name:      "Defaults",
			principal: seller,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(owned, nil)
				transactions.EXPECT().ListByAccount(gomock.Any(), id, DefaultLimit, 0).
					Return([]domain.Transaction{{AccountID: id}, {AccountID: id}}, nil)
			},
			expectedLen: 2,
		},
		{
			name:      "Third page clamps limit",
			principal: admin,
			page:      3,
			limit:     5000,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(owned, nil)
				transactions.EXPECT().ListByAccount(gomock.Any(), id, MaxLimit, 2*MaxLimit).Return(nil, nil)
			},
			expectedLen: 0,
		},
		{
			name:      "Page far past the end is clamped",
			principal: admin,
			page:      math.MaxInt,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(owned, nil)
				transactions.EXPECT().ListByAccount(gomock.Any(), id, DefaultLimit, (domain.MaxPage-1)*DefaultLimit).Return(nil, nil)
			},
			expectedLen: 0,
		},
		{
			name:      "Stranger",
			principal: domain.Principal{ID: "s-2", Role: domain.RoleSeller},
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(owned, nil)
			},
			expectedError: domain.ErrForbidden,
		},
		{
			name:      "Store failure",
			principal: admin,
			prepareMock: func() {
				cache.EXPECT().Get(gomock.Any(), id).Return(owned, nil)
				transactions.EXPECT().ListByAccount(gomock.Any(), id, DefaultLimit, 0).Return(nil, errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			txs, err := service.ListTransactions(context.Background(), tt.principal, id, tt.page, tt.limit)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, txs)
			assert.Len(t, txs, tt.expectedLen)
		})
	}
}

func TestSearch(t *testing.T) {
	service, accounts, _, _ := NewMock(t)

	tests := []struct {
		name               string
		principal          domain.Principal
		filter             domain.AccountFilter
		prepareMock        func()
		expectedPagination domain.Pagination
		expectedError      error
	}{
		{
			name:      "Admin with defaults",
			principal: admin,
			filter:    domain.AccountFilter{Status: domain.StatusActive},
			prepareMock: func() {
				accounts.EXPECT().SearchAccounts(gomock.Any(), domain.AccountFilter{Status: domain.StatusActive, Page: 1, Limit: 100}).
					Return([]domain.Account{{}, {}}, 250, nil)
			},
			expectedPagination: domain.Pagination{Current: 1, Limit: 100, Records: 250, Pages: 3},
		},
		{
			name:      "Owner is confined to own accounts",
			principal: seller,
			filter:    domain.AccountFilter{OwnerID: "someone-else", Page: 2, Limit: 10},
			prepareMock: func() {
				accounts.EXPECT().SearchAccounts(gomock.Any(), domain.AccountFilter{
					OwnerID: "s-1", OwnerKind: domain.OwnerSeller, Page: 2, Limit: 10,
				}).Return(nil, 0, nil)
			},
			expectedPagination: domain.Pagination{Current: 2, Limit: 10, Records: 0, Pages: 0},
		},
		{
			name:      "Limit above maximum",
			principal: admin,
			filter:    domain.AccountFilter{Page: 1, Limit: 5000},
			prepareMock: func() {
				accounts.EXPECT().SearchAccounts(gomock.Any(), domain.AccountFilter{Page: 1, Limit: 1000}).Return(nil, 1000, nil)
			},
			expectedPagination: domain.Pagination{Current: 1, Limit: 1000, Records: 1000, Pages: 1},
		},
		{
			name:      "Page far past the end is clamped",
			principal: admin,
			filter:    domain.AccountFilter{Page: math.MaxInt, Limit: 1000},
			prepareMock: func() {
				accounts.EXPECT().SearchAccounts(gomock.Any(), domain.AccountFilter{Page: domain.MaxPage, Limit: 1000}).Return(nil, 3, nil)
			},
			expectedPagination: domain.Pagination{Current: domain.MaxPage, Limit: 1000, Records: 3, Pages: 1},
		},
		{
			name:      "Store failure",
			principal: admin,
			prepareMock: func() {
				accounts.EXPECT().SearchAccounts(gomock.Any(), gomock.Any()).Return(nil, 0, errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			page, err := service.Search(context.Background(), tt.principal, tt.filter)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, page.Data)
			assert.Equal(t, tt.expectedPagination, page.Pagination)
		})
	}
}

func TestPaging_HugePageOnMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	service := New(store, store, cache.Noop{})
	account, err := store.CreateAccount(ctx, &domain.Account{
		ID:        uuid.New(),
		Owner:     domain.Owner{Kind: domain.OwnerSeller, ID: "s-1"},
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = store.ApplyDelta(ctx, account.ID, 10, 0, &domain.Transaction{ID: uuid.New(), Type: domain.TxAccrual, Amount: 10})
	require.NoError(t, err)

	for _, limit := range []int{0, 1, MaxLimit, math.MaxInt} {
		assert.NotPanics(t, func() {
			page, err := service.Search(ctx, admin, domain.AccountFilter{Page: math.MaxInt, Limit: limit})
			require.NoError(t, err)
			assert.Empty(t, page.Data)
			assert.Equal(t, 1, page.Pagination.Records)

			txs, err := service.ListTransactions(ctx, admin, account.ID, math.MaxInt, limit)
			require.NoError(t, err)
			assert.Empty(t, txs)
		})
	}
}

package claimservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/memstore"
)

var customer = domain.Principal{ID: "c-1", Role: domain.RoleCustomer}

func NewMock(t *testing.T) (*Service, *MockRepo, *MockAccountReader) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	accounts := NewMockAccountReader(ctrl)
	service := New(repo, accounts)
	return service, repo, accounts
}

func TestRegister(t *testing.T) {
	service, repo, accounts := NewMock(t)
	accountID := uuid.New()
	owned := &domain.Account{ID: accountID, Owner: domain.Owner{Kind: domain.OwnerCustomer, ID: "c-1"}, Status: domain.StatusActive}

	tests := []struct {
		name          string
		principal     domain.Principal
		orderNumber   string
		prepareMock   func()
		expectedError error
	}{
		{
			name:        "Claim already registered for the same account",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(&domain.Claim{AccountID: accountID}, nil)
			},
			expectedError: ErrClaimExistsByAccount,
		},
		{
			name:        "Claim already registered for another account",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(&domain.Claim{AccountID: uuid.New()}, nil)
			},
			expectedError: ErrClaimExists,
		},
		{
			name:        "New claim is created",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(nil, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:        "Someone else's account",
			principal:   domain.Principal{ID: "c-2", Role: domain.RoleCustomer},
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
			},
			expectedError: domain.ErrForbidden,
		},
		{
			name:        "Deleted account",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(&domain.Account{
					ID: accountID, Owner: owned.Owner, Status: domain.StatusDeleted,
				}, nil)
			},
			expectedError: domain.ErrAccountDeleted,
		},
		{
			name:        "Concurrent registration for another account wins",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				gomock.InOrder(
					repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(nil, nil),
					repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(domain.ErrClaimTaken),
					repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(&domain.Claim{AccountID: uuid.New()}, nil),
				)
			},
			expectedError: ErrClaimExists,
		},
		{
			name:        "Concurrent registration for the same account",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				gomock.InOrder(
					repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(nil, nil),
					repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(domain.ErrClaimTaken),
					repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(&domain.Claim{AccountID: accountID}, nil),
				)
			},
			expectedError: ErrClaimExistsByAccount,
		},
		{
			name:        "Cannot save new claim",
			principal:   customer,
			orderNumber: "12345678903",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByOrderNumber(gomock.Any(), "12345678903").Return(nil, nil)
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			claim, err := service.Register(context.Background(), tt.principal, accountID, tt.orderNumber)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, accountID, claim.AccountID)
			assert.Equal(t, tt.orderNumber, claim.OrderNumber)
			assert.Equal(t, domain.ClaimNew, claim.Status)
		})
	}
}

func TestList(t *testing.T) {
	service, repo, accounts := NewMock(t)
	accountID := uuid.New()
	owned := &domain.Account{ID: accountID, Owner: domain.Owner{Kind: domain.OwnerCustomer, ID: "c-1"}}

	tests := []struct {
		name           string
		prepareMock    func()
		expectedClaims []domain.Claim
		expectedError  error
	}{
		{
			name: "No claims found",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByAccount(gomock.Any(), accountID).Return(nil, nil)
			},
		},
		{
			name: "Claims found",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByAccount(gomock.Any(), accountID).Return([]domain.Claim{{OrderNumber: "124"}}, nil)
			},
			expectedClaims: []domain.Claim{{OrderNumber: "124"}},
		},
		{
			name: "Error fetching claims",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(owned, nil)
				repo.EXPECT().FindByAccount(gomock.Any(), accountID).Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
		{
			name: "Account not found",
			prepareMock: func() {
				accounts.EXPECT().GetAccount(gomock.Any(), accountID).Return(nil, domain.ErrNotFound)
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			claims, err := service.List(context.Background(), customer, accountID)
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedClaims, claims)
			}
		})
	}
}

func TestRegister_ConcurrentAccounts(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	service := New(store, store)

	const racers = 8
	principals := make([]domain.Principal, racers)
	ids := make([]uuid.UUID, racers)
	for i := range racers {
		principals[i] = domain.Principal{ID: uuid.NewString(), Role: domain.RoleCustomer}
		account, err := store.CreateAccount(ctx, &domain.Account{
			ID:        uuid.New(),
			Owner:     domain.Owner{Kind: domain.OwnerCustomer, ID: principals[i].ID},
			Status:    domain.StatusActive,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		ids[i] = account.ID
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		winner uuid.UUID
		wins   int
		errs   []error
	)
	for i := range racers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Register(ctx, principals[i], ids[i], "12345678903")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				winner = ids[i]
				return
			}
			errs = append(errs, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrClaimExists)
	}

	stored, err := store.FindByOrderNumber(ctx, "12345678903")
	require.NoError(t, err)
	assert.Equal(t, winner, stored.AccountID)

	claims, err := service.List(ctx, principals[0], ids[0])
	require.NoError(t, err)
	if ids[0] == winner {
		assert.Len(t, claims, 1)
	} else {
		assert.Empty(t, claims)
	}
}

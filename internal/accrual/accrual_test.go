package accrual

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/config"
	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/pkg/clients"
)

type mocks struct {
	claims   *MockClaimRepo
	evidence *MockEvidenceChecker
	ledger   *MockLedger
	client   *clients.MockHTTPClientI
}

func NewMock(t *testing.T) (*Service, mocks) {
	cfg := &config.Config{AccrualAddress: "http://localhost:8081", ClaimsPollInterval: time.Second}
	ctrl := gomock.NewController(t)

	m := mocks{
		claims:   NewMockClaimRepo(ctrl),
		evidence: NewMockEvidenceChecker(ctrl),
		ledger:   NewMockLedger(ctrl),
		client:   clients.NewMockHTTPClientI(ctrl),
	}
	service := New(cfg, m.claims, m.evidence, m.ledger, m.client)
	service.retryInterval = time.Millisecond
	t.Cleanup(service.workerPool.Close)
	return service, m
}

func TestService_Start(t *testing.T) {
	service, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Start(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestService_processClaims(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name        string
		mockFind    func(ctx context.Context, limit uint32) ([]domain.Claim, error)
		mockAddTask func(ctx context.Context, task Task) error
		taskCount   int
		released    bool
	}{
		{
			name: "schedules every claim",
			mockFind: func(ctx context.Context, limit uint32) ([]domain.Claim, error) {
				return []domain.Claim{
					{OrderNumber: "order1", Status: domain.ClaimNew, AccountID: accountID},
					{OrderNumber: "order2", Status: domain.ClaimProcessing, AccountID: accountID},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return nil
			},
			taskCount: 2,
		},
		{
			name: "fails when finding claims",
			mockFind: func(ctx context.Context, limit uint32) ([]domain.Claim, error) {
				return nil, errors.New("failed to fetch claims")
			},
			taskCount: 0,
		},
		{
			name: "error in workerPool AddTask",
			mockFind: func(ctx context.Context, limit uint32) ([]domain.Claim, error) {
				return []domain.Claim{{OrderNumber: "order1", Status: domain.ClaimNew, AccountID: accountID}}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return errors.New("failed to add task to worker pool")
			},
			taskCount: 1,
			released:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			claimRepo := NewMockClaimRepo(ctrl)
			workerPool := NewMockWorkerPoolI(ctrl)

			claimRepo.EXPECT().
				FindForProcessing(gomock.Any(), uint32(2)).
				DoAndReturn(tt.mockFind).
				Times(1)
			if tt.taskCount > 0 {
				workerPool.EXPECT().
					AddTask(gomock.Any(), gomock.Any()).
					DoAndReturn(tt.mockAddTask).
					Times(tt.taskCount)
			}

			service := &Service{
				claims:     claimRepo,
				workerPool: workerPool,
				limit:      2,
			}

			zap.ReplaceGlobals(zap.NewNop())

			service.processClaims(context.Background())

			if tt.released {
				_, ok := service.inFlight.Load("order1")
				assert.False(t, ok)
			}
		})
	}
}

func TestService_processClaims_SkipsInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	claimRepo := NewMockClaimRepo(ctrl)
	workerPool := NewMockWorkerPoolI(ctrl)

	claimRepo.EXPECT().
		FindForProcessing(gomock.Any(), gomock.Any()).
		Return([]domain.Claim{{OrderNumber: "busy"}, {OrderNumber: "idle"}}, nil)
	workerPool.EXPECT().AddTask(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	service := &Service{claims: claimRepo, workerPool: workerPool, limit: 10}
	service.inFlight.Store("busy", struct{}{})

	service.processClaims(context.Background())
}

func TestService_handleClaim(t *testing.T) {
	accountID := uuid.New()

	testCases := []struct {
		name          string
		claim         domain.Claim
		httpStatus    int
		responseBody  string
		headers       http.Header
		clientErr     error
		calls         int
		cancelContext bool
		expectUpdate  domain.ClaimStatus
		expectedError string
	}{
		{
			name:         "Registered order moves to processing",
			claim:        domain.Claim{OrderNumber: "123", Status: domain.ClaimNew, AccountID: accountID},
			httpStatus:   http.StatusOK,
			responseBody: `{"order":"123","status":"REGISTERED"}`,
			calls:        1,
			expectUpdate: domain.ClaimProcessing,
		},
		{
			name:          "Context canceled",
			claim:         domain.Claim{OrderNumber: "130", Status: domain.ClaimNew, AccountID: accountID},
			cancelContext: true,
			expectedError: context.Canceled.Error(),
		},
		{
			name:          "Failed processing after retries",
			claim:         domain.Claim{OrderNumber: "127", Status: domain.ClaimNew, AccountID: accountID},
			clientErr:     errors.New("server error"),
			calls:         3,
			expectedError: "failed to process claim 127 after 3 retries: server error",
		},
		{
			name:          "Order not registered after retries",
			claim:         domain.Claim{OrderNumber: "128", Status: domain.ClaimNew, AccountID: accountID},
			httpStatus:    http.StatusNoContent,
			calls:         3,
			expectedError: "order 128 not registered in accrual system after 3 retries",
		},
		{
			name:          "Unexpected status code",
			claim:         domain.Claim{OrderNumber: "128", Status: domain.ClaimNew, AccountID: accountID},
			httpStatus:    http.StatusTeapot,
			calls:         1,
			expectedError: "unexpected status code 418",
		},
		{
			name:       "Rate limit handling",
			claim:      domain.Claim{OrderNumber: "128", Status: domain.ClaimNew, AccountID: accountID},
			httpStatus: http.StatusTooManyRequests,
			headers:    http.Header{"Retry-After": []string{"0"}},
			calls:      3,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelContext {
				cancel()
			}

			headers := tt.headers
			if headers == nil {
				headers = http.Header{}
			}
			if tt.calls > 0 {
				m.client.EXPECT().
					Get(gomock.Any(), "http://localhost:8081/api/orders/"+tt.claim.OrderNumber, gomock.Nil()).
					Return(tt.httpStatus, []byte(tt.responseBody), headers, tt.clientErr).
					Times(tt.calls)
			}
			if tt.expectUpdate != "" {
				m.claims.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, claim *domain.Claim) error {
						assert.Equal(t, tt.expectUpdate, claim.Status)
						assert.Equal(t, tt.claim.OrderNumber, claim.OrderNumber)
						return nil
					})
			}

			err := service.handleClaim(ctx, tt.claim)

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_processAccrual(t *testing.T) {
	accountID := uuid.New()
	claim := domain.Claim{ID: 1, OrderNumber: "123", AccountID: accountID, Status: domain.ClaimNew}

	testCases := []struct {
		name            string
		respBody        string
		prepareMock     func(m mocks)
		expectErr       bool
		expectedStatus  domain.ClaimStatus
		expectedAccrual int64
	}{
		{
			name:     "Processed order is credited",
			respBody: `{"order":"123","status":"PROCESSED","accrual":100.4}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(false, nil)
				m.ledger.EXPECT().
					Submit(gomock.Any(), Poller, accountID, domain.TransactionRequest{
						Type:              domain.TxAccrual,
						Amount:            100,
						EvidenceReference: "123",
					}).
					Return(&domain.Transaction{BalanceAfter: 100}, nil)
			},
			expectedStatus:  domain.ClaimProcessed,
			expectedAccrual: 100,
		},
		{
			name:     "Already credited order is not credited again",
			respBody: `{"order":"123","status":"PROCESSED","accrual":50}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(true, nil)
			},
			expectedStatus:  domain.ClaimProcessed,
			expectedAccrual: 50,
		},
		{
			name:            "Processed with zero accrual",
			respBody:        `{"order":"123","status":"PROCESSED","accrual":0}`,
			prepareMock:     func(m mocks) {},
			expectedStatus:  domain.ClaimProcessed,
			expectedAccrual: 0,
		},
		{
			name:     "Deleted account invalidates claim",
			respBody: `{"order":"123","status":"PROCESSED","accrual":70}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(false, nil)
				m.ledger.EXPECT().Submit(gomock.Any(), Poller, accountID, gomock.Any()).Return(nil, domain.ErrAccountDeleted)
			},
			expectedStatus: domain.ClaimInvalid,
		},
		{
			name:     "Rejected amount invalidates claim",
			respBody: `{"order":"123","status":"PROCESSED","accrual":70}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(false, nil)
				m.ledger.EXPECT().Submit(gomock.Any(), Poller, accountID, gomock.Any()).Return(nil, domain.ErrInvalidAmount)
			},
			expectedStatus: domain.ClaimInvalid,
		},
		{
			name:     "Missing account invalidates claim",
			respBody: `{"order":"123","status":"PROCESSED","accrual":70}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(false, nil)
				m.ledger.EXPECT().Submit(gomock.Any(), Poller, accountID, gomock.Any()).Return(nil, domain.ErrNotFound)
			},
			expectedStatus: domain.ClaimInvalid,
		},
		{
			name:           "Accrual beyond int64 invalidates claim without crediting",
			respBody:       `{"order":"123","status":"PROCESSED","accrual":1e300}`,
			prepareMock:    func(m mocks) {},
			expectedStatus: domain.ClaimInvalid,
		},
		{
			name:     "Frozen account leaves claim for later",
			respBody: `{"order":"123","status":"PROCESSED","accrual":70}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(false, nil)
				m.ledger.EXPECT().Submit(gomock.Any(), Poller, accountID, gomock.Any()).Return(nil, domain.ErrAccountFrozen)
			},
			expectErr: true,
		},
		{
			name:     "Evidence lookup failure",
			respBody: `{"order":"123","status":"PROCESSED","accrual":70}`,
			prepareMock: func(m mocks) {
				m.evidence.EXPECT().ExistsByEvidence(gomock.Any(), accountID, domain.TxAccrual, "123").Return(false, errors.New("db down"))
			},
			expectErr: true,
		},
		{
			name:           "Invalid order",
			respBody:       `{"order":"123","status":"INVALID"}`,
			prepareMock:    func(m mocks) {},
			expectedStatus: domain.ClaimInvalid,
		},
		{
			name:           "Processing order",
			respBody:       `{"order":"123","status":"PROCESSING"}`,
			prepareMock:    func(m mocks) {},
			expectedStatus: domain.ClaimProcessing,
		},
		{
			name:        "Error parsing response body",
			respBody:    `{invalid json}`,
			prepareMock: func(m mocks) {},
			expectErr:   true,
		},
		{
			name:        "Order number mismatch",
			respBody:    `{"order":"456","status":"PROCESSED","accrual":100.5}`,
			prepareMock: func(m mocks) {},
			expectErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, m := NewMock(t)
			tc.prepareMock(m)

			if tc.expectedStatus != "" {
				m.claims.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, c *domain.Claim) error {
					assert.Equal(t, tc.expectedStatus, c.Status)
					assert.Equal(t, tc.expectedAccrual, c.Accrual)
					return nil
				})
			}

			err := service.processAccrual(context.Background(), claim, []byte(tc.respBody))

			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_processAccrual_UpdateError(t *testing.T) {
	service, m := NewMock(t)
	claim := domain.Claim{OrderNumber: "9", AccountID: uuid.New()}

	m.claims.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("update error"))

	err := service.processAccrual(context.Background(), claim, []byte(`{"order":"9","status":"INVALID"}`))
	assert.ErrorContains(t, err, "update error")
}

func TestService_retryAfter(t *testing.T) {
	service := &Service{retryInterval: time.Second}

	headers := http.Header{}
	headers.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, service.retryAfter(headers, 1))

	assert.Equal(t, 2*time.Second, service.retryAfter(http.Header{}, 2))

	headers.Set("Retry-After", "soon")
	assert.Equal(t, 3*time.Second, service.retryAfter(headers, 3))
}

package queryservice

//go:generate mockgen -source=queryservice.go -destination=mock_queryservice.go -package=queryservice

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

type AccountRepo interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	SearchAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error)
}

type TransactionRepo interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// Cache returns nil without an error on a miss.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Set(ctx context.Context, account *domain.Account) error
}

type Service struct {
	accounts     AccountRepo
	transactions TransactionRepo
	cache        Cache
}

func New(accounts AccountRepo, transactions TransactionRepo, cache Cache) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		cache:        cache,
	}
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > domain.MaxPage {
		page = domain.MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.cache.Get(ctx, id)
	if err != nil {
		zap.L().Warn("failed to read cached account", zap.Error(err), zap.String("account", id.String()))
	}
	if account != nil {
		return account, nil
	}

	account, err = s.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, account); err != nil {
		zap.L().Warn("failed to cache account", zap.Error(err), zap.String("account", id.String()))
	}
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Account, error) {
	account, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(account) {
		return nil, domain.ErrForbidden
	}
	return account, nil
}

// ListTransactions returns one page of the account history, newest first.
func (s *Service) ListTransactions(ctx context.Context, p domain.Principal, id uuid.UUID, page, limit int) ([]domain.Transaction, error) {
	if _, err := s.GetAccount(ctx, p, id); err != nil {
		return nil, err
	}

	page, limit = normalize(page, limit)
	txs, err := s.transactions.ListByAccount(ctx, id, limit, (page-1)*limit)
	if err != nil {
		zap.L().Error("failed to list transactions", zap.Error(err))
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

// Search pages through accounts matching filter. Callers other than admins only ever see their own accounts.
func (s *Service) Search(ctx context.Context, p domain.Principal, filter domain.AccountFilter) (*domain.AccountPage, error) {
	if !p.IsAdmin() {
		filter.OwnerID = p.ID
		filter.OwnerKind = domain.OwnerKind(p.Role)
	}
	filter.Page, filter.Limit = normalize(filter.Page, filter.Limit)

	accounts, total, err := s.accounts.SearchAccounts(ctx, filter)
	if err != nil {
		zap.L().Error("failed to search accounts", zap.Error(err))
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}

	return &domain.AccountPage{
		Data: accounts,
		Pagination: domain.Pagination{
			Current: filter.Page,
			Limit:   filter.Limit,
			Records: total,
			Pages:   (total + filter.Limit - 1) / filter.Limit,
		},
	}, nil
}

package claimservice

//go:generate mockgen -source=claimservice.go -destination=mock_claimservice.go -package=claimservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
)

type Repo interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Claim, error)
	Save(ctx context.Context, claim *domain.Claim) error
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Claim, error)
	FindForProcessing(ctx context.Context, limit uint32) ([]domain.Claim, error)
	Update(ctx context.Context, claim *domain.Claim) error
}

type AccountReader interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

type Service struct {
	repo     Repo
	accounts AccountReader
}

func New(repo Repo, accounts AccountReader) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
	}
}

var (
	ErrClaimExistsByAccount = errors.New("claim already registered for this account")
	ErrClaimExists          = errors.New("claim already registered for another account")
)

func (s *Service) authorize(ctx context.Context, p domain.Principal, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(account) {
		return nil, domain.ErrForbidden
	}
	return account, nil
}

// Register records an order number whose reward will be credited to the account once it settles.
func (s *Service) Register(ctx context.Context, p domain.Principal, accountID uuid.UUID, orderNumber string) (*domain.Claim, error) {
	account, err := s.authorize(ctx, p, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == domain.StatusDeleted {
		return nil, domain.ErrAccountDeleted
	}

	existing, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicate(existing, accountID)
	}

	claim := &domain.Claim{
		AccountID:   accountID,
		OrderNumber: orderNumber,
		Status:      domain.ClaimNew,
		UploadedAt:  time.Now().UTC(),
	}
	err = s.repo.Save(ctx, claim)
	if errors.Is(err, domain.ErrClaimTaken) {
		// lost a race with a concurrent registration
		existing, err = s.repo.FindByOrderNumber(ctx, orderNumber)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrClaimTaken
		}
		return nil, duplicate(existing, accountID)
	}
	if err != nil {
		zap.L().Error("can't save claim", zap.Error(err))
		return nil, err
	}
	return claim, nil
}

func duplicate(existing *domain.Claim, accountID uuid.UUID) error {
	if existing.AccountID == accountID {
		zap.L().Info("claim already registered for account", zap.String("order_number", existing.OrderNumber))
		return ErrClaimExistsByAccount
	}
	zap.L().Info("claim already registered", zap.String("order_number", existing.OrderNumber))
	return ErrClaimExists
}

func (s *Service) List(ctx context.Context, p domain.Principal, accountID uuid.UUID) ([]domain.Claim, error) {
	if _, err := s.authorize(ctx, p, accountID); err != nil {
		return nil, err
	}

	claims, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to get claims", zap.Error(err))
		return nil, err
	}
	if len(claims) == 0 {
		return nil, nil
	}
	return claims, nil
}

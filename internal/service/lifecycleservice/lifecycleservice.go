package lifecycleservice

//go:generate mockgen -source=lifecycleservice.go -destination=mock_lifecycleservice.go -package=lifecycleservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/occ"
)

type Repo interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus, deletedAt *time.Time, expectedVersion int64) (*domain.Account, error)
}

// Cache.Set must not replace a newer cached version.
type Cache interface {
	Set(ctx context.Context, account *domain.Account) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo   Repo
	cache  Cache
	policy occ.Policy
}

func New(repo Repo, cache Cache, policy occ.Policy) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		policy: policy,
	}
}

func (s *Service) Create(ctx context.Context, p domain.Principal, owner domain.Owner, initialBalance int64) (*domain.Account, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !owner.Kind.Valid() || strings.TrimSpace(owner.ID) == "" {
		return nil, domain.ErrInvalidOwner
	}
	if initialBalance < 0 {
		return nil, domain.ErrInvalidAmount
	}

	account, err := s.repo.CreateAccount(ctx, &domain.Account{
		ID:        uuid.New(),
		Owner:     owner,
		Balance:   initialBalance,
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	zap.L().Info("account created", zap.String("account", account.ID.String()), zap.String("owner", owner.ID))
	return account, nil
}

// SetStatus moves an account between active and frozen. Setting the current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if status == domain.StatusDeleted {
		return s.SoftDelete(ctx, p, id)
	}

	var updated *domain.Account
	err := s.policy.Run(ctx, func(ctx context.Context) error {
		account, err := s.repo.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		if account.Status == domain.StatusDeleted {
			return domain.ErrAccountDeleted
		}
		if account.Status == status {
			updated = account
			return nil
		}
		updated, err = s.repo.UpdateStatus(ctx, id, status, nil, account.Version)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, updated)
	return updated, nil
}

// SoftDelete marks the account deleted. deleted_at is written once and never moved.
func (s *Service) SoftDelete(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Account, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var deleted *domain.Account
	err := s.policy.Run(ctx, func(ctx context.Context) error {
		account, err := s.repo.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		if account.Status == domain.StatusDeleted {
			return domain.ErrAlreadyDeleted
		}
		now := time.Now().UTC()
		deleted, err = s.repo.UpdateStatus(ctx, id, domain.StatusDeleted, &now, account.Version)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, deleted)
	zap.L().Info("account deleted", zap.String("account", id.String()))
	return deleted, nil
}

// refresh caches the committed account state, dropping the entry when that fails.
func (s *Service) refresh(ctx context.Context, account *domain.Account) {
	err := s.cache.Set(ctx, account)
	if err == nil {
		return
	}
	zap.L().Warn("failed to cache account", zap.Error(err), zap.String("account", account.ID.String()))
	if err := s.cache.Invalidate(ctx, account.ID); err != nil {
		zap.L().Warn("failed to invalidate cached account", zap.Error(err), zap.String("account", account.ID.String()))
	}
}

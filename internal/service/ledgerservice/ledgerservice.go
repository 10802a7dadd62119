package ledgerservice

//go:generate mockgen -source=ledgerservice.go -destination=mock_ledgerservice.go -package=ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/occ"
	"github.com/GlebRadaev/mileage/internal/validator"
	"github.com/GlebRadaev/mileage/pkg/metrics"
)

type Repo interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ApplyDelta(ctx context.Context, id uuid.UUID, delta, expectedVersion int64, tx *domain.Transaction) (*domain.Account, error)
}

type Publisher interface {
	PublishTransaction(ctx context.Context, tx domain.Transaction) error
}

// Cache.Set must not replace a newer cached version.
type Cache interface {
	Set(ctx context.Context, account *domain.Account) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo      Repo
	publisher Publisher
	cache     Cache
	policy    occ.Policy
	tracer    trace.Tracer
}

func New(repo Repo, publisher Publisher, cache Cache, policy occ.Policy) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		policy:    policy,
		tracer:    otel.Tracer("github.com/GlebRadaev/mileage/internal/service/ledgerservice"),
	}
}

func authorize(p domain.Principal, account *domain.Account, typ domain.TxType) error {
	if p.IsAdmin() {
		return nil
	}
	if !p.Owns(account) || typ.AdminOnly() {
		return domain.ErrForbidden
	}
	return nil
}

// Submit validates req against the current account state and appends it to the ledger.
// A stale read is retried under the service policy; business rejections return immediately.
func (s *Service) Submit(ctx context.Context, p domain.Principal, accountID uuid.UUID, req domain.TransactionRequest) (*domain.Transaction, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.Submit", trace.WithAttributes(
		attribute.String("account.id", accountID.String()),
		attribute.String("transaction.type", string(req.Type)),
	))
	defer span.End()

	tx, account, err := s.submit(ctx, p, accountID, req)
	if err != nil {
		kind := domain.KindOf(err)
		metrics.TransactionsRejected.WithLabelValues(string(kind)).Inc()
		span.SetStatus(codes.Error, string(kind))
		if kind == domain.KindInternal || kind == domain.KindContention {
			span.RecordError(err)
			zap.L().Error("failed to submit transaction", zap.Error(err),
				zap.String("account", accountID.String()), zap.String("type", string(req.Type)))
		}
		return nil, err
	}

	metrics.TransactionsApplied.WithLabelValues(string(tx.Type)).Inc()
	s.refresh(ctx, account)
	if err := s.publisher.PublishTransaction(ctx, *tx); err != nil {
		zap.L().Warn("failed to publish transaction", zap.Error(err), zap.String("transaction", tx.ID.String()))
	}
	return tx, nil
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

func (s *Service) submit(ctx context.Context, p domain.Principal, accountID uuid.UUID, req domain.TransactionRequest) (*domain.Transaction, *domain.Account, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(p, account, req.Type); err != nil {
		return nil, nil, err
	}
	if req.BusinessStatus == "" {
		req.BusinessStatus = domain.DefaultBusinessStatus
	}

	var (
		applied *domain.Transaction
		updated *domain.Account
	)
	err = s.policy.Run(ctx, func(ctx context.Context) error {
		if account == nil {
			if account, err = s.repo.GetAccount(ctx, accountID); err != nil {
				return err
			}
		}

		result, err := validator.Validate(account, req)
		if err != nil {
			return err
		}

		tx := &domain.Transaction{
			ID:                uuid.New(),
			AccountID:         accountID,
			Type:              req.Type,
			Amount:            req.Amount,
			BusinessStatus:    req.BusinessStatus,
			Reason:            req.Reason,
			EvidenceReference: req.EvidenceReference,
			CreatedAt:         time.Now().UTC(),
		}
		next, err := s.repo.ApplyDelta(ctx, accountID, result.Delta, account.Version, tx)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				metrics.VersionConflicts.Inc()
				account = nil
			}
			return err
		}
		applied, updated = tx, next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return applied, updated, nil
}

// Package accrual polls the commerce accrual system for registered reward claims and credits settled rewards.
package accrual

//go:generate mockgen -source=accrual.go -destination=mock_accrual.go -package=accrual

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/mileage/internal/config"
	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
	batchLimit    = 1000
	workers       = 10
)

const (
	statusRegistered = "REGISTERED"
	statusProcessing = "PROCESSING"
	statusProcessed  = "PROCESSED"
	statusInvalid    = "INVALID"
)

// Poller is the identity under which settled rewards are credited.
var Poller = domain.Principal{ID: "accrual-poller", Role: domain.RoleAdmin}

type Response struct {
	Order   string  `json:"order"`
	Status  string  `json:"status"`
	Accrual float64 `json:"accrual,omitempty"`
}

type ClaimRepo interface {
	FindForProcessing(ctx context.Context, limit uint32) ([]domain.Claim, error)
	Update(ctx context.Context, claim *domain.Claim) error
}

type EvidenceChecker interface {
	ExistsByEvidence(ctx context.Context, accountID uuid.UUID, typ domain.TxType, evidence string) (bool, error)
}

type Ledger interface {
	Submit(ctx context.Context, p domain.Principal, accountID uuid.UUID, req domain.TransactionRequest) (*domain.Transaction, error)
}

type Service struct {
	url            string
	claims         ClaimRepo
	evidence       EvidenceChecker
	ledger         Ledger
	client         clients.HTTPClientI
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
	retryInterval  time.Duration
	inFlight       sync.Map
}

func New(cfg *config.Config, claims ClaimRepo, evidence EvidenceChecker, ledger Ledger, client clients.HTTPClientI) *Service {
	interval := cfg.ClaimsPollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Service{
		url:            cfg.AccrualAddress,
		claims:         claims,
		evidence:       evidence,
		ledger:         ledger,
		client:         client,
		limit:          batchLimit,
		workerPool:     NewWorkerPool(workers),
		updateInterval: interval,
		retryInterval:  retryInterval,
	}
}

// Start polls until ctx is done.
func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Accrual poller started", zap.Duration("interval", s.updateInterval))
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()
	defer s.workerPool.Close()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping accrual poller")
			return
		case <-ticker.C:
			s.processClaims(ctx)
		}
	}
}

func (s *Service) processClaims(ctx context.Context) {
	claims, err := s.claims.FindForProcessing(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch claims for processing", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, claim := range claims {
		if _, loaded := s.inFlight.LoadOrStore(claim.OrderNumber, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inFlight.Delete(claim.OrderNumber)
				return s.handleClaim(ctx, claim)
			})
			if err != nil {
				s.inFlight.Delete(claim.OrderNumber)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error processing claims", zap.Error(err))
	}
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) handleClaim(ctx context.Context, claim domain.Claim) error {
	url := s.url + "/api/orders/" + claim.OrderNumber

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		statusCode, respBody, respHeaders, err := s.client.Get(ctx, url, nil)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("failed to process claim %s after %d retries: %w", claim.OrderNumber, maxRetries, err)
			}
			if err := s.wait(ctx, s.retryInterval*time.Duration(attempt)); err != nil {
				return err
			}
			continue
		}

		switch statusCode {
		case http.StatusOK:
			return s.processAccrual(ctx, claim, respBody)
		case http.StatusTooManyRequests:
			retryAfter := s.retryAfter(respHeaders, attempt)
			zap.L().Warn("Rate limit detected, retrying",
				zap.String("orderNumber", claim.OrderNumber),
				zap.Int("attempt", attempt),
				zap.Duration("retryAfter", retryAfter),
			)
			if err := s.wait(ctx, retryAfter); err != nil {
				return err
			}
		case http.StatusNoContent:
			zap.L().Warn("Order not known to accrual system yet", zap.String("orderNumber", claim.OrderNumber), zap.Int("attempt", attempt))
			if attempt == maxRetries {
				return fmt.Errorf("order %s not registered in accrual system after %d retries", claim.OrderNumber, maxRetries)
			}
			if err := s.wait(ctx, s.retryInterval*time.Duration(attempt)); err != nil {
				return err
			}
		default:
			zap.L().Error("Unexpected status code", zap.Int("status", statusCode), zap.String("orderNumber", claim.OrderNumber))
			return fmt.Errorf("unexpected status code %d", statusCode)
		}
	}
	return nil
}

func (s *Service) retryAfter(headers http.Header, attempt int) time.Duration {
	retryAfter := s.retryInterval * time.Duration(attempt)
	if header := headers.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	return retryAfter
}

func (s *Service) processAccrual(ctx context.Context, claim domain.Claim, respBody []byte) error {
	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}
	if response.Order != claim.OrderNumber {
		return fmt.Errorf("order number mismatch: expected %s, got %s", claim.OrderNumber, response.Order)
	}

	switch response.Status {
	case statusProcessed:
		amount, err := points(response.Accrual)
		if err == nil {
			err = s.credit(ctx, claim, amount)
		}
		if err != nil {
			if !rejected(err) {
				return fmt.Errorf("failed to credit claim %s: %w", claim.OrderNumber, err)
			}
			zap.L().Warn("Claim can never be credited",
				zap.String("orderNumber", claim.OrderNumber), zap.String("kind", string(domain.KindOf(err))))
			claim.Status = domain.ClaimInvalid
			break
		}
		claim.Status = domain.ClaimProcessed
		claim.Accrual = amount
	case statusRegistered, statusProcessing:
		claim.Status = domain.ClaimProcessing
	case statusInvalid:
		zap.L().Info("Order is invalid, no reward", zap.String("orderNumber", claim.OrderNumber))
		claim.Status = domain.ClaimInvalid
	default:
		zap.L().Warn("Unrecognized status received", zap.String("orderNumber", claim.OrderNumber), zap.String("status", response.Status))
		return nil
	}

	if err := s.claims.Update(ctx, &claim); err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	return nil
}

// rejected reports errors that a later attempt cannot fix. A frozen account is retried since it may be unfrozen.
func rejected(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindAccountDeleted, domain.KindInvalidAmount, domain.KindNotFound:
		return true
	}
	return false
}

func points(accrual float64) (int64, error) {
	rounded := math.Round(accrual)
	if math.IsNaN(rounded) || rounded >= math.MaxInt64 || rounded < math.MinInt64 {
		return 0, domain.ErrInvalidAmount
	}
	return int64(rounded), nil
}

// credit appends the accrual unless an earlier run already did so for the same order.
func (s *Service) credit(ctx context.Context, claim domain.Claim, amount int64) error {
	if amount <= 0 {
		return nil
	}
	exists, err := s.evidence.ExistsByEvidence(ctx, claim.AccountID, domain.TxAccrual, claim.OrderNumber)
	if err != nil {
		return err
	}
	if exists {
		zap.L().Info("Accrual already credited", zap.String("orderNumber", claim.OrderNumber))
		return nil
	}

	tx, err := s.ledger.Submit(ctx, Poller, claim.AccountID, domain.TransactionRequest{
		Type:              domain.TxAccrual,
		Amount:            amount,
		EvidenceReference: claim.OrderNumber,
	})
	if err != nil {
		return err
	}
	zap.L().Info("Reward credited",
		zap.String("orderNumber", claim.OrderNumber),
		zap.String("account", claim.AccountID.String()),
		zap.Int64("amount", amount),
		zap.Int64("balanceAfter", tx.BalanceAfter),
	)
	return nil
}

// Package memstore keeps accounts, ledger entries and reward claims in process memory.
// It mirrors the compare-and-swap semantics of the Postgres repositories.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/mileage/internal/domain"
)

var ErrAccountExists = errors.New("account already exists")

type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]domain.Account
	transactions map[uuid.UUID][]domain.Transaction
	claims       map[string]domain.Claim
	claimSeq     int
}

func New() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]domain.Account),
		transactions: make(map[uuid.UUID][]domain.Transaction),
		claims:       make(map[string]domain.Claim),
	}
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &account, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; ok {
		return nil, ErrAccountExists
	}
	created := *account
	created.UpdatedAt = created.CreatedAt
	s.accounts[created.ID] = created
	return &created, nil
}

func (s *Store) ApplyDelta(ctx context.Context, id uuid.UUID, delta, expectedVersion int64, tx *domain.Transaction) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if account.Version != expectedVersion {
		return nil, domain.ErrConflict
	}
	if account.Balance+delta < 0 {
		return nil, domain.ErrInsufficientBalance
	}

	account.Balance += delta
	account.Version++
	account.UpdatedAt = tx.CreatedAt
	s.accounts[id] = account

	tx.BalanceAfter = account.Balance
	tx.AccountVersion = account.Version
	s.transactions[id] = append(s.transactions[id], *tx)
	return &account, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus, deletedAt *time.Time, expectedVersion int64) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok || account.Version != expectedVersion {
		return nil, domain.ErrConflict
	}
	account.Status = status
	if account.DeletedAt == nil && deletedAt != nil {
		at := *deletedAt
		account.DeletedAt = &at
	}
	account.Version++
	account.UpdatedAt = time.Now().UTC()
	s.accounts[id] = account
	return &account, nil
}

func matches(a domain.Account, f domain.AccountFilter) bool {
	switch {
	case f.OwnerID != "" && a.Owner.ID != f.OwnerID:
		return false
	case f.OwnerKind != "" && a.Owner.Kind != f.OwnerKind:
		return false
	case f.Status != "" && a.Status != f.Status:
		return false
	case f.MinBalance != nil && a.Balance < *f.MinBalance:
		return false
	case f.MaxBalance != nil && a.Balance > *f.MaxBalance:
		return false
	case f.CreatedFrom != nil && a.CreatedAt.Before(*f.CreatedFrom):
		return false
	case f.CreatedTo != nil && a.CreatedAt.After(*f.CreatedTo):
		return false
	}
	return true
}

func (s *Store) SearchAccounts(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	found := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if matches(account, f) {
			found = append(found, account)
		}
	}
	s.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.After(found[j].CreatedAt)
		}
		return found[i].ID.String() < found[j].ID.String()
	})

	total := len(found)
	offset := max(f.Offset(), 0)
	if offset >= total {
		return []domain.Account{}, total, nil
	}
	end := min(offset+f.Limit, total)
	return found[offset:end], total, nil
}

// ListByAccount returns entries newest first.
func (s *Store) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.transactions[accountID]
	offset = max(offset, 0)
	var result []domain.Transaction
	for i := len(all) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

func (s *Store) ExistsByEvidence(ctx context.Context, accountID uuid.UUID, typ domain.TxType, evidence string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions[accountID] {
		if tx.Type == typ && tx.EvidenceReference == evidence {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FindByOrderNumber(_ context.Context, orderNumber string) (*domain.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[orderNumber]
	if !ok {
		return nil, nil
	}
	return &claim, nil
}

func (s *Store) FindByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Claim, error) {
	s.mu.RLock()
	var claims []domain.Claim
	for _, claim := range s.claims {
		if claim.AccountID == accountID {
			claims = append(claims, claim)
		}
	}
	s.mu.RUnlock()

	sort.Slice(claims, func(i, j int) bool {
		return claims[i].UploadedAt.After(claims[j].UploadedAt)
	})
	return claims, nil
}

func (s *Store) Save(_ context.Context, claim *domain.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[claim.OrderNumber]; ok {
		return domain.ErrClaimTaken
	}
	s.claimSeq++
	claim.ID = s.claimSeq
	s.claims[claim.OrderNumber] = *claim
	return nil
}

func (s *Store) Update(_ context.Context, claim *domain.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.claims[claim.OrderNumber]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = claim.Status
	stored.Accrual = claim.Accrual
	s.claims[claim.OrderNumber] = stored
	return nil
}

func (s *Store) FindForProcessing(_ context.Context, limit uint32) ([]domain.Claim, error) {
	s.mu.RLock()
	var claims []domain.Claim
	for _, claim := range s.claims {
		if claim.Status == domain.ClaimNew || claim.Status == domain.ClaimProcessing {
			claims = append(claims, claim)
		}
	}
	s.mu.RUnlock()

	sort.Slice(claims, func(i, j int) bool {
		return claims[i].UploadedAt.Before(claims[j].UploadedAt)
	})
	if len(claims) > int(limit) {
		claims = claims[:limit]
	}
	return claims, nil
}

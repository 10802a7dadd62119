package repo

import (
	"github.com/GlebRadaev/mileage/internal/accrual"
	"github.com/GlebRadaev/mileage/internal/memstore"
	"github.com/GlebRadaev/mileage/internal/pg"
	accountrepo "github.com/GlebRadaev/mileage/internal/repo/account-repo"
	claimrepo "github.com/GlebRadaev/mileage/internal/repo/claim-repo"
	transactionrepo "github.com/GlebRadaev/mileage/internal/repo/transaction-repo"
	"github.com/GlebRadaev/mileage/internal/service/claimservice"
	"github.com/GlebRadaev/mileage/internal/service/ledgerservice"
	"github.com/GlebRadaev/mileage/internal/service/lifecycleservice"
	"github.com/GlebRadaev/mileage/internal/service/queryservice"
)

type AccountRepo interface {
	ledgerservice.Repo
	lifecycleservice.Repo
	queryservice.AccountRepo
}

type TransactionRepo interface {
	queryservice.TransactionRepo
	accrual.EvidenceChecker
}

type ClaimRepo interface {
	claimservice.Repo
	accrual.ClaimRepo
}

type Repositories struct {
	AccountRepo     AccountRepo
	TransactionRepo TransactionRepo
	ClaimRepo       ClaimRepo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		AccountRepo:     accountrepo.New(conn, txManager),
		TransactionRepo: transactionrepo.New(conn),
		ClaimRepo:       claimrepo.New(conn, txManager),
	}
}

// NewMemory serves every repository from one in-process store.
func NewMemory(store *memstore.Store) *Repositories {
	return &Repositories{
		AccountRepo:     store,
		TransactionRepo: store,
		ClaimRepo:       store,
	}
}

package service

import (
	"github.com/GlebRadaev/mileage/internal/occ"
	"github.com/GlebRadaev/mileage/internal/repo"
	"github.com/GlebRadaev/mileage/internal/service/claimservice"
	"github.com/GlebRadaev/mileage/internal/service/ledgerservice"
	"github.com/GlebRadaev/mileage/internal/service/lifecycleservice"
	"github.com/GlebRadaev/mileage/internal/service/queryservice"
)

// Cache is the account cache shared by the read path and the writers that invalidate it.
type Cache interface {
	queryservice.Cache
	ledgerservice.Cache
}

type Services struct {
	LedgerService    *ledgerservice.Service
	LifecycleService *lifecycleservice.Service
	QueryService     *queryservice.Service
	ClaimService     *claimservice.Service
}

func New(repos *repo.Repositories, publisher ledgerservice.Publisher, cache Cache, policy occ.Policy) *Services {
	return &Services{
		LedgerService:    ledgerservice.New(repos.AccountRepo, publisher, cache, policy),
		LifecycleService: lifecycleservice.New(repos.AccountRepo, cache, policy),
		QueryService:     queryservice.New(repos.AccountRepo, repos.TransactionRepo, cache),
		ClaimService:     claimservice.New(repos.ClaimRepo, repos.AccountRepo),
	}
}

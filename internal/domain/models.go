package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusFrozen  AccountStatus = "frozen"
	StatusDeleted AccountStatus = "deleted"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusFrozen, StatusDeleted:
		return true
	}
	return false
}

type OwnerKind string

const (
	OwnerCustomer OwnerKind = "customer"
	OwnerSeller   OwnerKind = "seller"
)

func (k OwnerKind) Valid() bool {
	return k == OwnerCustomer || k == OwnerSeller
}

type Owner struct {
	Kind OwnerKind `db:"owner_kind"`
	ID   string    `db:"owner_id"`
}

type Account struct {
	ID        uuid.UUID     `db:"id"`
	Owner     Owner         `db:"-"`
	Balance   int64         `db:"balance"`
	Status    AccountStatus `db:"status"`
	Version   int64         `db:"version"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at"`
}

// TxType is the closed set of ledger entry types.
type TxType string

const (
	TxAccrual    TxType = "accrual"
	TxSpend      TxType = "spend"
	TxBonus      TxType = "bonus"
	TxAdjustment TxType = "adjustment"
	TxExpiration TxType = "expiration"
)

var TxTypes = []TxType{TxAccrual, TxSpend, TxBonus, TxAdjustment, TxExpiration}

func (t TxType) Valid() bool {
	for _, known := range TxTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AdminOnly reports whether only administrators may originate the type.
func (t TxType) AdminOnly() bool {
	return t == TxBonus || t == TxAdjustment
}

const DefaultBusinessStatus = "applied"

type Transaction struct {
	ID                uuid.UUID `db:"id"`
	AccountID         uuid.UUID `db:"account_id"`
	Type              TxType    `db:"type"`
	Amount            int64     `db:"amount"`
	BusinessStatus    string    `db:"business_status"`
	Reason            string    `db:"reason"`
	EvidenceReference string    `db:"evidence_reference"`
	BalanceAfter      int64     `db:"balance_after"`
	AccountVersion    int64     `db:"account_version"`
	CreatedAt         time.Time `db:"created_at"`
}

type TransactionRequest struct {
	Type              TxType
	Amount            int64
	BusinessStatus    string
	Reason            string
	EvidenceReference string
}

type AccountFilter struct {
	OwnerID     string
	OwnerKind   OwnerKind
	Status      AccountStatus
	MinBalance  *int64
	MaxBalance  *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	Limit       int
}

// MaxPage keeps (page-1)*limit within an int for page sizes up to 1000.
const MaxPage = math.MaxInt / 1000

func (f AccountFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (min(f.Page, MaxPage) - 1) * f.Limit
}

type Pagination struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
	Pages   int `json:"pages"`
}

type AccountPage struct {
	Data       []Account
	Pagination Pagination
}

type ClaimStatus string

const (
	ClaimNew        ClaimStatus = "NEW"
	ClaimProcessing ClaimStatus = "PROCESSING"
	ClaimProcessed  ClaimStatus = "PROCESSED"
	ClaimInvalid    ClaimStatus = "INVALID"
)

// Claim is an order registered by an owner for accrual once the commerce side settles it.
type Claim struct {
	ID          int         `db:"id"`
	AccountID   uuid.UUID   `db:"account_id"`
	OrderNumber string      `db:"order_number"`
	Status      ClaimStatus `db:"status"`
	Accrual     int64       `db:"accrual"`
	UploadedAt  time.Time   `db:"uploaded_at"`
}

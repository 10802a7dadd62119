package domain

import "errors"

var (
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrAccountDeleted      = errors.New("account is deleted")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrContention          = errors.New("too much contention on account, retry later")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyDeleted      = errors.New("account already deleted")
	ErrReasonRequired      = errors.New("reason is required")
	ErrInvalidStatus       = errors.New("invalid account status")
	ErrInvalidOwner        = errors.New("invalid owner reference")
	ErrUnauthorized        = errors.New("unauthorized")

	// ErrConflict signals a stale expected version. It is retried internally and never surfaces to callers.
	ErrConflict = errors.New("version conflict")
	// ErrClaimTaken is returned by claim stores when the order number is already stored.
	ErrClaimTaken = errors.New("order number already claimed")
)

type Kind string

const (
	KindAccountFrozen       Kind = "AccountFrozen"
	KindAccountDeleted      Kind = "AccountDeleted"
	KindInsufficientBalance Kind = "InsufficientBalance"
	KindInvalidAmount       Kind = "InvalidAmount"
	KindInvalidType         Kind = "InvalidType"
	KindContention          Kind = "Contention"
	KindForbidden           Kind = "Forbidden"
	KindNotFound            Kind = "NotFound"
	KindAlreadyDeleted      Kind = "AlreadyDeleted"
	KindReasonRequired      Kind = "ReasonRequired"
	KindInvalidStatus       Kind = "InvalidStatus"
	KindInvalidOwner        Kind = "InvalidOwner"
	KindUnauthorized        Kind = "Unauthorized"
	KindInternal            Kind = "Internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrAccountFrozen, KindAccountFrozen},
	{ErrAccountDeleted, KindAccountDeleted},
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrInvalidType, KindInvalidType},
	{ErrContention, KindContention},
	{ErrForbidden, KindForbidden},
	{ErrNotFound, KindNotFound},
	{ErrAlreadyDeleted, KindAlreadyDeleted},
	{ErrReasonRequired, KindReasonRequired},
	{ErrInvalidStatus, KindInvalidStatus},
	{ErrInvalidOwner, KindInvalidOwner},
	{ErrUnauthorized, KindUnauthorized},
}

// KindOf returns the business kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

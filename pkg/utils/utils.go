package utils

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/mileage/internal/domain"
)

type Response struct {
	Message string `json:"message" example:"insufficient balance"`
	Kind    string `json:"kind,omitempty" example:"InsufficientBalance"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Response{Message: message})
}

var kindStatus = map[domain.Kind]int{
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindForbidden:           http.StatusForbidden,
	domain.KindUnauthorized:        http.StatusUnauthorized,
	domain.KindInsufficientBalance: http.StatusPaymentRequired,
	domain.KindAccountFrozen:       http.StatusConflict,
	domain.KindAccountDeleted:      http.StatusConflict,
	domain.KindAlreadyDeleted:      http.StatusConflict,
	domain.KindContention:          http.StatusServiceUnavailable,
	domain.KindInvalidAmount:       http.StatusUnprocessableEntity,
	domain.KindInvalidType:         http.StatusUnprocessableEntity,
	domain.KindReasonRequired:      http.StatusUnprocessableEntity,
	domain.KindInvalidStatus:       http.StatusUnprocessableEntity,
	domain.KindInvalidOwner:        http.StatusUnprocessableEntity,
}

// StatusFor maps a business error kind to its HTTP status. Unknown kinds are internal errors.
func StatusFor(kind domain.Kind) int {
	if code, ok := kindStatus[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// RespondWithDomainError writes err as {"message", "kind"} without leaking internal error text.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	code := StatusFor(kind)
	if code == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		RespondWithJSON(w, code, Response{Message: "Internal server error", Kind: string(domain.KindInternal)})
		return
	}
	RespondWithJSON(w, code, Response{Message: err.Error(), Kind: string(kind)})
}

// AccountID parses the {id} route parameter. A malformed id names no account.
func AccountID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

package transactions

//go:generate mockgen -source=transactions.go -destination=mock_transactions.go -package=transactions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/dto"
	"github.com/GlebRadaev/mileage/pkg/auth"
	"github.com/GlebRadaev/mileage/pkg/utils"
)

type Ledger interface {
	Submit(ctx context.Context, p domain.Principal, accountID uuid.UUID, req domain.TransactionRequest) (*domain.Transaction, error)
}

type Query interface {
	ListTransactions(ctx context.Context, p domain.Principal, id uuid.UUID, page, limit int) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	ledger Ledger
	query  Query
}

func New(ledger Ledger, query Query) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		query:  query,
	}
}

// Submit godoc
//
//	@Summary		Submit a transaction
//	@Description	Validate and apply an accrual, spend, bonus, adjustment or expiration to an account.
//	@Description	Bonus and adjustment require an administrator and a reason.
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account id"
//	@Param			request	body		dto.SubmitTransactionRequestDTO	true	"Proposed transaction"
//	@Success		201		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Not authenticated"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		403		{object}	utils.Response	"Not allowed for this principal"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Failure		409		{object}	utils.Response	"Account frozen or deleted"
//	@Failure		422		{object}	utils.Response	"Invalid amount, type or missing reason"
//	@Failure		503		{object}	utils.Response	"Too much contention on the account"
//	@Router			/api/accounts/{id}/transactions [post]
func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithDomainError(w, domain.ErrUnauthorized)
		return
	}
	id, err := utils.AccountID(r)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}

	var req dto.SubmitTransactionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.ledger.Submit(r.Context(), p, id, req.Request())
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewTransactionResponse(tx))
}

// List godoc
//
//	@Summary		Transaction history
//	@Description	Page through the transactions of an account, newest first.
//	@Tags			Transactions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id		path		string	true	"Account id"
//	@Param			page	query		int		false	"Page, 1-based"
//	@Param			limit	query		int		false	"Page size, at most 1000"
//	@Success		200		{array}		dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid query parameter"
//	@Failure		403		{object}	utils.Response	"Not the owner"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Router			/api/accounts/{id}/transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithDomainError(w, domain.ErrUnauthorized)
		return
	}
	id, err := utils.AccountID(r)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}

	page, limit, err := pageParams(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := h.query.ListTransactions(r.Context(), p, id, page, limit)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}

	response := make([]dto.TransactionResponseDTO, len(txs))
	for i := range txs {
		response[i] = dto.NewTransactionResponse(&txs[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func pageParams(r *http.Request) (page, limit int, err error) {
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil || page > domain.MaxPage {
			return 0, 0, errInvalidPage
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return 0, 0, errInvalidLimit
		}
	}
	return page, limit, nil
}

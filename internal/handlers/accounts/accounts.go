package accounts

//go:generate mockgen -source=accounts.go -destination=mock_accounts.go -package=accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/dto"
	"github.com/GlebRadaev/mileage/pkg/auth"
	"github.com/GlebRadaev/mileage/pkg/utils"
)

type Lifecycle interface {
	Create(ctx context.Context, p domain.Principal, owner domain.Owner, initialBalance int64) (*domain.Account, error)
	SetStatus(ctx context.Context, p domain.Principal, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
	SoftDelete(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Account, error)
}

type Query interface {
	GetAccount(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Account, error)
	Search(ctx context.Context, p domain.Principal, filter domain.AccountFilter) (*domain.AccountPage, error)
}

type AccountHandler struct {
	lifecycle Lifecycle
	query     Query
}

func New(lifecycle Lifecycle, query Query) *AccountHandler {
	return &AccountHandler{
		lifecycle: lifecycle,
		query:     query,
	}
}

// Create godoc
//
//	@Summary		Open an account
//	@Description	Create an active account for a customer or seller. Administrators only.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateAccountRequestDTO	true	"Owner and opening balance"
//	@Success		201		{object}	dto.AccountResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Not authenticated"
//	@Failure		403		{object}	utils.Response	"Not an administrator"
//	@Failure		422		{object}	utils.Response	"Invalid owner or amount"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req dto.CreateAccountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := domain.Owner{Kind: domain.OwnerKind(req.OwnerKind), ID: req.OwnerID}
	account, err := h.lifecycle.Create(r.Context(), p, owner, req.InitialBalance)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewAccountResponse(account))
}

// Get godoc
//
//	@Summary		Get an account
//	@Description	Read balance, status and version of an account. Owners and administrators only.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	dto.AccountResponseDTO
//	@Failure		401	{object}	utils.Response	"Not authenticated"
//	@Failure		403	{object}	utils.Response	"Not the owner"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts/{id} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	account, err := h.query.GetAccount(r.Context(), p, id)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account))
}

// SetStatus godoc
//
//	@Summary		Change account status
//	@Description	Freeze, unfreeze or delete an account. Administrators only.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account id"
//	@Param			request	body		dto.SetStatusRequestDTO	true	"Target status"
//	@Success		200		{object}	dto.AccountResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		403		{object}	utils.Response	"Not an administrator"
//	@Failure		404		{object}	utils.Response	"Account not found"
//	@Failure		409		{object}	utils.Response	"Account is deleted"
//	@Failure		422		{object}	utils.Response	"Unknown status"
//	@Failure		503		{object}	utils.Response	"Too much contention"
//	@Router			/api/accounts/{id}/status [put]
func (h *AccountHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	var req dto.SetStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.lifecycle.SetStatus(r.Context(), p, id, domain.AccountStatus(req.Status))
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account))
}

// Delete godoc
//
//	@Summary		Soft delete an account
//	@Description	Mark an account deleted. History is kept and no further transactions are accepted.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	dto.AccountResponseDTO
//	@Failure		403	{object}	utils.Response	"Not an administrator"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		409	{object}	utils.Response	"Account already deleted"
//	@Router			/api/accounts/{id} [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	account, err := h.lifecycle.SoftDelete(r.Context(), p, id)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account))
}

// Search godoc
//
//	@Summary		Search accounts
//	@Description	Page through accounts, newest first. Non-administrators only see their own accounts.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			owner_id		query		string	false	"Owner id"
//	@Param			owner_kind		query		string	false	"customer or seller"
//	@Param			status			query		string	false	"active, frozen or deleted"
//	@Param			min_balance		query		int		false	"Lowest balance"
//	@Param			max_balance		query		int		false	"Highest balance"
//	@Param			created_from	query		string	false	"RFC3339 lower bound"
//	@Param			created_to		query		string	false	"RFC3339 upper bound"
//	@Param			page			query		int		false	"Page, 1-based"
//	@Param			limit			query		int		false	"Page size, at most 1000"
//	@Success		200				{object}	dto.SearchAccountsResponseDTO
//	@Failure		400				{object}	utils.Response	"Invalid query parameter"
//	@Failure		401				{object}	utils.Response	"Not authenticated"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts [get]
func (h *AccountHandler) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithDomainError(w, domain.ErrUnauthorized)
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.query.Search(r.Context(), p, filter)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewSearchAccountsResponse(page))
}

func parseFilter(q url.Values) (domain.AccountFilter, error) {
	filter := domain.AccountFilter{
		OwnerID:   q.Get("owner_id"),
		OwnerKind: domain.OwnerKind(q.Get("owner_kind")),
		Status:    domain.AccountStatus(q.Get("status")),
	}

	var err error
	if filter.MinBalance, err = optionalInt(q, "min_balance"); err != nil {
		return filter, err
	}
	if filter.MaxBalance, err = optionalInt(q, "max_balance"); err != nil {
		return filter, err
	}
	if filter.CreatedFrom, err = optionalTime(q, "created_from"); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = optionalTime(q, "created_to"); err != nil {
		return filter, err
	}
	if filter.Page, err = intParam(q, "page"); err != nil {
		return filter, err
	}
	if filter.Page > domain.MaxPage {
		return filter, &paramError{key: "page"}
	}
	if filter.Limit, err = intParam(q, "limit"); err != nil {
		return filter, err
	}
	return filter, nil
}

func optionalInt(q url.Values, key string) (*int64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &paramError{key: key}
	}
	return &v, nil
}

func optionalTime(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &paramError{key: key}
	}
	return &v, nil
}

// intParam returns 0 for a missing parameter so that the service applies its default.
func intParam(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{key: key}
	}
	return v, nil
}

type paramError struct {
	key string
}

func (e *paramError) Error() string {
	return "invalid query parameter " + e.key
}

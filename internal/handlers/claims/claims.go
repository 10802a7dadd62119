package claims

//go:generate mockgen -source=claims.go -destination=mock_claims.go -package=claims

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/mileage/internal/domain"
	"github.com/GlebRadaev/mileage/internal/dto"
	"github.com/GlebRadaev/mileage/internal/service/claimservice"
	"github.com/GlebRadaev/mileage/pkg/auth"
	"github.com/GlebRadaev/mileage/pkg/utils"
	"github.com/GlebRadaev/mileage/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, p domain.Principal, accountID uuid.UUID, orderNumber string) (*domain.Claim, error)
	List(ctx context.Context, p domain.Principal, accountID uuid.UUID) ([]domain.Claim, error)
}

type ClaimHandler struct {
	claimService Service
}

func New(claimService Service) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
	}
}

// Register godoc
//
//	@Summary		Register a reward claim
//	@Description	Attach an order number to the account. The reward is credited once the accrual system settles the order.
//	@Tags			Claims
//	@Accept			text/plain
//	@Produce		json
//	@Param			id			path	string	true	"Account id"
//	@Param			orderNumber	body	string	true	"Order number"
//	@Security		BearerAuth
//	@Success		202	{object}	dto.GetClaimsResponseDTO	"Claim accepted for processing"
//	@Success		200	{object}	utils.Response				"Order already claimed by this account"
//	@Failure		400	{object}	utils.Response				"Empty or unreadable body"
//	@Failure		401	{object}	utils.Response				"Not authenticated"
//	@Failure		403	{object}	utils.Response				"Not the owner"
//	@Failure		404	{object}	utils.Response				"Account not found"
//	@Failure		409	{object}	utils.Response				"Order claimed by another account"
//	@Failure		422	{object}	utils.Response				"Invalid order number"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/accounts/{id}/claims [post]
func (h *ClaimHandler) Register(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithDomainError(w, domain.ErrUnauthorized)
		return
	}
	accountID, err := utils.AccountID(r)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	orderNumber := strings.TrimSpace(string(body))

	if orderNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Order number is required")
		return
	}
	if !validate.IsOrderNumber(orderNumber) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid order number")
		return
	}

	claim, err := h.claimService.Register(r.Context(), p, accountID, orderNumber)
	if err != nil {
		switch {
		case errors.Is(err, claimservice.ErrClaimExistsByAccount):
			utils.RespondWithError(w, http.StatusOK, err.Error())
		case errors.Is(err, claimservice.ErrClaimExists):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithDomainError(w, err)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, toResponse(*claim))
}

// List godoc
//
//	@Summary		List reward claims
//	@Description	Claims registered against the account, newest first.
//	@Tags			Claims
//	@Produce		json
//	@Param			id	path	string	true	"Account id"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.GetClaimsResponseDTO
//	@Success		204	{object}	utils.Response	"No claims"
//	@Failure		401	{object}	utils.Response	"Not authenticated"
//	@Failure		403	{object}	utils.Response	"Not the owner"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/accounts/{id}/claims [get]
func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		utils.RespondWithDomainError(w, domain.ErrUnauthorized)
		return
	}
	accountID, err := utils.AccountID(r)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}

	claims, err := h.claimService.List(r.Context(), p, accountID)
	if err != nil {
		utils.RespondWithDomainError(w, err)
		return
	}

	if len(claims) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
		return
	}

	response := make([]dto.GetClaimsResponseDTO, 0, len(claims))
	for _, claim := range claims {
		response = append(response, toResponse(claim))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toResponse(claim domain.Claim) dto.GetClaimsResponseDTO {
	return dto.GetClaimsResponseDTO{
		Number:     claim.OrderNumber,
		Status:     string(claim.Status),
		Accrual:    claim.Accrual,
		UploadedAt: claim.UploadedAt.Format(time.RFC3339),
	}
}

package dto

import (
	"time"

	"github.com/GlebRadaev/mileage/internal/domain"
)

type CreateAccountRequestDTO struct {
	OwnerKind      string `json:"owner_kind" example:"customer"`
	OwnerID        string `json:"owner_id" example:"cust-42"`
	InitialBalance int64  `json:"initial_balance" example:"0"`
}

type SetStatusRequestDTO struct {
	Status string `json:"status" example:"frozen"`
}

type OwnerDTO struct {
	Kind string `json:"kind" example:"customer"`
	ID   string `json:"id" example:"cust-42"`
}

type AccountResponseDTO struct {
	ID        string     `json:"id" example:"3f9a1c9e-6d0e-4d55-9a53-0f7b0a2b1c11"`
	Owner     OwnerDTO   `json:"owner"`
	Balance   int64      `json:"balance" example:"1500"`
	Status    string     `json:"status" example:"active"`
	Version   int64      `json:"version" example:"7"`
	CreatedAt time.Time  `json:"created_at" example:"2024-03-01T10:00:00Z"`
	UpdatedAt time.Time  `json:"updated_at" example:"2024-03-02T10:00:00Z"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type SearchAccountsResponseDTO struct {
	Data       []AccountResponseDTO `json:"data"`
	Pagination domain.Pagination    `json:"pagination"`
}

func NewAccountResponse(a *domain.Account) AccountResponseDTO {
	return AccountResponseDTO{
		ID:        a.ID.String(),
		Owner:     OwnerDTO{Kind: string(a.Owner.Kind), ID: a.Owner.ID},
		Balance:   a.Balance,
		Status:    string(a.Status),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		DeletedAt: a.DeletedAt,
	}
}

func NewSearchAccountsResponse(page *domain.AccountPage) SearchAccountsResponseDTO {
	data := make([]AccountResponseDTO, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, NewAccountResponse(&page.Data[i]))
	}
	return SearchAccountsResponseDTO{Data: data, Pagination: page.Pagination}
}

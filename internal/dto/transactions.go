package dto

import (
	"time"

	"github.com/GlebRadaev/mileage/internal/domain"
)

type SubmitTransactionRequestDTO struct {
	Type              string `json:"type" example:"spend"`
	Amount            int64  `json:"amount" example:"400"`
	BusinessStatus    string `json:"business_status,omitempty" example:"applied"`
	Reason            string `json:"reason,omitempty" example:"goodwill"`
	EvidenceReference string `json:"evidence_reference,omitempty" example:"checkout-771"`
}

func (d SubmitTransactionRequestDTO) Request() domain.TransactionRequest {
	return domain.TransactionRequest{
		Type:              domain.TxType(d.Type),
		Amount:            d.Amount,
		BusinessStatus:    d.BusinessStatus,
		Reason:            d.Reason,
		EvidenceReference: d.EvidenceReference,
	}
}

type TransactionResponseDTO struct {
	ID                string    `json:"id" example:"9d3c0f5e-2a0b-4c8e-8d1f-5c3e9b7a1e22"`
	AccountID         string    `json:"account_id" example:"3f9a1c9e-6d0e-4d55-9a53-0f7b0a2b1c11"`
	Type              string    `json:"type" example:"spend"`
	Amount            int64     `json:"amount" example:"400"`
	BusinessStatus    string    `json:"business_status" example:"applied"`
	Reason            string    `json:"reason,omitempty"`
	EvidenceReference string    `json:"evidence_reference,omitempty" example:"checkout-771"`
	BalanceAfter      int64     `json:"balance_after" example:"1100"`
	AccountVersion    int64     `json:"account_version" example:"8"`
	CreatedAt         time.Time `json:"created_at" example:"2024-03-02T10:00:00Z"`
}

func NewTransactionResponse(tx *domain.Transaction) TransactionResponseDTO {
	return TransactionResponseDTO{
		ID:                tx.ID.String(),
		AccountID:         tx.AccountID.String(),
		Type:              string(tx.Type),
		Amount:            tx.Amount,
		BusinessStatus:    tx.BusinessStatus,
		Reason:            tx.Reason,
		EvidenceReference: tx.EvidenceReference,
		BalanceAfter:      tx.BalanceAfter,
		AccountVersion:    tx.AccountVersion,
		CreatedAt:         tx.CreatedAt,
	}
}

package models

import (
	"time"
)

type HMOProvider struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;unique;not null" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ClaimStatusSubmitted = "SUBMITTED"
	ClaimStatusApproved  = "APPROVED"
	ClaimStatusDenied    = "DENIED"
)

// HMOClaim is filed when an HMO-paid transaction is marked paid. ReferenceNo
// is the claim number quoted to the provider.
type HMOClaim struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	ReferenceNo   string             `gorm:"size:64;unique;not null" json:"reference_no"`
	ProviderID    uint               `gorm:"index;not null" json:"provider_id"`
	Provider      HMOProvider        `gorm:"foreignKey:ProviderID" json:"provider"`
	TransactionID uint               `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Transaction   BillingTransaction `gorm:"foreignKey:TransactionID" json:"transaction"`
	Amount        float64            `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        string             `gorm:"type:enum('SUBMITTED','APPROVED','DENIED');default:'SUBMITTED'" json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

package handler

import (
	"errors"
	"strings"

	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncDoctorPayment accrues the doctor's share for a paid transaction.
// Idempotent: one payment row per transaction.
func syncDoctorPayment(txn *models.BillingTransaction) error {
	if txn.DoctorID == nil {
		return nil
	}

	var existing models.DoctorPayment
	err := database.DB.Where("transaction_id = ?", txn.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	payment := models.DoctorPayment{
		DoctorID:      *txn.DoctorID,
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		Status:        models.DoctorPaymentPending,
	}
	return database.DB.Create(&payment).Error
}

// fileHMOClaim files a claim for an HMO-paid transaction. The provider comes
// from the request's name when given, falling back to the patient's enrolled
// provider. Idempotent per transaction.
func fileHMOClaim(txn *models.BillingTransaction, providerName string) error {
	var existing models.HMOClaim
	err := database.DB.Where("transaction_id = ?", txn.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	provider, err := matchHMOProvider(providerName, txn.Patient.HMOProvider)
	if err != nil {
		return err
	}

	claim := models.HMOClaim{
		ReferenceNo:   uuid.New().String(),
		ProviderID:    provider.ID,
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		Status:        models.ClaimStatusSubmitted,
	}
	return database.DB.Create(&claim).Error
}

// matchHMOProvider resolves a provider by normalized name: exact first, then
// substring either way. Provider names arrive hand-typed from HMO statements,
// so "MAXICARE Healthcare Corp." must still land on Maxicare.
func matchHMOProvider(name string, enrolled *models.HMOProvider) (*models.HMOProvider, error) {
	if name == "" {
		if enrolled != nil {
			return enrolled, nil
		}
		return nil, errors.New("no HMO provider given and patient has none enrolled")
	}

	var providers []models.HMOProvider
	if err := database.DB.Where("is_active = ?", true).Find(&providers).Error; err != nil {
		return nil, err
	}

	needle := normalizeProviderName(name)
	for i := range providers {
		if normalizeProviderName(providers[i].Name) == needle {
			return &providers[i], nil
		}
	}
	for i := range providers {
		candidate := normalizeProviderName(providers[i].Name)
		if strings.Contains(needle, candidate) || strings.Contains(candidate, needle) {
			return &providers[i], nil
		}
	}
	if enrolled != nil {
		return enrolled, nil
	}
	return nil, errors.New("no matching HMO provider for " + name)
}

func normalizeProviderName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

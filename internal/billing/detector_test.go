package billing

import (
	"testing"

	"clinic-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
)

func consultItem(total float64) models.BillingTransactionItem {
	return models.BillingTransactionItem{
		ItemType:   models.ItemTypeConsultation,
		Name:       "Consultation",
		Quantity:   1,
		UnitPrice:  total,
		TotalPrice: total,
	}
}

func labItem(total float64) models.BillingTransactionItem {
	return models.BillingTransactionItem{
		ItemType:   models.ItemTypeLaboratory,
		Name:       "Urinalysis",
		Quantity:   1,
		UnitPrice:  total,
		TotalPrice: total,
	}
}

func TestNeedsItemization_LinkedWithoutConsultation(t *testing.T) {
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 500.00}
	linked := []models.Appointment{{TypeCode: models.ApptTypeConsultation, Price: 500.00}}

	assert.True(t, NeedsItemization(policy, txn, nil, linked))
	assert.True(t, NeedsItemization(policy, txn, []models.BillingTransactionItem{labItem(500.00)}, linked))
}

func TestNeedsItemization_TrustedSingleConsultation(t *testing.T) {
	// Scenario: amount 350, one consultation item at 350, appointment has no
	// lab records. Nothing to repair.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 350.00}
	items := []models.BillingTransactionItem{consultItem(350.00)}
	linked := []models.Appointment{{TypeCode: models.ApptTypeConsultation, Price: 350.00}}

	assert.False(t, NeedsItemization(policy, txn, items, linked))
}

func TestNeedsItemization_SingleItemAbsorbedLabCharges(t *testing.T) {
	// One item soaked up the whole payment but the amount is far above the
	// base consultation price: lab charges were never itemized.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 825.00}
	items := []models.BillingTransactionItem{consultItem(825.00)}
	linked := []models.Appointment{{TypeCode: models.ApptTypeManualTransaction, Price: 825.00}}

	assert.True(t, NeedsItemization(policy, txn, items, linked))
}

func TestNeedsItemization_LabRecordsWithoutLabItem(t *testing.T) {
	// The amount matches the base price exactly, but the appointment carries
	// lab test records that never made it onto the transaction.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 350.00}
	items := []models.BillingTransactionItem{consultItem(350.00)}
	linked := []models.Appointment{{
		TypeCode: models.ApptTypeConsultation,
		Price:    350.00,
		LabTests: []models.AppointmentLabTest{{LabTestID: 1, UnitPrice: 140.00}},
	}}

	assert.True(t, NeedsItemization(policy, txn, items, linked))

	// Same trigger from the denormalized lab amount alone.
	linked[0].LabTests = nil
	linked[0].LabAmount = 140.00
	assert.True(t, NeedsItemization(policy, txn, items, linked))
}

func TestNeedsItemization_LabItemAlreadyPresent(t *testing.T) {
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 490.00}
	items := []models.BillingTransactionItem{consultItem(350.00), labItem(140.00)}
	linked := []models.Appointment{{
		TypeCode:  models.ApptTypeConsultation,
		Price:     490.00,
		LabAmount: 140.00,
	}}

	assert.False(t, NeedsItemization(policy, txn, items, linked))
}

func TestNeedsItemization_NoLinks(t *testing.T) {
	// A manual transaction with no appointment backing keeps whatever the
	// cashier entered.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 490.00}
	items := []models.BillingTransactionItem{consultItem(490.00)}

	assert.False(t, NeedsItemization(policy, txn, items, nil))
}

func TestNeedsItemization_NoItemsAtAll(t *testing.T) {
	// A paid amount with nothing recorded behind it must be rebuilt even
	// when no appointment link exists; synthesis then runs the amount-only
	// fallback.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 490.00}

	assert.True(t, NeedsItemization(policy, txn, nil, nil))

	// Same when links exist but every linked appointment has vanished.
	assert.True(t, NeedsItemization(policy, txn, []models.BillingTransactionItem{}, nil))

	// A zero-amount transaction has nothing to account for.
	empty := &models.BillingTransaction{Amount: 0.00}
	assert.False(t, NeedsItemization(policy, empty, nil, nil))
}

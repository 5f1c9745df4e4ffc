package billing

import (
	"testing"
	"time"

	"clinic-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemTotal(items []models.BillingTransactionItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.TotalPrice
	}
	return sum
}

func testPatient() models.Patient {
	return models.Patient{FirstName: "Maria", LastName: "Santos"}
}

func TestBuildItemPlan_ManualAppointmentInference(t *testing.T) {
	// Amount 825 against a manual-transaction appointment with no lab
	// records: consultation 350 plus the full inferred catalog.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{ID: 7, Amount: 825.00, Patient: testPatient()}
	linked := []models.Appointment{{
		TypeCode:        models.ApptTypeManualTransaction,
		Price:           825.00,
		Patient:         testPatient(),
		AppointmentDate: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}}

	plan := BuildItemPlan(policy, txn, linked)

	require.Len(t, plan.Items, 4)
	assert.Equal(t, models.ItemTypeConsultation, plan.Items[0].ItemType)
	assert.Equal(t, "Manual Transaction", plan.Items[0].Name)
	assert.InDelta(t, 350.00, plan.Items[0].TotalPrice, 0.001)
	assert.Equal(t, "Complete Blood Count", plan.Items[1].Name)
	assert.InDelta(t, 245.00, plan.Items[1].TotalPrice, 0.001)
	assert.Equal(t, "Urinalysis", plan.Items[2].Name)
	assert.InDelta(t, 140.00, plan.Items[2].TotalPrice, 0.001)
	assert.Equal(t, "Fecalysis", plan.Items[3].Name)
	assert.InDelta(t, 90.00, plan.Items[3].TotalPrice, 0.001)

	assert.InDelta(t, 825.00, plan.Subtotal, 0.001)
	assert.InDelta(t, 825.00, plan.FinalAmount, 0.001)
	assert.InDelta(t, 825.00, itemTotal(plan.Items), 0.001)

	// Every item the synthesizer produces satisfies total == qty * unit.
	for _, it := range plan.Items {
		assert.InDelta(t, float64(it.Quantity)*it.UnitPrice, it.TotalPrice, 0.001)
	}
}

func TestBuildItemPlan_NoLinksFallback(t *testing.T) {
	// No appointment backing, amount 490: fixed consultation plus whatever
	// the catalog can explain of the remainder.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{ID: 3, Amount: 490.00, Patient: testPatient()}

	plan := BuildItemPlan(policy, txn, nil)

	require.Len(t, plan.Items, 2)
	assert.Equal(t, models.ItemTypeConsultation, plan.Items[0].ItemType)
	assert.InDelta(t, 350.00, plan.Items[0].TotalPrice, 0.001)
	assert.Equal(t, "Urinalysis", plan.Items[1].Name)
	assert.InDelta(t, 140.00, plan.Items[1].TotalPrice, 0.001)
	assert.InDelta(t, 490.00, plan.FinalAmount, 0.001)
}

func TestBuildItemPlan_SeniorDiscount(t *testing.T) {
	// Senior citizen paying cash: 20% off the synthesized subtotal.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{
		ID:            9,
		Amount:        825.00,
		PaymentMethod: models.PaymentCash,
		SeniorCitizen: true,
		Patient:       testPatient(),
	}
	linked := []models.Appointment{{
		TypeCode: models.ApptTypeManualTransaction,
		Price:    825.00,
		Patient:  testPatient(),
	}}

	plan := BuildItemPlan(policy, txn, linked)

	assert.InDelta(t, 825.00, plan.Subtotal, 0.001)
	assert.InDelta(t, 165.00, plan.SeniorDiscount, 0.001)
	assert.InDelta(t, 660.00, plan.FinalAmount, 0.001)
}

func TestBuildItemPlan_SeniorDiscountSkippedForHMO(t *testing.T) {
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{
		Amount:        825.00,
		PaymentMethod: models.PaymentHMO,
		SeniorCitizen: true,
		Patient:       testPatient(),
	}
	linked := []models.Appointment{{
		TypeCode: models.ApptTypeManualTransaction,
		Price:    825.00,
		Patient:  testPatient(),
	}}

	plan := BuildItemPlan(policy, txn, linked)

	assert.InDelta(t, 0.00, plan.SeniorDiscount, 0.001)
	assert.InDelta(t, 825.00, plan.FinalAmount, 0.001)
}

func TestBuildItemPlan_AuthoritativeLabRecords(t *testing.T) {
	// Recorded lab tests are used as-is; no inference happens when they
	// account for the whole price.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{ID: 4, Amount: 735.00, Patient: testPatient()}
	linked := []models.Appointment{{
		TypeCode: models.ApptTypeConsultation,
		Price:    735.00,
		Patient:  testPatient(),
		LabTests: []models.AppointmentLabTest{
			{LabTestID: 1, UnitPrice: 245.00, LabTest: models.LabTest{ID: 1, Name: "Complete Blood Count", DefaultPrice: 245.00}},
			{LabTestID: 2, UnitPrice: 0, LabTest: models.LabTest{ID: 2, Name: "Urinalysis", DefaultPrice: 140.00}},
		},
	}}

	plan := BuildItemPlan(policy, txn, linked)

	require.Len(t, plan.Items, 3)
	assert.Equal(t, "Complete Blood Count", plan.Items[1].Name)
	// Zero per-appointment override falls back to the catalog price.
	assert.InDelta(t, 140.00, plan.Items[2].TotalPrice, 0.001)
	assert.InDelta(t, 735.00, plan.FinalAmount, 0.001)
}

func TestBuildItemPlan_PartialLabRecordsTriggerInference(t *testing.T) {
	// Price implies more lab value than the records show: the gap runs
	// through the catalog.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 825.00, Patient: testPatient()}
	linked := []models.Appointment{{
		TypeCode: models.ApptTypeConsultation,
		Price:    825.00,
		Patient:  testPatient(),
		LabTests: []models.AppointmentLabTest{
			{LabTestID: 1, UnitPrice: 245.00, LabTest: models.LabTest{ID: 1, Name: "Complete Blood Count", DefaultPrice: 245.00}},
		},
	}}

	plan := BuildItemPlan(policy, txn, linked)

	// 825 - 350 - 245 = 230 remaining: Urinalysis fits, then 90 for
	// Fecalysis.
	require.Len(t, plan.Items, 4)
	assert.Equal(t, "Urinalysis", plan.Items[2].Name)
	assert.Equal(t, "Fecalysis", plan.Items[3].Name)
	assert.InDelta(t, 825.00, plan.FinalAmount, 0.001)
}

func TestBuildItemPlan_GenericRemainder(t *testing.T) {
	// A leftover the catalog cannot explain becomes one generic lab line,
	// never silently dropped.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 351.00, Patient: testPatient()}

	plan := BuildItemPlan(policy, txn, nil)

	require.Len(t, plan.Items, 2)
	assert.Equal(t, "Laboratory Tests", plan.Items[1].Name)
	assert.Equal(t, models.ItemTypeLaboratory, plan.Items[1].ItemType)
	assert.InDelta(t, 1.00, plan.Items[1].TotalPrice, 0.001)
}

func TestBuildItemPlan_OneConsultationPerLinkedAppointment(t *testing.T) {
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 700.00, Patient: testPatient()}
	linked := []models.Appointment{
		{TypeCode: models.ApptTypeConsultation, Price: 350.00, Patient: testPatient()},
		{TypeCode: models.ApptTypeFollowUp, Price: 350.00, Patient: testPatient()},
	}

	plan := BuildItemPlan(policy, txn, linked)

	var consultations int
	for _, it := range plan.Items {
		if it.ItemType == models.ItemTypeConsultation {
			consultations++
		}
	}
	assert.Equal(t, 2, consultations)
	assert.InDelta(t, 700.00, plan.FinalAmount, 0.001)
}

func TestBuildItemPlan_ThenDetectorSettles(t *testing.T) {
	// Reconciliation is idempotent: the synthesized item set passes the
	// detector, so a second run is a no-op.
	policy := DefaultPolicy()
	txn := &models.BillingTransaction{Amount: 825.00, Patient: testPatient()}
	linked := []models.Appointment{{
		TypeCode: models.ApptTypeManualTransaction,
		Price:    825.00,
		Patient:  testPatient(),
	}}

	plan := BuildItemPlan(policy, txn, linked)
	txn.Amount = plan.FinalAmount

	assert.False(t, NeedsItemization(policy, txn, plan.Items, linked))

	// And rebuilding anyway produces the identical item set.
	again := BuildItemPlan(policy, txn, linked)
	require.Equal(t, len(plan.Items), len(again.Items))
	for i := range plan.Items {
		assert.Equal(t, plan.Items[i].Name, again.Items[i].Name)
		assert.InDelta(t, plan.Items[i].TotalPrice, again.Items[i].TotalPrice, 0.001)
	}
}

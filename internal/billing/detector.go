package billing

import (
	"clinic-backoffice/internal/models"
)

// NeedsItemization decides whether a transaction's stored line items can be
// trusted or must be rebuilt. It is deterministic and side-effect-free; all
// repair work happens in the synthesizer, and only when this returns true.
//
// The checks run in a fixed order and the first hit wins. The ordering is
// load-bearing: collapsing the overlapping conditions changes which
// transactions get re-itemized, so it stays as a priority list.
func NeedsItemization(policy PricingPolicy, txn *models.BillingTransaction, items []models.BillingTransactionItem, linked []models.Appointment) bool {
	hasConsultation := false
	hasLaboratory := false
	for _, it := range items {
		switch it.ItemType {
		case models.ItemTypeConsultation:
			hasConsultation = true
		case models.ItemTypeLaboratory:
			hasLaboratory = true
		}
	}

	// A paid amount with no lines at all cannot be trusted, linked or not.
	// Without an appointment the synthesizer takes its amount-only path.
	if len(items) == 0 && txn.Amount > policy.Tolerance {
		return true
	}

	// A transaction tied to a real appointment must always carry a
	// consultation line. linked holds the appointments that still exist; a
	// link whose appointment has vanished gives the synthesizer nothing to
	// build a consultation line from, so it does not count here.
	if !hasConsultation && len(linked) > 0 {
		return true
	}

	// A single item absorbing the whole payment is the classic symptom of
	// un-itemized data entry: the aggregate amount was stored as one line.
	if len(items) == 1 && policy.AmountsEqual(items[0].TotalPrice, txn.Amount) && len(linked) > 0 {
		appt := linked[0]
		base := policy.ConsultationPrice(appt.TypeCode, appt.Price)

		if txn.Amount-base > policy.Tolerance && !hasLaboratory {
			return true
		}
		if (len(appt.LabTests) > 0 || appt.LabAmount > policy.Tolerance) && !hasLaboratory {
			return true
		}
	}

	return false
}

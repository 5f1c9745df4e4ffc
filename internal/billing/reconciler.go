package billing

import (
	"errors"
	"fmt"

	"clinic-backoffice/internal/models"
	"clinic-backoffice/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrTransactionNotFound means the caller passed an id with no row behind it.
	ErrTransactionNotFound = errors.New("billing transaction not found")
	// ErrReconcileFailed wraps any storage failure during reconciliation. The
	// enclosing DB transaction is rolled back in full, so a retry re-runs the
	// whole procedure, which is idempotent end-to-end.
	ErrReconcileFailed = errors.New("reconciliation failed")
)

// Reconciler repairs a billing transaction's line items so they account for
// the recorded amount: it resolves the appointment links, decides whether the
// stored items are trustworthy, and rebuilds them when they are not.
type Reconciler struct {
	db     *gorm.DB
	policy PricingPolicy
	log    *logger.Logger
}

func NewReconciler(db *gorm.DB, policy PricingPolicy, log *logger.Logger) *Reconciler {
	return &Reconciler{db: db, policy: policy, log: log}
}

// Reconcile loads the transaction, row-locked, and returns it with a
// trustworthy item set. The delete-then-recreate sequence runs inside one DB
// transaction; nothing partial ever persists.
func (r *Reconciler) Reconcile(transactionID uint) (*models.BillingTransaction, error) {
	var result *models.BillingTransaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var txn models.BillingTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Patient").
			First(&txn, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		links, err := r.resolveLinks(tx, &txn)
		if err != nil {
			return err
		}

		var items []models.BillingTransactionItem
		if err := tx.Where("transaction_id = ?", txn.ID).Find(&items).Error; err != nil {
			return err
		}

		linked, err := r.loadLinkedAppointments(tx, links)
		if err != nil {
			return err
		}

		if !NeedsItemization(r.policy, &txn, items, linked) {
			txn.Items = items
			txn.Links = links
			result = &txn
			return nil
		}

		plan := BuildItemPlan(r.policy, &txn, linked)

		if err := tx.Where("transaction_id = ?", txn.ID).
			Delete(&models.BillingTransactionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&plan.Items).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"itemized": true,
			"amount":   plan.FinalAmount,
		}
		if txn.SeniorCitizen {
			updates["senior_discount_amount"] = plan.SeniorDiscount
			updates["senior_discount_percent"] = r.policy.SeniorDiscountRate * 100
		}
		if err := tx.Model(&txn).Updates(updates).Error; err != nil {
			return err
		}

		r.log.WithFields(map[string]interface{}{
			"transaction_id": txn.ID,
			"transaction_no": txn.TransactionNo,
			"item_count":     len(plan.Items),
			"subtotal":       plan.Subtotal,
			"final_amount":   plan.FinalAmount,
		}).Info("Rebuilt billing line items")

		txn.Items = plan.Items
		txn.Links = links
		txn.Itemized = true
		txn.Amount = plan.FinalAmount
		txn.SeniorDiscountAmount = plan.SeniorDiscount
		result = &txn
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrReconcileFailed, err)
	}
	return result, nil
}

// resolveLinks returns the transaction's appointment links, creating them
// when missing. Existing links are never mutated or removed. An empty result
// is valid: the transaction has no clinical appointment backing and the
// synthesizer falls back to the amount-only path.
func (r *Reconciler) resolveLinks(tx *gorm.DB, txn *models.BillingTransaction) ([]models.AppointmentBillingLink, error) {
	var links []models.AppointmentBillingLink
	if err := tx.Where("transaction_id = ?", txn.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) > 0 {
		return links, nil
	}

	appt, err := r.findCandidateAppointment(tx, txn)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, nil
	}

	link := models.AppointmentBillingLink{
		AppointmentID: appt.ID,
		TransactionID: txn.ID,
		TypeCode:      appt.TypeCode,
		Price:         appt.Price,
		Status:        models.LinkStatusPending,
	}
	if err := tx.Create(&link).Error; err != nil {
		return nil, err
	}
	return []models.AppointmentBillingLink{link}, nil
}

// findCandidateAppointment prefers the transaction's direct appointment
// reference; failing that it falls back to the patient+date heuristic: the
// most recently created appointment for the same patient on the transaction's
// date that a billing flow has already claimed.
func (r *Reconciler) findCandidateAppointment(tx *gorm.DB, txn *models.BillingTransaction) (*models.Appointment, error) {
	if txn.AppointmentID != nil {
		var appt models.Appointment
		err := tx.First(&appt, *txn.AppointmentID).Error
		if err == nil {
			return &appt, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		r.log.WithField("appointment_id", *txn.AppointmentID).
			Warn("Transaction references a missing appointment, trying date match")
	}

	date := txn.TransactionDate
	if date.IsZero() {
		date = txn.CreatedAt
	}

	var appt models.Appointment
	err := tx.Where("patient_id = ? AND DATE(appointment_date) = ? AND billing_status = ?",
		txn.PatientID, date.Format("2006-01-02"), models.BillingStatusInTransaction).
		Order("created_at desc").
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

// loadLinkedAppointments fetches each linked appointment fresh, lab tests
// included. A stale eager-loaded relationship is exactly what got the data
// into this state, so nothing cached is trusted here. Links whose appointment
// has since vanished are skipped with a warning.
func (r *Reconciler) loadLinkedAppointments(tx *gorm.DB, links []models.AppointmentBillingLink) ([]models.Appointment, error) {
	var linked []models.Appointment
	for _, link := range links {
		var appt models.Appointment
		err := tx.Preload("Patient").Preload("LabTests.LabTest").First(&appt, link.AppointmentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				r.log.WithField("appointment_id", link.AppointmentID).
					Warn("Linked appointment no longer exists, skipping")
				continue
			}
			return nil, err
		}
		linked = append(linked, appt)
	}
	return linked, nil
}

package billing

import (
	"fmt"

	"clinic-backoffice/internal/models"
)

// ItemPlan is the full replacement item set for a transaction, plus the
// monetary fields that must be persisted with it.
type ItemPlan struct {
	Items          []models.BillingTransactionItem
	Subtotal       float64
	SeniorDiscount float64
	FinalAmount    float64
}

// BuildItemPlan reconstructs the consultation and laboratory lines for a
// transaction. Pure: it reads the transaction and its linked appointments
// (lab tests preloaded) and computes the replacement set without touching
// storage.
//
// With linked appointments, each contributes one consultation line at its
// base price plus its recorded lab tests; any price remainder the records do
// not explain is attributed greedily to the known-test catalog, and whatever
// is still left becomes one generic lab line. Without links the transaction
// is treated as a walk-in: a fixed consultation charge, with the rest of the
// paid amount run through the same lab inference.
func BuildItemPlan(policy PricingPolicy, txn *models.BillingTransaction, linked []models.Appointment) ItemPlan {
	var items []models.BillingTransactionItem

	if len(linked) > 0 {
		for i := range linked {
			appt := &linked[i]
			base := policy.ConsultationPrice(appt.TypeCode, appt.Price)
			items = append(items, models.BillingTransactionItem{
				TransactionID: txn.ID,
				ItemType:      models.ItemTypeConsultation,
				Name:          appt.TypeLabel(),
				Description:   consultationDescription(appt),
				Quantity:      1,
				UnitPrice:     base,
				TotalPrice:    base,
			})

			remaining := appt.Price - base
			for j := range appt.LabTests {
				lt := &appt.LabTests[j]
				price := lt.UnitPrice
				if price <= 0 {
					price = lt.LabTest.DefaultPrice
				}
				labTestID := lt.LabTestID
				items = append(items, models.BillingTransactionItem{
					TransactionID: txn.ID,
					ItemType:      models.ItemTypeLaboratory,
					Name:          lt.LabTest.Name,
					Quantity:      1,
					UnitPrice:     price,
					TotalPrice:    price,
					LabTestID:     &labTestID,
				})
				remaining -= price
			}

			items = append(items, inferLabItems(policy, txn.ID, remaining)...)
		}
	} else {
		base := policy.ManualConsultationPrice
		items = append(items, models.BillingTransactionItem{
			TransactionID: txn.ID,
			ItemType:      models.ItemTypeConsultation,
			Name:          "Consultation",
			Description:   txn.Patient.FullName(),
			Quantity:      1,
			UnitPrice:     base,
			TotalPrice:    base,
		})
		items = append(items, inferLabItems(policy, txn.ID, txn.Amount-base)...)
	}

	var subtotal float64
	for _, it := range items {
		subtotal += it.TotalPrice
	}

	var discount float64
	if txn.SeniorCitizen && txn.PaymentMethod != models.PaymentHMO {
		discount = subtotal * policy.SeniorDiscountRate
	}

	return ItemPlan{
		Items:          items,
		Subtotal:       subtotal,
		SeniorDiscount: discount,
		FinalAmount:    subtotal - discount,
	}
}

// inferLabItems turns an unexplained price remainder into lab lines: known
// catalog tests first, then one generic line for anything past the tolerance.
func inferLabItems(policy PricingPolicy, txnID uint, remaining float64) []models.BillingTransactionItem {
	if remaining <= policy.Tolerance {
		return nil
	}

	var items []models.BillingTransactionItem
	matched, leftover := policy.MatchLabCatalog(remaining)
	for _, entry := range matched {
		item := models.BillingTransactionItem{
			TransactionID: txnID,
			ItemType:      models.ItemTypeLaboratory,
			Name:          entry.Name,
			Quantity:      1,
			UnitPrice:     entry.Price,
			TotalPrice:    entry.Price,
		}
		if entry.LabTestID != 0 {
			id := entry.LabTestID
			item.LabTestID = &id
		}
		items = append(items, item)
	}

	if leftover > policy.Tolerance {
		items = append(items, models.BillingTransactionItem{
			TransactionID: txnID,
			ItemType:      models.ItemTypeLaboratory,
			Name:          "Laboratory Tests",
			Quantity:      1,
			UnitPrice:     leftover,
			TotalPrice:    leftover,
		})
	}

	return items
}

func consultationDescription(appt *models.Appointment) string {
	return fmt.Sprintf("%s - %s", appt.Patient.FullName(), appt.AppointmentDate.Format("Jan 2, 2006 3:04 PM"))
}

package billing

import (
	"clinic-backoffice/internal/models"
)

// LabCatalogEntry is one known lab test the synthesizer may infer from an
// unexplained remainder. Entries are walked in slice order.
type LabCatalogEntry struct {
	LabTestID uint
	Code      string
	Name      string
	Price     float64
}

// PricingPolicy carries every price rule the reconciler applies. It is built
// once at startup from config plus the inferable rows of the lab catalog, so
// deployments can change prices without a rebuild.
type PricingPolicy struct {
	ManualConsultationPrice float64
	ManualTypeCode          string
	SeniorDiscountRate      float64
	Tolerance               float64
	// ConsultationRates keys the standard consultation fee by appointment
	// type. Types not listed fall back to the appointment's raw price.
	ConsultationRates map[string]float64
	LabCatalog        []LabCatalogEntry
}

// DefaultPolicy returns the pricing rules the clinic has run on since launch.
func DefaultPolicy() PricingPolicy {
	return PricingPolicy{
		ManualConsultationPrice: 350.00,
		ManualTypeCode:          models.ApptTypeManualTransaction,
		SeniorDiscountRate:      0.20,
		Tolerance:               0.01,
		ConsultationRates: map[string]float64{
			models.ApptTypeConsultation: 350.00,
			models.ApptTypeFollowUp:     350.00,
			models.ApptTypeCheckup:      500.00,
		},
		LabCatalog: []LabCatalogEntry{
			{Code: "CBC", Name: "Complete Blood Count", Price: 245.00},
			{Code: "UA", Name: "Urinalysis", Price: 140.00},
			{Code: "FA", Name: "Fecalysis", Price: 90.00},
		},
	}
}

// AmountsEqual reports whether two amounts match within the policy tolerance.
func (p PricingPolicy) AmountsEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= p.Tolerance
}

// ConsultationPrice is the base consultation charge for an appointment: the
// type-driven rate, overridden to the fixed manual rate when the appointment
// is a manual transaction whose raw price is at or above that rate. Manual
// transactions store the whole payment in Price, so the raw value cannot be
// trusted as a consultation fee; for other types the raw price may include
// lab charges on top of the consultation.
func (p PricingPolicy) ConsultationPrice(typeCode string, rawPrice float64) float64 {
	if typeCode == p.ManualTypeCode && rawPrice >= p.ManualConsultationPrice {
		return p.ManualConsultationPrice
	}
	if rate, ok := p.ConsultationRates[typeCode]; ok {
		return rate
	}
	return rawPrice
}

// MatchLabCatalog greedily attributes a remaining lab amount to known tests.
// Each catalog entry is considered once, in priority order, and taken when
// its price fits in what is left. The leftover is whatever the catalog could
// not explain; callers emit a generic lab line for it when it exceeds the
// tolerance. Greedy, not optimal: overlapping subset sums resolve to the
// earliest entries.
func (p PricingPolicy) MatchLabCatalog(remaining float64) ([]LabCatalogEntry, float64) {
	var matched []LabCatalogEntry
	for _, entry := range p.LabCatalog {
		if entry.Price <= remaining+p.Tolerance {
			matched = append(matched, entry)
			remaining -= entry.Price
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return matched, remaining
}

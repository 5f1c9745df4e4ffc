package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsultationPrice(t *testing.T) {
	policy := DefaultPolicy()

	// Manual transactions store the whole payment in the price column, so
	// anything at or above the fixed rate collapses to it.
	assert.Equal(t, 350.00, policy.ConsultationPrice("MANUAL_TRANSACTION", 825.00))
	assert.Equal(t, 350.00, policy.ConsultationPrice("MANUAL_TRANSACTION", 350.00))

	// Below the fixed rate the raw price stands.
	assert.Equal(t, 300.00, policy.ConsultationPrice("MANUAL_TRANSACTION", 300.00))

	// Scheduled types use their standard rate even when the appointment
	// price carries lab charges on top.
	assert.Equal(t, 350.00, policy.ConsultationPrice("CONSULTATION", 735.00))
	assert.Equal(t, 350.00, policy.ConsultationPrice("FOLLOW_UP", 825.00))
	assert.Equal(t, 500.00, policy.ConsultationPrice("CHECKUP", 500.00))

	// Unknown types fall back to the raw price.
	assert.Equal(t, 600.00, policy.ConsultationPrice("PROCEDURE", 600.00))
}

func TestAmountsEqual(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.AmountsEqual(100.00, 100.00))
	assert.True(t, policy.AmountsEqual(100.00, 100.01))
	assert.True(t, policy.AmountsEqual(100.01, 100.00))
	assert.False(t, policy.AmountsEqual(100.00, 100.02))
	assert.False(t, policy.AmountsEqual(100.00, 99.50))
}

func TestMatchLabCatalog_ExactSum(t *testing.T) {
	policy := DefaultPolicy()

	matched, leftover := policy.MatchLabCatalog(475.00)

	// 475 = CBC + Urinalysis + Fecalysis, in priority order, every time.
	if assert.Len(t, matched, 3) {
		assert.Equal(t, "Complete Blood Count", matched[0].Name)
		assert.Equal(t, "Urinalysis", matched[1].Name)
		assert.Equal(t, "Fecalysis", matched[2].Name)
	}
	assert.InDelta(t, 0.0, leftover, 0.001)
}

func TestMatchLabCatalog_SingleFit(t *testing.T) {
	policy := DefaultPolicy()

	matched, leftover := policy.MatchLabCatalog(140.00)

	if assert.Len(t, matched, 1) {
		assert.Equal(t, "Urinalysis", matched[0].Name)
	}
	assert.InDelta(t, 0.0, leftover, 0.001)
}

func TestMatchLabCatalog_UnexplainedLeftover(t *testing.T) {
	policy := DefaultPolicy()

	matched, leftover := policy.MatchLabCatalog(100.00)

	if assert.Len(t, matched, 1) {
		assert.Equal(t, "Fecalysis", matched[0].Name)
	}
	assert.InDelta(t, 10.0, leftover, 0.001)
}

func TestMatchLabCatalog_NothingFits(t *testing.T) {
	policy := DefaultPolicy()

	matched, leftover := policy.MatchLabCatalog(1.00)

	assert.Empty(t, matched)
	assert.InDelta(t, 1.0, leftover, 0.001)
}

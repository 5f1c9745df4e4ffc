package handler

import (
	"testing"

	"clinic-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimedAppointment(t *testing.T) {
	unbilled := models.Appointment{ID: 1, BillingStatus: models.BillingStatusUnbilled}
	claimed := models.Appointment{ID: 2, BillingStatus: models.BillingStatusInTransaction}
	billed := models.Appointment{ID: 3, BillingStatus: models.BillingStatusBilled}

	assert.Nil(t, claimedAppointment([]models.Appointment{unbilled}))
	assert.Nil(t, claimedAppointment(nil))

	// An appointment held by another pending transaction blocks billing just
	// as a settled one does.
	got := claimedAppointment([]models.Appointment{unbilled, claimed})
	require.NotNil(t, got)
	assert.Equal(t, uint(2), got.ID)

	got = claimedAppointment([]models.Appointment{billed, unbilled})
	require.NotNil(t, got)
	assert.Equal(t, uint(3), got.ID)
}

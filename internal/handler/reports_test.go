package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2026-03-01", "2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	// End bound covers the whole last day.
	assert.Equal(t, time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC), end)
}

func TestParseDateRange_Invalid(t *testing.T) {
	_, _, err := parseDateRange("03/01/2026", "2026-03-07")
	assert.Error(t, err)

	_, _, err = parseDateRange("2026-03-01", "next week")
	assert.Error(t, err)
}

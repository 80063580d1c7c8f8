package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileTotal(t *testing.T) {
	rent := 1000.0
	detailsSum := 350.0

	// Line-item sum only: rent is re-added for display.
	display, format := ReconcileTotal(350, rent, detailsSum)
	assert.Equal(t, FormatOld, format)
	assert.Equal(t, 1350.0, display)

	// Rent-inclusive: shown unmodified.
	display, format = ReconcileTotal(1350, rent, detailsSum)
	assert.Equal(t, FormatNew, format)
	assert.Equal(t, 1350.0, display)

	// Neither: anomaly, fall back to the rent-inclusive candidate.
	display, format = ReconcileTotal(500, rent, detailsSum)
	assert.Equal(t, FormatUnknown, format)
	assert.Equal(t, 1350.0, display)
}

func TestReconcileTotal_Tolerance(t *testing.T) {
	display, format := ReconcileTotal(1350.009, 1000, 350)
	assert.Equal(t, FormatNew, format)
	assert.Equal(t, 1350.009, display)

	display, format = ReconcileTotal(350.02, 1000, 350)
	assert.Equal(t, FormatUnknown, format)
	assert.Equal(t, 1350.0, display)
}

func TestReconcileTotal_ZeroRentPrefersNew(t *testing.T) {
	// With zero rent both candidates coincide; the stored value stands.
	display, format := ReconcileTotal(350, 0, 350)
	assert.Equal(t, FormatNew, format)
	assert.Equal(t, 350.0, display)
}

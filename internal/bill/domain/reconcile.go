package domain

import "math"

// TotalFormat classifies which historical total-encoding convention a
// persisted bill total matches.
type TotalFormat string

const (
	// FormatNew means the persisted total already includes the tenant rent.
	FormatNew TotalFormat = "new"
	// FormatOld means the persisted total is the line-item sum only.
	FormatOld TotalFormat = "old"
	// FormatUnknown means neither convention matched within tolerance.
	FormatUnknown TotalFormat = "unknown"
)

// ReconcileTolerance is the currency tolerance for classifying a persisted
// total against the two historical encodings.
const ReconcileTolerance = 0.01

// ReconcileTotal classifies the persisted total against both encodings and
// returns the display total: new-format rows display unmodified, old-format
// rows get rent re-added, ambiguous rows fall back to the new-format
// candidate. The store is never migrated for this semantic change, so every
// read re-runs this deterministically.
func ReconcileTotal(persisted, rent, detailsSum float64) (float64, TotalFormat) {
	candidateNew := rent + detailsSum

	if math.Abs(persisted-candidateNew) <= ReconcileTolerance {
		return persisted, FormatNew
	}
	if math.Abs(persisted-detailsSum) <= ReconcileTolerance {
		return candidateNew, FormatOld
	}
	return candidateNew, FormatUnknown
}

package domain

import (
	"math"
	"strconv"
	"strings"
)

// MeterRow is the in-memory editing state for one meter line. The two
// override flags are independent: a manually entered usage stays coupled to
// the unit price, a manually entered amount is fully decoupled. Neither flag
// is ever persisted; only the resulting numbers reach storage.
type MeterRow struct {
	Name      string
	Kind      DetailKind
	Previous  string
	Current   string
	Usage     *float64
	Amount    *float64
	UnitPrice float64

	UsageOverridden  bool
	AmountOverridden bool
}

// Round2 rounds a currency value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SetPrevious records a previous-reading edit. Any reading edit releases
// both overrides and attempts a fresh derivation.
func (r *MeterRow) SetPrevious(raw string) {
	r.Previous = raw
	r.UsageOverridden = false
	r.AmountOverridden = false
	r.derive()
}

// SetCurrent records a current-reading edit.
func (r *MeterRow) SetCurrent(raw string) {
	r.Current = raw
	r.UsageOverridden = false
	r.AmountOverridden = false
	r.derive()
}

// SetUsage records a manual usage entry. Usage overrides stay price-coupled:
// the amount is recomputed from the entered usage.
func (r *MeterRow) SetUsage(raw string) {
	r.UsageOverridden = true
	r.AmountOverridden = false

	usage, ok := parseReading(raw)
	if !ok {
		r.Usage = nil
		r.Amount = nil
		return
	}
	r.Usage = &usage
	amount := Round2(usage * r.UnitPrice)
	r.Amount = &amount
}

// SetAmount records a manual amount entry. Usage is left exactly as-is; the
// amount is decoupled from the unit price until a reading is edited again.
func (r *MeterRow) SetAmount(raw string) {
	r.AmountOverridden = true

	amount, ok := parseReading(raw)
	if !ok {
		r.Amount = nil
		return
	}
	amount = Round2(amount)
	r.Amount = &amount
}

// SetUnitPrice applies a tariff change to the editing row. A manual amount
// is untouched; a manual usage keeps its value but reprices; otherwise the
// row is rederived from its readings.
func (r *MeterRow) SetUnitPrice(price float64) {
	r.UnitPrice = price
	if r.AmountOverridden {
		return
	}
	if r.UsageOverridden {
		if r.Usage != nil {
			amount := Round2(*r.Usage * price)
			r.Amount = &amount
		}
		return
	}
	r.derive()
}

// Derive recomputes usage and amount from the raw readings unless an
// override is active.
func (r *MeterRow) Derive() {
	if r.UsageOverridden || r.AmountOverridden {
		return
	}
	r.derive()
}

func (r *MeterRow) derive() {
	previous := 0.0
	if strings.TrimSpace(r.Previous) != "" {
		parsed, ok := parseReading(r.Previous)
		if !ok {
			r.unset()
			return
		}
		previous = parsed
	}

	current, ok := parseReading(r.Current)
	if !ok || current < previous {
		r.unset()
		return
	}

	usage := current - previous
	amount := Round2(usage * r.UnitPrice)
	r.Usage = &usage
	r.Amount = &amount
}

// unset marks the row incomplete: distinct from zero, nothing is billed
// until the readings make sense again.
func (r *MeterRow) unset() {
	r.Usage = nil
	r.Amount = nil
}

func parseReading(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

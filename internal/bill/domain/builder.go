package domain

import (
	"strings"
	"time"
)

// ExtraFee is a flat charge attached to a bill.
type ExtraFee struct {
	Name   string
	Amount float64
}

// BuildBill assembles the aggregate for one (room, month): one line item per
// meter row under its canonical name, one "extra" item per non-blank fee.
// The total is the sum of emitted amounts; rent is a tenant attribute and is
// excluded. Meter rows whose readings never produced an amount persist
// amount 0 with usage left unset.
func BuildBill(room, month string, meters []MeterRow, fees []ExtraFee) (*Bill, []BillDetail, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, nil, ErrInvalidRoom
	}
	month = strings.TrimSpace(month)
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, nil, ErrInvalidMonth
	}

	details := make([]BillDetail, 0, len(meters)+len(fees))
	position := 0

	for i := range meters {
		row := &meters[i]
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return nil, nil, ErrInvalidMeterName
		}
		if !row.Kind.Metered() {
			return nil, nil, ErrInvalidDetailKind
		}

		amount := 0.0
		if row.Amount != nil {
			amount = Round2(*row.Amount)
		}
		if amount < 0 {
			return nil, nil, ErrNegativeAmount
		}

		unitPrice := row.UnitPrice
		detail := BillDetail{
			Kind:      row.Kind,
			Name:      name,
			Previous:  parseOptional(row.Previous),
			Current:   parseOptional(row.Current),
			Usage:     row.Usage,
			UnitPrice: &unitPrice,
			Amount:    amount,
			Position:  position,
		}
		details = append(details, detail)
		position++
	}

	for _, fee := range fees {
		name := strings.TrimSpace(fee.Name)
		if name == "" {
			// Blank-named fees are dropped, not an error.
			continue
		}
		amount := Round2(fee.Amount)
		if amount < 0 {
			return nil, nil, ErrNegativeAmount
		}
		details = append(details, BillDetail{
			Kind:     KindExtra,
			Name:     name,
			Amount:   amount,
			Position: position,
		})
		position++
	}

	total := 0.0
	for i := range details {
		total += details[i].Amount
	}

	bill := &Bill{
		Room:  room,
		Month: month,
		Total: Round2(total),
	}
	return bill, details, nil
}

func parseOptional(raw string) *float64 {
	v, ok := parseReading(raw)
	if !ok {
		return nil
	}
	return &v
}

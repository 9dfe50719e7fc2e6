// Package pricing computes the total price of a selection. All
// arithmetic is decimal-exact; callers convert to floats only when
// formatting for display.
package pricing

import (
	"github.com/shopspring/decimal"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/selection"
)

// Evaluate sums option price times quantity across every category with
// a selection. Categories without a selection are skipped and their
// quantities, if any, have no effect. Quantity defaults to 1; a zero or
// negative quantity for a selected category is rejected, never clamped.
func Evaluate(categories []models.Category, sel selection.Selection, qty selection.Quantities) (decimal.Decimal, error) {
	total := decimal.Zero

	for ci := range categories {
		cat := &categories[ci]
		optionID, ok := sel[cat.ID]
		if !ok {
			continue
		}

		quantity := 1
		if q, present := qty[cat.ID]; present {
			if q < 1 {
				return decimal.Zero, apperrors.WithMessage(apperrors.ErrValidation, "quantity must be at least 1")
			}
			quantity = q
		}

		var opt *models.Option
		for oi := range cat.Options {
			if cat.Options[oi].ID == optionID {
				opt = &cat.Options[oi]
				break
			}
		}
		if opt == nil {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrValidation, "selected option does not belong to its category")
		}

		total = total.Add(opt.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}

	return total, nil
}

// FormatDisplay renders a total with its currency symbol. This is the
// only place a price leaves decimal space; a zero total still formats
// in full.
func FormatDisplay(total decimal.Decimal, currencySymbol string) string {
	return currencySymbol + total.StringFixed(2)
}

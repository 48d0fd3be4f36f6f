package extraction

import "math"

// priceTolerance is the allowed gap between a stated total and unit price
// times quantity before the total is considered inconsistent.
const priceTolerance = 0.1

// reconcileAmounts resolves role-less numeric candidates into a unit price
// and a line total. With two candidates the larger is taken as the total and
// the smaller as the unit price regardless of input order; if the pair is
// inconsistent with the quantity the total is recomputed from the unit price
// and the line is flagged low-confidence. With a single candidate it becomes
// the total and the unit price is derived by division, quantity zero falling
// back to unit price = total.
//
// This is a documented heuristic, not a guarantee: nothing structural says
// the larger value is the total, and bulk items priced per weight with
// quantity < 1 would invert it. Low-confidence lines are surfaced for manual
// review instead of being second-guessed here.
func reconcileAmounts(amounts []float64, quantity float64) (unitPrice, total float64, lowConfidence bool) {
	switch len(amounts) {
	case 0:
		return 0, 0, false
	case 1:
		total = amounts[0]
		if quantity > 0 {
			unitPrice = total / quantity
		} else {
			unitPrice = total
		}
		return round2(unitPrice), round2(total), false
	default:
		unitPrice = math.Min(amounts[0], amounts[1])
		total = math.Max(amounts[0], amounts[1])
		if quantity > 0 && math.Abs(total-unitPrice*quantity) > priceTolerance {
			total = unitPrice * quantity
			lowConfidence = true
		}
		return round2(unitPrice), round2(total), lowConfidence
	}
}

package finance

import (
	"fmt"
	"math"
)

// Business constants for the gold model. A merchant replacing a cash
// discount gives gold worth half the discount value, and buys that gold at
// a 1.177x factor (cost + admin fee + GST).
const (
	VoucherFactor = 0.5
	GoldLoading   = 1.177

	daysPerMonth = 30
	daysPerYear  = 365
)

// PerBill is the single-transaction comparison.
type PerBill struct {
	Loss         float64 `json:"loss"`
	VoucherValue float64 `json:"voucherValue"`
	GoldCost     float64 `json:"goldCost"`
	Save         float64 `json:"save"`
}

// Aggregate scales a per-bill figure across daily visits.
type Aggregate struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// Projection is an immutable snapshot of the discount-vs-gold comparison.
// It is a pure view over the business inputs and is recomputed on demand.
type Projection struct {
	PerBill  PerBill   `json:"perBill"`
	Discount Aggregate `json:"discount"`
	Gold     Aggregate `json:"gold"`
	Savings  Aggregate `json:"savings"`
}

// Project computes the full comparison for the given inputs. It is pure and
// deterministic: identical inputs produce bit-identical output. NaN inputs
// are treated as 0 so the projection stays renderable.
func Project(visits, aov, discountPercent float64) Projection {
	visits = sanitize(visits)
	aov = sanitize(aov)
	discountPercent = sanitize(discountPercent)

	lossPerBill := aov * (discountPercent / 100)
	voucherValue := lossPerBill * VoucherFactor
	goldCostPerBill := voucherValue * GoldLoading
	// The save figure has no independent computation path.
	savePerBill := lossPerBill - goldCostPerBill

	return Projection{
		PerBill: PerBill{
			Loss:         lossPerBill,
			VoucherValue: voucherValue,
			GoldCost:     goldCostPerBill,
			Save:         savePerBill,
		},
		Discount: aggregate(lossPerBill * visits),
		Gold:     aggregate(goldCostPerBill * visits),
		Savings:  aggregate(savePerBill * visits),
	}
}

func aggregate(daily float64) Aggregate {
	return Aggregate{
		Daily:   daily,
		Monthly: daily * daysPerMonth,
		Yearly:  daily * daysPerYear,
	}
}

func sanitize(n float64) float64 {
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	return n
}

// FormatINR renders a rounded rupee amount with Indian digit grouping
// (1,23,456).
func FormatINR(n float64) string {
	neg := n < 0
	v := int64(math.Round(math.Abs(n)))
	s := fmt.Sprintf("%d", v)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []byte
		for i, c := range []byte(head) {
			if i > 0 && (len(head)-i)%2 == 0 {
				groups = append(groups, ',')
			}
			groups = append(groups, c)
		}
		s = string(groups) + "," + tail
	}
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}

// FormatINRCompact renders large amounts in lakh/crore units, matching the
// yearly rows of the impact table.
func FormatINRCompact(n float64) string {
	switch {
	case n >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", n/1e7)
	case n >= 1e5:
		return fmt.Sprintf("₹%.2f L", n/1e5)
	default:
		return FormatINR(n)
	}
}

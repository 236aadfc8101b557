package service

import "math"

// SellPrice computes the unit price a buyer pays. Discounted prices round to
// the nearest 10 currency units, halves to even, matching the legacy billing
// rule. A zero discount rate leaves the listed price untouched.
func SellPrice(price, discountRate int) int {
	if discountRate == 0 {
		return price
	}
	discounted := price * (100 - discountRate) / 100
	return roundToTen(discounted)
}

func roundToTen(v int) int {
	return int(math.RoundToEven(float64(v)/10)) * 10
}

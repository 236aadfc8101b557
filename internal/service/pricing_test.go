package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellPrice(t *testing.T) {
	// No discount leaves the listed price untouched.
	assert.Equal(t, 9999, SellPrice(9999, 0))

	// Discounted prices truncate to whole units, then round to the nearest
	// ten.
	assert.Equal(t, 8500, SellPrice(9999, 15)) // 8499.15 -> 8499 -> 8500
	assert.Equal(t, 900, SellPrice(1000, 10))  // exact, no rounding needed
	assert.Equal(t, 4000, SellPrice(5003, 20)) // 4002.4 -> 4002 -> 4000

	// Halves round to even, matching the legacy billing rule.
	assert.Equal(t, 560, SellPrice(1130, 50)) // 565 -> 56.5 -> 56 -> 560
	assert.Equal(t, 580, SellPrice(1150, 50)) // 575 -> 57.5 -> 58 -> 580
}

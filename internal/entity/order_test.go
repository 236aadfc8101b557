package entity

import (
	"testing"
	"time"
)

func TestOrderNumber(t *testing.T) {
	day := time.Date(2020, 10, 30, 3, 31, 10, 0, time.UTC)

	if got := OrderNumber(day, 5); got != "2020103000005" {
		t.Errorf("Expected 2020103000005, got %s", got)
	}
	if got := OrderNumber(day, 98765); got != "2020103098765" {
		t.Errorf("Expected 2020103098765, got %s", got)
	}
}

func TestOrderDetailNumber(t *testing.T) {
	day := time.Date(2020, 10, 30, 23, 59, 59, 0, time.UTC)

	if got := OrderDetailNumber(day, 5); got != "20201030000005" {
		t.Errorf("Expected 20201030000005, got %s", got)
	}
	if got := OrderDetailNumber(day, 123456); got != "20201030123456" {
		t.Errorf("Expected 20201030123456, got %s", got)
	}
}

package leave

import (
	"errors"
	"testing"
	"time"

	"hrms/internal/platform/clock"
)

var testZone = clock.LoadLocation(clock.DefaultZone)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, testZone)
	end := time.Date(2025, 3, 3, 0, 0, 0, 0, testZone)

	days, err := CalculateDays(start, end, testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}

	days, err = CalculateDays(start, start, testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %d", days)
	}
}

func TestCalculateDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, 3, 1, 17, 45, 0, 0, testZone)
	end := time.Date(2025, 3, 2, 8, 0, 0, 0, testZone)

	days, err := CalculateDays(start, end, testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 2 {
		t.Fatalf("expected 2 days, got %d", days)
	}

	// 2025-03-01 20:00 UTC is already 2025-03-02 in the organisation zone.
	utcStart := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	utcEnd := time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC)
	days, err = CalculateDays(utcStart, utcEnd, testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day in org zone, got %d", days)
	}
}

func TestCalculateDaysInvalid(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, testZone)
	end := time.Date(2025, 2, 9, 0, 0, 0, 0, testZone)

	_, err := CalculateDays(start, end, testZone)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected invalid range, got %v", err)
	}
}

func TestCalculateDaysAcrossMonths(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, testZone)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, testZone)
	days, err := CalculateDays(start, end, testZone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 5 {
		t.Fatalf("expected 5 days across leap february, got %d", days)
	}
}

package payroll

import (
	"errors"
	"testing"
)

func TestCalculateBelowTaxThreshold(t *testing.T) {
	got, err := Calculate(SalaryInput{
		BaseSalary: 10_000_000,
		Food:       500_000,
		Transport:  300_000,
		Phone:      100_000,
		Tax:        200_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Breakdown{
		SocialInsurance: 800_000,
		HealthInsurance: 150_000,
		TotalIncome:     10_900_000,
		TaxableIncome:   9_950_000,
		MustPayTax:      false,
		Tax:             0,
		TotalDeduction:  950_000,
		NetSalary:       9_950_000,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCalculateAboveTaxThreshold(t *testing.T) {
	got, err := Calculate(SalaryInput{BaseSalary: 15_000_000, Tax: 300_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Breakdown{
		SocialInsurance: 1_200_000,
		HealthInsurance: 225_000,
		TotalIncome:     15_000_000,
		TaxableIncome:   13_575_000,
		MustPayTax:      true,
		Tax:             300_000,
		TotalDeduction:  1_725_000,
		NetSalary:       13_275_000,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCalculateThresholdBoundary(t *testing.T) {
	// taxable = 11_925_000 + 1_075_000 - 954_000 - 178_875 = 11_867_125
	got, err := Calculate(SalaryInput{BaseSalary: 11_925_000, Bonus: 1_075_000, Tax: 50_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.MustPayTax || got.Tax != 50_000 {
		t.Fatalf("expected tax to apply, got %+v", got)
	}

	// taxable exactly at the threshold still pays tax.
	got, err = Calculate(SalaryInput{BaseSalary: 10_000_000, Food: 1_950_000, Tax: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TaxableIncome != TaxThreshold || !got.MustPayTax || got.Tax != 10 {
		t.Fatalf("expected threshold to be inclusive, got %+v", got)
	}
}

func TestCalculateTaxFloor(t *testing.T) {
	for _, base := range []int64{0, 1, 5_000_000, 11_000_000, 11_500_000} {
		got, err := Calculate(SalaryInput{BaseSalary: base, Tax: 999_999})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TaxableIncome < TaxThreshold && got.Tax != 0 {
			t.Fatalf("base %d: tax must be zero below threshold, got %+v", base, got)
		}
	}
}

func TestCalculateRoundsHalfUp(t *testing.T) {
	// 1_234_567 * 0.015 = 18_518.505
	got, err := Calculate(SalaryInput{BaseSalary: 1_234_567})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HealthInsurance != 18_519 {
		t.Fatalf("expected 18519, got %d", got.HealthInsurance)
	}
	// 1_234_567 * 0.08 = 98_765.36
	if got.SocialInsurance != 98_765 {
		t.Fatalf("expected 98765, got %d", got.SocialInsurance)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	in := SalaryInput{BaseSalary: 12_345_678, Food: 730_000, Transport: 215_000, Phone: 99_999, Bonus: 1_000_001, Tax: 420_000}
	first, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestCalculateRejectsNegative(t *testing.T) {
	if _, err := Calculate(SalaryInput{BaseSalary: 1_000, Bonus: -1}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}
}

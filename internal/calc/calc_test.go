package calc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTip(t *testing.T) {
	cases := []struct {
		amount, percent, want string
	}{
		{"100", "15", "15.00"},
		{"0", "20", "0.00"},
		{"100", "0", "0.00"},
		{"55.55", "18", "10.00"},
		{"1", "0.5", "0.01"}, // 0.005 rounds half-up
	}
	for _, c := range cases {
		got, err := Tip(dec(c.amount), dec(c.percent))
		if err != nil {
			t.Fatalf("Tip(%s, %s): %v", c.amount, c.percent, err)
		}
		if got.StringFixed(2) != c.want {
			t.Errorf("Tip(%s, %s) = %s, want %s", c.amount, c.percent, got.StringFixed(2), c.want)
		}
	}
}

func TestTipRejectsNegatives(t *testing.T) {
	if _, err := Tip(dec("-100"), dec("15")); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := Tip(dec("100"), dec("-15")); err == nil {
		t.Error("expected error for negative percent")
	}
}

func TestTotal(t *testing.T) {
	got, err := Total(dec("100"), dec("15"))
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "115.00" {
		t.Errorf("Total(100, 15) = %s, want 115.00", got.StringFixed(2))
	}
}

func TestPay(t *testing.T) {
	cases := []struct {
		hours, rate, want string
	}{
		{"40", "15.50", "620.00"},
		{"0", "20", "0.00"},
		{"2.345", "10", "23.45"},
	}
	for _, c := range cases {
		got, err := Pay(dec(c.hours), dec(c.rate))
		if err != nil {
			t.Fatalf("Pay(%s, %s): %v", c.hours, c.rate, err)
		}
		if got.StringFixed(2) != c.want {
			t.Errorf("Pay(%s, %s) = %s, want %s", c.hours, c.rate, got.StringFixed(2), c.want)
		}
	}
}

func TestPayRejectsNegatives(t *testing.T) {
	if _, err := Pay(dec("-1"), dec("10")); err == nil {
		t.Error("expected error for negative hours")
	}
	if _, err := Pay(dec("1"), dec("-10")); err == nil {
		t.Error("expected error for negative rate")
	}
}

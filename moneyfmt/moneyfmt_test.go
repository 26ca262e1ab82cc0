package moneyfmt

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{300000, "300 000"},
		{1234567, "1 234 567"},
		{12500.5, "12 500.5"},
		{62500.25, "62 500.25"},
		{-45000, "-45 000"},
	}
	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatUZS(t *testing.T) {
	if got := FormatUZS(300000); got != "300 000 UZS" {
		t.Errorf("FormatUZS(300000) = %q", got)
	}
	if got := FormatCurrency(1500, "USD"); got != "1 500 USD" {
		t.Errorf("FormatCurrency(1500, USD) = %q", got)
	}
}

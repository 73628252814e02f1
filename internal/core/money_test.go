package core

import "testing"

func TestParseDecimalToPaise(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"500", 50000, false},
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"0", 0, false},
		{".50", 50, false},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, c := range cases {
		got, err := ParseDecimalToPaise(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToPaise(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToPaise(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDecimalToPaise(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatIndian(t *testing.T) {
	cases := []struct {
		paise int64
		want  string
	}{
		{350000, "3,500"},
		{123456700, "12,34,567"},
		{50000, "500"},
		{100000, "1,000"},
		{12345678900, "12,34,56,789"},
		{0, "0"},
		{-25000, "-250"},
		{123450, "1,234.50"},
		{105, "1.05"},
	}
	for _, c := range cases {
		if got := (Money{Paise: c.paise}).FormatIndian(); got != c.want {
			t.Errorf("FormatIndian(%d) = %q, want %q", c.paise, got, c.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Paise: 105000}
	b := Money{Paise: 20000}
	if got := a.Add(b).Paise; got != 125000 {
		t.Errorf("Add = %d, want 125000", got)
	}
	if got := b.Sub(a).Paise; got != -85000 {
		t.Errorf("Sub = %d, want -85000", got)
	}
}

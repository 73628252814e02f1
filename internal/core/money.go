// Package core holds the site-ledger domain types and money handling.
//
// Money is kept in integer paise to avoid floating-point drift; this file
// contains parsing from decimal strings and the Indian digit-grouping
// formatter used by every report amount column.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToPaise converts a decimal rupee string to paise with
// half-up rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values and signs are rejected; zero is allowed because hajari
// amounts and overtime may legitimately be zero.
//
// Examples:
//
//	ParseDecimalToPaise("500")    -> 50000, nil
//	ParseDecimalToPaise("12.34")  -> 1234, nil
//	ParseDecimalToPaise("12.346") -> 1235, nil (rounds up)
func ParseDecimalToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracPaise int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracPaise = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracPaise += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	return iv*100 + fracPaise, nil
}

// Rupees returns the rupee value as a float64 for display purposes only.
// Use paise for calculations.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Paise: m.Paise + o.Paise}
}

// Sub returns m minus o. The result may be negative; callers that care
// about sign semantics (overpayment) interpret it, nothing here clamps.
func (m Money) Sub(o Money) Money {
	return Money{Paise: m.Paise - o.Paise}
}

// FormatIndian renders the amount in rupees with Indian digit grouping:
// the last three digits form one group, every two digits after that form
// another (12,34,567). Paise are appended as a two-digit fraction only
// when non-zero, so whole-rupee amounts print as "3,500" not "3,500.00".
func (m Money) FormatIndian() string {
	paise := m.Paise
	neg := paise < 0
	if neg {
		paise = -paise
	}
	rupees := paise / 100
	frac := paise % 100

	digits := strconv.FormatInt(rupees, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(digits))
	if frac != 0 {
		b.WriteByte('.')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

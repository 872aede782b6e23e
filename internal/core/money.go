// Package core holds the expense data model and the aggregation functions
// computed over it.
//
// This file contains helpers for parsing and formatting decimal amounts.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a plain decimal string to a non-negative amount.
//
// Only digits and separators are accepted, so exponent forms such as 1e3 are
// rejected. A dot is always the decimal separator and commas next to it group
// thousands. Without a dot, a single comma followed by one or two digits is a
// decimal comma; any other commas group digits, western (1,234,567) or Indian
// (12,34,567) style.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34, nil
//	ParseAmount("12,34")    -> 12.34, nil
//	ParseAmount("1,234")    -> 1234, nil
//	ParseAmount("1,234.50") -> 1234.5, nil
//	ParseAmount("1e3")      -> 0, ErrInvalidAmount
//	ParseAmount("-1")       -> 0, ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if !hasDot {
		if head, tail, ok := strings.Cut(intPart, ","); ok && !strings.Contains(tail, ",") && len(tail) <= 2 {
			intPart, fracPart = head, tail
			hasDot = true
		}
	}
	intPart, ok := ungroup(intPart)
	if !ok || (intPart == "" && fracPart == "") || (hasDot && fracPart == "") {
		return decimal.Zero, ErrInvalidAmount
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return decimal.Zero, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart != "" {
		intPart += "." + fracPart
	}

	d, err := decimal.NewFromString(intPart)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if neg && !d.IsZero() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// ungroup drops grouping commas. The last group must have three digits and
// the earlier ones two or three.
func ungroup(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}
	groups := strings.Split(s, ",")
	if groups[0] == "" || len(groups[0]) > 3 || len(groups[len(groups)-1]) != 3 {
		return "", false
	}
	for _, g := range groups[1 : len(groups)-1] {
		if len(g) != 2 && len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders d with two decimals and thousands separators, prefixed
// by symbol: FormatAmount(1234.5, "₹") == "₹1,234.50".
func FormatAmount(d decimal.Decimal, symbol string) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		err error
	}{
		{"1", "1", nil},
		{"0", "0", nil},
		{"1.23", "1.23", nil},
		{"1,23", "1.23", nil},
		{" 2.50 ", "2.5", nil},
		{"1,234.50", "1234.5", nil},
		{"0.001", "0.001", nil},
		{"1,234", "1234", nil},
		{"1,234,567.89", "1234567.89", nil},
		{"1,23,456", "123456", nil},
		{"12,34,567.5", "1234567.5", nil},
		{".5", "0.5", nil},
		{"-0", "0", nil},
		{"1e3", "", ErrInvalidAmount},
		{"1E-2", "", ErrInvalidAmount},
		{"1e400000000", "", ErrInvalidAmount},
		{"+5", "", ErrInvalidAmount},
		{"5.", "", ErrInvalidAmount},
		{"12,3456", "", ErrInvalidAmount},
		{"1234,567", "", ErrInvalidAmount},
		{"1,2,345", "", ErrInvalidAmount},
		{"-", "", ErrInvalidAmount},
		{"-1", "", ErrNegativeAmount},
		{"abc", "", ErrInvalidAmount},
		{"1.2.3", "", ErrInvalidAmount},
		{"", "", ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.out)), "input %q: got %s", tc.in, got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":           "₹0.00",
		"5":           "₹5.00",
		"350":         "₹350.00",
		"1234.5":      "₹1,234.50",
		"1234567.891": "₹1,234,567.89",
		"-1000":       "-₹1,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in), "₹"), "input %s", in)
	}
}

package utils

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrencyIDR formats a whole-rupiah amount with thousand separators.
// Example: 1500000 -> "Rp 1.500.000"
func FormatCurrencyIDR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return "Rp " + sign + strings.ReplaceAll(humanize.Comma(amount), ",", ".")
}

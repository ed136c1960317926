// Package format renders amounts and quantities for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/calcdash/pkg/constants"
)

// Currency returns a currency string with the rupee sign and thousands
// separators (e.g., "-₹1,234.56").
func Currency(amount float64) string {
	formatted := formatPositive(math.Abs(amount))
	if amount < 0 {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositive(math.Abs(amount))
}

// Hours renders a duration in hours with one decimal, e.g. "7.5 hrs".
func Hours(hours float64) string {
	return fmt.Sprintf("%.1f hrs", hours)
}

// KWh renders an energy amount with two decimals.
func KWh(kwh float64) string {
	return fmt.Sprintf("%.2f kWh", kwh)
}

func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}

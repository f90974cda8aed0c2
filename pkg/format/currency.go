// Package format renders amounts for display using Canadian English number
// conventions.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("en-CA"))

// Currency returns a whole-dollar amount with a dollar sign and thousands
// separators (e.g., "-$1,235").
func Currency(amount float64) string {
	dollars := int64(math.Round(math.Abs(amount)))
	if amount < 0 && dollars != 0 {
		return printer.Sprintf("-$%d", dollars)
	}
	return printer.Sprintf("$%d", dollars)
}

// CurrencyCents returns an amount with cents (e.g., "$2,456.35").
func CurrencyCents(amount float64) string {
	cents := math.Round(math.Abs(amount) * 100)
	dollars := int64(cents / 100)
	remainder := int64(cents) % 100
	sign := ""
	if amount < 0 && cents != 0 {
		sign = "-"
	}
	return sign + printer.Sprintf("$%d", dollars) + fmt.Sprintf(".%02d", remainder)
}

// Percent returns a percentage with the given number of decimals (e.g., "5.25%").
func Percent(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return fmt.Sprintf("%.*f%%", decimals, value)
}

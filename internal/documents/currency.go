package documents

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var arabicPrinter = message.NewPrinter(language.MustParse("ar-LY"))

// FormatCurrency renders an amount in Libyan dinars with locale-aware digit
// grouping, matching what the sales documents have always shown.
func FormatCurrency(v float64) string {
	return arabicPrinter.Sprintf("%v د.ل", number.Decimal(v, number.MaxFractionDigits(2)))
}

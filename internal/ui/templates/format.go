package templates

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Money formats v as dollars with thousands separators, sign first.
func Money(v float64) string {
	if v < 0 {
		return printer().Sprintf("-$%.2f", math.Abs(v))
	}
	return printer().Sprintf("$%.2f", v)
}

func Number(n int) string {
	return printer().Sprintf("%d", n)
}

func Decimal(v float64) string {
	return printer().Sprintf("%.2f", v)
}

func Percent(v float64) string {
	return printer().Sprintf("%.2f%%", v)
}

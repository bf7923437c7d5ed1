// Package money formats INR amounts for documents. Amounts are rounded here,
// at the presentation boundary, and nowhere else.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RupeeSymbol is prefixed by FormatINR.
const RupeeSymbol = "₹"

// FormatINR rounds to whole rupees and groups digits the Indian way:
// 1234567 -> "₹12,34,567".
func FormatINR(amount decimal.Decimal) string {
	return RupeeSymbol + GroupIndian(amount.Round(0).String())
}

// FormatINRPlain is FormatINR without the symbol, for fonts that lack it.
func FormatINRPlain(amount decimal.Decimal) string {
	return "Rs. " + GroupIndian(amount.Round(0).String())
}

// FormatINRPaise keeps two decimal places, for amounts that must match what
// is actually collected: 117999.5 -> "Rs. 1,17,999.50".
func FormatINRPaise(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return "Rs. " + GroupIndian(whole) + "." + frac
}

// GroupIndian inserts separators into an integer string: the last three
// digits form one group, every two digits before that another.
func GroupIndian(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(parts, ",") + "," + tail
	}
	if neg {
		return "-" + s
	}
	return s
}

var (
	ones = []string{
		"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// AmountInWords spells an amount in the Indian numbering system, as printed
// on GST invoices: 11800 -> "Rupees Eleven Thousand Eight Hundred Only".
// Paise are spelled when the amount has a fractional part.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	words := "zero"
	if rupees > 0 {
		words = spell(rupees)
	}
	out := "rupees " + words
	if paise > 0 {
		out += " and " + spell(paise) + " paise"
	}
	out += " only"
	return cases.Title(language.English).String(out)
}

func spell(n int64) string {
	var parts []string
	if n >= 10000000 {
		parts = append(parts, spell(n/10000000), "crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, belowHundred(n/100000), "lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, belowHundred(n/1000), "thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100], "hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}

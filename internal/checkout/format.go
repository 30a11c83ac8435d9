package checkout

import (
	"regexp"
	"strings"
)

var cardRunPattern = regexp.MustCompile(`\d{4,16}`)

// FormatCardNumber is a display transform: non-digits are stripped, the first
// run of 4 to 16 digits is regrouped in chunks of 4 separated by single
// spaces. Shorter digit runs pass through ungrouped.
func FormatCardNumber(value string) string {
	digits := digitsOnly(value)

	match := cardRunPattern.FindString(digits)
	if match == "" {
		return digits
	}

	var parts []string
	for i := 0; i < len(match); i += 4 {
		end := i + 4
		if end > len(match) {
			end = len(match)
		}
		parts = append(parts, match[i:end])
	}
	return strings.Join(parts, " ")
}

// LastFour returns the last four digits of a card number, or all of its
// digits when fewer than four are present.
func LastFour(cardNumber string) string {
	digits := digitsOnly(cardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

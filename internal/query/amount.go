package query

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// AmountValue extracts the largest number mentioned in an amount string, after
// removing thousands separators and spaces. "$500 - $2,000" is 2000. Strings
// without any digits are worth 0.
func AmountValue(text string) float64 {
	clean := strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(text)

	var max float64
	for _, m := range numberRegex.FindAllString(clean, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v > max {
			max = v
		}
	}
	return max
}

package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount acceptance bounds. Values at or above maxAmount are assumed to be
// reference numbers or phone numbers, not money.
var (
	maxAmount         = decimal.NewFromInt(1_000_000)
	bareDigitCeiling  = decimal.NewFromInt(10_000)
	bareDigitMaxWidth = 8
)

// extractAmount tries each amount rule in priority order and accepts the first
// candidate that survives the guards.
func extractAmount(body string) (decimal.Decimal, bool) {
	for _, rule := range amountRules {
		matches := rule.re.FindAllStringSubmatch(body, -1)
		for _, m := range matches {
			value, ok := parseAmount(m[1])
			if !ok {
				continue
			}
			if rule.bare && rejectBare(m[1], value) {
				continue
			}
			return value, true
		}
	}
	return decimal.Zero, false
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	if !value.IsPositive() || value.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, false
	}
	return value, true
}

// rejectBare drops bare numeric candidates that look like phone numbers or
// reference codes: 8+ digits and a value over 10,000.
func rejectBare(raw string, value decimal.Decimal) bool {
	digits := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= bareDigitMaxWidth && value.GreaterThan(bareDigitCeiling)
}

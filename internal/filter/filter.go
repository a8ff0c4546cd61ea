// Package filter rejects promotional content and untrusted senders before any
// parsing is attempted. Classification is driven by the declarative rule
// tables in rules.go so the individual rules stay independently testable.
package filter

import "strings"

// Result is the outcome of classifying one inbound message.
type Result struct {
	Promotional bool
	Trusted     bool
}

// Accepted reports whether the message may proceed into the pipeline.
func (r Result) Accepted() bool {
	return r.Trusted && !r.Promotional
}

// Classify runs both the promotional and the trust test on a message.
func Classify(sender, body string) Result {
	return Result{
		Promotional: IsPromotional(sender, body),
		Trusted:     IsTrusted(sender, body),
	}
}

// IsPromotional reports whether the message looks like marketing or spam:
// a spam-pattern sender, two or more promotional keywords, or any single
// promotional regex match.
func IsPromotional(sender, body string) bool {
	upperSender := strings.ToUpper(sender)
	for _, pattern := range spamSenderPatterns {
		if strings.Contains(upperSender, pattern) {
			return true
		}
	}

	lowerBody := strings.ToLower(body)
	hits := 0
	for _, kw := range promoKeywords {
		if strings.Contains(lowerBody, kw) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}

	for _, re := range promoPatterns {
		if re.MatchString(body) {
			return true
		}
	}
	return false
}

// IsTrusted reports whether the message comes from a known bank or payment
// provider, or failing that, whether the body itself exhibits valid bank
// transaction content. The fallback lets trust be inferred from unrecognized
// sender codes, which keeps this check deliberately permissive; the strict
// validity gate runs later in the pipeline.
func IsTrusted(sender, body string) bool {
	upperSender := strings.ToUpper(sender)
	for _, known := range trustedSenders {
		if strings.Contains(upperSender, known) || strings.HasPrefix(upperSender, known) {
			return true
		}
	}
	return HasBankTransactionContent(body)
}

// HasBankTransactionContent applies the conjunctive body-content test: a
// recognized bank name, a transaction indicator, a reference number, a masked
// account number, and a currency amount must all be present.
func HasBankTransactionContent(body string) bool {
	lowerBody := strings.ToLower(body)

	bankNamed := false
	for _, name := range bankNames {
		if strings.Contains(lowerBody, name) {
			bankNamed = true
			break
		}
	}
	if !bankNamed {
		return false
	}

	if !ContainsTransactionIndicator(body) {
		return false
	}
	return refNumberPattern.MatchString(body) &&
		maskedAccountPattern.MatchString(body) &&
		currencyAmountPattern.MatchString(body)
}

// ContainsTransactionIndicator reports whether the body contains at least one
// debit/credit/transfer style indicator term.
func ContainsTransactionIndicator(body string) bool {
	lowerBody := strings.ToLower(body)
	for _, term := range transactionIndicators {
		if strings.Contains(lowerBody, term) {
			return true
		}
	}
	return false
}

// IsBankName reports whether the candidate string is itself a recognized bank
// name. The counterparty cleanup uses it to reject bank names captured as
// merchants on expenses.
func IsBankName(candidate string) bool {
	lower := strings.ToLower(strings.TrimSpace(candidate))
	for _, name := range bankNames {
		if lower == name || strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

package pipeline

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/filter"
)

// The strict validity gate. The filter's trust check is deliberately
// permissive; this later check is the precision gate that keeps OTPs, balance
// inquiries and trace amounts out of the ledger.

// minValidAmount is the smallest amount accepted as a real transaction.
var minValidAmount = decimal.NewFromInt(1)

// Verbs that describe actual money movement, as opposed to a balance report.
var movementTerms = []string{
	"debited", "credited", "withdrawn", "deposited", "transferred",
	"sent", "received", "paid", "spent", "purchase",
}

var (
	balanceInquiryPattern = regexp.MustCompile(`(?i)\b(?:avl\.?|available)\s*bal(?:ance)?\b|\bbalance\s+(?:is|in\s+your)\b|\bbal\s*[:.]`)
	otpPattern            = regexp.MustCompile(`(?i)\botp\b|one[\s-]?time\s+password|verification\s+code|do\s+not\s+share`)
)

// validBody applies the strict heuristic to an already-parsed message:
// a transaction indicator must be present, the amount must clear the minimum,
// OTP/verification messages are excluded, and a body that talks about balance
// without any movement verb is an inquiry, not a transaction.
func validBody(body string, amount decimal.Decimal) bool {
	if !filter.ContainsTransactionIndicator(body) {
		return false
	}
	if amount.LessThan(minValidAmount) {
		return false
	}
	if otpPattern.MatchString(body) {
		return false
	}
	if balanceInquiryPattern.MatchString(body) && !containsMovementTerm(body) {
		return false
	}
	return true
}

func containsMovementTerm(body string) bool {
	lower := strings.ToLower(body)
	for _, term := range movementTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Package parser extracts structured transaction fields from raw message
// text. All extraction is driven by the ordered rule tables in rules.go; there
// is no language model anywhere, so malformed input yields ErrNoDirection or
// ErrNoAmount rather than a guess.
package parser

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/domain"
)

var (
	// ErrNoDirection means the body contains neither debit- nor credit-family terms.
	ErrNoDirection = errors.New("parser: no direction keyword in body")
	// ErrNoAmount means no amount rule produced an acceptable value.
	ErrNoAmount = errors.New("parser: no amount in body")
)

// UnknownCounterparty is used when no rule and no fallback yields a valid name.
const UnknownCounterparty = "Unknown"

// Parsed is the structured result of parsing one message body.
type Parsed struct {
	Amount       decimal.Decimal
	Direction    domain.Direction
	Counterparty string
	Channel      string
	AccountHint  string // masked account/card tail, "" when absent
}

// Parse extracts amount, direction, counterparty, payment channel and an
// optional account hint from a raw message. A body without a recognizable
// direction or amount is unparsable.
func Parse(sender, body string) (*Parsed, error) {
	direction, ok := extractDirection(body)
	if !ok {
		return nil, ErrNoDirection
	}

	amount, ok := extractAmount(body)
	if !ok {
		return nil, ErrNoAmount
	}

	return &Parsed{
		Amount:       amount,
		Direction:    direction,
		Counterparty: extractCounterparty(sender, body, direction),
		Channel:      extractChannel(body),
		AccountHint:  extractAccountHint(body),
	}, nil
}

func extractDirection(body string) (domain.Direction, bool) {
	lower := strings.ToLower(body)
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			return domain.Expense, true
		}
	}
	for _, kw := range creditKeywords {
		if strings.Contains(lower, kw) {
			return domain.Income, true
		}
	}
	return "", false
}

func extractChannel(body string) string {
	lower := strings.ToLower(body)
	for _, rule := range channelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return DefaultChannel
}

func extractAccountHint(body string) string {
	for _, re := range accountHintRules {
		if m := re.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	return ""
}

package parser

import (
	"strings"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/filter"
)

// extractCounterparty tries the direction-specific capture rules, then the
// payment-handle fallback, then the sender identity itself. Every candidate
// goes through cleanup and validation; "Unknown" is the last resort.
func extractCounterparty(sender, body string, direction domain.Direction) string {
	rules := expenseCounterpartyRules
	if direction == domain.Income {
		rules = incomeCounterpartyRules
	}

	for _, rule := range rules {
		m := rule.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		candidate := m[1]
		// A captured payment handle like "ramesh.kumar@okaxis" names a
		// person; use the local part as the display name.
		if vm := vpaPattern.FindStringSubmatch(candidate); vm != nil {
			candidate = handleToName(vm[1])
		}
		if name, ok := cleanCounterparty(candidate, direction); ok {
			return name
		}
	}

	// A VPA like "ramesh.kumar@okaxis" still names a person.
	if m := vpaPattern.FindStringSubmatch(body); m != nil {
		if name, ok := cleanCounterparty(handleToName(m[1]), direction); ok {
			return name
		}
	}

	if name, ok := cleanCounterparty(senderDisplayName(sender), direction); ok {
		return name
	}
	return UnknownCounterparty
}

// cleanCounterparty runs the cleanup chain over a raw capture and validates
// the result. ok is false when the candidate must be rejected.
func cleanCounterparty(raw string, direction domain.Direction) (string, bool) {
	name := raw
	for _, re := range cleanupRules {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ".,;:-_/ ")

	if !validCounterparty(name, direction) {
		return "", false
	}
	return titleCase(name), true
}

func validCounterparty(name string, direction domain.Direction) bool {
	if len(name) < 2 {
		return false
	}
	hasLetter := false
	allDigits := true
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
		if r < '0' || r > '9' {
			allDigits = false
		}
	}
	if allDigits || !hasLetter {
		return false
	}
	// A bank captured as the merchant of an expense is the message's own
	// bank, not the counterparty.
	if direction == domain.Expense && filter.IsBankName(name) {
		return false
	}
	lower := strings.ToLower(name)
	for _, term := range jargonTerms {
		if lower == term {
			return false
		}
	}
	return true
}

// titleCase rewrites ALL-CAPS or all-lowercase names into title case while
// keeping recognized corporate suffixes upper-case. Mixed-case input is
// passed through untouched.
func titleCase(name string) string {
	if name != strings.ToUpper(name) && name != strings.ToLower(name) {
		return name
	}
	words := strings.Fields(name)
	for i, w := range words {
		upper := strings.ToUpper(w)
		if corporateSuffixes[upper] {
			words[i] = upper
			continue
		}
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// handleToName turns the local part of a payment handle into a display name:
// "ramesh.kumar" → "Ramesh Kumar".
func handleToName(local string) string {
	cleaned := strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return titleCase(cleaned)
}

// senderDisplayName maps a sender id to a human name via the lookup table,
// trying the raw id and a route-prefix-stripped variant.
func senderDisplayName(sender string) string {
	upper := strings.ToUpper(strings.TrimSpace(sender))
	if name, ok := senderNames[upper]; ok {
		return name
	}
	stripped := senderPrefixPattern.ReplaceAllString(upper, "")
	if name, ok := senderNames[stripped]; ok {
		return name
	}
	for code, name := range senderNames {
		if strings.Contains(upper, code) {
			return name
		}
	}
	return stripped
}

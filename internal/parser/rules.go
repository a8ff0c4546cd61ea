package parser

import "regexp"

// Direction keyword families. Debit terms are checked before credit terms
// because transfer messages often mention both ("debited ... credited to").
var (
	debitKeywords = []string{
		"debited", "debit", "spent", "withdrawn", "deducted", "paid",
		"purchase", "sent", "payment of", "charged",
	}
	creditKeywords = []string{
		"credited", "credit", "received", "deposited", "refunded", "refund",
		"cashback", "salary",
	}
)

// amountRule is one entry in the ordered amount-extraction table. Contextual
// rules run before bare numeric rules; bare rules carry extra guards against
// phone numbers and reference codes.
type amountRule struct {
	re   *regexp.Regexp
	bare bool
}

var amountRules = []amountRule{
	// Currency-marked amounts.
	{re: regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([\d,]+(?:\.\d{1,2})?)`)},
	{re: regexp.MustCompile(`(?i)([\d,]+(?:\.\d{1,2})?)\s*(?:rs\b|inr\b)`)},
	// Contextual phrases: "for Rs. X", "debited by X", "amount of X".
	{re: regexp.MustCompile(`(?i)(?:for|of|worth)\s+(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d{1,2})?)`)},
	{re: regexp.MustCompile(`(?i)(?:debited|credited|withdrawn|deposited)\s+(?:by|with|for)\s+(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d{1,2})?)`)},
	{re: regexp.MustCompile(`(?i)\bam(?:oun)?t[:.]?\s*(?:rs\.?|inr|₹)?\s*([\d,]+(?:\.\d{1,2})?)`)},
	// Bare numerics, lowest priority.
	{re: regexp.MustCompile(`\b(\d{1,6}(?:,\d{3})*\.\d{1,2})\b`), bare: true},
	// Standalone integers only; digit groups inside comma-formatted numbers
	// must not match on their own.
	{re: regexp.MustCompile(`(?:^|\s)(\d+)[.,]?(?:\s|$)`), bare: true},
}

// counterpartyRule captures a raw counterparty candidate from the body. Rules
// are tried in order per direction; every capture goes through the cleanup
// chain before it is accepted.
type counterpartyRule struct {
	re *regexp.Regexp
}

var expenseCounterpartyRules = []counterpartyRule{
	{re: regexp.MustCompile(`(?i)\bUPI[/-](?:P2[PM][/-])?(?:\d+[/-])?([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
	{re: regexp.MustCompile(`(?i)\b(?:paid\s+)?to\s+(?:VPA\s+)?([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
	{re: regexp.MustCompile(`(?i)\bat\s+([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
	{re: regexp.MustCompile(`(?i)\btowards\s+([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
}

var incomeCounterpartyRules = []counterpartyRule{
	{re: regexp.MustCompile(`(?i)\bfrom\s+VPA\s+([\w.\-]+@[\w]+)`)},
	{re: regexp.MustCompile(`(?i)\breceived\s+from\s+([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
	{re: regexp.MustCompile(`(?i)\bfrom\s+([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
	{re: regexp.MustCompile(`(?i)\bby\s+([A-Za-z][A-Za-z0-9 @._&'\-]{1,40})`)},
}

// cleanupRules strip trailing noise from a captured counterparty, in order:
// reference numbers, balance fragments, masked account/card numbers, phone
// numbers, then boilerplate suffixes.
var cleanupRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\(?(?:ref(?:erence)?|utr|txn|rrn)\b[\s:.#]*(?:no\.?|num(?:ber)?|id)?[\s:.#]*\w*\d{3,}.*$`),
	regexp.MustCompile(`(?i)\s*\(?(?:avl\.?|available|avail\.?)?\s*bal(?:ance)?\b.*$`),
	regexp.MustCompile(`(?i)\s*\(?(?:a/c|acct|account|card)\b[\s:.]*(?:no\.?)?\s*[x*]*\d+.*$`),
	regexp.MustCompile(`(?i)[x*]{2,}\d{2,}`),
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`(?i)\s+via\s+.*$`),
	regexp.MustCompile(`(?i)\s+using\s+.*$`),
	regexp.MustCompile(`(?i)\s+on\s+\d.*$`),
	regexp.MustCompile(`(?i)\s+(?:not\s+you\??|if\s+not.*|call\s+.*|sms\s+block.*)$`),
}

// Banking jargon that disqualifies a cleaned candidate outright.
var jargonTerms = []string{
	"upi", "imps", "neft", "rtgs", "atm", "pos", "vpa", "bank", "account",
	"a/c", "card", "transaction", "txn", "payment", "balance", "credit",
	"debit", "info", "alert", "linked", "wallet",
}

// Corporate suffixes kept upper-case when title-casing a counterparty.
var corporateSuffixes = map[string]bool{
	"LTD": true, "PVT": true, "LLP": true, "INC": true, "LLC": true,
	"PLC": true, "CO": true,
}

// senderNames maps known sender codes to display names used when the sender
// identity doubles as the counterparty of last resort.
var senderNames = map[string]string{
	"SBIINB":  "SBI",
	"SBIUPI":  "SBI",
	"HDFCBK":  "HDFC Bank",
	"ICICIB":  "ICICI Bank",
	"AXISBK":  "Axis Bank",
	"KOTAKB":  "Kotak Bank",
	"PNBSMS":  "PNB",
	"IDFCFB":  "IDFC First",
	"YESBNK":  "Yes Bank",
	"INDUSB":  "IndusInd Bank",
	"FEDBNK":  "Federal Bank",
	"PAYTMB":  "Paytm",
	"PAYTM":   "Paytm",
	"PHONEPE": "PhonePe",
	"GPAY":    "Google Pay",
	"APAY":    "Amazon Pay",
	"CRED":    "CRED",
}

// channelRule is one entry in the payment-channel priority table.
type channelRule struct {
	keywords []string
	label    string
}

var channelRules = []channelRule{
	{keywords: []string{"upi"}, label: "UPI"},
	{keywords: []string{"imps"}, label: "IMPS"},
	{keywords: []string{"neft"}, label: "NEFT"},
	{keywords: []string{"rtgs"}, label: "RTGS"},
	{keywords: []string{"credit card"}, label: "Credit Card"},
	{keywords: []string{"debit card"}, label: "Debit Card"},
	{keywords: []string{"net banking", "netbanking", "internet banking"}, label: "Net Banking"},
	{keywords: []string{"wallet"}, label: "Wallet"},
	{keywords: []string{"atm"}, label: "ATM"},
	{keywords: []string{"pos "}, label: "POS"},
	{keywords: []string{"cheque", "chq"}, label: "Cheque"},
	{keywords: []string{"cash deposit", "by cash"}, label: "Cash"},
	{keywords: []string{"autopay", "auto-debit", "auto debit", "e-mandate"}, label: "AutoPay"},
	{keywords: []string{"emi"}, label: "EMI"},
	{keywords: []string{"card"}, label: "Card"},
	{keywords: []string{"transfer"}, label: "Bank Transfer"},
}

// DefaultChannel is used when no channel keyword matches.
const DefaultChannel = "SMS"

// Ordered masked account/card fragment patterns, 3 to 6 digit tails.
var accountHintRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:a/c|acct|account)\s*(?:no\.?)?\s*[x*]*(\d{3,6})\b`),
	regexp.MustCompile(`(?i)card\s*(?:no\.?)?\s*[x*]*(\d{3,6})\b`),
	regexp.MustCompile(`(?i)ending\s+(?:in\s+|with\s+)?(\d{3,6})\b`),
	regexp.MustCompile(`[x*]{2,}(\d{3,6})\b`),
}

var vpaPattern = regexp.MustCompile(`(?i)\b([\w.\-]{2,})@([\w]{2,})\b`)

// Sender ids often arrive with a route prefix like "VM-HDFCBK".
var senderPrefixPattern = regexp.MustCompile(`^[A-Z]{2}-`)

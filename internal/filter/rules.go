package filter

import "regexp"

// Sender fragments that identify bulk promotional senders. Matched by
// containment against the upper-cased sender id.
var spamSenderPatterns = []string{
	"PROMO", "OFFER", "DEALS", "SALE", "ADS-", "-ADS", "MKTG", "SPAM",
	"PRMO", "OFFR", "WIN-", "LUCKY", "REWARD",
}

// Promotional vocabulary. Two or more hits in one body classify it as
// promotional even when the sender looks legitimate.
var promoKeywords = []string{
	"offer", "discount", "cashback offer", "sale", "deal", "coupon",
	"promo code", "voucher", "free delivery", "flat off", "limited time",
	"hurry", "exclusive", "congratulations", "winner", "lucky draw",
	"subscribe", "unsubscribe", "download app", "install now", "refer",
	"bonus points", "reward points", "t&c apply", "terms apply",
}

// Promotional shapes that a single match is enough to reject.
var promoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://\S+`),
	regexp.MustCompile(`(?i)\bwww\.\S+`),
	regexp.MustCompile(`(?i)click\s+(here|now|below)`),
	regexp.MustCompile(`(?i)\b\d{1,2}%\s*(off|cashback|discount)`),
	regexp.MustCompile(`(?i)upto\s+\d+%`),
	regexp.MustCompile(`(?i)activate\s+(autopay|auto-?debit)`),
	regexp.MustCompile(`(?i)\b(buy|shop)\s+now\b`),
	regexp.MustCompile(`(?i)recharge\s+now`),
}

// Known bank and payment-provider sender fragments. A sender containing or
// prefixed by one of these is trusted outright.
var trustedSenders = []string{
	"SBIINB", "SBIUPI", "SBIPSG", "SBI", "HDFCBK", "HDFC", "ICICIB", "ICICI",
	"AXISBK", "AXIS", "KOTAKB", "KOTAK", "PNBSMS", "PNB", "BOIIND", "BOI",
	"CANBNK", "CANARA", "UNIONB", "UBI", "IDFCFB", "IDFC", "YESBNK", "YES",
	"INDUSB", "INDUS", "FEDBNK", "FEDERAL", "RBLBNK", "RBL", "CITIBK", "CITI",
	"HSBCIN", "HSBC", "SCBANK", "SCB", "BARODA", "BOB", "CENTBK", "IOBCHN",
	"PAYTMB", "PAYTM", "PHONEPE", "GPAY", "AMAZONP", "APAY", "BHIMPAY", "UPIBNK",
	"CREDCLUB", "CRED", "SLICEIT", "MOBIKWIK", "FREECHARGE",
}

// Bank-name phrases used by the body-content trust fallback and by the
// counterparty validity checks.
var bankNames = []string{
	"state bank of india", "sbi", "hdfc bank", "hdfc", "icici bank", "icici",
	"axis bank", "axis", "kotak mahindra", "kotak", "punjab national bank",
	"pnb", "bank of india", "bank of baroda", "canara bank", "union bank",
	"idfc first", "yes bank", "indusind", "federal bank", "rbl bank",
	"citibank", "hsbc", "standard chartered", "central bank", "indian bank",
	"indian overseas bank", "paytm payments bank", "airtel payments bank",
}

// Transaction-indicator terms: at least one must appear for the body-content
// trust fallback and for the strict validity gate.
var transactionIndicators = []string{
	"debited", "credited", "debit", "credit", "withdrawn", "deposited",
	"transferred", "sent", "received", "paid", "payment", "purchase",
	"spent", "txn", "transaction", "upi", "imps", "neft", "rtgs",
	"a/c", "acct", "account",
}

var (
	refNumberPattern      = regexp.MustCompile(`(?i)\b(ref|reference|utr|txn)\s*(no|num|number|id)?\s*[:.]?\s*\w*\d{4,}`)
	maskedAccountPattern  = regexp.MustCompile(`(?i)(a/c|acct|account|card)\s*(no\.?)?\s*[x*]*\d{3,6}\b|\b[x*]{2,}\d{3,6}\b`)
	currencyAmountPattern = regexp.MustCompile(`(?i)(rs\.?|inr|₹)\s*[\d,]+(\.\d{1,2})?`)
)

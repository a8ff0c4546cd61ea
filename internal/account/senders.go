package account

import "regexp"

// senderAccountKeywords maps known sender codes to substrings expected in the
// name or type of the account they service. Step 2 of the resolution chain
// scans this table with the raw sender id and a route-prefix-stripped variant.
var senderAccountKeywords = map[string][]string{
	"SBIINB":  {"sbi", "state bank"},
	"SBIUPI":  {"sbi", "state bank"},
	"HDFCBK":  {"hdfc"},
	"ICICIB":  {"icici"},
	"AXISBK":  {"axis"},
	"KOTAKB":  {"kotak"},
	"PNBSMS":  {"pnb", "punjab national"},
	"IDFCFB":  {"idfc"},
	"YESBNK":  {"yes bank"},
	"INDUSB":  {"indusind"},
	"FEDBNK":  {"federal"},
	"RBLBNK":  {"rbl"},
	"CITIBK":  {"citi"},
	"PAYTMB":  {"paytm"},
	"PHONEPE": {"phonepe", "wallet"},
	"GPAY":    {"google pay", "gpay"},
	"APAY":    {"amazon pay", "wallet"},
	"CRED":    {"credit card"},
	"SLICEIT": {"slice", "credit"},
}

// Route prefixes look like "VM-HDFCBK" or "AD-SBIUPI".
var routePrefixPattern = regexp.MustCompile(`^[A-Z]{2}-`)

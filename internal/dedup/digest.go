package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvignesh/smsledger/internal/domain"
)

// minuteBucket collapses a timestamp to its UTC minute, so re-deliveries with
// sub-minute clock jitter still hash identically.
func minuteBucket(ts time.Time) int64 {
	return ts.UTC().Unix() / 60
}

func sum(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

// MessageDigest is the syntactic key: exact sender, exact body, minute bucket.
func MessageDigest(msg domain.Message) string {
	return sum(msg.Sender, msg.Body, fmt.Sprintf("%d", minuteBucket(msg.ReceivedAt)))
}

// eventKey is the short-term semantic key: amount, direction, minute bucket.
func eventKey(amount decimal.Decimal, direction domain.Direction, bucket int64) string {
	return fmt.Sprintf("%s|%s|%d", amount.StringFixed(2), direction, bucket)
}

// bankAliases folds the many sender codes of one institution into a single
// identity for the semantic content digest, so the SMS and the app
// notification for the same transaction normalize to the same sender.
var bankAliases = map[string]string{
	"SBIINB": "SBI", "SBIUPI": "SBI", "SBIPSG": "SBI", "SBI": "SBI",
	"HDFCBK": "HDFC", "HDFC": "HDFC",
	"ICICIB": "ICICI", "ICICI": "ICICI",
	"AXISBK": "AXIS", "AXIS": "AXIS",
	"KOTAKB": "KOTAK", "KOTAK": "KOTAK",
	"PNBSMS": "PNB", "PNB": "PNB",
	"IDFCFB": "IDFC", "IDFC": "IDFC",
	"YESBNK": "YES", "INDUSB": "INDUS", "FEDBNK": "FEDERAL", "RBLBNK": "RBL",
	"PAYTMB": "PAYTM", "PAYTM": "PAYTM",
	"PHONEPE": "PHONEPE", "GPAY": "GPAY", "APAY": "APAY",
}

func normalizeSender(sender string) string {
	upper := strings.ToUpper(strings.TrimSpace(sender))
	if idx := strings.Index(upper, "-"); idx == 2 {
		upper = upper[idx+1:]
	}
	if alias, ok := bankAliases[upper]; ok {
		return alias
	}
	for code, alias := range bankAliases {
		if strings.Contains(upper, code) {
			return alias
		}
	}
	return upper
}

// bodyPrefixLen bounds how much normalized body goes into the content digest.
const bodyPrefixLen = 80

func normalizeBody(body string) string {
	collapsed := strings.Join(strings.Fields(strings.ToLower(body)), " ")
	if len(collapsed) > bodyPrefixLen {
		collapsed = collapsed[:bodyPrefixLen]
	}
	return collapsed
}

// ContentDigest is the long-term semantic key: amount, direction, minute
// bucket, alias-normalized sender, and a truncated normalized body prefix.
func ContentDigest(msg domain.Message, amount decimal.Decimal, direction domain.Direction) string {
	return sum(
		amount.StringFixed(2),
		string(direction),
		fmt.Sprintf("%d", minuteBucket(msg.ReceivedAt)),
		normalizeSender(msg.Sender),
		normalizeBody(msg.Body),
	)
}

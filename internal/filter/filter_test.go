package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPromotional(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		body   string
		want   bool
	}{
		{
			name:   "spam sender pattern",
			sender: "AD-PROMOX",
			body:   "Rs. 500 debited from your account",
			want:   true,
		},
		{
			name:   "two promo keywords",
			sender: "HDFCBK",
			body:   "Exclusive offer! Get a discount on your next purchase",
			want:   true,
		},
		{
			name:   "single promo keyword is not enough",
			sender: "HDFCBK",
			body:   "Cashback of Rs 50 credited to your account",
			want:   false,
		},
		{
			name:   "url is promotional on its own",
			sender: "HDFCBK",
			body:   "Check your statement at https://bank.example.com/stmt",
			want:   true,
		},
		{
			name:   "percent off pattern",
			sender: "SWIGGY",
			body:   "Get 50% off on your first order",
			want:   true,
		},
		{
			name:   "plain transaction message",
			sender: "VM-HDFCBK",
			body:   "Rs. 1,234.50 debited from A/c XX1234. Ref 998877",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPromotional(tt.sender, tt.body))
		})
	}
}

func TestIsTrusted(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		body   string
		want   bool
	}{
		{
			name:   "known bank sender",
			sender: "HDFCBK",
			body:   "anything",
			want:   true,
		},
		{
			name:   "route prefixed sender",
			sender: "VM-ICICIB",
			body:   "anything",
			want:   true,
		},
		{
			name:   "payment app sender",
			sender: "PHONEPE",
			body:   "anything",
			want:   true,
		},
		{
			name:   "unknown sender with full bank transaction content",
			sender: "BZ-NEWBNK",
			body:   "HDFC Bank: Rs. 500.00 debited from A/c XX1234. Ref no 12345678",
			want:   true,
		},
		{
			name:   "unknown sender missing reference number",
			sender: "BZ-NEWBNK",
			body:   "HDFC Bank: Rs. 500.00 debited from A/c XX1234",
			want:   false,
		},
		{
			name:   "unknown sender with casual text",
			sender: "FRIEND",
			body:   "hey, I sent you the money",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrusted(tt.sender, tt.body))
		})
	}
}

func TestClassifyAccepted(t *testing.T) {
	// Promotional wins over trusted: a bank sender pushing a loan offer is
	// still rejected.
	r := Classify("HDFCBK", "Exclusive offer: pre-approved loan, apply now with promo code LOAN50")
	assert.True(t, r.Promotional)
	assert.True(t, r.Trusted)
	assert.False(t, r.Accepted())

	r = Classify("VM-SBIUPI", "Rs. 250.00 debited from A/c XX4455 for UPI txn. Ref 556677889")
	assert.False(t, r.Promotional)
	assert.True(t, r.Trusted)
	assert.True(t, r.Accepted())
}
